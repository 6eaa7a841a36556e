package compiler

import (
	"fmt"

	"github.com/ezachrisen/kindcore/syntax"
)

// Mode selects which tag vocabulary the encoder emits.
type Mode int

const (
	// Quoted keeps every node reconstructable.
	Quoted Mode = iota

	// Evaluated swaps the reduced tag set in for operators, let,
	// annotations and substitutions, and calls functions directly.
	Evaluated
)

func (m Mode) String() string {
	switch m {
	case Quoted:
		return "quoted"
	case Evaluated:
		return "evaluated"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Tag is a node kind of the term vocabulary shared with the checker program.
type Tag int

const (
	TagTyp Tag = iota
	TagU60
	TagF60
	TagVar
	TagAll
	TagLambda
	TagApp
	TagLet
	TagAnn
	TagSub
	TagNumU60
	TagNumF60
	TagBinary
	TagHole
	TagHlp
)

var quotedTags = [...]string{
	TagTyp:    "Kind.Term.typ",
	TagU60:    "Kind.Term.U60",
	TagF60:    "Kind.Term.F60",
	TagVar:    "Kind.Term.var",
	TagAll:    "Kind.Term.all",
	TagLambda: "Kind.Term.lam",
	TagApp:    "Kind.Term.app",
	TagLet:    "Kind.Term.let",
	TagAnn:    "Kind.Term.ann",
	TagSub:    "Kind.Term.sub",
	TagNumU60: "Kind.Term.u60",
	TagNumF60: "Kind.Term.f60",
	TagBinary: "Kind.Term.op2",
	TagHole:   "Kind.Term.hol",
	TagHlp:    "Kind.Term.hlp",
}

// reduced holds the evaluated-mode replacements. Kinds absent here keep
// their quoted tag in both modes.
var reduced = map[Tag]string{
	TagBinary: "Kind.Term.eval_op",
	TagLet:    "Kind.Term.eval_let",
	TagAnn:    "Kind.Term.eval_ann",
	TagSub:    "Kind.Term.eval_sub",
}

// Name returns the constructor name of tag in mode.
func (t Tag) Name(m Mode) string {
	if m == Evaluated {
		if n, ok := reduced[t]; ok {
			return n
		}
	}
	return quotedTags[t]
}

// QuotedName returns the constructor name of tag in quoted mode.
func (t Tag) QuotedName() string {
	return quotedTags[t]
}

// Names of the wire vocabulary that are not plain node kinds.
const (
	SetOrigin  = "Kind.Term.set_origin"
	ArgsPrefix = "Kind.Term.args"
	CtrPrefix  = "Kind.Term.ct"
	FunPrefix  = "Kind.Term.fn"

	NativeCallPrefix = "Kind.Term.FN"
	QuoteCallPrefix  = "QT"

	ApplyPrefix = "F$"
	QueryPrefix = "Q$"

	OperatorPrefix = "Kind.Operator."
)

// Names of the metadata the checker program queries.
const (
	NameOf             = "Kind.Axiom.NameOf"
	OrigOf             = "Kind.Axiom.OrigOf"
	HashOf             = "Kind.Axiom.HashOf"
	TypeOf             = "Kind.Axiom.TypeOf"
	RuleOf             = "Kind.Axiom.RuleOf"
	CoverCheck         = "Kind.Axiom.CoverCheck"
	FamilyConstructors = "Kind.Axiom.Family.Constructors"
	FamilyParams       = "Kind.Axiom.Family.Params"
	Compare            = "Kind.Axiom.Compare"
	ArgsCount          = "Kind.Axiom.ArgsCount"
	Functions          = "Kind.Axiom.Functions"
	HoleInit           = "HoleInit"

	MakerMk   = "Kind.Coverage.Maker.Mk"
	MakerCons = "Kind.Coverage.Maker.Cons"
	MakerEnd  = "Kind.Coverage.Maker.End"

	RuleLHS = "Kind.Rule.lhs"
	RuleRHS = "Kind.Rule.rhs"
)

// Constructors of the checker program's prelude.
const (
	ListCons   = "List.cons"
	ListNil    = "List.nil"
	StringCons = "String.cons"
	StringNil  = "String.nil"
	MaybeSome  = "Maybe.some"
	MaybeNone  = "Maybe.none"
	BoolTrue   = "Bool.true"
	BoolFalse  = "Bool.false"
)

// The logging primitive has a hard-wired apply form.
const (
	LogPrimitive = "HVM.log"
	printHead    = "HVM.print"
	showHead     = "Kind.Term.show"
)

// CtrTag is the quoted constructor-application tag for n arguments.
func CtrTag(n int) string { return fmt.Sprintf("%s%d", CtrPrefix, n) }

// FunTag is the quoted function-call tag for n arguments.
func FunTag(n int) string { return fmt.Sprintf("%s%d", FunPrefix, n) }

// ArgsTag names the overflow constructor holding n arguments.
func ArgsTag(n int) string { return fmt.Sprintf("%s%d", ArgsPrefix, n) }

// NativeCall names the dispatcher the checker program uses to run an
// n-argument function.
func NativeCall(n int) string { return fmt.Sprintf("%s%d", NativeCallPrefix, n) }

// QuoteCall names the dispatcher that re-quotes an n-argument call.
func QuoteCall(n int) string { return fmt.Sprintf("%s%d", QuoteCallPrefix, n) }

// Apply is the HOAS form that executes the function name.
func Apply(name string) string { return ApplyPrefix + name }

// Query is the HOAS form that inspects a call of name symbolically.
func Query(name string) string { return QueryPrefix + name }

// OperatorName returns the constructor representing op.
func OperatorName(op syntax.Operator) string {
	return OperatorPrefix + op.String()
}

// CtrName is the nullary constructor naming a qualified identifier. The
// trailing dot keeps it apart from the identifier's own rules.
func CtrName(name string) string {
	return name + "."
}
