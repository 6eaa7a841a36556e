package compiler

import (
	"github.com/pkg/errors"

	"github.com/ezachrisen/kindcore/hvm"
	"github.com/ezachrisen/kindcore/span"
	"github.com/ezachrisen/kindcore/syntax"
)

// ErrInvalidExpr is returned when an expression an earlier pass failed to
// elaborate reaches the encoder. It signals a defect upstream; no partial
// output is produced.
var ErrInvalidExpr = errors.New("invalid expression reached the encoder")

// origVar binds the call-site range on the left-hand side of generated rules.
const origVar = "orig"

// encodeError carries a failure out of the recursive encoder. Only the
// exported entry points recover it.
type encodeError struct {
	err error
}

func fail(err error) {
	panic(encodeError{err})
}

// catch turns an encodeError panic into an error. Any other panic is a bug
// and propagates.
func catch(err *error) {
	if r := recover(); r != nil {
		e, ok := r.(encodeError)
		if !ok {
			panic(r)
		}
		*err = e.err
	}
}

type encoder struct {
	mode Mode

	// lhs marks a rule left-hand side: range slots become the orig
	// binder instead of literal ranges.
	lhs bool

	// numbered replaces pattern variables with positional var nodes.
	numbered bool
	count    uint64
}

// Encode translates expr into a term in the given mode.
func Encode(mode Mode, expr syntax.Expr) (t hvm.Term, err error) {
	defer catch(&err)
	e := &encoder{mode: mode}
	return e.expr(expr), nil
}

// EncodePatterns encodes a rule's patterns for the rule table. Variables
// become Kind.Term.var nodes numbered left to right from 0 across the whole
// list, in the order they are met.
func EncodePatterns(pats []syntax.Expr) (ts []hvm.Term, err error) {
	defer catch(&err)
	e := &encoder{mode: Evaluated, numbered: true}
	return e.exprs(pats), nil
}

// encodeLHS encodes call patterns of a generated rule. Variables stay plain
// binders so the right-hand side can refer to them.
func encodeLHS(pats []syntax.Expr) []hvm.Term {
	e := &encoder{mode: Evaluated, lhs: true}
	return e.exprs(pats)
}

func encodeQuoted(expr syntax.Expr) hvm.Term {
	e := &encoder{mode: Quoted}
	return e.expr(expr)
}

func encodeEvaluated(expr syntax.Expr) hvm.Term {
	e := &encoder{mode: Evaluated}
	return e.expr(expr)
}

func (e *encoder) orig(r span.Range) hvm.Term {
	if e.lhs {
		return hvm.NewVar(origVar)
	}
	return rangeTerm(r)
}

func rangeTerm(r span.Range) hvm.Term {
	return hvm.NewU60(r.Encode())
}

func nameTerm(id syntax.Ident) hvm.Term {
	return hvm.NewU60(syntax.EncodeName(id.Name))
}

func (e *encoder) node(tag Tag, spine ...hvm.Term) hvm.Term {
	return liftedCtr(tag.Name(e.mode), spine...)
}

func (e *encoder) exprs(xs []syntax.Expr) []hvm.Term {
	ts := make([]hvm.Term, len(xs))
	for i, x := range xs {
		ts[i] = e.expr(x)
	}
	return ts
}

func (e *encoder) expr(x syntax.Expr) hvm.Term {
	switch x := x.(type) {
	case *syntax.Typ:
		return e.node(TagTyp, e.orig(x.Range))
	case *syntax.U60Type:
		return e.node(TagU60, e.orig(x.Range))
	case *syntax.F60Type:
		return e.node(TagF60, e.orig(x.Range))
	case *syntax.Var:
		return e.variable(x)
	case *syntax.All:
		return e.node(TagAll,
			e.orig(x.Range),
			nameTerm(x.Param),
			e.expr(x.Type),
			hvm.NewLam(x.Param.Name, e.expr(x.Body)))
	case *syntax.Lambda:
		return e.node(TagLambda,
			e.orig(x.Range),
			nameTerm(x.Param),
			hvm.NewLam(x.Param.Name, e.expr(x.Body)))
	case *syntax.App:
		t := e.expr(x.Fun)
		for _, a := range x.Args {
			t = e.node(TagApp, e.orig(x.Range), t, e.expr(a.Data))
		}
		return t
	case *syntax.Ctr:
		return liftedCtr(CtrTag(len(x.Args)), e.call(x.Name, x.Range, x.Args)...)
	case *syntax.Fun:
		if e.mode == Quoted {
			return liftedCtr(FunTag(len(x.Args)), e.call(x.Name, x.Range, x.Args)...)
		}
		spine := append([]hvm.Term{e.orig(x.Range)}, e.exprs(x.Args)...)
		return liftedCtr(Apply(x.Name.Name), spine...)
	case *syntax.Let:
		return e.node(TagLet,
			e.orig(x.Range),
			nameTerm(x.Name),
			e.expr(x.Val),
			hvm.NewLam(x.Name.Name, e.expr(x.Next)))
	case *syntax.Ann:
		return e.node(TagAnn, e.orig(x.Range), e.expr(x.Expr), e.expr(x.Type))
	case *syntax.Sub:
		return e.node(TagSub,
			e.orig(x.Range),
			nameTerm(x.Name),
			hvm.NewU60(x.Indx),
			hvm.NewU60(x.Redx),
			e.expr(x.Expr))
	case *syntax.NumU60:
		return e.node(TagNumU60, e.orig(x.Range), hvm.NewU60(x.Value))
	case *syntax.NumF60:
		return e.node(TagNumF60, e.orig(x.Range), hvm.NewF60(x.Value))
	case *syntax.Binary:
		return e.node(TagBinary,
			e.orig(x.Range),
			hvm.NewCtr(OperatorName(x.Op)),
			e.expr(x.Left),
			e.expr(x.Right))
	case *syntax.Hole:
		return e.node(TagHole, e.orig(x.Range), hvm.NewU60(x.Num))
	case *syntax.Str:
		return e.expr(DesugarString(x))
	case *syntax.Hlp:
		return e.node(TagHlp, e.orig(x.Range))
	case *syntax.Err:
		fail(errors.Wrapf(ErrInvalidExpr, "at %s", x.Range))
	case nil:
		fail(errors.Wrap(ErrInvalidExpr, "missing expression"))
	default:
		fail(errors.Wrapf(ErrInvalidExpr, "unknown node %T", x))
	}
	return nil
}

func (e *encoder) variable(x *syntax.Var) hvm.Term {
	switch {
	case e.mode == Quoted && !e.lhs:
		return liftedCtr(SetOrigin, rangeTerm(x.Name.Range), hvm.NewVar(x.Name.Name))
	case e.numbered:
		n := e.count
		e.count++
		return e.node(TagVar, e.orig(x.Range), nameTerm(x.Name), hvm.NewU60(n))
	default:
		return hvm.NewVar(x.Name.Name)
	}
}

// call builds the spine of a ctr or fn node: name, range, then arguments.
func (e *encoder) call(name syntax.Ident, r span.Range, args []syntax.Expr) []hvm.Term {
	spine := make([]hvm.Term, 0, len(args)+2)
	spine = append(spine, hvm.NewCtr(CtrName(name.Name)), e.orig(r))
	return append(spine, e.exprs(args)...)
}

// DesugarString lowers a string literal into String.cons applications over
// its code points, ending in String.nil. Every node takes the literal's
// range.
func DesugarString(s *syntax.Str) syntax.Expr {
	runes := []rune(s.Value)
	var list syntax.Expr = &syntax.Ctr{
		Range: s.Range,
		Name:  syntax.Ident{Name: StringNil, Range: s.Range},
	}
	for i := len(runes) - 1; i >= 0; i-- {
		list = &syntax.Ctr{
			Range: s.Range,
			Name:  syntax.Ident{Name: StringCons, Range: s.Range},
			Args: []syntax.Expr{
				&syntax.NumU60{Range: s.Range, Value: uint64(runes[i])},
				list,
			},
		}
	}
	return list
}

// stringTerm builds the runtime string for name, as the checker program
// prints it.
func stringTerm(s string) hvm.Term {
	runes := []rune(s)
	var t hvm.Term = hvm.NewCtr(StringNil)
	for i := len(runes) - 1; i >= 0; i-- {
		t = hvm.NewCtr(StringCons, hvm.NewU60(uint64(runes[i])), t)
	}
	return t
}
