// Package compiler turns a desugared book into the rewrite rules the
// checker program runs on the evaluator.
//
// Expressions are encoded in one of two modes. Quoted terms keep every
// node and range so the checker can report on them; evaluated terms are
// what actually reduces. Each entry also gets metadata rules the checker
// program queries by name, and, when coverage checking is on, the facts it
// needs to enumerate constructors of each family.
package compiler

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"github.com/ezachrisen/kindcore/hvm"
	"github.com/ezachrisen/kindcore/syntax"
)

// Option configures Compile.
type Option func(*options)

type options struct {
	coverage  bool
	functions []string
}

// CheckCoverage emits the family and constructor facts used to check that
// pattern matches are exhaustive.
func CheckCoverage(b bool) Option {
	return func(o *options) {
		o.coverage = b
	}
}

// FunctionsToCheck lists, in order, the entries the checker program should
// type check.
func FunctionsToCheck(names []string) Option {
	return func(o *options) {
		o.functions = append([]string(nil), names...)
	}
}

type codegen struct {
	book *syntax.Book
	file *hvm.File
}

// Compile builds the rule file for book. Entries and families are emitted
// in name order, so equal books produce identical files.
func Compile(book *syntax.Book, opts ...Option) (*hvm.File, error) {
	if book == nil {
		return nil, errors.New("nil book")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	c := &codegen{book: book, file: &hvm.File{}}
	c.globals(o.functions)

	for _, name := range book.Names() {
		if err := c.entry(book.Entries[name]); err != nil {
			return nil, errors.Wrapf(err, "compiling %s", name)
		}
	}

	if o.coverage {
		if err := c.coverage(); err != nil {
			return nil, errors.Wrap(err, "compiling coverage facts")
		}
	}

	c.defaults()
	return c.file, nil
}

func (c *codegen) add(lhs, rhs hvm.Term) {
	c.file.Add(lhs, rhs)
}

func (c *codegen) globals(functions []string) {
	names := make([]hvm.Term, len(functions))
	for i, f := range functions {
		names[i] = hvm.NewCtr(CtrName(f))
	}
	c.add(hvm.NewCtr(Functions), list(names))
	c.add(hvm.NewCtr(HoleInit), hvm.NewU60(c.book.Holes))

	for _, r := range c.file.Rules {
		lhs := r.LHS.(*hvm.Ctr)
		c.file.SMaps = append(c.file.SMaps, hvm.SMap{
			Name:   lhs.Name,
			Strict: make([]bool, len(lhs.Args)),
		})
	}
}

// HashName is the identity the checker program uses to compare entries.
func HashName(name string) uint64 {
	return xxhash.Sum64String(name) & hvm.Mask60
}

func (c *codegen) entry(e *syntax.Entry) (err error) {
	defer catch(&err)

	name := e.Name.Name
	key := hvm.NewCtr(CtrName(name))

	c.add(hvm.NewCtr(NameOf, key), stringTerm(name))
	c.add(hvm.NewCtr(OrigOf, key), rangeTerm(e.Name.Range))
	c.add(hvm.NewCtr(HashOf, key), hvm.NewU60(HashName(name)))
	c.add(hvm.NewCtr(TypeOf, key), telescope(e.Args, e.Type))

	vars := freshVars("x", e.Arity())
	c.add(
		liftedCtr(NativeCall(len(vars)), callSpine(name, vars)...),
		liftedCtr(Apply(name), withOrig(vars)...))
	c.add(
		liftedCtr(QuoteCall(len(vars)), callSpine(name, vars)...),
		liftedCtr(Query(name), withOrig(vars)...))

	for _, r := range e.Rules {
		c.rule(r)
	}
	c.catchAll(e)

	table := make([]hvm.Term, len(e.Rules))
	for i, r := range e.Rules {
		table[i] = ruleChain(r)
	}
	c.add(hvm.NewCtr(RuleOf, key), list(table))
	return nil
}

// telescope folds the arguments into quoted dependent function types around
// the result type.
func telescope(args []syntax.Argument, result syntax.Expr) hvm.Term {
	if len(args) == 0 {
		return encodeQuoted(result)
	}
	a := args[0]
	return liftedCtr(TagAll.QuotedName(),
		rangeTerm(a.Range),
		nameTerm(a.Name),
		encodeQuoted(a.Type),
		hvm.NewLam(a.Name.Name, telescope(args[1:], result)))
}

func (c *codegen) rule(r *syntax.Rule) {
	name := r.Name.Name
	pats := withOrig(encodeLHS(r.Pats))

	c.add(liftedCtr(Query(name), pats...), encodeQuoted(r.Body))

	if name == LogPrimitive {
		c.add(
			hvm.NewCtr(Apply(name), vars(origVar, "a", "r", "log", "ret")...),
			hvm.NewCtr(printHead, hvm.NewCtr(showHead, hvm.NewVar("log")), hvm.NewVar("ret")))
		return
	}
	c.add(liftedCtr(Apply(name), pats...), encodeEvaluated(r.Body))
}

// catchAll forwards any call no rule matched to the quoted function node,
// which the checker treats as stuck. The arity is the first rule's pattern
// count, or the telescope length for entries without rules.
func (c *codegen) catchAll(e *syntax.Entry) {
	n := e.Arity()
	if len(e.Rules) > 0 {
		n = len(e.Rules[0].Pats)
	}
	name := e.Name.Name
	xs := freshVars("x", n)
	stuck := liftedCtr(FunTag(n), callSpine(name, xs)...)

	c.add(liftedCtr(Query(name), withOrig(xs)...), stuck)
	c.add(liftedCtr(Apply(name), withOrig(xs)...), stuck)
}

// ruleChain is the rule-table row of r: one Kind.Rule.lhs per pattern,
// ending in the rule's re-quoted call.
func ruleChain(r *syntax.Rule) hvm.Term {
	e := &encoder{mode: Evaluated, numbered: true}
	pats := e.exprs(r.Pats)

	spine := make([]hvm.Term, 0, len(pats)+2)
	spine = append(spine, hvm.NewCtr(CtrName(r.Name.Name)), rangeTerm(r.Range))
	spine = append(spine, pats...)

	var chain hvm.Term = hvm.NewCtr(RuleRHS, liftedCtr(QuoteCall(len(pats)), spine...))
	for i := len(pats) - 1; i >= 0; i-- {
		chain = hvm.NewCtr(RuleLHS, pats[i], chain)
	}
	return chain
}

func (c *codegen) defaults() {
	c.add(hvm.NewCtr(CoverCheck, hvm.NewVar("_")), hvm.NewCtr(BoolFalse))
	c.add(hvm.NewCtr(Compare, hvm.NewVar("a"), hvm.NewVar("b")), hvm.NewCtr(BoolFalse))
	c.add(hvm.NewCtr(MakerMk, hvm.NewVar("cons"), hvm.NewVar("a"), hvm.NewVar("b")), hvm.NewCtr(MaybeNone))
	c.add(hvm.NewCtr(FamilyConstructors, hvm.NewVar("_")), hvm.NewCtr(MaybeNone))
}

func freshVars(prefix string, n int) []hvm.Term {
	xs := make([]hvm.Term, n)
	for i := range xs {
		xs[i] = hvm.NewVar(fmt.Sprintf("%s%d", prefix, i))
	}
	return xs
}

func vars(names ...string) []hvm.Term {
	xs := make([]hvm.Term, len(names))
	for i, n := range names {
		xs[i] = hvm.NewVar(n)
	}
	return xs
}

func withOrig(args []hvm.Term) []hvm.Term {
	return append([]hvm.Term{hvm.NewVar(origVar)}, args...)
}

// callSpine is name., orig, then args: the shape of fn/ct nodes and of the
// FN/QT dispatchers.
func callSpine(name string, args []hvm.Term) []hvm.Term {
	return append([]hvm.Term{hvm.NewCtr(CtrName(name)), hvm.NewVar(origVar)}, args...)
}

// list builds a List.cons chain ending in List.nil.
func list(items []hvm.Term) hvm.Term {
	var l hvm.Term = hvm.NewCtr(ListNil)
	for i := len(items) - 1; i >= 0; i-- {
		l = hvm.NewCtr(ListCons, items[i], l)
	}
	return l
}
