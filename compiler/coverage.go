package compiler

import (
	"fmt"

	"github.com/ezachrisen/kindcore/hvm"
	"github.com/ezachrisen/kindcore/syntax"
)

func (c *codegen) coverage() (err error) {
	defer catch(&err)

	for _, name := range c.book.Names() {
		if e := c.book.Entries[name]; needsCoverage(e) {
			c.add(hvm.NewCtr(CoverCheck, hvm.NewCtr(CtrName(name))), hvm.NewCtr(BoolTrue))
		}
	}

	for _, name := range c.book.FamilyNames() {
		c.family(c.book.Families[name])
	}
	return nil
}

// needsCoverage reports whether the checker must prove e's rules exhaustive.
// Entries matching only on variables cover everything trivially.
func needsCoverage(e *syntax.Entry) bool {
	if len(e.Rules) == 0 || len(e.Rules[0].Pats) == 0 {
		return false
	}
	if e.Attrs.Partial || e.Attrs.Axiom {
		return false
	}
	for _, r := range e.Rules {
		for _, p := range r.Pats {
			if _, ok := p.(*syntax.Var); !ok {
				return true
			}
		}
	}
	return false
}

// family emits the constructor facts of f. A family whose type or
// constructors have no entry in the book is left out entirely, so the
// checker program falls back to the defaults instead of trusting a partial
// constructor list.
func (c *codegen) family(f *syntax.Family) {
	typ, ok := c.book.Entry(f.Name.Name)
	if !ok || typ.Arity() < len(f.Parameters) {
		return
	}
	ctors := make([]*syntax.Entry, len(f.Constructors))
	for i, id := range f.Constructors {
		e, ok := c.book.Entry(id.Name)
		if !ok || e.Arity() < len(f.Parameters) {
			return
		}
		ctors[i] = e
	}

	names := make([]hvm.Term, len(f.Constructors))
	for i, id := range f.Constructors {
		names[i] = hvm.NewCtr(CtrName(id.Name))
	}
	key := hvm.NewCtr(CtrName(f.Name.Name))
	c.add(hvm.NewCtr(FamilyConstructors, key), hvm.NewCtr(MaybeSome, list(names)))
	c.add(hvm.NewCtr(FamilyParams, key), hvm.NewU60(uint64(len(f.Parameters))))

	// The instance pattern: parameters by name, indices as fresh variables.
	inst := make([]hvm.Term, 0, typ.Arity())
	for _, p := range f.Parameters {
		inst = append(inst, hvm.NewVar(p.Name.Name))
	}
	for i := 0; i < typ.Arity()-len(f.Parameters); i++ {
		inst = append(inst, hvm.NewVar(fmt.Sprintf("x_%d", i)))
	}

	for i, id := range f.Constructors {
		ctorKey := hvm.NewCtr(CtrName(id.Name))
		instance := liftedCtr(CtrTag(len(inst)), callSpine(f.Name.Name, inst)...)

		c.add(
			hvm.NewCtr(MakerMk, ctorKey, hvm.NewVar(origVar), instance),
			hvm.NewCtr(MaybeSome, maker(id, ctors[i], len(f.Parameters))))
		c.add(hvm.NewCtr(Compare, ctorKey, ctorKey), hvm.NewCtr(BoolTrue))
		c.add(hvm.NewCtr(ArgsCount, ctorKey), hvm.NewU60(uint64(ctors[i].Arity())))
	}
}

// maker builds the curried constructor builder: one Maker.Cons per
// non-parameter argument, each binding the argument, ending in the fully
// applied constructor.
func maker(id syntax.Ident, ctor *syntax.Entry, params int) hvm.Term {
	args := make([]syntax.Expr, len(ctor.Args))
	for i, a := range ctor.Args {
		args[i] = &syntax.Var{Range: a.Name.Range, Name: a.Name}
	}
	full := &syntax.Ctr{Range: id.Range, Name: id, Args: args}

	var m hvm.Term = hvm.NewCtr(MakerEnd, encodeEvaluated(full))
	for i := len(ctor.Args) - 1; i >= params; i-- {
		a := ctor.Args[i]
		m = hvm.NewCtr(MakerCons,
			rangeTerm(a.Range),
			encodeEvaluated(a.Type),
			hvm.NewLam(a.Name.Name, m))
	}
	return m
}
