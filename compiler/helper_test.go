package compiler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ezachrisen/kindcore/hvm"
	"github.com/ezachrisen/kindcore/syntax"
)

func id(name string) syntax.Ident { return syntax.NewIdent(name) }

func v(name string) syntax.Expr { return &syntax.Var{Name: id(name)} }

func ctr(name string, args ...syntax.Expr) syntax.Expr {
	return &syntax.Ctr{Name: id(name), Args: args}
}

func fun(name string, args ...syntax.Expr) syntax.Expr {
	return &syntax.Fun{Name: id(name), Args: args}
}

func arg(name string, typ syntax.Expr) syntax.Argument {
	return syntax.Argument{Name: id(name), Type: typ}
}

func rule(name string, body syntax.Expr, pats ...syntax.Expr) *syntax.Rule {
	return &syntax.Rule{Name: id(name), Pats: pats, Body: body}
}

// natEntries returns unary naturals with addition, in the order given.
func natEntries() []*syntax.Entry {
	nat := ctr("Nat")
	return []*syntax.Entry{
		{Name: id("Nat"), Type: &syntax.Typ{}},
		{Name: id("Nat.zero"), Type: nat},
		{Name: id("Nat.succ"), Args: []syntax.Argument{arg("pred", nat)}, Type: nat},
		{
			Name: id("Nat.add"),
			Args: []syntax.Argument{arg("a", nat), arg("b", nat)},
			Type: nat,
			Rules: []*syntax.Rule{
				rule("Nat.add", v("b"), ctr("Nat.zero"), v("b")),
				rule("Nat.add", ctr("Nat.succ", fun("Nat.add", v("a"), v("b"))), ctr("Nat.succ", v("a")), v("b")),
			},
		},
	}
}

func natBook() *syntax.Book {
	b := syntax.NewBook()
	for _, e := range natEntries() {
		b.Add(e)
	}
	b.AddFamily(&syntax.Family{
		Name:         id("Nat"),
		Constructors: []syntax.Ident{id("Nat.zero"), id("Nat.succ")},
	})
	b.Holes = 3
	return b
}

// code is the packed name of a binder, as printed in rules.
func code(name string) string {
	return fmt.Sprint(syntax.EncodeName(name))
}

func hasRule(t *testing.T, f *hvm.File, want string) {
	t.Helper()
	for _, r := range f.Rules {
		if r.String() == want {
			return
		}
	}
	t.Errorf("missing rule:\n  %s\nin:\n%s", want, f)
}

func lacksRuleWith(t *testing.T, f *hvm.File, prefix string) {
	t.Helper()
	for _, r := range f.Rules {
		if strings.HasPrefix(r.String(), prefix) {
			t.Errorf("unexpected rule %s", r)
		}
	}
}
