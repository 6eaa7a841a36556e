package report_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/matryer/is"
	"github.com/pkg/errors"

	"github.com/ezachrisen/kindcore/compiler"
	"github.com/ezachrisen/kindcore/hvm"
	"github.com/ezachrisen/kindcore/report"
	"github.com/ezachrisen/kindcore/span"
	"github.com/ezachrisen/kindcore/syntax"
)

// Binder ranges and erasure marks are not part of the encoding.
var exprOpts = cmp.Options{
	cmpopts.IgnoreFields(syntax.Ident{}, "Range"),
	cmpopts.IgnoreFields(syntax.All{}, "Erased"),
	cmpopts.IgnoreFields(syntax.Lambda{}, "Erased"),
	cmpopts.EquateEmpty(),
}

func at(start uint32) span.Range {
	return span.New(1, start, start+2)
}

func variable(name string, start uint32) *syntax.Var {
	r := at(start)
	return &syntax.Var{Range: r, Name: syntax.Ident{Name: name, Range: r}}
}

func name(n string) syntax.Ident { return syntax.NewIdent(n) }

func TestQuotedRoundTrip(t *testing.T) {
	wide := make([]syntax.Expr, 40)
	for i := range wide {
		wide[i] = &syntax.NumU60{Range: at(uint32(i)), Value: uint64(i)}
	}

	exprs := map[string]syntax.Expr{
		"all": &syntax.All{
			Range: at(1),
			Param: name("x"),
			Type:  &syntax.U60Type{Range: at(2)},
			Body: &syntax.Lambda{
				Range: at(3),
				Param: name("y"),
				Body:  variable("x", 4),
			},
		},
		"let": &syntax.Let{
			Range: at(10),
			Name:  name("y"),
			Val:   &syntax.NumU60{Range: at(11), Value: 5},
			Next: &syntax.Binary{
				Range: at(12),
				Op:    syntax.OpMul,
				Left:  variable("y", 13),
				Right: &syntax.NumF60{Range: at(14), Value: 2.5},
			},
		},
		"ann": &syntax.Ann{
			Range: at(20),
			Expr: &syntax.Ctr{Range: at(21), Name: name("Nat.succ"), Args: []syntax.Expr{
				&syntax.Ctr{Range: at(22), Name: name("Nat.zero")},
			}},
			Type: &syntax.Ctr{Range: at(23), Name: name("Nat")},
		},
		"fun": &syntax.Fun{Range: at(30), Name: name("Nat.add"), Args: []syntax.Expr{
			variable("a", 31),
			&syntax.Hole{Range: at(32), Num: 3},
		}},
		"sub":  &syntax.Sub{Range: at(40), Name: name("x"), Indx: 1, Redx: 2, Expr: &syntax.Typ{Range: at(41)}},
		"app":  &syntax.App{Range: at(50), Fun: variable("f", 51), Args: []syntax.AppBinding{{Data: &syntax.F60Type{Range: at(52)}}}},
		"wide": &syntax.Ctr{Range: at(60), Name: name("Wide.new"), Args: wide},
	}

	for label, want := range exprs {
		t.Run(label, func(t *testing.T) {
			term, err := compiler.Encode(compiler.Quoted, want)
			if err != nil {
				t.Fatal(err)
			}
			got, err := report.Expr(term)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, got, exprOpts); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeEvaluatedCall(t *testing.T) {
	is := is.New(t)

	term, err := hvm.Parse("(F$Nat.add 0 a (Kind.Term.ct0 (Nat.zero.) 0))")
	is.NoErr(err)

	got, err := report.Expr(term)
	is.NoErr(err)
	is.Equal(got.String(), "(Nat.add a Nat.zero)")
}

func TestDecodeAnswerVocabulary(t *testing.T) {
	y := syntax.EncodeName("y")
	src := fmt.Sprintf("(Kind.Term.Quoted.lam 0 %d (Kind.Term.Quoted.fun (Nat.add.) 0 (List.cons (Kind.Term.Quoted.var 0 %d) (List.cons (Kind.Term.Quoted.num 0 1) (List.nil)))))", y, y)
	term, err := hvm.Parse(src)
	if err != nil {
		t.Fatal(err)
	}

	got, err := report.Expr(term)
	if err != nil {
		t.Fatal(err)
	}
	want := &syntax.Lambda{
		Param: name("y"),
		Body: &syntax.Fun{Name: name("Nat.add"), Args: []syntax.Expr{
			&syntax.Var{Name: name("y")},
			&syntax.NumU60{Value: 1},
		}},
	}
	if diff := cmp.Diff(want, got, exprOpts); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTypes(t *testing.T) {
	for src, want := range map[string]string{
		"(Kind.Term.Quoted.u60 0)":        "U60",
		"(Kind.Term.Quoted.f60 0)":        "F60",
		"(Kind.Term.Quoted.numf60 0 1.5)": "1.5",
		"(Kind.Term.Quoted.typ 0)":        "Type",
		"(Kind.Term.Quoted.hlp 0)":        "?",
		"(Kind.Term.Quoted.hol 0 4)":      "_",
		"(Kind.Term.Quoted.op2 0 (Kind.Operator.sub) (Kind.Term.Quoted.num 0 3) (Kind.Term.Quoted.num 0 1))": "(- 3 1)",
	} {
		t.Run(src, func(t *testing.T) {
			is := is.New(t)
			term, err := hvm.Parse(src)
			is.NoErr(err)
			got, err := report.Expr(term)
			is.NoErr(err)
			is.Equal(got.String(), want)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	for src, tag := range map[string]string{
		"(Kind.Term.Quoted.typ)":                    "Kind.Term.Quoted.typ",
		"(Kind.Term.Quoted.bogus 0)":                "Kind.Term.Quoted.bogus",
		"(Kind.Term.ct2 (Nat.succ.) 0 (Nat.zero.))": "Kind.Term.ct2",
		"(Kind.Term.op2 0 (Kind.Operator.pow) (Kind.Term.u60 0 1) (Kind.Term.u60 0 2))": "Kind.Term.op2",
		"(Kind.Term.typ x)": "Kind.Term.typ",
		"(Foo 1 2)":         "Foo",
	} {
		t.Run(src, func(t *testing.T) {
			is := is.New(t)
			term, err := hvm.Parse(src)
			is.NoErr(err)

			_, err = report.Expr(term)
			var de *report.DecodeError
			is.True(errors.As(err, &de))
			is.Equal(de.Tag, tag)
		})
	}
}

func TestList(t *testing.T) {
	is := is.New(t)

	term, err := hvm.Parse("(List.cons 1 (List.cons 2 (List.nil)))")
	is.NoErr(err)
	items, err := report.List(term)
	is.NoErr(err)
	is.Equal(items, []hvm.Term{hvm.U60(1), hvm.U60(2)})

	empty, err := report.List(hvm.NewCtr(compiler.ListNil))
	is.NoErr(err)
	is.Equal(len(empty), 0)

	_, err = report.List(hvm.NewCtr("List.cons", hvm.NewU60(1), hvm.NewCtr("Maybe.none")))
	is.True(err != nil)
}

func TestEntry(t *testing.T) {
	is := is.New(t)

	src := fmt.Sprintf("(Pair.new %d (Pair.new (Kind.Term.Quoted.u60 0) (List.cons (Kind.Term.Quoted.num 0 7) (List.nil))))",
		syntax.EncodeName("n"))
	term, err := hvm.Parse(src)
	is.NoErr(err)

	e, err := report.Entry(term)
	is.NoErr(err)
	is.Equal(e.Name, "n")
	is.Equal(e.Type.String(), "U60")
	is.Equal(len(e.Values), 1)
	is.Equal(e.Values[0].String(), "7")

	_, err = report.Entry(hvm.NewCtr("Pair.new", hvm.NewU60(1)))
	is.True(err != nil)
}
