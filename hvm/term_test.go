package hvm_test

import (
	"testing"

	"github.com/ezachrisen/kindcore/hvm"
	"github.com/google/go-cmp/cmp"
	"github.com/matryer/is"
)

func TestF60(t *testing.T) {
	is := is.New(t)

	for _, x := range []float64{0, 1, -1, 1.5, 0.25, 3.0e10, -2.75} {
		f := hvm.NewF60(x)
		is.True(uint64(f) <= hvm.Mask60)
		is.Equal(f.Float(), x)
	}
}

func TestU60Truncates(t *testing.T) {
	is := is.New(t)
	is.Equal(hvm.NewU60(1<<60+5), hvm.U60(5))
	is.Equal(hvm.NewU60(42), hvm.U60(42))
}

func TestString(t *testing.T) {
	cases := []struct {
		term hvm.Term
		want string
	}{
		{hvm.NewCtr("Bool.true"), "(Bool.true)"},
		{hvm.NewCtr("Pair.new", hvm.NewU60(1), hvm.NewF60(1.5)), "(Pair.new 1 1.5)"},
		{hvm.NewF60(2), "2.0"},
		{hvm.NewLam("x", hvm.NewCtr("Succ", hvm.NewVar("x"))), "λx (Succ x)"},
		{&hvm.App{Func: hvm.NewVar("f"), Arg: hvm.NewVar("a")}, "(f a)"},
	}

	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			is := is.New(t)
			is.Equal(c.term.String(), c.want)
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	terms := []hvm.Term{
		hvm.NewCtr("Kind.Term.ct2",
			hvm.NewCtr("Nat.succ."),
			hvm.NewU60(1234),
			hvm.NewCtr("Kind.Term.set_origin", hvm.NewU60(7), hvm.NewVar("x"))),
		hvm.NewLam("x", hvm.NewLam("y", &hvm.App{Func: &hvm.App{Func: hvm.NewVar("x"), Arg: hvm.NewVar("y")}, Arg: hvm.NewU60(0)})),
		hvm.NewCtr("F$Nat.add", hvm.NewVar("orig"), hvm.NewVar("_")),
		hvm.NewCtr("Kind.Term.f60", hvm.NewU60(3), hvm.NewF60(-0.5)),
		hvm.NewCtr("List.cons", hvm.NewCtr("Nat.zero."), hvm.NewCtr("List.nil")),
	}

	for _, want := range terms {
		t.Run(want.String(), func(t *testing.T) {
			got, err := hvm.Parse(want.String())
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseBareConstructor(t *testing.T) {
	is := is.New(t)
	got, err := hvm.Parse("(List.cons Nat.zero. List.nil)")
	is.NoErr(err)
	is.Equal(got.String(), "(List.cons (Nat.zero.) (List.nil))")
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{"", "(List.cons", "(", ")", "λ (x)", "(A) (B)", "- x"} {
		t.Run(src, func(t *testing.T) {
			is := is.New(t)
			_, err := hvm.Parse(src)
			is.True(err != nil)
		})
	}
}

func TestParseFile(t *testing.T) {
	is := is.New(t)

	f := &hvm.File{}
	f.Add(hvm.NewCtr("HoleInit"), hvm.NewU60(3))
	f.Add(hvm.NewCtr("Kind.Axiom.CoverCheck", hvm.NewVar("_")), hvm.NewCtr("Bool.false"))

	got, err := hvm.ParseFile(f.String())
	is.NoErr(err)
	is.Equal(got.String(), f.String())
	is.Equal(len(got.Rules), 2)
}

func TestHeads(t *testing.T) {
	is := is.New(t)

	f := &hvm.File{}
	f.Add(hvm.NewCtr("B", hvm.NewU60(1)), hvm.NewU60(1))
	f.Add(hvm.NewCtr("A"), hvm.NewU60(1))
	f.Add(hvm.NewCtr("B", hvm.NewVar("_")), hvm.NewU60(0))

	is.Equal(f.Heads(), []hvm.HeadCount{{Head: "A", Rules: 1}, {Head: "B", Rules: 2}})
	is.Equal(len(f.Find("B")), 2)
}
