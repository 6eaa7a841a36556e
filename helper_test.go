package kindcore_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/ezachrisen/kindcore/hvm"
	"github.com/ezachrisen/kindcore/span"
	"github.com/ezachrisen/kindcore/syntax"
)

// -------------------------------------------------- MOCK EVALUATOR
// mockEvaluator is used for testing
// It returns a canned answer and captures the programs it was asked to run.
type mockEvaluator struct {
	mu     sync.Mutex
	answer string // the answer, in evaluator syntax
	err    error  // if set, returned instead of the answer
	files  []*hvm.File
}

func newMockEvaluator(answer string) *mockEvaluator {
	return &mockEvaluator{answer: answer}
}

func (m *mockEvaluator) Eval(ctx context.Context, file *hvm.File) (hvm.Term, error) {
	m.mu.Lock()
	m.files = append(m.files, file)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return hvm.Parse(m.answer)
}

func (m *mockEvaluator) lastFile() *hvm.File {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.files) == 0 {
		return nil
	}
	return m.files[len(m.files)-1]
}

// -------------------------------------------------- TEST DATA

func ident(name string) syntax.Ident { return syntax.NewIdent(name) }

// makeBook returns unary naturals with addition.
func makeBook() *syntax.Book {
	nat := &syntax.Ctr{Name: ident("Nat")}
	v := func(n string) syntax.Expr { return &syntax.Var{Name: ident(n)} }

	b := syntax.NewBook()
	for _, e := range []*syntax.Entry{
		{Name: ident("Nat"), Type: &syntax.Typ{}},
		{Name: ident("Nat.zero"), Type: nat},
		{Name: ident("Nat.succ"), Args: []syntax.Argument{{Name: ident("pred"), Type: nat}}, Type: nat},
		{
			Name: ident("Nat.add"),
			Args: []syntax.Argument{{Name: ident("a"), Type: nat}, {Name: ident("b"), Type: nat}},
			Type: nat,
			Rules: []*syntax.Rule{
				{Name: ident("Nat.add"), Pats: []syntax.Expr{&syntax.Ctr{Name: ident("Nat.zero")}, v("b")}, Body: v("b")},
				{Name: ident("Nat.add"), Pats: []syntax.Expr{&syntax.Ctr{Name: ident("Nat.succ"), Args: []syntax.Expr{v("a")}}, v("b")},
					Body: &syntax.Ctr{Name: ident("Nat.succ"), Args: []syntax.Expr{&syntax.Fun{Name: ident("Nat.add"), Args: []syntax.Expr{v("a"), v("b")}}}}},
			},
		},
	} {
		b.Add(e)
	}
	b.AddFamily(&syntax.Family{
		Name:         ident("Nat"),
		Constructors: []syntax.Ident{ident("Nat.zero"), ident("Nat.succ")},
	})
	return b
}

// Answers in evaluator syntax.
var (
	mismatchRange = span.New(1, 40, 52)

	natTerm = "(Kind.Term.Quoted.ctr (Nat.) 0 (List.nil))"

	mismatch = fmt.Sprintf("(Kind.Error.Quoted.type_mismatch (List.cons (Pair.new %d (Pair.new %s (List.nil))) (List.nil)) %d (Kind.Term.Quoted.u60 0) %s)",
		syntax.EncodeName("b"), natTerm, mismatchRange.Encode(), natTerm)

	inspection = "(Kind.Error.Quoted.inspection (List.nil) 0 (Kind.Term.Quoted.typ 0))"

	bogus = "(Kind.Error.Quoted.inspection (List.nil) 0 (Kind.Term.Quoted.bogus 0))"
)

func answerOf(items ...string) string {
	s := "(List.nil)"
	for i := len(items) - 1; i >= 0; i-- {
		s = fmt.Sprintf("(List.cons %s %s)", items[i], s)
	}
	return s
}
