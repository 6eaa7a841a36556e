package cel

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"github.com/ezachrisen/kindcore/syntax"
)

// Variables an expression can refer to, one binding per entry.
const (
	NameVar    = "name"
	ArityVar   = "arity"
	RulesVar   = "rules"
	PartialVar = "partial"
	AxiomVar   = "axiom"
)

// Selector picks the entries of a book the checker should type check.
type Selector struct {
	expr string
	prg  celgo.Program
}

// NewSelector parses, checks and plans expr. The expression must produce a
// bool.
func NewSelector(expr string) (*Selector, error) {
	env, err := celgo.NewEnv(
		celgo.Variable(NameVar, celgo.StringType),
		celgo.Variable(ArityVar, celgo.IntType),
		celgo.Variable(RulesVar, celgo.IntType),
		celgo.Variable(PartialVar, celgo.BoolType),
		celgo.Variable(AxiomVar, celgo.BoolType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating selector environment")
	}

	// Parse and type-check in one step
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, errors.Errorf("compiling selector %q: %s", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(celgo.BoolType) {
		return nil, errors.Errorf("selector %q produces %s, want bool", expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(err, "generating program for selector %q", expr)
	}
	return &Selector{expr: expr, prg: prg}, nil
}

// Match reports whether the selector accepts e.
func (s *Selector) Match(e *syntax.Entry) (bool, error) {
	out, _, err := s.prg.Eval(map[string]interface{}{
		NameVar:    e.Name.Name,
		ArityVar:   int64(e.Arity()),
		RulesVar:   int64(len(e.Rules)),
		PartialVar: e.Attrs.Partial,
		AxiomVar:   e.Attrs.Axiom,
	})
	if err != nil {
		return false, errors.Wrapf(err, "evaluating selector on %s", e.Name.Name)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("selector returned %T on %s", out.Value(), e.Name.Name)
	}
	return b, nil
}

// Select returns the names of the accepted entries in lexical order.
func (s *Selector) Select(book *syntax.Book) ([]string, error) {
	var names []string
	for _, n := range book.Names() {
		ok, err := s.Match(book.Entries[n])
		if err != nil {
			return nil, err
		}
		if ok {
			names = append(names, n)
		}
	}
	return names, nil
}

func (s *Selector) String() string {
	return s.expr
}
