package report

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ezachrisen/kindcore/hvm"
	"github.com/ezachrisen/kindcore/span"
	"github.com/ezachrisen/kindcore/syntax"
)

const errorPrefix = "Kind.Error.Quoted."

// Kind identifies what the checker program found wrong.
type Kind int

const (
	UncoveredPattern Kind = iota
	UnboundVariable
	CantInferHole
	CantInferLambda
	InvalidCall
	ImpossibleCase
	Inspection
	TooManyArguments
	TypeMismatch
)

type kindInfo struct {
	tag     string
	fields  int
	message string
}

var kinds = [...]kindInfo{
	UncoveredPattern: {"uncovered_pattern", 3, "uncovered pattern"},
	UnboundVariable:  {"unbound_variable", 2, "unbound variable"},
	CantInferHole:    {"cant_infer_hole", 2, "cannot infer the type of this hole"},
	CantInferLambda:  {"cant_infer_lambda", 2, "cannot infer the type of this lambda"},
	InvalidCall:      {"invalid_call", 2, "invalid call"},
	ImpossibleCase:   {"impossible_case", 4, "impossible case"},
	Inspection:       {"inspection", 3, "inspection"},
	TooManyArguments: {"too_many_arguments", 2, "too many arguments"},
	TypeMismatch:     {"type_mismatch", 4, "type mismatch"},
}

// String returns the constructor suffix the checker program uses for k.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kinds) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].tag
}

// Title is a short human description of k.
func (k Kind) Title() string {
	if k < 0 || int(k) >= len(kinds) {
		return k.String()
	}
	return kinds[k].message
}

func kindOf(tag string) (Kind, bool) {
	for k, info := range kinds {
		if errorPrefix+info.tag == tag {
			return Kind(k), true
		}
	}
	return 0, false
}

// ContextEntry is one binding of the typing context at the error site:
// its name, its type, and the values it is known to take.
type ContextEntry struct {
	Name   string
	Type   syntax.Expr
	Values []syntax.Expr
}

// Diagnostic is one error reported by the checker program. Which of the
// expression fields are set depends on Kind.
type Diagnostic struct {
	Kind    Kind
	Context []ContextEntry
	Range   span.Range

	// Missing cases, for UncoveredPattern.
	Patterns []syntax.Expr

	// For TypeMismatch and ImpossibleCase.
	Expected syntax.Expr
	Detected syntax.Expr

	// The goal, for Inspection.
	Inspected syntax.Expr
}

// Message renders the diagnostic without its context.
func (d Diagnostic) Message() string {
	switch d.Kind {
	case UncoveredPattern:
		pats := make([]string, len(d.Patterns))
		for i, p := range d.Patterns {
			pats[i] = p.String()
		}
		return fmt.Sprintf("%s: %s", d.Kind.Title(), strings.Join(pats, " "))
	case TypeMismatch, ImpossibleCase:
		return fmt.Sprintf("%s: expected %s, detected %s", d.Kind.Title(), d.Expected, d.Detected)
	case Inspection:
		return fmt.Sprintf("%s: %s", d.Kind.Title(), d.Inspected)
	}
	return d.Kind.Title()
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Range, d.Message())
}

// Diagnostics decodes the checker program's answer, a list of errors.
//
// Items that fail to decode are skipped; their errors are combined into the
// returned error, and the well-formed items are still returned. An answer
// that is not a list at all returns no diagnostics and ErrMalformedAnswer.
func Diagnostics(answer hvm.Term) ([]Diagnostic, error) {
	items, err := List(answer)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedAnswer, "%v", err)
	}

	var (
		diags []Diagnostic
		errs  error
	)
	for i, item := range items {
		d, err := diagnostic(item)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "diagnostic %d", i))
			continue
		}
		diags = append(diags, d)
	}
	return diags, errs
}

func diagnostic(t hvm.Term) (Diagnostic, error) {
	c, ok := t.(*hvm.Ctr)
	if !ok {
		return Diagnostic{}, decodeErrorf("", "expected a diagnostic, got %v", t)
	}
	k, ok := kindOf(c.Name)
	if !ok {
		return Diagnostic{}, decodeErrorf(c.Name, "unknown diagnostic")
	}
	if len(c.Args) != kinds[k].fields {
		return Diagnostic{}, arityError(c, kinds[k].fields)
	}

	d := Diagnostic{Kind: k}
	ctx, err := List(c.Args[0])
	if err != nil {
		return Diagnostic{}, errors.Wrapf(err, "%s context", c.Name)
	}
	for _, item := range ctx {
		e, err := Entry(item)
		if err != nil {
			return Diagnostic{}, errors.Wrapf(err, "%s context", c.Name)
		}
		d.Context = append(d.Context, e)
	}
	if d.Range, err = rangeArg(c, 1); err != nil {
		return Diagnostic{}, err
	}

	switch k {
	case UncoveredPattern:
		pats, err := List(c.Args[2])
		if err != nil {
			return Diagnostic{}, err
		}
		if d.Patterns, err = exprs(pats); err != nil {
			return Diagnostic{}, err
		}
	case TypeMismatch, ImpossibleCase:
		if d.Expected, err = Expr(c.Args[2]); err != nil {
			return Diagnostic{}, err
		}
		if d.Detected, err = Expr(c.Args[3]); err != nil {
			return Diagnostic{}, err
		}
	case Inspection:
		if d.Inspected, err = Expr(c.Args[2]); err != nil {
			return Diagnostic{}, err
		}
	}
	return d, nil
}

// Entry decodes a context entry, Pair.new name (Pair.new type values).
func Entry(t hvm.Term) (ContextEntry, error) {
	outer, err := pair(t)
	if err != nil {
		return ContextEntry{}, err
	}
	name, err := nameArg(outer, 0)
	if err != nil {
		return ContextEntry{}, err
	}
	inner, err := pair(outer.Args[1])
	if err != nil {
		return ContextEntry{}, err
	}
	typ, err := Expr(inner.Args[0])
	if err != nil {
		return ContextEntry{}, err
	}
	vals, err := List(inner.Args[1])
	if err != nil {
		return ContextEntry{}, err
	}
	values, err := exprs(vals)
	if err != nil {
		return ContextEntry{}, err
	}
	return ContextEntry{Name: name, Type: typ, Values: values}, nil
}

func pair(t hvm.Term) (*hvm.Ctr, error) {
	c, ok := t.(*hvm.Ctr)
	if !ok || c.Name != "Pair.new" {
		return nil, decodeErrorf("Pair.new", "expected a pair, got %v", t)
	}
	if len(c.Args) != 2 {
		return nil, arityError(c, 2)
	}
	return c, nil
}

func exprs(ts []hvm.Term) ([]syntax.Expr, error) {
	xs := make([]syntax.Expr, len(ts))
	for i, t := range ts {
		x, err := Expr(t)
		if err != nil {
			return nil, err
		}
		xs[i] = x
	}
	return xs, nil
}
