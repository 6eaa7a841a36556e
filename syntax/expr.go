// Package syntax holds the desugared program consumed by the checker bridge.
//
// A Book is produced by name resolution and eliminator derivation; this
// module only reads it. Expressions form a sealed set of node types, each
// carrying the source range it was elaborated from.
package syntax

import (
	"fmt"
	"strings"

	"github.com/ezachrisen/kindcore/span"
)

// Expr is a desugared expression. The concrete types are the ones declared
// in this file.
type Expr interface {
	Span() span.Range
	String() string
	exprNode()
}

// Ident is a binder or a qualified name together with where it was written.
type Ident struct {
	Name  string
	Range span.Range
}

// NewIdent returns an identifier with the ghost range.
func NewIdent(name string) Ident {
	return Ident{Name: name, Range: span.Ghost}
}

func (i Ident) String() string { return i.Name }

type (
	// Typ is the type of types.
	Typ struct {
		Range span.Range
	}

	// U60Type is the type of 60-bit unsigned integers.
	U60Type struct {
		Range span.Range
	}

	// F60Type is the type of 60-bit floats.
	F60Type struct {
		Range span.Range
	}

	// Var is a bound variable.
	Var struct {
		Range span.Range
		Name  Ident
	}

	// All is a dependent function type. Body is in the scope of Param.
	All struct {
		Range  span.Range
		Param  Ident
		Type   Expr
		Body   Expr
		Erased bool
	}

	// Lambda is a function abstraction.
	Lambda struct {
		Range  span.Range
		Param  Ident
		Body   Expr
		Erased bool
	}

	// App applies Fun to one or more arguments.
	App struct {
		Range span.Range
		Fun   Expr
		Args  []AppBinding
	}

	// Ctr is a saturated constructor application.
	Ctr struct {
		Range span.Range
		Name  Ident
		Args  []Expr
	}

	// Fun is a saturated call of a top-level function.
	Fun struct {
		Range span.Range
		Name  Ident
		Args  []Expr
	}

	// Let binds Val to Name in Next.
	Let struct {
		Range span.Range
		Name  Ident
		Val   Expr
		Next  Expr
	}

	// Ann annotates Expr with Type.
	Ann struct {
		Range span.Range
		Expr  Expr
		Type  Expr
	}

	// Sub records an explicit substitution step.
	Sub struct {
		Range span.Range
		Name  Ident
		Indx  uint64
		Redx  uint64
		Expr  Expr
	}

	// NumU60 is an unsigned literal.
	NumU60 struct {
		Range span.Range
		Value uint64
	}

	// NumF60 is a float literal.
	NumF60 struct {
		Range span.Range
		Value float64
	}

	// Binary applies a primitive operator.
	Binary struct {
		Range span.Range
		Op    Operator
		Left  Expr
		Right Expr
	}

	// Hole is a numbered placeholder the checker must fill.
	Hole struct {
		Range span.Range
		Num   uint64
	}

	// Str is a string literal. It is lowered to a String.cons chain before encoding.
	Str struct {
		Range span.Range
		Value string
	}

	// Hlp asks the checker to report the goal at this position.
	Hlp struct {
		Range span.Range
		Name  Ident
	}

	// Err marks an expression an earlier pass failed to elaborate. It must
	// never reach the encoder.
	Err struct {
		Range span.Range
	}
)

// AppBinding is one argument of an application.
type AppBinding struct {
	Data   Expr
	Erased bool
}

func (e *Typ) Span() span.Range     { return e.Range }
func (e *U60Type) Span() span.Range { return e.Range }
func (e *F60Type) Span() span.Range { return e.Range }
func (e *Var) Span() span.Range     { return e.Range }
func (e *All) Span() span.Range     { return e.Range }
func (e *Lambda) Span() span.Range  { return e.Range }
func (e *App) Span() span.Range     { return e.Range }
func (e *Ctr) Span() span.Range     { return e.Range }
func (e *Fun) Span() span.Range     { return e.Range }
func (e *Let) Span() span.Range     { return e.Range }
func (e *Ann) Span() span.Range     { return e.Range }
func (e *Sub) Span() span.Range     { return e.Range }
func (e *NumU60) Span() span.Range  { return e.Range }
func (e *NumF60) Span() span.Range  { return e.Range }
func (e *Binary) Span() span.Range  { return e.Range }
func (e *Hole) Span() span.Range    { return e.Range }
func (e *Str) Span() span.Range     { return e.Range }
func (e *Hlp) Span() span.Range     { return e.Range }
func (e *Err) Span() span.Range     { return e.Range }

func (*Typ) exprNode()     {}
func (*U60Type) exprNode() {}
func (*F60Type) exprNode() {}
func (*Var) exprNode()     {}
func (*All) exprNode()     {}
func (*Lambda) exprNode()  {}
func (*App) exprNode()     {}
func (*Ctr) exprNode()     {}
func (*Fun) exprNode()     {}
func (*Let) exprNode()     {}
func (*Ann) exprNode()     {}
func (*Sub) exprNode()     {}
func (*NumU60) exprNode()  {}
func (*NumF60) exprNode()  {}
func (*Binary) exprNode()  {}
func (*Hole) exprNode()    {}
func (*Str) exprNode()     {}
func (*Hlp) exprNode()     {}
func (*Err) exprNode()     {}

func (e *Typ) String() string     { return "Type" }
func (e *U60Type) String() string { return "U60" }
func (e *F60Type) String() string { return "F60" }
func (e *Var) String() string     { return e.Name.Name }
func (e *Hole) String() string    { return "_" }
func (e *Hlp) String() string     { return "?" + e.Name.Name }
func (e *Err) String() string     { return "ERR" }
func (e *NumU60) String() string  { return fmt.Sprintf("%d", e.Value) }
func (e *NumF60) String() string  { return fmt.Sprintf("%v", e.Value) }
func (e *Str) String() string     { return fmt.Sprintf("%q", e.Value) }

func (e *All) String() string {
	if e.Erased {
		return fmt.Sprintf("(~%s: %s) -> %s", e.Param, e.Type, e.Body)
	}
	return fmt.Sprintf("(%s: %s) -> %s", e.Param, e.Type, e.Body)
}

func (e *Lambda) String() string {
	if e.Erased {
		return fmt.Sprintf("(~%s => %s)", e.Param, e.Body)
	}
	return fmt.Sprintf("(%s => %s)", e.Param, e.Body)
}

func (e *App) String() string {
	s := strings.Builder{}
	s.WriteString("(")
	s.WriteString(e.Fun.String())
	for _, a := range e.Args {
		s.WriteString(" ")
		if a.Erased {
			s.WriteString("~")
		}
		s.WriteString(a.Data.String())
	}
	s.WriteString(")")
	return s.String()
}

func (e *Ctr) String() string { return call(e.Name.Name, e.Args) }
func (e *Fun) String() string { return call(e.Name.Name, e.Args) }

func call(name string, args []Expr) string {
	if len(args) == 0 {
		return name
	}
	s := strings.Builder{}
	s.WriteString("(")
	s.WriteString(name)
	for _, a := range args {
		s.WriteString(" ")
		s.WriteString(a.String())
	}
	s.WriteString(")")
	return s.String()
}

func (e *Let) String() string {
	return fmt.Sprintf("(let %s = %s; %s)", e.Name, e.Val, e.Next)
}

func (e *Ann) String() string {
	return fmt.Sprintf("(%s :: %s)", e.Expr, e.Type)
}

func (e *Sub) String() string {
	return fmt.Sprintf("(## %s/%d %s)", e.Name, e.Redx, e.Expr)
}

func (e *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Op.Symbol(), e.Left, e.Right)
}
