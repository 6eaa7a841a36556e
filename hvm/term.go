// Package hvm models the terms and rewrite rules exchanged with the
// graph-reduction evaluator.
//
// Terms are untyped: a constructor is a name applied to positional
// arguments, and the meaning of a name is fixed by the checker program the
// evaluator runs. Numbers are 60 bits wide; the evaluator reserves the top
// four bits of every machine word for its own tags.
package hvm

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxArity is the largest number of fields a constructor may carry.
const MaxArity = 16

// Mask60 keeps the low 60 bits of a word.
const Mask60 = 1<<60 - 1

// Term is a value in the evaluator's term language.
type Term interface {
	String() string
	term()
}

// Var is a variable reference, or a binder when it appears on the left-hand
// side of a rule. The name "_" matches anything.
type Var struct {
	Name string
}

// Lam is a lambda whose body refers to Name.
type Lam struct {
	Name string
	Body Term
}

// App applies a term to one argument.
type App struct {
	Func Term
	Arg  Term
}

// Ctr is a constructor or function call. The evaluator distinguishes the
// two by whether rewrite rules exist for the name.
type Ctr struct {
	Name string
	Args []Term
}

// U60 is an unsigned 60-bit number.
type U60 uint64

// F60 is a float stored as the high 60 bits of its IEEE-754 representation.
type F60 uint64

func (*Var) term() {}
func (*Lam) term() {}
func (*App) term() {}
func (*Ctr) term() {}
func (U60) term()  {}
func (F60) term()  {}

// NewVar returns a variable reference.
func NewVar(name string) *Var {
	return &Var{Name: name}
}

// NewLam returns a lambda binding name in body.
func NewLam(name string, body Term) *Lam {
	return &Lam{Name: name, Body: body}
}

// NewCtr returns the constructor name applied to args.
func NewCtr(name string, args ...Term) *Ctr {
	if args == nil {
		args = []Term{}
	}
	return &Ctr{Name: name, Args: args}
}

// NewU60 truncates n to 60 bits.
func NewU60(n uint64) U60 {
	return U60(n & Mask60)
}

// NewF60 drops the four low mantissa bits of x, rounding to nearest.
func NewF60(x float64) F60 {
	bits := math.Float64bits(x)
	f := bits >> 4
	if bits&0xF > 8 {
		f++
	}
	return F60(f & Mask60)
}

// Float returns the float the word represents.
func (f F60) Float() float64 {
	return math.Float64frombits(uint64(f) << 4)
}

func (v *Var) String() string { return v.Name }

func (l *Lam) String() string {
	return "λ" + l.Name + " " + l.Body.String()
}

func (a *App) String() string {
	return "(" + a.Func.String() + " " + a.Arg.String() + ")"
}

func (c *Ctr) String() string {
	s := strings.Builder{}
	s.WriteString("(")
	s.WriteString(c.Name)
	for _, a := range c.Args {
		s.WriteString(" ")
		s.WriteString(a.String())
	}
	s.WriteString(")")
	return s.String()
}

func (n U60) String() string {
	return strconv.FormatUint(uint64(n), 10)
}

func (f F60) String() string {
	s := strconv.FormatFloat(f.Float(), 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// IsCtrName reports whether a bare name denotes a constructor rather than a
// variable: constructor names start with an upper-case letter.
func IsCtrName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
