package syntax

import (
	"fmt"
	"io"
	"os"

	"github.com/ezachrisen/kindcore/span"
	"gopkg.in/yaml.v3"
)

// This file reads books written as YAML. The format is a direct rendering of
// the types in this package, used to hand books from the front end to the
// checker bridge and to write fixtures by hand.
//
//	holes: 0
//	entries:
//	  - name: Nat.add
//	    at: [1, 0, 7]
//	    args:
//	      - {name: a, type: {kind: ctr, name: Nat}}
//	      - {name: b, type: {kind: ctr, name: Nat}}
//	    type: {kind: ctr, name: Nat}
//	    rules:
//	      - pats: [{kind: ctr, name: Nat.zero}, {kind: var, name: b}]
//	        body: {kind: var, name: b}
//	families:
//	  - name: Nat
//	    constructors: [Nat.zero, Nat.succ]
//
// Every expression is a mapping with a kind key; "at" is [file, start, end].

type bookFile struct {
	Holes    uint64       `yaml:"holes"`
	Entries  []entryNode  `yaml:"entries"`
	Families []familyNode `yaml:"families"`
}

type entryNode struct {
	Name    string     `yaml:"name"`
	At      []uint32   `yaml:"at"`
	Args    []argNode  `yaml:"args"`
	Type    *exprNode  `yaml:"type"`
	Rules   []ruleNode `yaml:"rules"`
	Partial bool       `yaml:"partial"`
	Axiom   bool       `yaml:"axiom"`
}

type argNode struct {
	Name   string    `yaml:"name"`
	At     []uint32  `yaml:"at"`
	Type   *exprNode `yaml:"type"`
	Erased bool      `yaml:"erased"`
}

type ruleNode struct {
	At   []uint32    `yaml:"at"`
	Pats []*exprNode `yaml:"pats"`
	Body *exprNode   `yaml:"body"`
}

type familyNode struct {
	Name         string    `yaml:"name"`
	Params       []argNode `yaml:"params"`
	Constructors []string  `yaml:"constructors"`
}

type exprNode struct {
	Kind   string      `yaml:"kind"`
	At     []uint32    `yaml:"at"`
	Name   string      `yaml:"name"`
	Erased bool        `yaml:"erased"`
	Type   *exprNode   `yaml:"type"`
	Body   *exprNode   `yaml:"body"`
	Fun    *exprNode   `yaml:"fun"`
	Args   []*exprNode `yaml:"args"`
	Val    *exprNode   `yaml:"val"`
	Next   *exprNode   `yaml:"next"`
	Expr   *exprNode   `yaml:"expr"`
	Indx   uint64      `yaml:"indx"`
	Redx   uint64      `yaml:"redx"`
	Num    uint64      `yaml:"num"`
	Float  float64     `yaml:"float"`
	Str    string      `yaml:"str"`
	Op     string      `yaml:"op"`
	Left   *exprNode   `yaml:"left"`
	Right  *exprNode   `yaml:"right"`
}

// LoadFile reads a YAML book from path.
func LoadFile(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading book %s: %w", path, err)
	}
	return b, nil
}

// Load reads a YAML book. Unknown keys are rejected.
func Load(r io.Reader) (*Book, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var bf bookFile
	if err := dec.Decode(&bf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing book: %w", err)
	}

	book := NewBook()
	book.Holes = bf.Holes

	for _, en := range bf.Entries {
		e, err := en.entry()
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", en.Name, err)
		}
		if _, dup := book.Entries[e.Name.Name]; dup {
			return nil, fmt.Errorf("entry %s: declared twice", e.Name.Name)
		}
		book.Add(e)
	}

	for _, fn := range bf.Families {
		f := &Family{Name: NewIdent(fn.Name)}
		for _, p := range fn.Params {
			a, err := p.argument()
			if err != nil {
				return nil, fmt.Errorf("family %s: %w", fn.Name, err)
			}
			f.Parameters = append(f.Parameters, a)
		}
		for _, c := range fn.Constructors {
			f.Constructors = append(f.Constructors, NewIdent(c))
		}
		book.AddFamily(f)
	}
	return book, nil
}

func rangeOf(at []uint32) (span.Range, error) {
	switch len(at) {
	case 0:
		return span.Ghost, nil
	case 3:
		r := span.New(uint16(at[0]), at[1], at[2])
		if !r.Fits() || at[0] > span.MaxFile {
			return r, fmt.Errorf("range %v does not fit in 60 bits", at)
		}
		return r, nil
	default:
		return span.Ghost, fmt.Errorf("range must be [file, start, end], got %v", at)
	}
}

func (en entryNode) entry() (*Entry, error) {
	r, err := rangeOf(en.At)
	if err != nil {
		return nil, err
	}
	e := &Entry{
		Name:  Ident{Name: en.Name, Range: r},
		Range: r,
		Attrs: Attributes{Partial: en.Partial, Axiom: en.Axiom},
	}

	for _, an := range en.Args {
		a, err := an.argument()
		if err != nil {
			return nil, err
		}
		e.Args = append(e.Args, a)
	}

	if en.Type == nil {
		return nil, fmt.Errorf("missing type")
	}
	if e.Type, err = en.Type.expr(); err != nil {
		return nil, fmt.Errorf("type: %w", err)
	}

	for i, rn := range en.Rules {
		rule := &Rule{Name: e.Name}
		if rule.Range, err = rangeOf(rn.At); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		for _, p := range rn.Pats {
			pat, err := p.expr()
			if err != nil {
				return nil, fmt.Errorf("rule %d: pattern: %w", i, err)
			}
			rule.Pats = append(rule.Pats, pat)
		}
		if rn.Body == nil {
			return nil, fmt.Errorf("rule %d: missing body", i)
		}
		if rule.Body, err = rn.Body.expr(); err != nil {
			return nil, fmt.Errorf("rule %d: body: %w", i, err)
		}
		e.Rules = append(e.Rules, rule)
	}
	return e, nil
}

func (an argNode) argument() (Argument, error) {
	r, err := rangeOf(an.At)
	if err != nil {
		return Argument{}, err
	}
	if an.Type == nil {
		return Argument{}, fmt.Errorf("argument %s: missing type", an.Name)
	}
	typ, err := an.Type.expr()
	if err != nil {
		return Argument{}, fmt.Errorf("argument %s: %w", an.Name, err)
	}
	return Argument{
		Name:   Ident{Name: an.Name, Range: r},
		Type:   typ,
		Erased: an.Erased,
		Range:  r,
	}, nil
}

func (n *exprNode) expr() (Expr, error) {
	if n == nil {
		return nil, fmt.Errorf("missing expression")
	}
	r, err := rangeOf(n.At)
	if err != nil {
		return nil, err
	}
	ident := Ident{Name: n.Name, Range: r}

	switch n.Kind {
	case "typ":
		return &Typ{Range: r}, nil
	case "u60":
		return &U60Type{Range: r}, nil
	case "f60":
		return &F60Type{Range: r}, nil
	case "var":
		return &Var{Range: r, Name: ident}, nil
	case "hole":
		return &Hole{Range: r, Num: n.Num}, nil
	case "hlp":
		return &Hlp{Range: r, Name: ident}, nil
	case "num":
		return &NumU60{Range: r, Value: n.Num}, nil
	case "float":
		return &NumF60{Range: r, Value: n.Float}, nil
	case "str":
		return &Str{Range: r, Value: n.Str}, nil
	case "all":
		typ, body, err := pair(n.Type, n.Body)
		if err != nil {
			return nil, err
		}
		return &All{Range: r, Param: ident, Type: typ, Body: body, Erased: n.Erased}, nil
	case "lam":
		body, err := n.Body.expr()
		if err != nil {
			return nil, err
		}
		return &Lambda{Range: r, Param: ident, Body: body, Erased: n.Erased}, nil
	case "app":
		fun, err := n.Fun.expr()
		if err != nil {
			return nil, err
		}
		app := &App{Range: r, Fun: fun}
		for _, a := range n.Args {
			arg, err := a.expr()
			if err != nil {
				return nil, err
			}
			app.Args = append(app.Args, AppBinding{Data: arg, Erased: a.Erased})
		}
		return app, nil
	case "ctr", "fun":
		args, err := exprs(n.Args)
		if err != nil {
			return nil, err
		}
		if n.Kind == "ctr" {
			return &Ctr{Range: r, Name: ident, Args: args}, nil
		}
		return &Fun{Range: r, Name: ident, Args: args}, nil
	case "let":
		val, next, err := pair(n.Val, n.Next)
		if err != nil {
			return nil, err
		}
		return &Let{Range: r, Name: ident, Val: val, Next: next}, nil
	case "ann":
		expr, typ, err := pair(n.Expr, n.Type)
		if err != nil {
			return nil, err
		}
		return &Ann{Range: r, Expr: expr, Type: typ}, nil
	case "sub":
		expr, err := n.Expr.expr()
		if err != nil {
			return nil, err
		}
		return &Sub{Range: r, Name: ident, Indx: n.Indx, Redx: n.Redx, Expr: expr}, nil
	case "op":
		op, err := ParseOperator(n.Op)
		if err != nil {
			return nil, err
		}
		left, right, err := pair(n.Left, n.Right)
		if err != nil {
			return nil, err
		}
		return &Binary{Range: r, Op: op, Left: left, Right: right}, nil
	default:
		return nil, fmt.Errorf("unknown expression kind %q", n.Kind)
	}
}

func pair(a, b *exprNode) (Expr, Expr, error) {
	x, err := a.expr()
	if err != nil {
		return nil, nil, err
	}
	y, err := b.expr()
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func exprs(ns []*exprNode) ([]Expr, error) {
	var out []Expr
	for _, n := range ns {
		e, err := n.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
