package hvm

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/pkg/errors"
)

// Parse reads a single term printed in evaluator syntax, such as the answer
// the evaluator prints after normalizing the checker's entry point.
func Parse(src string) (Term, error) {
	p := newParser(src)
	t, err := p.term()
	if err != nil {
		return nil, err
	}
	if p.tok != scanner.EOF {
		return nil, p.errorf("unexpected %s after term", p.text())
	}
	return t, nil
}

// ParseFile reads rules of the form "lhs = rhs", as written by File.String.
func ParseFile(src string) (*File, error) {
	p := newParser(src)
	f := &File{}
	for p.tok != scanner.EOF {
		lhs, err := p.term()
		if err != nil {
			return nil, err
		}
		if p.tok != '=' {
			return nil, p.errorf("expected '=' after %s", lhs)
		}
		p.next()
		rhs, err := p.term()
		if err != nil {
			return nil, err
		}
		f.Add(lhs, rhs)
	}
	return f, nil
}

type parser struct {
	s   scanner.Scanner
	tok rune
}

func newParser(src string) *parser {
	p := &parser{}
	p.s.Init(strings.NewReader(src))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanComments | scanner.SkipComments
	p.s.IsIdentRune = isIdentRune
	p.s.Error = func(*scanner.Scanner, string) {}
	p.next()
	return p
}

func isIdentRune(ch rune, i int) bool {
	switch {
	case ch == 'λ':
		return false
	case ch == '_' || ch == '$':
		return true
	case ch == '.' || unicode.IsDigit(ch):
		return i > 0
	default:
		return unicode.IsLetter(ch)
	}
}

func (p *parser) next() {
	p.tok = p.s.Scan()
}

func (p *parser) text() string {
	if p.tok == scanner.EOF {
		return "end of input"
	}
	return strconv.Quote(p.s.TokenText())
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return errors.Errorf("parsing term at %s: %s", p.s.Position, fmt.Sprintf(format, args...))
}

func (p *parser) term() (Term, error) {
	switch p.tok {
	case '(':
		p.next()
		return p.parenthesized()
	case 'λ', '@':
		p.next()
		if p.tok != scanner.Ident {
			return nil, p.errorf("expected binder name, got %s", p.text())
		}
		name := p.s.TokenText()
		p.next()
		body, err := p.term()
		if err != nil {
			return nil, err
		}
		return NewLam(name, body), nil
	case '-':
		p.next()
		if p.tok != scanner.Float && p.tok != scanner.Int {
			return nil, p.errorf("expected number after '-', got %s", p.text())
		}
		f, err := strconv.ParseFloat("-"+p.s.TokenText(), 64)
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		p.next()
		return NewF60(f), nil
	case scanner.Int:
		n, err := strconv.ParseUint(p.s.TokenText(), 0, 64)
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		p.next()
		return NewU60(n), nil
	case scanner.Float:
		f, err := strconv.ParseFloat(p.s.TokenText(), 64)
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		p.next()
		return NewF60(f), nil
	case scanner.Ident:
		name := p.s.TokenText()
		p.next()
		if IsCtrName(name) {
			return NewCtr(name), nil
		}
		return NewVar(name), nil
	default:
		return nil, p.errorf("unexpected %s", p.text())
	}
}

// parenthesized parses what follows an opening parenthesis: either a
// constructor with its arguments, or a curried application.
func (p *parser) parenthesized() (Term, error) {
	if p.tok == scanner.Ident && IsCtrName(p.s.TokenText()) {
		c := NewCtr(p.s.TokenText())
		p.next()
		for p.tok != ')' {
			if p.tok == scanner.EOF {
				return nil, p.errorf("unclosed constructor %s", c.Name)
			}
			arg, err := p.term()
			if err != nil {
				return nil, err
			}
			c.Args = append(c.Args, arg)
		}
		p.next()
		return c, nil
	}

	fun, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.tok != ')' {
		if p.tok == scanner.EOF {
			return nil, p.errorf("unclosed application")
		}
		arg, err := p.term()
		if err != nil {
			return nil, err
		}
		fun = &App{Func: fun, Arg: arg}
	}
	p.next()
	return fun, nil
}
