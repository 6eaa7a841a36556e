// Package report reads the checker program's answer back into expressions
// and diagnostics.
//
// The decoder understands two vocabularies. Terms the compiler encoded in
// quoted mode decode back into the expressions they came from, up to
// binder ranges. Terms the checker program builds in its answer use the
// Kind.Term.Quoted family of constructors, where bodies are already
// instantiated and call arguments are lists.
package report

import (
	"strconv"
	"strings"

	"github.com/ezachrisen/kindcore/compiler"
	"github.com/ezachrisen/kindcore/hvm"
	"github.com/ezachrisen/kindcore/span"
	"github.com/ezachrisen/kindcore/syntax"
)

const answerPrefix = "Kind.Term.Quoted."

// encodedTags maps every tag the encoder can emit, in either mode, to its
// node kind.
var encodedTags = map[string]compiler.Tag{}

var answerTags = map[string]compiler.Tag{
	"all":    compiler.TagAll,
	"lam":    compiler.TagLambda,
	"let":    compiler.TagLet,
	"typ":    compiler.TagTyp,
	"var":    compiler.TagVar,
	"hol":    compiler.TagHole,
	"ann":    compiler.TagAnn,
	"sub":    compiler.TagSub,
	"app":    compiler.TagApp,
	"hlp":    compiler.TagHlp,
	"u60":    compiler.TagU60,
	"num":    compiler.TagNumU60,
	"f60":    compiler.TagF60,
	"numf60": compiler.TagNumF60,
	"op2":    compiler.TagBinary,
}

func init() {
	for t := compiler.TagTyp; t <= compiler.TagHlp; t++ {
		encodedTags[t.Name(compiler.Quoted)] = t
		encodedTags[t.Name(compiler.Evaluated)] = t
	}
}

// Expr decodes a quoted term into an expression.
func Expr(t hvm.Term) (syntax.Expr, error) {
	switch t := t.(type) {
	case *hvm.Var:
		return &syntax.Var{Range: span.Ghost, Name: syntax.NewIdent(t.Name)}, nil
	case *hvm.Ctr:
		return ctrExpr(t)
	case nil:
		return nil, decodeErrorf("", "missing term")
	default:
		return nil, decodeErrorf("", "unexpected %s where an expression was expected", t)
	}
}

func ctrExpr(c *hvm.Ctr) (syntax.Expr, error) {
	if tag, ok := encodedTags[c.Name]; ok {
		return node(tag, c)
	}
	if s := strings.TrimPrefix(c.Name, answerPrefix); s != c.Name {
		switch s {
		case "ctr", "fun":
			return listCall(s == "ctr", c)
		}
		if tag, ok := answerTags[s]; ok {
			return node(tag, c)
		}
		return nil, decodeErrorf(c.Name, "unknown tag")
	}

	if c.Name == compiler.SetOrigin {
		return origin(c)
	}
	if n, ok := arity(c.Name, compiler.CtrPrefix); ok {
		return spineCall(true, n, c)
	}
	if n, ok := arity(c.Name, compiler.FunPrefix); ok {
		return spineCall(false, n, c)
	}
	if strings.HasPrefix(c.Name, compiler.ApplyPrefix) {
		return applyCall(c)
	}
	return nil, decodeErrorf(c.Name, "unknown tag")
}

func node(tag compiler.Tag, c *hvm.Ctr) (syntax.Expr, error) {
	switch tag {
	case compiler.TagVar:
		// Pattern variables carry their position as a third field.
		if len(c.Args) != 2 && len(c.Args) != 3 {
			return nil, arityError(c, 2)
		}
	default:
		if len(c.Args) != shapes[tag] {
			return nil, arityError(c, shapes[tag])
		}
	}

	r, err := rangeArg(c, 0)
	if err != nil {
		return nil, err
	}

	switch tag {
	case compiler.TagTyp:
		return &syntax.Typ{Range: r}, nil
	case compiler.TagU60:
		return &syntax.U60Type{Range: r}, nil
	case compiler.TagF60:
		return &syntax.F60Type{Range: r}, nil
	case compiler.TagHlp:
		return &syntax.Hlp{Range: r, Name: syntax.NewIdent("")}, nil
	case compiler.TagVar:
		name, err := nameArg(c, 1)
		if err != nil {
			return nil, err
		}
		return &syntax.Var{Range: r, Name: syntax.Ident{Name: name, Range: r}}, nil
	case compiler.TagAll:
		typ, err := Expr(c.Args[2])
		if err != nil {
			return nil, err
		}
		param, body, err := binder(c, 1, 3)
		if err != nil {
			return nil, err
		}
		return &syntax.All{Range: r, Param: param, Type: typ, Body: body}, nil
	case compiler.TagLambda:
		param, body, err := binder(c, 1, 2)
		if err != nil {
			return nil, err
		}
		return &syntax.Lambda{Range: r, Param: param, Body: body}, nil
	case compiler.TagApp:
		fun, err := Expr(c.Args[1])
		if err != nil {
			return nil, err
		}
		arg, err := Expr(c.Args[2])
		if err != nil {
			return nil, err
		}
		return &syntax.App{Range: r, Fun: fun, Args: []syntax.AppBinding{{Data: arg}}}, nil
	case compiler.TagLet:
		val, err := Expr(c.Args[2])
		if err != nil {
			return nil, err
		}
		name, next, err := binder(c, 1, 3)
		if err != nil {
			return nil, err
		}
		return &syntax.Let{Range: r, Name: name, Val: val, Next: next}, nil
	case compiler.TagAnn:
		x, err := Expr(c.Args[1])
		if err != nil {
			return nil, err
		}
		typ, err := Expr(c.Args[2])
		if err != nil {
			return nil, err
		}
		return &syntax.Ann{Range: r, Expr: x, Type: typ}, nil
	case compiler.TagSub:
		name, err := nameArg(c, 1)
		if err != nil {
			return nil, err
		}
		indx, err := numArg(c, 2)
		if err != nil {
			return nil, err
		}
		redx, err := numArg(c, 3)
		if err != nil {
			return nil, err
		}
		x, err := Expr(c.Args[4])
		if err != nil {
			return nil, err
		}
		return &syntax.Sub{Range: r, Name: syntax.NewIdent(name), Indx: indx, Redx: redx, Expr: x}, nil
	case compiler.TagNumU60:
		n, err := numArg(c, 1)
		if err != nil {
			return nil, err
		}
		return &syntax.NumU60{Range: r, Value: n}, nil
	case compiler.TagNumF60:
		f, ok := c.Args[1].(hvm.F60)
		if !ok {
			return nil, decodeErrorf(c.Name, "expected a float, got %s", c.Args[1])
		}
		return &syntax.NumF60{Range: r, Value: f.Float()}, nil
	case compiler.TagBinary:
		op, err := operator(c)
		if err != nil {
			return nil, err
		}
		left, err := Expr(c.Args[2])
		if err != nil {
			return nil, err
		}
		right, err := Expr(c.Args[3])
		if err != nil {
			return nil, err
		}
		return &syntax.Binary{Range: r, Op: op, Left: left, Right: right}, nil
	case compiler.TagHole:
		n, err := numArg(c, 1)
		if err != nil {
			return nil, err
		}
		return &syntax.Hole{Range: r, Num: n}, nil
	}
	return nil, decodeErrorf(c.Name, "unknown tag")
}

// shapes is the field count of each node kind.
var shapes = map[compiler.Tag]int{
	compiler.TagTyp:    1,
	compiler.TagU60:    1,
	compiler.TagF60:    1,
	compiler.TagHlp:    1,
	compiler.TagAll:    4,
	compiler.TagLambda: 3,
	compiler.TagApp:    3,
	compiler.TagLet:    4,
	compiler.TagAnn:    3,
	compiler.TagSub:    5,
	compiler.TagNumU60: 2,
	compiler.TagNumF60: 2,
	compiler.TagBinary: 4,
	compiler.TagHole:   2,
}

// binder decodes a binding form. Encoded terms hold the body as a lambda
// whose parameter is the binder; answers hold the instantiated body and
// only the packed name.
func binder(c *hvm.Ctr, nameAt, bodyAt int) (syntax.Ident, syntax.Expr, error) {
	if lam, ok := c.Args[bodyAt].(*hvm.Lam); ok {
		body, err := Expr(lam.Body)
		return syntax.NewIdent(lam.Name), body, err
	}
	name, err := nameArg(c, nameAt)
	if err != nil {
		return syntax.Ident{}, nil, err
	}
	body, err := Expr(c.Args[bodyAt])
	return syntax.NewIdent(name), body, err
}

func origin(c *hvm.Ctr) (syntax.Expr, error) {
	if len(c.Args) != 2 {
		return nil, arityError(c, 2)
	}
	r, err := rangeArg(c, 0)
	if err != nil {
		return nil, err
	}
	v, ok := c.Args[1].(*hvm.Var)
	if !ok {
		return Expr(c.Args[1])
	}
	return &syntax.Var{Range: r, Name: syntax.Ident{Name: v.Name, Range: r}}, nil
}

// spineCall decodes ct{N} and fn{N}: name, range, then N arguments, the
// tail possibly packed into args constructors.
func spineCall(isCtr bool, n int, c *hvm.Ctr) (syntax.Expr, error) {
	spine, err := unlift(c)
	if err != nil {
		return nil, err
	}
	if len(spine) != n+2 {
		return nil, decodeErrorf(c.Name, "expected %d arguments, got %d", n, len(spine)-2)
	}
	return call(isCtr, c.Name, spine[0], spine[1], spine[2:])
}

// applyCall decodes the evaluated form of a call, F$name orig args...
func applyCall(c *hvm.Ctr) (syntax.Expr, error) {
	spine, err := unlift(c)
	if err != nil {
		return nil, err
	}
	if len(spine) < 1 {
		return nil, decodeErrorf(c.Name, "missing range")
	}
	name := strings.TrimPrefix(c.Name, compiler.ApplyPrefix)
	return call(false, c.Name, hvm.NewCtr(compiler.CtrName(name)), spine[0], spine[1:])
}

func listCall(isCtr bool, c *hvm.Ctr) (syntax.Expr, error) {
	if len(c.Args) != 3 {
		return nil, arityError(c, 3)
	}
	args, err := List(c.Args[2])
	if err != nil {
		return nil, err
	}
	return call(isCtr, c.Name, c.Args[0], c.Args[1], args)
}

func call(isCtr bool, tag string, nameTerm, rangeTerm hvm.Term, argTerms []hvm.Term) (syntax.Expr, error) {
	name, err := qualified(tag, nameTerm)
	if err != nil {
		return nil, err
	}
	n, ok := rangeTerm.(hvm.U60)
	if !ok {
		return nil, decodeErrorf(tag, "expected a range, got %s", rangeTerm)
	}
	r := span.Decode(uint64(n))

	args := make([]syntax.Expr, len(argTerms))
	for i, a := range argTerms {
		if args[i], err = Expr(a); err != nil {
			return nil, err
		}
	}
	id := syntax.NewIdent(name)
	if isCtr {
		return &syntax.Ctr{Range: r, Name: id, Args: args}, nil
	}
	return &syntax.Fun{Range: r, Name: id, Args: args}, nil
}

// unlift returns the spine of c with overflow arguments unpacked.
func unlift(c *hvm.Ctr) ([]hvm.Term, error) {
	if len(c.Args) != 3 {
		return c.Args, nil
	}
	packed, ok := c.Args[2].(*hvm.Ctr)
	if !ok {
		return c.Args, nil
	}
	k, ok := arity(packed.Name, compiler.ArgsPrefix)
	if !ok {
		return c.Args, nil
	}
	rest, err := unpack(packed, k)
	if err != nil {
		return nil, err
	}
	return append(append([]hvm.Term{}, c.Args[:2]...), rest...), nil
}

func unpack(c *hvm.Ctr, k int) ([]hvm.Term, error) {
	if c.Name != compiler.ArgsTag(k) {
		return nil, decodeErrorf(c.Name, "expected %s", compiler.ArgsTag(k))
	}
	if k <= hvm.MaxArity {
		if len(c.Args) != k {
			return nil, arityError(c, k)
		}
		return c.Args, nil
	}
	if len(c.Args) != hvm.MaxArity {
		return nil, arityError(c, hvm.MaxArity)
	}
	last, ok := c.Args[hvm.MaxArity-1].(*hvm.Ctr)
	if !ok {
		return nil, decodeErrorf(c.Name, "expected nested arguments, got %s", c.Args[hvm.MaxArity-1])
	}
	rest, err := unpack(last, k-(hvm.MaxArity-1))
	if err != nil {
		return nil, err
	}
	return append(append([]hvm.Term{}, c.Args[:hvm.MaxArity-1]...), rest...), nil
}

// arity parses names of the form prefix{N}.
func arity(name, prefix string) (int, bool) {
	s := strings.TrimPrefix(name, prefix)
	if s == name || s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func operator(c *hvm.Ctr) (syntax.Operator, error) {
	op, ok := c.Args[1].(*hvm.Ctr)
	if !ok || !strings.HasPrefix(op.Name, compiler.OperatorPrefix) {
		return 0, decodeErrorf(c.Name, "expected an operator, got %s", c.Args[1])
	}
	o, err := syntax.ParseOperator(strings.TrimPrefix(op.Name, compiler.OperatorPrefix))
	if err != nil {
		return 0, decodeErrorf(c.Name, "%v", err)
	}
	return o, nil
}

func rangeArg(c *hvm.Ctr, i int) (span.Range, error) {
	n, ok := c.Args[i].(hvm.U60)
	if !ok {
		return span.Range{}, decodeErrorf(c.Name, "expected a range, got %s", c.Args[i])
	}
	return span.Decode(uint64(n)), nil
}

func numArg(c *hvm.Ctr, i int) (uint64, error) {
	n, ok := c.Args[i].(hvm.U60)
	if !ok {
		return 0, decodeErrorf(c.Name, "expected a number, got %s", c.Args[i])
	}
	return uint64(n), nil
}

// nameArg reads a binder name, either packed into a number or spelled as a
// constructor.
func nameArg(c *hvm.Ctr, i int) (string, error) {
	switch n := c.Args[i].(type) {
	case hvm.U60:
		return syntax.DecodeName(uint64(n)), nil
	case *hvm.Ctr:
		return strings.TrimSuffix(n.Name, "."), nil
	}
	return "", decodeErrorf(c.Name, "expected a name, got %s", c.Args[i])
}

func qualified(tag string, t hvm.Term) (string, error) {
	switch n := t.(type) {
	case hvm.U60:
		return syntax.DecodeName(uint64(n)), nil
	case *hvm.Ctr:
		if !strings.HasSuffix(n.Name, ".") {
			return "", decodeErrorf(tag, "expected a name constructor, got %s", n)
		}
		return strings.TrimSuffix(n.Name, "."), nil
	}
	return "", decodeErrorf(tag, "expected a name, got %s", t)
}

func arityError(c *hvm.Ctr, want int) error {
	return decodeErrorf(c.Name, "expected %d arguments, got %d", want, len(c.Args))
}

// List flattens a List.cons chain ending in List.nil.
func List(t hvm.Term) ([]hvm.Term, error) {
	var items []hvm.Term
	for {
		c, ok := t.(*hvm.Ctr)
		if !ok {
			return nil, decodeErrorf("", "expected a list, got %v", t)
		}
		switch c.Name {
		case compiler.ListNil:
			return items, nil
		case compiler.ListCons:
			if len(c.Args) != 2 {
				return nil, arityError(c, 2)
			}
			items = append(items, c.Args[0])
			t = c.Args[1]
		default:
			return nil, decodeErrorf(c.Name, "unexpected constructor in list")
		}
	}
}
