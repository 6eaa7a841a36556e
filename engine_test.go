package kindcore_test

import (
	"context"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ezachrisen/kindcore"
	"github.com/ezachrisen/kindcore/cel"
	"github.com/ezachrisen/kindcore/compiler"
	"github.com/ezachrisen/kindcore/report"
	"github.com/ezachrisen/kindcore/syntax"
)

func TestCheck(t *testing.T) {
	is := is.New(t)

	m := newMockEvaluator(answerOf(mismatch, inspection))
	e := kindcore.NewEngine(m)

	res, err := e.Check(context.Background(), makeBook())
	is.NoErr(err)
	is.True(!res.OK())
	is.Equal(res.File, m.lastFile())
	is.Equal(len(res.DecodeErrors), 0)

	is.Equal(len(res.Diagnostics), 2)
	is.Equal(res.Diagnostics[0].Kind, report.TypeMismatch)
	is.Equal(res.Diagnostics[0].Range, mismatchRange)
	is.Equal(res.Diagnostics[0].Message(), "type mismatch: expected U60, detected Nat")
	is.Equal(res.Diagnostics[1].Kind, report.Inspection)

	// Every entry is checked by default
	fns := res.File.Find(compiler.Functions)
	is.Equal(len(fns), 1)
	is.Equal(fns[0].RHS.String(), "(List.cons (Nat.) (List.cons (Nat.add.) (List.cons (Nat.succ.) (List.cons (Nat.zero.) (List.nil)))))")
}

func TestCheckClean(t *testing.T) {
	is := is.New(t)

	res, err := kindcore.NewEngine(newMockEvaluator("(List.nil)")).Check(context.Background(), makeBook())
	is.NoErr(err)
	is.True(res.OK())
	is.Equal(len(res.Diagnostics), 0)
}

func TestFunctionSelection(t *testing.T) {
	sel, err := cel.NewSelector(`rules > 0`)
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]struct {
		opts []kindcore.EngineOption
		want string
	}{
		"explicit": {
			opts: []kindcore.EngineOption{kindcore.WithFunctions([]string{"Nat.succ"})},
			want: "(List.cons (Nat.succ.) (List.nil))",
		},
		"empty": {
			opts: []kindcore.EngineOption{kindcore.WithFunctions([]string{})},
			want: "(List.nil)",
		},
		"selector": {
			opts: []kindcore.EngineOption{kindcore.WithSelector(sel)},
			want: "(List.cons (Nat.add.) (List.nil))",
		},
		"explicit wins": {
			opts: []kindcore.EngineOption{kindcore.WithSelector(sel), kindcore.WithFunctions([]string{"Nat"})},
			want: "(List.cons (Nat.) (List.nil))",
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			f, err := kindcore.NewEngine(nil, c.opts...).Compile(makeBook())
			is.NoErr(err)
			fns := f.Find(compiler.Functions)
			is.Equal(len(fns), 1)
			is.Equal(fns[0].RHS.String(), c.want)
		})
	}
}

func TestCompileCoverage(t *testing.T) {
	is := is.New(t)

	f, err := kindcore.NewEngine(nil).Compile(makeBook())
	is.NoErr(err)
	for _, r := range f.Find(compiler.CoverCheck) {
		is.Equal(r.String(), "(Kind.Axiom.CoverCheck _) = (Bool.false)")
	}

	f, err = kindcore.NewEngine(nil, kindcore.WithCoverage(true)).Compile(makeBook())
	is.NoErr(err)
	is.Equal(f.Find(compiler.CoverCheck)[0].String(), "(Kind.Axiom.CoverCheck (Nat.add.)) = (Bool.true)")
}

func TestCompileErrors(t *testing.T) {
	is := is.New(t)

	_, err := kindcore.NewEngine(nil).Compile(nil)
	is.True(err != nil)

	book := makeBook()
	book.Add(&syntax.Entry{Name: ident("Broken"), Type: &syntax.Err{}})
	_, err = kindcore.NewEngine(nil).Compile(book)
	is.True(errors.Is(err, compiler.ErrInvalidExpr))
	is.True(strings.Contains(err.Error(), "Broken"))
}

func TestCheckNoEvaluator(t *testing.T) {
	is := is.New(t)
	_, err := kindcore.NewEngine(nil).Check(context.Background(), makeBook())
	is.True(errors.Is(err, kindcore.ErrNoEvaluator))
}

func TestCheckEvaluatorError(t *testing.T) {
	is := is.New(t)

	m := newMockEvaluator("")
	m.err = errors.New("hvm crashed")

	_, err := kindcore.NewEngine(m).Check(context.Background(), makeBook())
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "evaluating checker"))
	is.True(strings.Contains(err.Error(), "hvm crashed"))
}

func TestCheckCancelled(t *testing.T) {
	is := is.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := kindcore.NewEngine(newMockEvaluator("(List.nil)")).Check(ctx, makeBook())
	is.True(errors.Is(err, context.Canceled))
}

func TestDecodeFailures(t *testing.T) {
	is := is.New(t)

	core, logs := observer.New(zapcore.ErrorLevel)
	m := newMockEvaluator(answerOf(inspection, bogus, mismatch))

	res, err := kindcore.NewEngine(m, kindcore.WithLogger(zap.New(core))).Check(context.Background(), makeBook())
	is.NoErr(err)
	is.Equal(len(res.Diagnostics), 2)
	is.Equal(len(res.DecodeErrors), 1)
	is.True(!res.OK())

	var de *report.DecodeError
	is.True(errors.As(res.DecodeErrors[0], &de))
	is.Equal(de.Tag, "Kind.Term.Quoted.bogus")

	is.Equal(logs.FilterMessage("undecodable diagnostic").Len(), 1)
}

func TestStrictDecoding(t *testing.T) {
	is := is.New(t)

	m := newMockEvaluator(answerOf(inspection, bogus))
	_, err := kindcore.NewEngine(m, kindcore.StrictDecoding(true)).Check(context.Background(), makeBook())
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "decoding answer"))

	// A clean answer passes in strict mode too
	m = newMockEvaluator(answerOf(inspection))
	res, err := kindcore.NewEngine(m, kindcore.StrictDecoding(true)).Check(context.Background(), makeBook())
	is.NoErr(err)
	is.Equal(len(res.Diagnostics), 1)
}

func TestMalformedAnswer(t *testing.T) {
	is := is.New(t)

	core, logs := observer.New(zapcore.ErrorLevel)
	m := newMockEvaluator("(Maybe.none)")

	_, err := kindcore.NewEngine(m, kindcore.WithLogger(zap.New(core))).Check(context.Background(), makeBook())
	is.True(errors.Is(err, report.ErrMalformedAnswer))
	is.Equal(logs.FilterMessage("malformed checker answer").Len(), 1)
}

func TestCompileLogging(t *testing.T) {
	is := is.New(t)

	core, logs := observer.New(zapcore.DebugLevel)
	_, err := kindcore.NewEngine(nil, kindcore.WithLogger(zap.New(core))).Compile(makeBook())
	is.NoErr(err)

	entries := logs.FilterMessage("compiled book").All()
	is.Equal(len(entries), 1)
	is.Equal(entries[0].ContextMap()["entries"], int64(4))
	is.Equal(entries[0].ContextMap()["functions"], int64(4))
}

func TestWithNilLogger(t *testing.T) {
	is := is.New(t)
	_, err := kindcore.NewEngine(nil, kindcore.WithLogger(nil)).Compile(makeBook())
	is.NoErr(err)
}

func TestDecode(t *testing.T) {
	is := is.New(t)

	m := newMockEvaluator(answerOf(inspection))
	answer, err := m.Eval(context.Background(), nil)
	is.NoErr(err)

	res, err := kindcore.NewEngine(nil).Decode(answer)
	is.NoErr(err)
	is.Equal(res.File, nil)
	is.Equal(len(res.Diagnostics), 1)
}
