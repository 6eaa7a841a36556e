package kindcore

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ezachrisen/kindcore/hvm"
	"github.com/ezachrisen/kindcore/report"
	"github.com/ezachrisen/kindcore/syntax"
)

// Engine drives a check: it compiles a book, hands the program to the
// Evaluator and decodes the answer. An Engine holds no mutable state after
// construction and may be shared between goroutines.
type Engine struct {

	// The Evaluator that will run the checker programs
	evaluator Evaluator

	// Options used by the engine during compilation and decoding
	opts EngineOptions
}

var ErrNoEvaluator = errors.New("engine has no evaluator")

// Initialize a new engine
func NewEngine(evaluator Evaluator, opts ...EngineOption) *Engine {
	engine := Engine{
		evaluator: evaluator,
		opts: EngineOptions{
			Logger: zap.NewNop(),
		},
	}
	applyEngineOptions(&engine.opts, opts...)
	return &engine
}

// Check compiles the book, evaluates the checker program and decodes the
// diagnostics it reports.
//
// Answer items that cannot be decoded are logged and collected in
// Result.DecodeErrors; the other diagnostics are still returned. With
// StrictDecoding, any such item fails the check. An answer that is not a
// list always fails the check.
func (e *Engine) Check(ctx context.Context, book *syntax.Book) (*Result, error) {
	if e.evaluator == nil {
		return nil, ErrNoEvaluator
	}

	file, err := e.Compile(book)
	if err != nil {
		return nil, err
	}

	answer, err := e.evaluator.Eval(ctx, file)
	if err != nil {
		return nil, errors.Wrap(err, "evaluating checker")
	}

	res, err := e.Decode(answer)
	if err != nil {
		return nil, err
	}
	res.File = file
	return res, nil
}

// Decode turns an evaluator answer into a Result without compiling or
// evaluating anything.
func (e *Engine) Decode(answer hvm.Term) (*Result, error) {
	diags, err := report.Diagnostics(answer)
	if errors.Is(err, report.ErrMalformedAnswer) {
		e.opts.Logger.Error("malformed checker answer", zap.Error(err))
		return nil, err
	}

	res := &Result{
		Answer:      answer,
		Diagnostics: diags,
	}

	// Decode failures mean the prelude and this package disagree on the
	// vocabulary. They are not diagnostics about the user's program.
	for _, de := range multierr.Errors(err) {
		e.opts.Logger.Error("undecodable diagnostic", zap.Error(de))
		res.DecodeErrors = append(res.DecodeErrors, de)
	}
	if err != nil && e.opts.StrictDecoding {
		return nil, errors.Wrap(err, "decoding answer")
	}

	e.opts.Logger.Debug("decoded answer",
		zap.Int("diagnostics", len(res.Diagnostics)),
		zap.Int("decode_errors", len(res.DecodeErrors)),
	)
	return res, nil
}

// Selector picks the entries of a book to check. See package cel for an
// implementation.
type Selector interface {
	Select(book *syntax.Book) ([]string, error)
}

// See the functional definitions below for the meaning.
type EngineOptions struct {
	Coverage       bool
	Functions      []string
	Selector       Selector
	StrictDecoding bool
	Logger         *zap.Logger
}

type EngineOption func(f *EngineOptions)

// Given an array of EngineOption functions, apply their effect
// on the EngineOptions struct.
func applyEngineOptions(o *EngineOptions, opts ...EngineOption) {
	for _, opt := range opts {
		opt(o)
	}
}

// Generate coverage obligations for functions defined by pattern matching.
// Default: off
func WithCoverage(b bool) EngineOption {
	return func(f *EngineOptions) {
		f.Coverage = b
	}
}

// Check only the named entries. The list is used as given; an empty,
// non-nil list checks nothing.
// Default: every entry in the book
func WithFunctions(names []string) EngineOption {
	return func(f *EngineOptions) {
		f.Functions = names
	}
}

// Check the entries the selector accepts. Ignored when WithFunctions is set.
func WithSelector(s Selector) EngineOption {
	return func(f *EngineOptions) {
		f.Selector = s
	}
}

// Fail the whole check if any diagnostic in the answer cannot be decoded.
// Default: off
func StrictDecoding(b bool) EngineOption {
	return func(f *EngineOptions) {
		f.StrictDecoding = b
	}
}

// Log through l. A nil logger disables logging.
// Default: no logging
func WithLogger(l *zap.Logger) EngineOption {
	return func(f *EngineOptions) {
		if l == nil {
			l = zap.NewNop()
		}
		f.Logger = l
	}
}
