package kindcore

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ezachrisen/kindcore/compiler"
	"github.com/ezachrisen/kindcore/hvm"
	"github.com/ezachrisen/kindcore/syntax"
)

// Compile turns the book into the checker's rule file using the engine's
// coverage and function selection.
func (e *Engine) Compile(book *syntax.Book) (*hvm.File, error) {
	if book == nil {
		return nil, errors.New("compile called with nil book")
	}

	functions, err := e.functions(book)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	file, err := compiler.Compile(book,
		compiler.CheckCoverage(e.opts.Coverage),
		compiler.FunctionsToCheck(functions),
	)
	if err != nil {
		return nil, err
	}

	e.opts.Logger.Debug("compiled book",
		zap.Int("entries", len(book.Entries)),
		zap.Int("functions", len(functions)),
		zap.Int("rules", len(file.Rules)),
		zap.Bool("coverage", e.opts.Coverage),
		zap.Duration("elapsed", time.Since(start)),
	)
	return file, nil
}

// functions resolves the entries to check: the explicit list wins, then the
// selector, then every entry in the book.
func (e *Engine) functions(book *syntax.Book) ([]string, error) {
	switch {
	case e.opts.Functions != nil:
		return e.opts.Functions, nil
	case e.opts.Selector != nil:
		names, err := e.opts.Selector.Select(book)
		if err != nil {
			return nil, errors.Wrap(err, "selecting functions")
		}
		return names, nil
	default:
		return book.Names(), nil
	}
}
