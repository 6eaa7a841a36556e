package kindcore

import (
	"context"

	"github.com/ezachrisen/kindcore/hvm"
)

// Evaluator is the interface implemented by types that can run a checker
// program. The evaluator links the program with the checker prelude, reduces
// the check entry point and returns the answer, a list of diagnostics.
type Evaluator interface {
	// Eval runs the program. Implementations must stop and return
	// ctx.Err() when the context is cancelled.
	Eval(ctx context.Context, file *hvm.File) (hvm.Term, error)
}

// EvaluatorFunc adapts an ordinary function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, file *hvm.File) (hvm.Term, error)

// Eval calls f(ctx, file).
func (f EvaluatorFunc) Eval(ctx context.Context, file *hvm.File) (hvm.Term, error) {
	return f(ctx, file)
}
