package transform

import (
	"errors"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
	"github.com/LerianStudio/lib-powerassert/powerassert/runtime"
)

// Evaluator evaluates a subexpression on its own and returns its value.
type Evaluator interface {
	Evaluate(e expr.Expr) (any, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(e expr.Expr) (any, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(e expr.Expr) (any, error) {
	return f(e)
}

// CompiledEvaluator compiles each subexpression and runs it. Nothing is cached, so a
// subexpression with side effects runs once per node that shows it.
type CompiledEvaluator struct{}

// Evaluate compiles and runs e.
func (CompiledEvaluator) Evaluate(e expr.Expr) (any, error) {
	return expr.Compile(e)()
}

// FailureText is the marker shown in place of a value that could not be computed.
func FailureText(err error) string {
	var pe *runtime.PanicError
	if errors.As(err, &pe) {
		return "panicked: " + pe.Message()
	}

	var ee *expr.EvalError
	if errors.As(err, &ee) && ee.Err != nil {
		return "failed: " + ee.Err.Error()
	}

	return "failed: " + err.Error()
}
