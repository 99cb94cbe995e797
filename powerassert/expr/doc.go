// Package expr models a boolean predicate as a tree of typed nodes that can be
// printed, inspected and evaluated one subexpression at a time.
//
// Go has no compiler-supplied expression trees, so callers either build a tree with
// the constructors in this package or parse Go source with package gosyntax:
//
//	count := 3
//	pred := expr.Lambda("count == 4",
//	    expr.Equal(expr.Local("count", &count), expr.Constant(4)))
//
// Local variables are captured by pointer and marked, so a diagnostic can show the
// variable name next to the value it holds when the predicate is evaluated.
//
// Compile turns any node into a Thunk that evaluates only that node. Panics raised by
// user code become *runtime.PanicError and returned errors become *EvalError; neither
// escapes as a panic. Nothing is cached: each call runs the subexpression again.
package expr
