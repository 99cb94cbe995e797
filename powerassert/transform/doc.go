// Package transform turns an expression tree into a display tree annotated with
// the value of every subexpression.
//
// Each subexpression is evaluated on its own through an Evaluator. A failure is
// shown as a marker on that node only:
//
//	panicked: runtime error: index out of range [3] with length 2
//	failed: account not found
//
// When a node evaluates to false, the hint engine is asked for an explanation and
// its suffix is appended to the value text.
package transform
