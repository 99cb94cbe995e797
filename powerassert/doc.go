// Package powerassert explains failed boolean predicates.
//
// A predicate is an expression tree (see package expr) or Go source parsed
// against a scope (see package gosyntax). When it evaluates to false, every
// subexpression is evaluated again and its value is drawn under the token it
// belongs to:
//
//	IsTrue failed, expression was:
//
//	x == 2
//	| |
//	1 false
//
// A false equality may carry a hint naming the likely cause, such as an enum
// value erased by a numeric conversion or two strings that differ only in case.
//
// Test code uses IsTrue and Check. Production code uses an Asserter, which
// returns an *AssertionError and emits a log entry, a span event and a metric
// for every failure.
package powerassert
