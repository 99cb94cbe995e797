// Package gosyntax parses a Go boolean expression into a predicate tree.
//
// Identifiers are resolved against a Scope that the caller fills with variables,
// functions and types:
//
//	scope := gosyntax.NewScope().
//	    Var("balance", &balance).
//	    Func("limitFor", limitFor)
//
//	pred, err := gosyntax.Parse("balance <= limitFor(tier)", scope)
//
// The accepted language is the Go expression grammar minus function literals,
// slicing, dereference and channel operations. A type assertion x.(T) reads as
// a test of the dynamic type of x.
package gosyntax
