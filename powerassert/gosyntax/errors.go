package gosyntax

import "errors"

var (
	// ErrSyntax is returned for source that is not a Go expression.
	ErrSyntax = errors.New("invalid Go expression")
	// ErrUnsupportedSyntax is returned for valid Go that has no predicate form.
	ErrUnsupportedSyntax = errors.New("unsupported syntax")
	// ErrUnknownIdentifier is returned for a name that is not in the scope.
	ErrUnknownIdentifier = errors.New("unknown identifier")
	// ErrInvalidExpression is returned when an expression does not type-check,
	// such as a call with the wrong number of arguments.
	ErrInvalidExpression = errors.New("invalid expression")
)
