package transform

import (
	"errors"
	"fmt"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
)

// ErrUnsupportedExpression is matched by every *UnsupportedError.
var ErrUnsupportedExpression = errors.New("unsupported expression")

// UnsupportedError reports an expression node that has no display form.
type UnsupportedError struct {
	// Type is the Go type of the node.
	Type string
	Kind expr.Kind
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %s (kind %s)", ErrUnsupportedExpression, e.Type, e.Kind)
}

// Unwrap returns ErrUnsupportedExpression.
func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupportedExpression
}

func unsupported(e expr.Expr) *UnsupportedError {
	if e == nil {
		return &UnsupportedError{Type: "<nil>"}
	}

	return &UnsupportedError{Type: fmt.Sprintf("%T", e), Kind: e.Kind()}
}
