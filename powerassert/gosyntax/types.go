package gosyntax

import (
	"fmt"
	"go/ast"
	"reflect"
)

var builtinTypes = map[string]reflect.Type{
	"bool":       reflect.TypeFor[bool](),
	"string":     reflect.TypeFor[string](),
	"int":        reflect.TypeFor[int](),
	"int8":       reflect.TypeFor[int8](),
	"int16":      reflect.TypeFor[int16](),
	"int32":      reflect.TypeFor[int32](),
	"int64":      reflect.TypeFor[int64](),
	"uint":       reflect.TypeFor[uint](),
	"uint8":      reflect.TypeFor[uint8](),
	"uint16":     reflect.TypeFor[uint16](),
	"uint32":     reflect.TypeFor[uint32](),
	"uint64":     reflect.TypeFor[uint64](),
	"uintptr":    reflect.TypeFor[uintptr](),
	"float32":    reflect.TypeFor[float32](),
	"float64":    reflect.TypeFor[float64](),
	"complex64":  reflect.TypeFor[complex64](),
	"complex128": reflect.TypeFor[complex128](),
	"byte":       reflect.TypeFor[byte](),
	"rune":       reflect.TypeFor[rune](),
	"any":        reflect.TypeFor[any](),
	"error":      reflect.TypeFor[error](),
}

// typ resolves a type expression.
func (b *builder) typ(n ast.Expr) (reflect.Type, error) {
	switch n := n.(type) {
	case *ast.ParenExpr:
		return b.typ(n.X)
	case *ast.Ident:
		if t, ok := b.scope.types[n.Name]; ok {
			return t, nil
		}

		if _, shadowed := b.scope.values[n.Name]; shadowed {
			return nil, errNotType
		}

		if t, ok := builtinTypes[n.Name]; ok {
			return t, nil
		}
	case *ast.SelectorExpr:
		if name, ok := b.qualified(n); ok {
			if t, ok := b.scope.types[name]; ok {
				return t, nil
			}
		}
	case *ast.StarExpr:
		elem, err := b.typ(n.X)
		if err != nil {
			return nil, err
		}

		return reflect.PointerTo(elem), nil
	case *ast.ArrayType:
		elem, err := b.typ(n.Elt)
		if err != nil {
			return nil, err
		}

		if n.Len == nil {
			return reflect.SliceOf(elem), nil
		}

		return nil, unsupported(n, "array type")
	case *ast.MapType:
		key, err := b.typ(n.Key)
		if err != nil {
			return nil, err
		}

		value, err := b.typ(n.Value)
		if err != nil {
			return nil, err
		}

		return reflect.MapOf(key, value), nil
	case *ast.InterfaceType:
		if n.Methods == nil || len(n.Methods.List) == 0 {
			return builtinTypes["any"], nil
		}

		return nil, unsupported(n, "interface type literal")
	}

	return nil, errNotType
}

// errNotType is internal: callers try a type first and fall back to a value.
var errNotType = fmt.Errorf("%w: not a type", ErrUnknownIdentifier)
