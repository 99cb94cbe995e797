package hint

import (
	"reflect"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
	"github.com/LerianStudio/lib-powerassert/powerassert/format"
	"github.com/LerianStudio/lib-powerassert/powerassert/internal/nilcheck"
)

func detectDynamicType(env Env, e expr.Expr) (string, bool) {
	b, left, right, ok := equality(env, e)
	if !ok {
		return "", false
	}

	if hint, ok := typedNil(b.Left, left, right); ok {
		return hint, true
	}

	if hint, ok := typedNil(b.Right, right, left); ok {
		return hint, true
	}

	if !isInterface(b.Left.Type()) && !isInterface(b.Right.Type()) {
		return "", false
	}

	if !convertedEqual(left, right) {
		return "", false
	}

	return ", dynamic types differ: " + format.TypeName(reflect.TypeOf(left)) +
		" vs " + format.TypeName(reflect.TypeOf(right)), true
}

// typedNil matches an interface operand holding a nil pointer compared with nil.
func typedNil(side expr.Expr, value, other any) (string, bool) {
	if other != nil || !isInterface(side.Type()) || !nilcheck.TypedNil(value) {
		return "", false
	}

	t := reflect.TypeOf(value)

	name := format.TypeName(t)
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Func || t.Kind() == reflect.Chan {
		name = "(" + name + ")"
	}

	return ", " + expr.Print(side) + " holds " + name + "(nil), which is not a nil " +
		format.TypeName(side.Type()), true
}
