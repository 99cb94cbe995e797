package hint

import (
	"reflect"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
)

// equality matches a == b and evaluates both sides.
func equality(env Env, e expr.Expr) (b *expr.BinaryExpr, left, right any, ok bool) {
	b, ok = e.(*expr.BinaryExpr)
	if !ok || b.Op != expr.KindEqual {
		return nil, nil, nil, false
	}

	left, err := env.Eval.Evaluate(b.Left)
	if err != nil {
		return nil, nil, nil, false
	}

	right, err = env.Eval.Evaluate(b.Right)
	if err != nil {
		return nil, nil, nil, false
	}

	return b, left, right, true
}

// convertedEqual reports whether a and b hold basic values of different types that
// compare equal once each is converted to the other's type.
func convertedEqual(a, b any) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if !av.IsValid() || !bv.IsValid() || av.Type() == bv.Type() {
		return false
	}

	if !isBasic(av.Kind()) || !isBasic(bv.Kind()) {
		return false
	}

	if !av.Type().ConvertibleTo(bv.Type()) || !bv.Type().ConvertibleTo(av.Type()) {
		return false
	}

	// string(rune) conversions are not value-preserving.
	if (av.Kind() == reflect.String) != (bv.Kind() == reflect.String) {
		return false
	}

	return av.Convert(bv.Type()).Interface() == b && bv.Convert(av.Type()).Interface() == a
}

func isBasic(k reflect.Kind) bool {
	return k >= reflect.Bool && k <= reflect.Complex128 || k == reflect.String
}

func isNumeric(t reflect.Type) bool {
	if t == nil {
		return false
	}

	return t.Kind() >= reflect.Int && t.Kind() <= reflect.Float64
}

func isInterface(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface
}
