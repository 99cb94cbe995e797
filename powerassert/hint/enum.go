package hint

import (
	"reflect"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
	"github.com/LerianStudio/lib-powerassert/powerassert/format"
)

// detectEnumErasure matches int(a) == b where a is an enum. The numeric
// conversion hides the member names, so both sides are shown as members of the
// enum type again.
func detectEnumErasure(env Env, e expr.Expr) (string, bool) {
	b, ok := e.(*expr.BinaryExpr)
	if !ok || b.Op != expr.KindEqual {
		return "", false
	}

	left := erasure(b.Left)
	right := erasure(b.Right)

	var enumType reflect.Type

	switch {
	case left != nil:
		enumType = left.Operand.Type()
	case right != nil:
		enumType = right.Operand.Type()
	default:
		return "", false
	}

	l, ok := recoverEnum(env, b.Left, left, enumType)
	if !ok {
		return "", false
	}

	r, ok := recoverEnum(env, b.Right, right, enumType)
	if !ok {
		return "", false
	}

	return ", " + format.EnumText(l) + " != " + format.EnumText(r), true
}

// erasure returns side when it is a numeric conversion of an enum value.
func erasure(side expr.Expr) *expr.UnaryExpr {
	u, ok := side.(*expr.UnaryExpr)
	if !ok || u.Op != expr.KindConvert || u.Operand == nil || !isNumeric(u.Target) {
		return nil
	}

	if !format.IsEnum(u.Operand.Type()) {
		return nil
	}

	return u
}

// recoverEnum evaluates the enum operand of a conversion, or converts the raw
// value of side to enumType.
func recoverEnum(env Env, side expr.Expr, conv *expr.UnaryExpr, enumType reflect.Type) (any, bool) {
	if conv != nil {
		v, err := env.Eval.Evaluate(conv.Operand)
		if err != nil || v == nil {
			return nil, false
		}

		return v, true
	}

	v, err := env.Eval.Evaluate(side)
	if err != nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() || !isNumeric(rv.Type()) {
		return nil, false
	}

	// A value the enum type cannot hold exactly, like 2.5, names no member.
	ev := rv.Convert(enumType)
	if !ev.Convert(rv.Type()).Equal(rv) {
		return nil, false
	}

	return ev.Interface(), true
}
