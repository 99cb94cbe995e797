package hint

import (
	"reflect"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
)

func detectPointerEquality(env Env, e expr.Expr) (string, bool) {
	_, left, right, ok := equality(env, e)
	if !ok || left == nil || right == nil {
		return "", false
	}

	lv, rv := reflect.ValueOf(left), reflect.ValueOf(right)
	if lv.Type() != rv.Type() {
		return "", false
	}

	switch lv.Kind() {
	case reflect.Pointer:
		if lv.IsNil() || rv.IsNil() || lv.Pointer() == rv.Pointer() {
			return "", false
		}

		if reflect.DeepEqual(left, right) {
			return ", pointers differ but point to equal values", true
		}
	case reflect.Struct, reflect.Array:
		if reflect.DeepEqual(left, right) {
			return ", values are deeply equal but == compares their pointer fields by address", true
		}
	}

	return "", false
}
