package hint

import (
	"reflect"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
)

var errorType = reflect.TypeFor[error]()

func detectFuncNotCalled(env Env, e expr.Expr) (string, bool) {
	b, left, right, ok := equality(env, e)
	if !ok {
		return "", false
	}

	if hint, ok := uncalled(env, b.Left, left, right); ok {
		return hint, true
	}

	return uncalled(env, b.Right, right, left)
}

func uncalled(env Env, side expr.Expr, value, other any) (string, bool) {
	fn := reflect.ValueOf(value)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return "", false
	}

	if o := reflect.ValueOf(other); o.IsValid() && o.Kind() == reflect.Func {
		return "", false
	}

	t := fn.Type()
	if t.NumIn() != 0 || t.NumOut() == 0 || t.NumOut() > 2 {
		return "", false
	}

	if t.NumOut() == 2 && t.Out(1) != errorType {
		return "", false
	}

	out := fn.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return "", false
	}

	result := out[0].Interface()
	if !reflect.DeepEqual(result, other) && !convertedEqual(result, other) {
		return "", false
	}

	return ", " + expr.Print(side) + " is a func; calling it returns " + env.Format.Value(result), true
}
