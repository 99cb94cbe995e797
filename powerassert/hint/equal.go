package hint

import (
	"reflect"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
)

func detectBrokenEquality(env Env, e expr.Expr) (string, bool) {
	c, ok := e.(*expr.CallExpr)
	if !ok || c.Name != "Equal" || c.Recv == nil || len(c.Args) != 1 {
		return "", false
	}

	if t := c.Type(); t == nil || t.Kind() != reflect.Bool {
		return "", false
	}

	if expr.Print(c.Recv) == expr.Print(c.Args[0]) {
		return ", Equal returned false comparing a value with itself", true
	}

	recv, err := env.Eval.Evaluate(c.Recv)
	if err != nil {
		return "", false
	}

	arg, err := env.Eval.Evaluate(c.Args[0])
	if err != nil {
		return "", false
	}

	if reflect.DeepEqual(recv, arg) {
		return ", Equal returned false for deeply equal values", true
	}

	return "", false
}
