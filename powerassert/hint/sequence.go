package hint

import (
	"reflect"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
)

// equalFuncs lists the package functions that compare two sequences.
var equalFuncs = map[string]string{
	"reflect": "DeepEqual",
	"slices":  "Equal",
	"bytes":   "Equal",
}

func detectSequenceOrder(env Env, e expr.Expr) (string, bool) {
	left, right, ok := sequenceOperands(e)
	if !ok {
		return "", false
	}

	l, err := env.Eval.Evaluate(left)
	if err != nil {
		return "", false
	}

	r, err := env.Eval.Evaluate(right)
	if err != nil {
		return "", false
	}

	lv, rv := reflect.ValueOf(l), reflect.ValueOf(r)
	if !isSequence(lv) || !isSequence(rv) {
		return "", false
	}

	if lv.Kind() == reflect.Slice && rv.Kind() == reflect.Slice &&
		lv.Len() == 0 && rv.Len() == 0 && lv.IsNil() != rv.IsNil() {
		return ", a nil slice is not deeply equal to an empty slice", true
	}

	if lv.Len() != rv.Len() || lv.Len() < 2 {
		return "", false
	}

	if sameElements(lv, rv) {
		return ", same elements in a different order", true
	}

	return "", false
}

func sequenceOperands(e expr.Expr) (left, right expr.Expr, ok bool) {
	switch n := e.(type) {
	case *expr.CallExpr:
		if n.Recv != nil || len(n.Args) != 2 || equalFuncs[n.Pkg] != n.Name {
			return nil, nil, false
		}

		return n.Args[0], n.Args[1], true
	case *expr.BinaryExpr:
		t := n.Left.Type()
		if n.Op != expr.KindEqual || t == nil || t.Kind() != reflect.Array {
			return nil, nil, false
		}

		return n.Left, n.Right, true
	}

	return nil, nil, false
}

func isSequence(v reflect.Value) bool {
	return v.IsValid() && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array)
}

// sameElements reports whether a and b hold deeply equal elements with the same
// multiplicities.
func sameElements(a, b reflect.Value) bool {
	used := make([]bool, b.Len())

	for i := 0; i < a.Len(); i++ {
		found := false

		for j := 0; j < b.Len(); j++ {
			if used[j] || !reflect.DeepEqual(a.Index(i).Interface(), b.Index(j).Interface()) {
				continue
			}

			used[j] = true
			found = true

			break
		}

		if !found {
			return false
		}
	}

	return true
}
