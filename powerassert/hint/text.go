package hint

import (
	"reflect"
	"strings"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func detectStringEquality(env Env, e expr.Expr) (string, bool) {
	_, left, right, ok := equality(env, e)
	if !ok {
		return "", false
	}

	a, okA := stringValue(left)
	b, okB := stringValue(right)

	if !okA || !okB || a == b {
		return "", false
	}

	// A Caser holds state and is not shared.
	fold := cases.Fold()

	switch {
	case fold.String(a) == fold.String(b):
		return ", strings differ only in case", true
	case norm.NFC.String(a) == norm.NFC.String(b):
		return ", strings differ only in unicode normalization", true
	case lineEndings.Replace(a) == lineEndings.Replace(b):
		return ", strings differ only in line endings", true
	case strings.TrimSpace(a) == strings.TrimSpace(b):
		return ", strings differ only in leading or trailing whitespace", true
	}

	return "", false
}

func stringValue(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.String {
		return "", false
	}

	return rv.String(), true
}
