package hint

import (
	"fmt"
	"reflect"
	"time"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
)

var durationType = reflect.TypeFor[time.Duration]()

// unitMethods are the time.Duration accessors that return a count of one unit.
var unitMethods = map[string]struct{}{
	"Hours":        {},
	"Minutes":      {},
	"Seconds":      {},
	"Milliseconds": {},
	"Microseconds": {},
	"Nanoseconds":  {},
}

// units are checked largest first.
var units = []struct {
	name string
	size time.Duration
}{
	{"time.Hour", time.Hour},
	{"time.Minute", time.Minute},
	{"time.Second", time.Second},
	{"time.Millisecond", time.Millisecond},
	{"time.Microsecond", time.Microsecond},
}

func detectDurationUnits(env Env, e expr.Expr) (string, bool) {
	b, ok := e.(*expr.BinaryExpr)
	if !ok || b.Op != expr.KindEqual {
		return "", false
	}

	if l, r, ok := unitCalls(b); ok {
		if l == r {
			return "", false
		}

		return fmt.Sprintf(", %s() and %s() count different units", l, r), true
	}

	if hint, ok := bareNumber(env, b.Left, b.Right); ok {
		return hint, true
	}

	return bareNumber(env, b.Right, b.Left)
}

func unitCalls(b *expr.BinaryExpr) (left, right string, ok bool) {
	l, okL := unitCall(b.Left)
	r, okR := unitCall(b.Right)

	return l, r, okL && okR
}

func unitCall(e expr.Expr) (string, bool) {
	c, ok := e.(*expr.CallExpr)
	if !ok || c.Recv == nil || c.Recv.Type() != durationType {
		return "", false
	}

	_, ok = unitMethods[c.Name]

	return c.Name, ok
}

// bareNumber matches a duration compared with a plain number n that equals the
// duration counted in a unit larger than a nanosecond.
func bareNumber(env Env, durationSide, numberSide expr.Expr) (string, bool) {
	if durationSide.Type() != durationType || numberSide.Type() == durationType || !isNumeric(numberSide.Type()) {
		return "", false
	}

	dv, err := env.Eval.Evaluate(durationSide)
	if err != nil {
		return "", false
	}

	d, ok := dv.(time.Duration)
	if !ok || d == 0 {
		return "", false
	}

	nv, err := env.Eval.Evaluate(numberSide)
	if err != nil {
		return "", false
	}

	n, ok := integer(nv)
	if !ok {
		return "", false
	}

	for _, u := range units {
		if d%u.size == 0 && int64(d/u.size) == n {
			return fmt.Sprintf(", time.Duration counts nanoseconds; %s is %d * %s", d, n, u.name), true
		}
	}

	return "", false
}

func integer(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return 0, false
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != float64(int64(f)) {
			return 0, false
		}

		return int64(f), true
	default:
		return 0, false
	}
}
