package hint

import (
	"math"
	"reflect"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
	"github.com/shopspring/decimal"
)

// Relative tolerance under which two unequal floats are reported as a rounding
// artefact, by precision.
const (
	float64Tolerance = 1e-9
	float32Tolerance = 1e-6
)

func detectFloatEquality(env Env, e expr.Expr) (string, bool) {
	_, left, right, ok := equality(env, e)
	if !ok {
		return "", false
	}

	a, aBits, okA := floatValue(left)
	b, bBits, okB := floatValue(right)

	if !okA || !okB || (aBits == 0 && bBits == 0) {
		return "", false
	}

	if math.IsNaN(a) || math.IsNaN(b) {
		return ", NaN is not equal to anything, including itself; use math.IsNaN", true
	}

	if a == b || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return "", false
	}

	tolerance := float64Tolerance
	if aBits == 32 || bBits == 32 {
		tolerance = float32Tolerance
	}

	if math.Abs(a-b) > tolerance*math.Max(math.Abs(a), math.Abs(b)) {
		return "", false
	}

	diff := toDecimal(a, aBits).Sub(toDecimal(b, bBits)).Abs()

	return ", floats differ by " + diff.String() + "; compare within a tolerance", true
}

// floatValue returns v as a float64 with the bit size of its float type, or 0 for
// an integer.
func floatValue(v any) (f float64, bits int, ok bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return 0, 0, false
	}

	switch rv.Kind() {
	case reflect.Float32:
		return rv.Float(), 32, true
	case reflect.Float64:
		return rv.Float(), 64, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), 0, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), 0, true
	default:
		return 0, 0, false
	}
}

func toDecimal(f float64, bits int) decimal.Decimal {
	if bits == 32 {
		return decimal.NewFromFloat32(float32(f))
	}

	return decimal.NewFromFloat(f)
}
