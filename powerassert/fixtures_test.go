//go:build unit

package powerassert

import (
	"fmt"
	"reflect"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
	"github.com/LerianStudio/lib-powerassert/powerassert/format"
)

type EnumA int

const (
	Foo EnumA = 1
	Bar EnumA = 2
)

func init() {
	format.RegisterEnum(map[EnumA]string{Foo: "Foo", Bar: "Bar"})
}

type point struct{ X, Y int }

var intType = reflect.TypeFor[int]()

// recordingT collects what IsTrue and Check report.
type recordingT struct {
	helped int
	errors []string
}

func (r *recordingT) Helper() { r.helped++ }

func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

// xEquals2 returns the predicate x == 2 over a captured x.
func xEquals2(x int) *expr.LambdaExpr {
	return expr.Lambda("x == 2", expr.Equal(expr.Local("x", &x), expr.Constant(2)))
}

// erasedEnum compares an enum converted to int with the number of the other
// enum value.
func erasedEnum() *expr.LambdaExpr {
	two := 2

	return expr.Lambda("int(Foo) == two", expr.Equal(expr.Convert(expr.Constant(Foo), intType), expr.Local("two", &two)))
}

const xEquals2Diagram = "x == 2\n| |\n1 false"
