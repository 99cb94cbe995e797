//go:build unit

package transform

import (
	"errors"
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

func (p point) Sum() int { return p.X + p.Y }

type box struct{ P point }

type suiteState struct{ Count int }

var errNotFound = errors.New("account not found")

func lookup(id int) (int, error) {
	if id != 1 {
		return 0, errNotFound
	}

	return 100, nil
}

var (
	intType    = reflect.TypeFor[int]()
	stringType = reflect.TypeFor[string]()
	pointType  = reflect.TypeFor[point]()
)

// recordingHints counts the expressions it is asked about.
type recordingHints struct {
	asked []string
	reply string
}

func (r *recordingHints) Find(e expr.Expr) (string, bool) {
	r.asked = append(r.asked, expr.Print(e))

	return r.reply, r.reply != ""
}
