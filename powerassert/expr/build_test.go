//go:build unit

package expr

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilders_StaticTypes(t *testing.T) {
	t.Parallel()

	acc := account{ID: "a"}
	accPtr := &acc
	m := map[string]float64{}
	var sh shape = square{Side: 2}
	var total int64 = 2

	tests := []struct {
		name string
		expr Expr
		kind Kind
		want reflect.Type
	}{
		{name: "constant", expr: Constant(3), kind: KindConstant, want: reflect.TypeFor[int]()},
		{name: "untyped nil", expr: Constant(nil), kind: KindConstant, want: nil},
		{name: "typed nil", expr: Nil(reflect.TypeFor[error]()), kind: KindConstant, want: reflect.TypeFor[error]()},
		{name: "local", expr: Local("acc", &acc), kind: KindMember, want: reflect.TypeFor[account]()},
		{name: "field through pointer", expr: Field(Local("accPtr", &accPtr), "Balance"), kind: KindMember, want: reflect.TypeFor[int]()},
		{name: "comparison", expr: Less(Constant(1), Constant(2)), kind: KindLess, want: reflect.TypeFor[bool]()},
		{name: "literal adapts to other side", expr: Binary(KindAdd, Constant(1), Local("total", &total)), kind: KindAdd, want: reflect.TypeFor[int64]()},
		{name: "two literals take the left type", expr: Binary(KindAdd, Constant(1), Constant(int64(2))), kind: KindAdd, want: reflect.TypeFor[int]()},
		{name: "index string", expr: Index(Constant("abc"), Constant(0)), kind: KindIndex, want: reflect.TypeFor[byte]()},
		{name: "map index", expr: MapIndex(Local("m", &m), Constant("k")), kind: KindMapIndex, want: reflect.TypeFor[float64]()},
		{name: "len", expr: Len(Constant("abc")), kind: KindLen, want: reflect.TypeFor[int]()},
		{name: "convert", expr: Convert(Constant(levelLow), reflect.TypeFor[int]()), kind: KindConvert, want: reflect.TypeFor[int]()},
		{name: "type check", expr: TypeIs(Local("sh", &sh), reflect.TypeFor[square]()), kind: KindTypeIs, want: reflect.TypeFor[bool]()},
		{name: "method on interface", expr: Method(Local("sh", &sh), "Area"), kind: KindCall, want: reflect.TypeFor[float64]()},
		{name: "pointer method on value", expr: Method(Local("acc", &acc), "Deposit", Constant(1)), kind: KindCall, want: reflect.TypeFor[int]()},
		{name: "func with error result", expr: Func("", "find", find, Constant("a")), kind: KindCall, want: reflect.TypeFor[*account]()},
		{name: "slice literal", expr: SliceLit(reflect.TypeFor[int](), Constant(1)), kind: KindSliceLit, want: reflect.TypeFor[[]int]()},
		{name: "make", expr: MakeSlice(reflect.TypeFor[int](), Constant(2)), kind: KindMakeSlice, want: reflect.TypeFor[[]int]()},
		{name: "composite", expr: Composite(reflect.TypeFor[*owner](), Constant("n")), kind: KindComposite, want: reflect.TypeFor[*owner]()},
		{name: "keyed composite", expr: CompositeInit(reflect.TypeFor[account](), Bind("ID", Constant("x"))), kind: KindCompositeInit, want: reflect.TypeFor[account]()},
		{name: "func literal", expr: FuncLit("func() bool { return true }", func() bool { return true }), kind: KindLambda, want: reflect.TypeFor[func() bool]()},
		{name: "lambda", expr: Lambda("", Constant(true)), kind: KindLambda, want: reflect.TypeFor[bool]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.kind, tt.expr.Kind())
			assert.Equal(t, tt.want, tt.expr.Type())
		})
	}
}

func TestBuilders_RejectInvalidShapes(t *testing.T) {
	t.Parallel()

	acc := account{}
	n := 3

	tests := []struct {
		name  string
		build func()
		msg   string
	}{
		{name: "local by value", build: func() { Local("n", n) }, msg: "non-nil pointer"},
		{name: "unknown field", build: func() { Field(Local("acc", &acc), "Missing") }, msg: "has no field Missing"},
		{name: "unexported field", build: func() { Field(Local("acc", &acc), "secret") }, msg: "unexported"},
		{name: "field of int", build: func() { Field(Constant(1), "X") }, msg: "is not a struct"},
		{name: "unknown method", build: func() { Method(Constant(1), "Foo") }, msg: "has no method Foo"},
		{name: "arity", build: func() { Func("", "find", find) }, msg: "wrong argument count"},
		{name: "not a function", build: func() { Func("", "x", 3) }, msg: "not a function"},
		{name: "invoke non-func", build: func() { Invoke(Constant(1)) }, msg: "cannot call non-function"},
		{name: "non-binary kind", build: func() { Binary(KindNot, Constant(true), Constant(true)) }, msg: "not a binary kind"},
		{name: "index int", build: func() { Index(Constant(1), Constant(0)) }, msg: "cannot index"},
		{name: "convert string to struct", build: func() { Convert(Constant("x"), reflect.TypeFor[owner]()) }, msg: "cannot convert"},
		{name: "positional literal arity", build: func() { Composite(reflect.TypeFor[account](), Constant("x")) }, msg: "too few values"},
		{name: "keyed literal unknown field", build: func() { CompositeInit(reflect.TypeFor[owner](), Bind("Age", Constant(1))) }, msg: "unknown field Age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			defer func() {
				r := recover()
				require.NotNil(t, r)
				assert.Contains(t, r, tt.msg)
			}()

			tt.build()
		})
	}
}

func TestChildren(t *testing.T) {
	t.Parallel()

	acc := account{}
	a, b := Constant(1), Constant(2)

	assert.Empty(t, Children(Constant(1)))
	assert.Equal(t, []Expr{a, b}, Children(Equal(a, b)))

	local := Local("acc", &acc)
	assert.Len(t, Children(local), 1)

	call := Method(local, "Deposit", a)
	assert.Equal(t, []Expr{local, a}, Children(call))

	ext := Extension("strings", "HasPrefix", stringsHasPrefix, Constant("ab"), Constant("a"))
	assert.Len(t, Children(ext), 2)
	assert.True(t, ext.Extension)
	assert.Equal(t, ext.Args[0], ext.Receiver())

	keyed := CompositeInit(reflect.TypeFor[account](), Bind("ID", Constant("x")), BindNested("Meta", Bind("Note", Constant("n"))))
	assert.Len(t, Children(keyed), 2)

	assert.Empty(t, Children(Lambda("true", Constant(true))))
}

func stringsHasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Equal", KindEqual.String())
	assert.Equal(t, "CompositeInit", KindCompositeInit.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
	assert.Equal(t, "&^", KindAndNot.Token())
	assert.Empty(t, KindNot.Token())
	assert.True(t, KindMapIndex.IsBinary())
	assert.False(t, KindConvert.IsBinary())
	assert.True(t, KindGreaterEqual.IsComparison())
	assert.False(t, KindLogicalAnd.IsComparison())
}
