//go:build unit

package transform

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/LerianStudio/lib-powerassert/powerassert/display"
	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lit(text string, raw any) *display.Constant {
	return &display.Constant{Text: text, Raw: raw}
}

func TestTransform_Shapes(t *testing.T) {
	t.Parallel()

	flag := false
	two := 2
	limit := 10
	var boxed any = 3
	double := func(n int) int { return n * 2 }
	xs := []int{1, 2}
	m := map[string]int{"a": 1}
	p := point{X: 1, Y: 2}
	pText := "point{X: 1, Y: 2}"

	tests := []struct {
		name string
		expr expr.Expr
		want display.Node
	}{
		{
			name: "literal comparison",
			expr: expr.Equal(expr.Constant(1), expr.Constant(2)),
			want: &display.Binary{Left: lit("1", 1), Operator: "==", Right: lit("2", 2), Value: "false"},
		},
		{
			name: "captured variable",
			expr: expr.Local("flag", &flag),
			want: &display.Constant{Text: "flag", Value: "false"},
		},
		{
			name: "named snapshot",
			expr: expr.Named("n", 3),
			want: &display.Constant{Text: "n", Value: "3", Raw: 3},
		},
		{
			name: "package variable",
			expr: expr.Static("config", "Limit", &limit),
			want: &display.Constant{Text: "Limit", Value: "10"},
		},
		{
			name: "not of a comparison",
			expr: expr.Not(expr.Equal(expr.Constant(1), expr.Constant(1))),
			want: &display.Unary{
				Prefix:  "!(",
				Suffix:  ")",
				Operand: &display.Binary{Left: lit("1", 1), Operator: "==", Right: lit("1", 1), Value: "true"},
				Value:   "false",
			},
		},
		{
			name: "not of a variable",
			expr: expr.Not(expr.Local("flag", &flag)),
			want: &display.Unary{Prefix: "!", Operand: &display.Constant{Text: "flag", Value: "false"}, Value: "true"},
		},
		{
			name: "negate",
			expr: expr.Negate(expr.Named("n", 3)),
			want: &display.Unary{Prefix: "-", Operand: &display.Constant{Text: "n", Value: "3", Raw: 3}, Value: "-3"},
		},
		{
			name: "len",
			expr: expr.Len(expr.Named("xs", xs)),
			want: &display.Unary{
				Prefix:  "len(",
				Suffix:  ")",
				Operand: &display.Constant{Text: "xs", Value: "[1, 2]", Raw: xs},
				Value:   "2",
			},
		},
		{
			name: "conversion",
			expr: expr.Convert(expr.Constant(Foo), intType),
			want: &display.Unary{Prefix: "int(", Suffix: ")", Operand: lit("Foo", Foo), Value: "1"},
		},
		{
			name: "slice index",
			expr: expr.Index(expr.Named("xs", xs), expr.Constant(1)),
			want: &display.ArrayIndex{
				Array: &display.Constant{Text: "xs", Value: "[1, 2]", Raw: xs},
				Index: lit("1", 1),
				Value: "2",
			},
		},
		{
			name: "map index",
			expr: expr.MapIndex(expr.Named("m", m), expr.Constant("a")),
			want: &display.MethodCall{
				Container: &display.Constant{Text: "m", Value: `map["a": 1]`, Raw: m},
				Member:    display.IndexerName,
				Args:      []display.Node{lit(`"a"`, "a")},
				Value:     "1",
			},
		},
		{
			name: "field",
			expr: expr.Field(expr.Named("p", p), "X"),
			want: &display.MemberAccess{
				Container: &display.Constant{Text: "p", Value: pText, Raw: p},
				Member:    "X",
				Value:     "1",
			},
		},
		{
			name: "method",
			expr: expr.Method(expr.Named("p", p), "Sum"),
			want: &display.MethodCall{
				Container: &display.Constant{Text: "p", Value: pText, Raw: p},
				Member:    "Sum",
				Value:     "3",
			},
		},
		{
			name: "package function",
			expr: expr.Func("strings", "Contains", strings.Contains, expr.Constant("abc"), expr.Constant("z")),
			want: &display.MethodCall{
				Container: &display.Constant{Text: "strings"},
				Member:    "Contains",
				Args:      []display.Node{lit(`"abc"`, "abc"), lit(`"z"`, "z")},
				Value:     "false",
			},
		},
		{
			name: "local function",
			expr: expr.Func("", "positive", func(n int) bool { return n > 0 }, expr.Constant(1)),
			want: &display.MethodCall{Member: "positive", Args: []display.Node{lit("1", 1)}, Value: "true"},
		},
		{
			name: "extension call",
			expr: expr.Extension("strings", "HasPrefix", strings.HasPrefix, expr.Named("s", "abc"), expr.Constant("a")),
			want: &display.MethodCall{
				Container: &display.Constant{Text: "s", Value: `"abc"`, Raw: "abc"},
				Member:    "HasPrefix",
				Args:      []display.Node{lit(`"a"`, "a")},
				Value:     "true",
			},
		},
		{
			name: "conditional",
			expr: expr.Cond(expr.Local("flag", &flag), expr.Constant("yes"), expr.Constant("no")),
			want: &display.Conditional{
				Test:         &display.Constant{Text: "flag", Value: "false"},
				TestValue:    "false",
				IfTrue:       lit(`"yes"`, "yes"),
				IfTrueValue:  `"yes"`,
				IfFalse:      lit(`"no"`, "no"),
				IfFalseValue: `"no"`,
			},
		},
		{
			name: "type check",
			expr: expr.TypeIs(expr.Local("boxed", &boxed), stringType),
			want: &display.TypeCheck{Operand: &display.Constant{Text: "boxed", Value: "3"}, Type: "string", Value: "false"},
		},
		{
			name: "invocation",
			expr: expr.Invoke(expr.Local("double", &double), expr.Constant(2)),
			want: &display.Invocation{
				Target: &display.Constant{Text: "double", Value: "func(int) int"},
				Args:   []display.Node{lit("2", 2)},
				Value:  "4",
			},
		},
		{
			name: "slice literal",
			expr: expr.SliceLit(intType, expr.Constant(1), expr.Constant(2)),
			want: &display.NewArray{Type: "int", Items: []display.Node{lit("1", 1), lit("2", 2)}},
		},
		{
			name: "composite",
			expr: expr.Composite(pointType, expr.Constant(1), expr.Constant(2)),
			want: &display.NewObject{Type: "point", Args: []display.Node{lit("1", 1), lit("2", 2)}, Value: pText},
		},
		{
			name: "pointer composite",
			expr: expr.Composite(reflect.PointerTo(pointType), expr.Constant(1), expr.Constant(2)),
			want: &display.NewObject{Type: "&point", Args: []display.Node{lit("1", 1), lit("2", 2)}, Value: "&" + pText},
		},
		{
			name: "keyed composite",
			expr: expr.CompositeInit(pointType, expr.Bind("Y", expr.Constant(5))),
			want: &display.MemberInit{
				New:      &display.NewObject{Type: "point", Value: "point{X: 0, Y: 5}"},
				Bindings: []display.Node{&display.MemberAssignment{Member: "Y", Value: lit("5", 5)}},
			},
		},
		{
			name: "nested binding",
			expr: expr.CompositeInit(reflect.TypeFor[box](), expr.BindNested("P", expr.Bind("X", expr.Constant(1)))),
			want: &display.MemberInit{
				New:      &display.NewObject{Type: "box", Value: "box{P: point{X: 1, Y: 0}}"},
				Bindings: []display.Node{&display.Constant{Text: "P"}},
			},
		},
		{
			name: "lambda with source",
			expr: expr.Lambda("x > 0", expr.Greater(expr.Named("x", 1), expr.Constant(0))),
			want: &display.Constant{Text: "x > 0"},
		},
		{
			name: "lambda without source",
			expr: expr.Lambda("", expr.Greater(expr.Named("x", 1), expr.Constant(0))),
			want: &display.Constant{Text: "x > 0"},
		},
		{
			name: "enum erasure",
			expr: expr.Equal(expr.Convert(expr.Constant(Foo), intType), expr.Local("two", &two)),
			want: &display.Binary{
				Left:     &display.Unary{Prefix: "int(", Suffix: ")", Operand: lit("Foo", Foo), Value: "1"},
				Operator: "==",
				Right:    &display.Constant{Text: "two", Value: "2"},
				Value:    "false, EnumA.Foo != EnumA.Bar",
			},
		},
	}

	tr := New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tr.Transform(tt.expr, nil)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Transform() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransform_TestType(t *testing.T) {
	t.Parallel()

	s := &suiteState{Count: 3}
	testType := reflect.TypeOf(s)
	tr := New()

	got, err := tr.Transform(expr.Field(expr.Constant(s), "Count"), testType)
	require.NoError(t, err)
	assert.Equal(t, &display.Constant{Text: "Count", Value: "3"}, got)

	got, err = tr.Transform(expr.Constant(s), testType)
	require.NoError(t, err)
	assert.Equal(t, &display.Constant{Text: "*suiteState", Value: "&suiteState{Count: 3}", Raw: s}, got)

	got, err = tr.Transform(expr.Field(expr.Constant(s), "Count"), nil)
	require.NoError(t, err)
	assert.IsType(t, &display.MemberAccess{}, got, "without a test type the field access is kept")
}

// shapeMatches walks both trees and checks that every display node has the same
// number of children as its expression, in the same order.
func shapeMatches(t *testing.T, e expr.Expr, n display.Node) {
	t.Helper()

	ec := expr.Children(e)
	nc := display.Children(n)

	if ci, ok := e.(*expr.CompositeInitExpr); ok {
		// The bare composite has no display node of its own.
		ec = append(expr.Children(ci.New), ec[1:]...)
		nc = append(display.Children(n.(*display.MemberInit).New), nc[1:]...)
	}

	require.Len(t, nc, len(ec), "children of %s", expr.Print(e))

	for i := range ec {
		if b, ok := nc[i].(*display.MemberAssignment); ok {
			shapeMatches(t, ec[i], b.Value)
			continue
		}

		shapeMatches(t, ec[i], nc[i])
	}
}

func TestTransform_ShapeRoundTrip(t *testing.T) {
	t.Parallel()

	tr := New()
	xs := []int{1, 2, 3}

	exprs := []expr.Expr{
		expr.LogicalAnd(
			expr.Less(expr.Index(expr.Named("xs", xs), expr.Constant(0)), expr.Constant(5)),
			expr.Not(expr.Equal(expr.Len(expr.Named("xs", xs)), expr.Constant(0))),
		),
		expr.Equal(
			expr.Method(expr.Composite(pointType, expr.Constant(1), expr.Constant(2)), "Sum"),
			expr.Cond(expr.Constant(true), expr.Constant(3), expr.Negate(expr.Constant(3))),
		),
		expr.Equal(
			expr.Field(expr.CompositeInit(pointType, expr.Bind("X", expr.Constant(4))), "X"),
			expr.Convert(expr.Constant(4.0), intType),
		),
		expr.TypeIs(expr.Convert(expr.Constant(1), reflect.TypeFor[any]()), intType),
		expr.Equal(expr.Len(expr.SliceLit(intType, expr.Constant(1))), expr.Constant(1)),
	}

	for _, e := range exprs {
		n, err := tr.Transform(e, nil)
		require.NoError(t, err)
		shapeMatches(t, e, n)
	}
}

func TestTransform_EvaluationFailureMarksNodeOnly(t *testing.T) {
	t.Parallel()

	xs := []int{1, 2}
	e := expr.Equal(expr.Index(expr.Local("xs", &xs), expr.Constant(3)), expr.Constant(1))

	got, err := New().Transform(e, nil)
	require.NoError(t, err)

	const marker = "panicked: runtime error: index out of range [3] with length 2"

	want := &display.Binary{
		Left: &display.ArrayIndex{
			Array: &display.Constant{Text: "xs", Value: "[1, 2]"},
			Index: lit("3", 3),
			Value: marker,
		},
		Operator: "==",
		Right:    lit("1", 1),
		Value:    marker,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transform() mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_ReturnedErrorMarker(t *testing.T) {
	t.Parallel()

	e := expr.Equal(expr.Func("", "lookup", lookup, expr.Constant(2)), expr.Constant(100))

	got, err := New().Transform(e, nil)
	require.NoError(t, err)

	b, ok := got.(*display.Binary)
	require.True(t, ok)
	assert.Equal(t, "failed: account not found", b.Value)
	assert.Equal(t, "failed: account not found", display.ValueOf(b.Left))
	assert.Equal(t, lit("100", 100), b.Right)
}

func TestTransform_Unsupported(t *testing.T) {
	t.Parallel()

	e := expr.Equal(expr.Len(expr.MakeSlice(intType, expr.Constant(3))), expr.Constant(3))

	got, err := New().Transform(e, nil)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrUnsupportedExpression)

	var ue *UnsupportedError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "*expr.MakeSliceExpr", ue.Type)
	assert.Equal(t, expr.KindMakeSlice, ue.Kind)
	assert.Contains(t, err.Error(), "MakeSlice")

	_, err = New().Transform(nil, nil)
	assert.ErrorIs(t, err, ErrUnsupportedExpression)
}

func TestTransform_HintsOnlyOnFalse(t *testing.T) {
	t.Parallel()

	hints := &recordingHints{reply: ", because"}
	tr := New(WithHints(hints))

	got, err := tr.Transform(expr.LogicalOr(expr.Equal(expr.Constant(1), expr.Constant(1)), expr.Constant(false)), nil)
	require.NoError(t, err)
	assert.Empty(t, hints.asked, "no node evaluated to false")
	assert.Equal(t, "true", display.ValueOf(got))

	got, err = tr.Transform(expr.LogicalAnd(expr.Equal(expr.Constant(1), expr.Constant(2)), expr.Constant(true)), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1 == 2", "1 == 2 && true"}, hints.asked)
	assert.Equal(t, "false, because", display.ValueOf(got))
}

func TestTransform_StubEvaluator(t *testing.T) {
	t.Parallel()

	calls := 0
	stub := EvaluatorFunc(func(e expr.Expr) (any, error) {
		calls++

		switch e.(type) {
		case *expr.BinaryExpr:
			return nil, errors.New("boom")
		default:
			return "stub", nil
		}
	})

	flag := true
	got, err := New(WithEvaluator(stub)).Transform(expr.Equal(expr.Local("flag", &flag), expr.Constant(true)), nil)
	require.NoError(t, err)

	want := &display.Binary{
		Left:     &display.Constant{Text: "flag", Value: `"stub"`},
		Operator: "==",
		Right:    lit("true", true),
		Value:    "failed: boom",
	}

	assert.Equal(t, want, got)
	assert.Equal(t, 2, calls, "literals are not evaluated")
}

func TestTransform_ReevaluatesEachNode(t *testing.T) {
	t.Parallel()

	calls := 0
	counter := expr.Func("", "next", func() int {
		calls++
		return calls
	})

	_, err := New(WithHints(&recordingHints{})).Transform(expr.Equal(counter, expr.Constant(0)), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "the call runs once for its own node and once for the comparison")
}

func TestFailureText(t *testing.T) {
	t.Parallel()

	_, panicked := expr.Compile(expr.Index(expr.Named("xs", []int{}), expr.Constant(0)))()
	_, failed := expr.Compile(expr.Func("", "lookup", lookup, expr.Constant(5)))()

	assert.Equal(t, "panicked: runtime error: index out of range [0] with length 0", FailureText(panicked))
	assert.Equal(t, "failed: account not found", FailureText(failed))
	assert.Equal(t, "failed: plain", FailureText(errors.New("plain")))
}
