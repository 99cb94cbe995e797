package powerassert

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/LerianStudio/lib-powerassert/powerassert/display"
	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
	"github.com/LerianStudio/lib-powerassert/powerassert/gosyntax"
)

var (
	// ErrNilPredicate is returned for a nil predicate or one without a body.
	ErrNilPredicate = errors.New("nil predicate")
	// ErrNotBoolean is returned for a predicate whose body is not a bool.
	ErrNotBoolean = errors.New("predicate is not boolean")
)

// TestingT is the part of *testing.T used by IsTrue and Check.
type TestingT interface {
	Errorf(format string, args ...any)
}

// Diagnostic is the explanation of one predicate.
type Diagnostic struct {
	// Source is the predicate as written, or its printed form when no source
	// text was recorded.
	Source string
	Tree   display.Node
	// Text is the rendered diagram.
	Text string
	// Hint is the reason attached to a false root, without the value.
	Hint   string
	Passed bool
	// Err is the evaluation failure of the whole predicate, if any.
	Err error
}

// Diagnose evaluates pred and builds its display tree and diagram. It fails only
// for a nil or non-boolean predicate or one containing a node with no display
// form; an evaluation failure is reported in Diagnostic.Err and in the diagram.
func Diagnose(pred *expr.LambdaExpr, opts ...Option) (Diagnostic, error) {
	return diagnose(pred, newOptions(opts))
}

// Explain returns the diagram of pred: the expression, one stalk per valued
// token and the values beneath. True predicates are explained too.
func Explain(pred *expr.LambdaExpr, opts ...Option) (string, error) {
	d, err := Diagnose(pred, opts...)
	if err != nil {
		return "", err
	}

	return d.Text, nil
}

// IsTrue reports whether pred holds. When it does not, or cannot be evaluated,
// the diagram is reported through t.Errorf.
func IsTrue(t TestingT, pred *expr.LambdaExpr, opts ...Option) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	o := newOptions(opts)

	v, err := evaluate(pred, o)
	if err == nil && v.holds() {
		return true
	}

	var d Diagnostic
	if err == nil {
		d, err = explain(pred, o, v)
	}

	if err != nil {
		t.Errorf("IsTrue could not explain the expression: %v", err)
		return false
	}

	t.Errorf("IsTrue failed, expression was:\n\n%s", d.Text)

	return false
}

// Check parses src against scope and asserts it like IsTrue. A nil scope means
// gosyntax.Std.
func Check(t TestingT, src string, scope *gosyntax.Scope, opts ...Option) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	if scope == nil {
		scope = gosyntax.Std()
	}

	pred, err := gosyntax.Parse(src, scope)
	if err != nil {
		t.Errorf("Check could not parse %q: %v", src, err)
		return false
	}

	return IsTrue(t, pred, opts...)
}

func validate(pred *expr.LambdaExpr) error {
	if pred == nil || (pred.Body == nil && !pred.IsFuncLit()) {
		return ErrNilPredicate
	}

	if t := pred.Type(); t == nil || t.Kind() != reflect.Bool {
		return fmt.Errorf("%w: %s has type %v", ErrNotBoolean, source(pred), pred.Type())
	}

	return nil
}

// verdict is the value of a whole predicate.
type verdict struct {
	ok  bool
	err error
}

func (v verdict) holds() bool { return v.ok && v.err == nil }

// evaluate checks pred and evaluates its body once.
func evaluate(pred *expr.LambdaExpr, o *options) (verdict, error) {
	if err := validate(pred); err != nil {
		return verdict{}, err
	}

	val, err := o.evaluator.Evaluate(pred.Body)
	if err != nil {
		return verdict{err: err}, nil
	}

	b, _ := val.(bool)

	return verdict{ok: b}, nil
}

func diagnose(pred *expr.LambdaExpr, o *options) (Diagnostic, error) {
	v, err := evaluate(pred, o)
	if err != nil {
		return Diagnostic{}, err
	}

	return explain(pred, o, v)
}

// explain builds the diagram of a predicate already evaluated to v.
func explain(pred *expr.LambdaExpr, o *options, v verdict) (Diagnostic, error) {
	tree, err := o.transformer().Transform(pred.Body, o.testType)
	if err != nil {
		return Diagnostic{}, err
	}

	d := Diagnostic{
		Source: source(pred),
		Tree:   tree,
		Text:   display.Render(tree),
		Passed: v.ok,
		Err:    v.err,
	}

	if rest, found := strings.CutPrefix(display.ValueOf(tree), "false, "); found {
		d.Hint = rest
	}

	return d, nil
}

func source(pred *expr.LambdaExpr) string {
	if pred.Source != "" {
		return pred.Source
	}

	return expr.Print(pred)
}
