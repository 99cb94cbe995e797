package transform

import (
	"context"
	"reflect"

	"github.com/LerianStudio/lib-powerassert/powerassert/display"
	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
	"github.com/LerianStudio/lib-powerassert/powerassert/format"
	"github.com/LerianStudio/lib-powerassert/powerassert/hint"
	"github.com/LerianStudio/lib-powerassert/powerassert/log"
)

// HintFinder explains why an expression evaluated to false. *hint.Engine
// implements it.
type HintFinder interface {
	Find(e expr.Expr) (string, bool)
}

// Transformer builds display trees. It holds no per-call state and may be shared.
type Transformer struct {
	eval      Evaluator
	formatter *format.Formatter
	hints     HintFinder
	logger    log.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithEvaluator replaces the compiled evaluator.
func WithEvaluator(eval Evaluator) Option {
	return func(t *Transformer) {
		if eval != nil {
			t.eval = eval
		}
	}
}

// WithFormatter sets the value formatter.
func WithFormatter(f *format.Formatter) Option {
	return func(t *Transformer) {
		if f != nil {
			t.formatter = f
		}
	}
}

// WithHints sets the hint engine. Without it, the default detectors run over the
// transformer's evaluator and formatter.
func WithHints(h HintFinder) Option {
	return func(t *Transformer) {
		t.hints = h
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger log.Logger) Option {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New returns a Transformer.
func New(opts ...Option) *Transformer {
	t := &Transformer{
		eval:      CompiledEvaluator{},
		formatter: format.New(),
		logger:    log.NewNop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.hints == nil {
		t.hints = hint.New(t.eval, t.formatter, hint.Defaults()...).WithLogger(t.logger)
	}

	return t
}

// Transform returns the display tree of e. Values that equal testType are treated
// as the captured test fixture and shown by name; a nil testType disables that.
//
// An expression containing a node with no display form returns an
// *UnsupportedError and no tree.
func (t *Transformer) Transform(e expr.Expr, testType reflect.Type) (display.Node, error) {
	w := &walker{Transformer: t, testType: testType}

	n, err := w.node(e)
	if err != nil {
		t.logger.Log(context.Background(), log.LevelDebug, "expression has no display form",
			log.Err(err),
		)

		return nil, err
	}

	return n, nil
}

type walker struct {
	*Transformer
	testType reflect.Type
}

func (w *walker) node(e expr.Expr) (display.Node, error) {
	switch n := e.(type) {
	case *expr.LambdaExpr:
		return w.lambda(n), nil
	case *expr.ConstantExpr:
		return w.constant(n), nil
	case *expr.MemberExpr:
		return w.member(n)
	case *expr.BinaryExpr:
		return w.binary(n)
	case *expr.UnaryExpr:
		return w.unary(n)
	case *expr.TypeIsExpr:
		operand, err := w.node(n.Operand)
		if err != nil {
			return nil, err
		}

		return &display.TypeCheck{Operand: operand, Type: w.formatter.TypeName(n.Target), Value: w.value(n)}, nil
	case *expr.CondExpr:
		return w.conditional(n)
	case *expr.CallExpr:
		return w.call(n)
	case *expr.InvokeExpr:
		target, err := w.node(n.Target)
		if err != nil {
			return nil, err
		}

		args, err := w.nodes(n.Args)
		if err != nil {
			return nil, err
		}

		return &display.Invocation{Target: target, Args: args, Value: w.value(n)}, nil
	case *expr.SliceLitExpr:
		items, err := w.nodes(n.Items)
		if err != nil {
			return nil, err
		}

		return &display.NewArray{Type: w.formatter.TypeName(n.Elem), Items: items}, nil
	case *expr.CompositeExpr:
		args, err := w.nodes(n.Args)
		if err != nil {
			return nil, err
		}

		return &display.NewObject{Type: compositeType(w.formatter, n.Of), Args: args, Value: w.value(n)}, nil
	case *expr.CompositeInitExpr:
		return w.memberInit(n)
	default:
		// MakeSliceExpr has no display form: its length is not an element.
		return nil, unsupported(e)
	}
}

func (w *walker) nodes(es []expr.Expr) ([]display.Node, error) {
	out := make([]display.Node, 0, len(es))

	for _, e := range es {
		n, err := w.node(e)
		if err != nil {
			return nil, err
		}

		out = append(out, n)
	}

	return out, nil
}

// value evaluates e and formats the result. A false result is followed by the
// first matching hint.
func (w *walker) value(e expr.Expr) string {
	v, err := w.eval.Evaluate(e)
	if err != nil {
		return FailureText(err)
	}

	text := w.formatter.Value(v)

	if !isFalse(v) || w.hints == nil {
		return text
	}

	if suffix, ok := w.hints.Find(e); ok {
		w.logger.Log(context.Background(), log.LevelDebug, "hint matched",
			log.Expression(expr.Print(e)),
			log.Hint(suffix),
		)

		text += suffix
	}

	return text
}

func isFalse(v any) bool {
	rv := reflect.ValueOf(v)

	return rv.IsValid() && rv.Kind() == reflect.Bool && !rv.Bool()
}

func (w *walker) lambda(n *expr.LambdaExpr) display.Node {
	switch {
	case n.Source != "":
		return &display.Constant{Text: n.Source}
	case n.Body == nil:
		return &display.Constant{Text: w.formatter.TypeName(n.Type())}
	default:
		return &display.Constant{Text: expr.Print(n.Body)}
	}
}

func (w *walker) constant(n *expr.ConstantExpr) display.Node {
	if n.Closure || w.isTestValue(n.Type()) {
		name := n.Name
		if name == "" {
			name = w.formatter.TypeName(n.Type())
		}

		return &display.Constant{Text: name, Value: w.value(n), Raw: n.Value}
	}

	return &display.Constant{Text: w.formatter.Value(n.Value), Raw: n.Value}
}

func (w *walker) isTestValue(t reflect.Type) bool {
	return w.testType != nil && t == w.testType
}

// captured reports whether a member read through container is a captured variable
// rather than a field access the reader wrote. Only the anonymous closure built by
// expr.Local counts; a named value keeps its own field accesses.
func (w *walker) captured(container expr.Expr) bool {
	if container == nil {
		return true
	}

	c, ok := container.(*expr.ConstantExpr)
	if !ok {
		return false
	}

	return (c.Closure && c.Name == "") || w.isTestValue(c.Type())
}

func (w *walker) member(n *expr.MemberExpr) (display.Node, error) {
	if w.captured(n.Container) {
		return &display.Constant{Text: n.Member, Value: w.value(n)}, nil
	}

	container, err := w.node(n.Container)
	if err != nil {
		return nil, err
	}

	return &display.MemberAccess{Container: container, Member: n.Member, Value: w.value(n)}, nil
}

func (w *walker) binary(n *expr.BinaryExpr) (display.Node, error) {
	left, err := w.node(n.Left)
	if err != nil {
		return nil, err
	}

	right, err := w.node(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case expr.KindIndex:
		return &display.ArrayIndex{Array: left, Index: right, Value: w.value(n)}, nil
	case expr.KindMapIndex:
		return &display.MethodCall{
			Container: left,
			Member:    display.IndexerName,
			Args:      []display.Node{right},
			Value:     w.value(n),
		}, nil
	}

	op, ok := operators[n.Op]
	if !ok {
		return nil, unsupported(n)
	}

	return &display.Binary{Left: left, Operator: op, Right: right, Value: w.value(n)}, nil
}

// operators maps binary kinds to the token shown between the operands.
var operators = map[expr.Kind]string{
	expr.KindAdd:          "+",
	expr.KindSub:          "-",
	expr.KindMul:          "*",
	expr.KindQuo:          "/",
	expr.KindRem:          "%",
	expr.KindAnd:          "&",
	expr.KindOr:           "|",
	expr.KindXor:          "^",
	expr.KindAndNot:       "&^",
	expr.KindShl:          "<<",
	expr.KindShr:          ">>",
	expr.KindLogicalAnd:   "&&",
	expr.KindLogicalOr:    "||",
	expr.KindEqual:        "==",
	expr.KindNotEqual:     "!=",
	expr.KindLess:         "<",
	expr.KindLessEqual:    "<=",
	expr.KindGreater:      ">",
	expr.KindGreaterEqual: ">=",
}

func (w *walker) unary(n *expr.UnaryExpr) (display.Node, error) {
	operand, err := w.node(n.Operand)
	if err != nil {
		return nil, err
	}

	out := &display.Unary{Operand: operand, Value: w.value(n)}

	switch n.Op {
	case expr.KindNot:
		out.Prefix = "!"

		if b, ok := n.Operand.(*expr.BinaryExpr); ok && b.Op != expr.KindIndex && b.Op != expr.KindMapIndex {
			out.Prefix, out.Suffix = "!(", ")"
		}
	case expr.KindNegate:
		out.Prefix = "-"
	case expr.KindComplement:
		out.Prefix = "^"
	case expr.KindLen:
		out.Prefix, out.Suffix = "len(", ")"
	case expr.KindConvert:
		out.Prefix, out.Suffix = conversionType(w.formatter, n.Target)+"(", ")"
	default:
		return nil, unsupported(n)
	}

	return out, nil
}

// conversionType parenthesises types that would otherwise not parse as a
// conversion, such as (*T)(x).
func conversionType(f *format.Formatter, t reflect.Type) string {
	name := f.TypeName(t)

	switch t.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Chan:
		return "(" + name + ")"
	default:
		return name
	}
}

func (w *walker) conditional(n *expr.CondExpr) (display.Node, error) {
	test, err := w.node(n.Test)
	if err != nil {
		return nil, err
	}

	ifTrue, err := w.node(n.IfTrue)
	if err != nil {
		return nil, err
	}

	ifFalse, err := w.node(n.IfFalse)
	if err != nil {
		return nil, err
	}

	return &display.Conditional{
		Test:         test,
		TestValue:    w.value(n.Test),
		IfTrue:       ifTrue,
		IfTrueValue:  w.value(n.IfTrue),
		IfFalse:      ifFalse,
		IfFalseValue: w.value(n.IfFalse),
	}, nil
}

func (w *walker) call(n *expr.CallExpr) (display.Node, error) {
	var (
		container display.Node
		args      = n.Args
		err       error
	)

	switch {
	case n.Extension && len(n.Args) > 0:
		container, err = w.node(n.Args[0])
		args = n.Args[1:]
	case n.Recv != nil:
		container, err = w.node(n.Recv)
	case n.Pkg != "":
		container = &display.Constant{Text: n.Pkg}
	}

	if err != nil {
		return nil, err
	}

	argNodes, err := w.nodes(args)
	if err != nil {
		return nil, err
	}

	return &display.MethodCall{Container: container, Member: n.Name, Args: argNodes, Value: w.value(n)}, nil
}

func (w *walker) memberInit(n *expr.CompositeInitExpr) (display.Node, error) {
	args, err := w.nodes(n.New.Args)
	if err != nil {
		return nil, err
	}

	out := &display.MemberInit{
		New: &display.NewObject{Type: compositeType(w.formatter, n.New.Of), Args: args, Value: w.value(n)},
	}

	for _, b := range n.Bindings {
		if b.Value == nil {
			out.Bindings = append(out.Bindings, &display.Constant{Text: b.Member})
			continue
		}

		value, err := w.node(b.Value)
		if err != nil {
			return nil, err
		}

		out.Bindings = append(out.Bindings, &display.MemberAssignment{Member: b.Member, Value: value})
	}

	return out, nil
}

// compositeType is the literal type as written: &T for a pointer composite.
func compositeType(f *format.Formatter, t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		return "&" + f.TypeName(t.Elem())
	}

	return f.TypeName(t)
}
