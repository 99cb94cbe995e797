package expr

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/LerianStudio/lib-powerassert/powerassert/runtime"
)

// ErrEvaluation is matched by every *EvalError.
var ErrEvaluation = errors.New("expression evaluation failed")

// EvalError reports a subexpression that returned an error, or that the
// interpreter could not apply to the values it produced.
type EvalError struct {
	// Source is the printed subexpression.
	Source string
	Err    error
}

func (e *EvalError) Error() string {
	return "evaluate " + e.Source + ": " + e.Err.Error()
}

// Unwrap returns both ErrEvaluation and the underlying error.
func (e *EvalError) Unwrap() []error {
	return []error{ErrEvaluation, e.Err}
}

// Thunk evaluates one subexpression.
type Thunk func() (any, error)

// Compile returns a Thunk that evaluates e on its own, reading captured variables
// at call time. A panic raised while evaluating is returned as *runtime.PanicError.
func Compile(e Expr) Thunk {
	source := Print(e)

	return func() (any, error) {
		return runtime.CaptureValue(source, func() (any, error) {
			v, err := eval(e)
			if err != nil {
				return nil, err
			}

			return export(v), nil
		})
	}
}

// export returns the Go value held by v. Interface values yield their dynamic
// value, so a typed nil stays distinguishable from nil.
func export(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	return v.Interface()
}

func fail(e Expr, format string, args ...any) error {
	return &EvalError{Source: Print(e), Err: fmt.Errorf(format, args...)}
}

func eval(e Expr) (reflect.Value, error) {
	switch n := e.(type) {
	case *ConstantExpr:
		if n.Value == nil {
			if n.typ == nil {
				return reflect.Value{}, nil
			}

			return reflect.Zero(n.typ), nil
		}

		return reflect.ValueOf(n.Value), nil
	case *MemberExpr:
		return evalMember(n)
	case *BinaryExpr:
		return evalBinary(n)
	case *UnaryExpr:
		return evalUnary(n)
	case *TypeIsExpr:
		return evalTypeIs(n)
	case *CondExpr:
		test, err := evalBool(n.Test)
		if err != nil {
			return reflect.Value{}, err
		}

		if test {
			return eval(n.IfTrue)
		}

		return eval(n.IfFalse)
	case *CallExpr:
		return evalCall(n)
	case *InvokeExpr:
		target, err := eval(n.Target)
		if err != nil {
			return reflect.Value{}, err
		}

		target = concrete(target)
		if !target.IsValid() || target.Kind() != reflect.Func {
			return reflect.Value{}, fail(n, "cannot call non-function %s", Print(n.Target))
		}

		return call(n, target, n.Args)
	case *SliceLitExpr:
		out := reflect.MakeSlice(reflect.SliceOf(n.Elem), len(n.Items), len(n.Items))

		for i, item := range n.Items {
			v, err := eval(item)
			if err != nil {
				return reflect.Value{}, err
			}

			if err := assign(out.Index(i), v, item); err != nil {
				return reflect.Value{}, err
			}
		}

		return out, nil
	case *MakeSliceExpr:
		return evalMakeSlice(n)
	case *CompositeExpr:
		return evalComposite(n, nil)
	case *CompositeInitExpr:
		return evalComposite(n.New, n.Bindings)
	case *LambdaExpr:
		if n.fn.IsValid() {
			return n.fn, nil
		}

		return eval(n.Body)
	default:
		return reflect.Value{}, fmt.Errorf("%w: unknown node %T", ErrEvaluation, e)
	}
}

func evalBool(e Expr) (bool, error) {
	v, err := eval(e)
	if err != nil {
		return false, err
	}

	v = concrete(v)
	if !v.IsValid() || v.Kind() != reflect.Bool {
		return false, fail(e, "non-boolean condition %s", Print(e))
	}

	return v.Bool(), nil
}

// concrete strips interface wrappers.
func concrete(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		v = v.Elem()
	}

	return v
}

func evalMember(n *MemberExpr) (reflect.Value, error) {
	if n.IsVariable() {
		return n.ref.Elem(), nil
	}

	c, err := eval(n.Container)
	if err != nil {
		return reflect.Value{}, err
	}

	c = concrete(c)
	for c.IsValid() && c.Kind() == reflect.Pointer {
		if c.IsNil() {
			panic(nilDereference{})
		}

		c = c.Elem()
	}

	if !c.IsValid() || c.Kind() != reflect.Struct {
		return reflect.Value{}, fail(n, "%s has no field %s", Print(n.Container), n.Member)
	}

	f := c.FieldByName(n.Member)
	if !f.IsValid() {
		return reflect.Value{}, fail(n, "%s has no field %s", Print(n.Container), n.Member)
	}

	return f, nil
}

// nilDereference mirrors the runtime error raised by Go for *p with p == nil.
type nilDereference struct{}

func (nilDereference) Error() string {
	return "runtime error: invalid memory address or nil pointer dereference"
}

// RuntimeError marks nilDereference as a runtime.Error.
func (nilDereference) RuntimeError() {}

type indexOutOfRange struct{ index, length int }

func (e indexOutOfRange) Error() string {
	return fmt.Sprintf("runtime error: index out of range [%d] with length %d", e.index, e.length)
}

// RuntimeError marks indexOutOfRange as a runtime.Error.
func (indexOutOfRange) RuntimeError() {}

func evalBinary(n *BinaryExpr) (reflect.Value, error) {
	switch n.Op {
	case KindLogicalAnd, KindLogicalOr:
		left, err := evalBool(n.Left)
		if err != nil {
			return reflect.Value{}, err
		}

		if left == (n.Op == KindLogicalOr) {
			return reflect.ValueOf(left), nil
		}

		right, err := evalBool(n.Right)
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(right), nil
	}

	left, err := eval(n.Left)
	if err != nil {
		return reflect.Value{}, err
	}

	right, err := eval(n.Right)
	if err != nil {
		return reflect.Value{}, err
	}

	switch n.Op {
	case KindIndex:
		return evalIndex(n, left, right)
	case KindMapIndex:
		return evalMapIndex(n, left, right)
	case KindEqual, KindNotEqual:
		eq, err := equal(n, left, right)
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(eq == (n.Op == KindEqual)), nil
	case KindShl, KindShr:
		return shift(n, concrete(left), concrete(right))
	}

	left, right = unify(n.Left, n.Right, concrete(left), concrete(right))
	if !left.IsValid() || !right.IsValid() || left.Type() != right.Type() {
		return reflect.Value{}, fail(n, "mismatched types %s and %s", valueType(left), valueType(right))
	}

	if n.Op.IsComparison() {
		c, err := order(n, left, right)
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(compareResult(n.Op, c)), nil
	}

	return arithmetic(n, left, right)
}

func valueType(v reflect.Value) string {
	if !v.IsValid() {
		return "untyped nil"
	}

	return v.Type().String()
}

// unify converts a literal operand to the type of the other operand.
func unify(le, re Expr, l, r reflect.Value) (reflect.Value, reflect.Value) {
	if !l.IsValid() || !r.IsValid() || l.Type() == r.Type() {
		return l, r
	}

	if isAdaptable(re) && isBasic(l.Kind()) && r.Type().ConvertibleTo(l.Type()) {
		return l, r.Convert(l.Type())
	}

	if isAdaptable(le) && isBasic(r.Kind()) && l.Type().ConvertibleTo(r.Type()) {
		return l.Convert(r.Type()), r
	}

	return l, r
}

func equal(n *BinaryExpr, l, r reflect.Value) (bool, error) {
	if !l.IsValid() || !r.IsValid() {
		return isNil(l) && isNil(r), nil
	}

	if l.Kind() != reflect.Interface && r.Kind() != reflect.Interface {
		l, r = unify(n.Left, n.Right, l, r)
		if l.Type() != r.Type() {
			return false, fail(n, "mismatched types %s and %s", l.Type(), r.Type())
		}
	}

	if !l.CanInterface() || !r.CanInterface() {
		return false, fail(n, "cannot compare unexported values")
	}

	// Comparing uncomparable dynamic values panics, as it does in Go.
	return l.Interface() == r.Interface(), nil
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}

func order(n *BinaryExpr, l, r reflect.Value) (int, error) {
	switch {
	case isInt(l.Kind()):
		return cmp3(l.Int(), r.Int()), nil
	case isUint(l.Kind()):
		return cmp3(l.Uint(), r.Uint()), nil
	case isFloat(l.Kind()):
		a, b := l.Float(), r.Float()
		if math.IsNaN(a) || math.IsNaN(b) {
			return 2, nil
		}

		return cmp3(a, b), nil
	case l.Kind() == reflect.String:
		return strings.Compare(l.String(), r.String()), nil
	default:
		return 0, fail(n, "operator %s not defined on %s", n.Op.Token(), l.Type())
	}
}

func cmp3[T int64 | uint64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareResult maps a three-way comparison to the operator result. 2 stands for
// unordered (NaN), for which every ordering is false.
func compareResult(op Kind, c int) bool {
	if c == 2 {
		return false
	}

	switch op {
	case KindLess:
		return c < 0
	case KindLessEqual:
		return c <= 0
	case KindGreater:
		return c > 0
	default:
		return c >= 0
	}
}

func arithmetic(n *BinaryExpr, l, r reflect.Value) (reflect.Value, error) {
	out := reflect.New(l.Type()).Elem()
	op := n.Op

	switch k := l.Kind(); {
	case isInt(k):
		a, b := l.Int(), r.Int()

		switch op {
		case KindAdd:
			out.SetInt(a + b)
		case KindSub:
			out.SetInt(a - b)
		case KindMul:
			out.SetInt(a * b)
		case KindQuo:
			out.SetInt(a / b)
		case KindRem:
			out.SetInt(a % b)
		case KindAnd:
			out.SetInt(a & b)
		case KindOr:
			out.SetInt(a | b)
		case KindXor:
			out.SetInt(a ^ b)
		case KindAndNot:
			out.SetInt(a &^ b)
		default:
			return reflect.Value{}, undefined(n, l)
		}
	case isUint(k):
		a, b := l.Uint(), r.Uint()

		switch op {
		case KindAdd:
			out.SetUint(a + b)
		case KindSub:
			out.SetUint(a - b)
		case KindMul:
			out.SetUint(a * b)
		case KindQuo:
			out.SetUint(a / b)
		case KindRem:
			out.SetUint(a % b)
		case KindAnd:
			out.SetUint(a & b)
		case KindOr:
			out.SetUint(a | b)
		case KindXor:
			out.SetUint(a ^ b)
		case KindAndNot:
			out.SetUint(a &^ b)
		default:
			return reflect.Value{}, undefined(n, l)
		}
	case isFloat(k):
		a, b := l.Float(), r.Float()

		switch op {
		case KindAdd:
			out.SetFloat(a + b)
		case KindSub:
			out.SetFloat(a - b)
		case KindMul:
			out.SetFloat(a * b)
		case KindQuo:
			out.SetFloat(a / b)
		default:
			return reflect.Value{}, undefined(n, l)
		}
	case k == reflect.Complex64 || k == reflect.Complex128:
		a, b := l.Complex(), r.Complex()

		switch op {
		case KindAdd:
			out.SetComplex(a + b)
		case KindSub:
			out.SetComplex(a - b)
		case KindMul:
			out.SetComplex(a * b)
		case KindQuo:
			out.SetComplex(a / b)
		default:
			return reflect.Value{}, undefined(n, l)
		}
	case k == reflect.String && op == KindAdd:
		out.SetString(l.String() + r.String())
	default:
		return reflect.Value{}, undefined(n, l)
	}

	return out, nil
}

func undefined(n *BinaryExpr, v reflect.Value) error {
	return fail(n, "operator %s not defined on %s", n.Op.Token(), v.Type())
}

func shift(n *BinaryExpr, l, r reflect.Value) (reflect.Value, error) {
	if !l.IsValid() || !r.IsValid() {
		return reflect.Value{}, fail(n, "invalid shift of untyped nil")
	}

	var count uint64

	switch {
	case isInt(r.Kind()):
		if r.Int() < 0 {
			panic(negativeShift{})
		}

		count = uint64(r.Int())
	case isUint(r.Kind()):
		count = r.Uint()
	default:
		return reflect.Value{}, fail(n, "invalid shift count type %s", r.Type())
	}

	out := reflect.New(l.Type()).Elem()

	switch {
	case isInt(l.Kind()) && n.Op == KindShl:
		out.SetInt(l.Int() << count)
	case isInt(l.Kind()):
		out.SetInt(l.Int() >> count)
	case isUint(l.Kind()) && n.Op == KindShl:
		out.SetUint(l.Uint() << count)
	case isUint(l.Kind()):
		out.SetUint(l.Uint() >> count)
	default:
		return reflect.Value{}, undefined(n, l)
	}

	return out, nil
}

type negativeShift struct{}

func (negativeShift) Error() string { return "runtime error: negative shift amount" }

// RuntimeError marks negativeShift as a runtime.Error.
func (negativeShift) RuntimeError() {}

func evalIndex(n *BinaryExpr, array, index reflect.Value) (reflect.Value, error) {
	array, index = concrete(array), concrete(index)

	if array.IsValid() && array.Kind() == reflect.Pointer {
		if array.IsNil() {
			panic(nilDereference{})
		}

		array = array.Elem()
	}

	if !index.IsValid() || !(isInt(index.Kind()) || isUint(index.Kind())) {
		return reflect.Value{}, fail(n, "invalid index %s", Print(n.Right))
	}

	var i int
	if isInt(index.Kind()) {
		i = int(index.Int())
	} else {
		i = int(index.Uint())
	}

	if !array.IsValid() {
		return reflect.Value{}, fail(n, "cannot index untyped nil")
	}

	switch array.Kind() {
	case reflect.String, reflect.Slice, reflect.Array:
		if i < 0 || i >= array.Len() {
			panic(indexOutOfRange{index: i, length: array.Len()})
		}

		return array.Index(i), nil
	default:
		return reflect.Value{}, fail(n, "cannot index %s", array.Type())
	}
}

func evalMapIndex(n *BinaryExpr, m, key reflect.Value) (reflect.Value, error) {
	m = concrete(m)
	if !m.IsValid() || m.Kind() != reflect.Map {
		return reflect.Value{}, fail(n, "cannot index %s with a key", valueType(m))
	}

	k, err := convertArg(n.Right, key, m.Type().Key())
	if err != nil {
		return reflect.Value{}, err
	}

	v := m.MapIndex(k)
	if !v.IsValid() {
		return reflect.Zero(m.Type().Elem()), nil
	}

	return v, nil
}

func evalUnary(n *UnaryExpr) (reflect.Value, error) {
	v, err := eval(n.Operand)
	if err != nil {
		return reflect.Value{}, err
	}

	switch n.Op {
	case KindConvert:
		return convert(n, v)
	case KindLen:
		return length(n, v)
	}

	v = concrete(v)
	if !v.IsValid() {
		return reflect.Value{}, fail(n, "invalid operation on untyped nil")
	}

	out := reflect.New(v.Type()).Elem()

	switch {
	case n.Op == KindNot && v.Kind() == reflect.Bool:
		out.SetBool(!v.Bool())
	case n.Op == KindNegate && isInt(v.Kind()):
		out.SetInt(-v.Int())
	case n.Op == KindNegate && isUint(v.Kind()):
		out.SetUint(-v.Uint())
	case n.Op == KindNegate && isFloat(v.Kind()):
		out.SetFloat(-v.Float())
	case n.Op == KindNegate && (v.Kind() == reflect.Complex64 || v.Kind() == reflect.Complex128):
		out.SetComplex(-v.Complex())
	case n.Op == KindComplement && isInt(v.Kind()):
		out.SetInt(^v.Int())
	case n.Op == KindComplement && isUint(v.Kind()):
		out.SetUint(^v.Uint())
	default:
		return reflect.Value{}, fail(n, "operator %s not defined on %s", unaryToken(n.Op), v.Type())
	}

	return out, nil
}

func convert(n *UnaryExpr, v reflect.Value) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(n.Target), nil
	}

	if n.Target.Kind() == reflect.Interface {
		if v.Type().AssignableTo(n.Target) {
			out := reflect.New(n.Target).Elem()
			out.Set(v)

			return out, nil
		}

		return reflect.Value{}, fail(n, "cannot convert %s to %s", v.Type(), n.Target)
	}

	v = concrete(v)
	if !v.IsValid() {
		return reflect.Zero(n.Target), nil
	}

	if !v.Type().ConvertibleTo(n.Target) {
		return reflect.Value{}, fail(n, "cannot convert %s to %s", v.Type(), n.Target)
	}

	return v.Convert(n.Target), nil
}

func length(n *UnaryExpr, v reflect.Value) (reflect.Value, error) {
	v = concrete(v)
	if v.IsValid() && v.Kind() == reflect.Pointer && v.Type().Elem().Kind() == reflect.Array {
		return reflect.ValueOf(v.Type().Elem().Len()), nil
	}

	if !v.IsValid() {
		return reflect.Value{}, fail(n, "invalid argument untyped nil for len")
	}

	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return reflect.ValueOf(v.Len()), nil
	default:
		return reflect.Value{}, fail(n, "invalid argument %s for len", v.Type())
	}
}

func evalTypeIs(n *TypeIsExpr) (reflect.Value, error) {
	v, err := eval(n.Operand)
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(holdsType(v, n.Target)), nil
}

func holdsType(v reflect.Value, target reflect.Type) bool {
	if !v.IsValid() {
		return false
	}

	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return false
		}

		v = v.Elem()
	}

	if target.Kind() == reflect.Interface {
		return v.Type().Implements(target)
	}

	return v.Type() == target
}

func evalCall(n *CallExpr) (reflect.Value, error) {
	if n.Recv == nil {
		return call(n, n.Func, n.Args)
	}

	recv, err := eval(n.Recv)
	if err != nil {
		return reflect.Value{}, err
	}

	if !recv.IsValid() || recv.Kind() == reflect.Interface && recv.IsNil() {
		panic(nilDereference{})
	}

	method := recv.MethodByName(n.Name)
	if !method.IsValid() {
		method = addressable(concrete(recv)).MethodByName(n.Name)
	}

	if !method.IsValid() {
		return reflect.Value{}, fail(n, "%s has no method %s", recv.Type(), n.Name)
	}

	return call(n, method, n.Args)
}

// addressable returns a pointer to v so that pointer-receiver methods are found.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v.Addr()
	}

	p := reflect.New(v.Type())
	p.Elem().Set(v)

	return p
}

func call(n Expr, fn reflect.Value, args []Expr) (reflect.Value, error) {
	ft := fn.Type()
	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		v, err := eval(arg)
		if err != nil {
			return reflect.Value{}, err
		}

		pt := ft.In(min(i, ft.NumIn()-1))
		if ft.IsVariadic() && i >= ft.NumIn()-1 {
			pt = pt.Elem()
		}

		if in[i], err = convertArg(arg, v, pt); err != nil {
			return reflect.Value{}, err
		}
	}

	out := fn.Call(in)

	if returnsError(ft) {
		if errVal := out[1]; !errVal.IsNil() {
			return reflect.Value{}, &EvalError{Source: Print(n), Err: errVal.Interface().(error)}
		}
	}

	if len(out) == 0 {
		return reflect.Value{}, nil
	}

	return out[0], nil
}

// convertArg makes v assignable to t, converting literals the way an untyped
// constant would be.
func convertArg(e Expr, v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(t), nil
	}

	if v.Type().AssignableTo(t) {
		return v, nil
	}

	if c := concrete(v); c.IsValid() && c.Type().AssignableTo(t) {
		return c, nil
	}

	if isAdaptable(e) && v.Type().ConvertibleTo(t) {
		return v.Convert(t), nil
	}

	return reflect.Value{}, fail(e, "cannot use %s (%s) as %s value", Print(e), v.Type(), t)
}

func assign(dst, v reflect.Value, e Expr) error {
	c, err := convertArg(e, v, dst.Type())
	if err != nil {
		return err
	}

	dst.Set(c)

	return nil
}

func evalMakeSlice(n *MakeSliceExpr) (reflect.Value, error) {
	size := func(e Expr) (int, error) {
		v, err := eval(e)
		if err != nil {
			return 0, err
		}

		v = concrete(v)

		switch {
		case v.IsValid() && isInt(v.Kind()):
			return int(v.Int()), nil
		case v.IsValid() && isUint(v.Kind()):
			return int(v.Uint()), nil
		default:
			return 0, fail(e, "non-integer size %s", Print(e))
		}
	}

	length, err := size(n.Len)
	if err != nil {
		return reflect.Value{}, err
	}

	capacity := length
	if n.Cap != nil {
		if capacity, err = size(n.Cap); err != nil {
			return reflect.Value{}, err
		}
	}

	return reflect.MakeSlice(reflect.SliceOf(n.Elem), length, capacity), nil
}

func evalComposite(n *CompositeExpr, bindings []Binding) (reflect.Value, error) {
	st := n.Of
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}

	ptr := reflect.New(st)
	obj := ptr.Elem()

	for i, arg := range n.Args {
		v, err := eval(arg)
		if err != nil {
			return reflect.Value{}, err
		}

		if err := assign(obj.Field(i), v, arg); err != nil {
			return reflect.Value{}, err
		}
	}

	if err := bind(obj, bindings); err != nil {
		return reflect.Value{}, err
	}

	if n.Of.Kind() == reflect.Pointer {
		return ptr, nil
	}

	return obj, nil
}

func bind(obj reflect.Value, bindings []Binding) error {
	for _, b := range bindings {
		field := obj.FieldByName(b.Member)

		if b.Nested != nil {
			if err := bind(field, b.Nested); err != nil {
				return err
			}

			continue
		}

		v, err := eval(b.Value)
		if err != nil {
			return err
		}

		if err := assign(field, v, b.Value); err != nil {
			return err
		}
	}

	return nil
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
