package expr

import (
	"fmt"
	"reflect"
)

var (
	boolType  = reflect.TypeFor[bool]()
	intType   = reflect.TypeFor[int]()
	byteType  = reflect.TypeFor[byte]()
	errorType = reflect.TypeFor[error]()
)

// The constructors in this file panic when given a shape Go itself would reject at
// compile time, such as a missing field or a call with the wrong argument count.

// Constant returns a literal value. Constant(nil) is the untyped nil.
func Constant(v any) *ConstantExpr {
	return &ConstantExpr{Value: v, typ: reflect.TypeOf(v)}
}

// Nil returns the nil value of type t.
func Nil(t reflect.Type) *ConstantExpr {
	return &ConstantExpr{typ: t}
}

// Named returns a snapshot of a captured value that displays as name.
func Named(name string, v any) *ConstantExpr {
	return &ConstantExpr{Value: v, Name: name, Closure: true, typ: reflect.TypeOf(v)}
}

// Local returns a captured local variable. ptr must point to the variable; the
// current value is read through it at every evaluation.
func Local(name string, ptr any) *MemberExpr {
	ref := variable(name, ptr)

	return &MemberExpr{
		Container: &ConstantExpr{Value: ptr, Closure: true, typ: ref.Type()},
		Member:    name,
		ref:       ref,
		typ:       ref.Type().Elem(),
	}
}

// Static returns a package-level variable pkg.name read through ptr.
func Static(pkg, name string, ptr any) *MemberExpr {
	ref := variable(name, ptr)

	return &MemberExpr{Pkg: pkg, Member: name, ref: ref, typ: ref.Type().Elem()}
}

func variable(name string, ptr any) reflect.Value {
	ref := reflect.ValueOf(ptr)
	if ref.Kind() != reflect.Pointer || ref.IsNil() {
		panic(fmt.Sprintf("expr: variable %s must be passed as a non-nil pointer, got %T", name, ptr))
	}

	return ref
}

// Field returns container.name. Pointers to structs are followed.
func Field(container Expr, name string) *MemberExpr {
	t := container.Type()
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("expr: %s.%s: %s is not a struct", Print(container), name, typeString(container.Type())))
	}

	f, ok := t.FieldByName(name)
	if !ok {
		panic(fmt.Sprintf("expr: %s has no field %s", typeString(t), name))
	}

	if !f.IsExported() {
		panic(fmt.Sprintf("expr: field %s of %s is unexported", name, typeString(t)))
	}

	return &MemberExpr{Container: container, Member: name, typ: f.Type}
}

// Binary returns left op right.
func Binary(op Kind, left, right Expr) *BinaryExpr {
	if !op.IsBinary() {
		panic(fmt.Sprintf("expr: %s is not a binary kind", op))
	}

	return &BinaryExpr{Op: op, Left: left, Right: right, typ: binaryType(op, left, right)}
}

func binaryType(op Kind, left, right Expr) reflect.Type {
	switch {
	case op.IsComparison(), op == KindLogicalAnd, op == KindLogicalOr:
		return boolType
	case op == KindIndex:
		return indexType(left.Type())
	case op == KindMapIndex:
		t := left.Type()
		if t == nil || t.Kind() != reflect.Map {
			panic(fmt.Sprintf("expr: cannot index %s with a key", typeString(t)))
		}

		return t.Elem()
	case op == KindShl, op == KindShr:
		return left.Type()
	// Between two literals the left one decides, matching unify.
	case isAdaptable(left) && !isAdaptable(right) && right.Type() != nil:
		return right.Type()
	default:
		return left.Type()
	}
}

func indexType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Array {
		t = t.Elem()
	}

	if t == nil {
		panic("expr: cannot index untyped nil")
	}

	switch t.Kind() {
	case reflect.String:
		return byteType
	case reflect.Slice, reflect.Array:
		return t.Elem()
	default:
		panic(fmt.Sprintf("expr: cannot index %s", typeString(t)))
	}
}

// Equal returns left == right.
func Equal(left, right Expr) *BinaryExpr { return Binary(KindEqual, left, right) }

// NotEqual returns left != right.
func NotEqual(left, right Expr) *BinaryExpr { return Binary(KindNotEqual, left, right) }

// Less returns left < right.
func Less(left, right Expr) *BinaryExpr { return Binary(KindLess, left, right) }

// LessEqual returns left <= right.
func LessEqual(left, right Expr) *BinaryExpr { return Binary(KindLessEqual, left, right) }

// Greater returns left > right.
func Greater(left, right Expr) *BinaryExpr { return Binary(KindGreater, left, right) }

// GreaterEqual returns left >= right.
func GreaterEqual(left, right Expr) *BinaryExpr { return Binary(KindGreaterEqual, left, right) }

// LogicalAnd returns left && right.
func LogicalAnd(left, right Expr) *BinaryExpr { return Binary(KindLogicalAnd, left, right) }

// LogicalOr returns left || right.
func LogicalOr(left, right Expr) *BinaryExpr { return Binary(KindLogicalOr, left, right) }

// Index returns array[index] for a slice, array or string.
func Index(array, index Expr) *BinaryExpr { return Binary(KindIndex, array, index) }

// MapIndex returns m[key] for a map.
func MapIndex(m, key Expr) *BinaryExpr { return Binary(KindMapIndex, m, key) }

// Not returns !operand.
func Not(operand Expr) *UnaryExpr {
	return &UnaryExpr{Op: KindNot, Operand: operand, typ: boolType}
}

// Negate returns -operand.
func Negate(operand Expr) *UnaryExpr {
	return &UnaryExpr{Op: KindNegate, Operand: operand, typ: operand.Type()}
}

// Complement returns ^operand.
func Complement(operand Expr) *UnaryExpr {
	return &UnaryExpr{Op: KindComplement, Operand: operand, typ: operand.Type()}
}

// Convert returns the conversion t(operand).
func Convert(operand Expr, t reflect.Type) *UnaryExpr {
	if src := operand.Type(); src != nil && !src.ConvertibleTo(t) && src.Kind() != reflect.Interface {
		panic(fmt.Sprintf("expr: cannot convert %s to %s", typeString(src), typeString(t)))
	}

	return &UnaryExpr{Op: KindConvert, Operand: operand, Target: t, typ: t}
}

// Len returns len(operand).
func Len(operand Expr) *UnaryExpr {
	return &UnaryExpr{Op: KindLen, Operand: operand, typ: intType}
}

// TypeIs reports whether operand holds a value of type t, the x.(T) check of a
// two-value type assertion.
func TypeIs(operand Expr, t reflect.Type) *TypeIsExpr {
	return &TypeIsExpr{Operand: operand, Target: t}
}

// Cond returns a conditional that yields ifTrue or ifFalse by test.
func Cond(test, ifTrue, ifFalse Expr) *CondExpr {
	return &CondExpr{Test: test, IfTrue: ifTrue, IfFalse: ifFalse}
}

// Method returns recv.name(args...). Methods with pointer receivers are found on
// addressable receivers as Go does.
func Method(recv Expr, name string, args ...Expr) *CallExpr {
	sig, ok := methodSignature(recv.Type(), name)
	if !ok {
		panic(fmt.Sprintf("expr: %s has no method %s", typeString(recv.Type()), name))
	}

	checkArity(name, sig, len(args))

	return &CallExpr{Recv: recv, Name: name, Args: args, sig: sig, typ: resultType(sig)}
}

// Func returns the static call pkg.name(args...) of fn.
func Func(pkg, name string, fn any, args ...Expr) *CallExpr {
	v := funcValue(name, fn)
	checkArity(name, v.Type(), len(args))

	return &CallExpr{Func: v, Pkg: pkg, Name: name, Args: args, sig: v.Type(), typ: resultType(v.Type())}
}

// Extension returns pkg.name(recv, args...) marked as an extension-style call, so
// that it displays as recv.name(args...).
func Extension(pkg, name string, fn any, recv Expr, args ...Expr) *CallExpr {
	all := append([]Expr{recv}, args...)
	call := Func(pkg, name, fn, all...)
	call.Extension = true

	return call
}

// Invoke returns target(args...) for a func-valued target.
func Invoke(target Expr, args ...Expr) *InvokeExpr {
	t := target.Type()
	if t == nil || t.Kind() != reflect.Func {
		panic(fmt.Sprintf("expr: cannot call non-function %s", Print(target)))
	}

	checkArity(Print(target), t, len(args))

	return &InvokeExpr{Target: target, Args: args, typ: resultType(t)}
}

// SliceLit returns the literal []elem{items...}.
func SliceLit(elem reflect.Type, items ...Expr) *SliceLitExpr {
	return &SliceLitExpr{Elem: elem, Items: items}
}

// MakeSlice returns make([]elem, length) or make([]elem, length, capacity) when a
// capacity is given.
func MakeSlice(elem reflect.Type, length Expr, capacity ...Expr) *MakeSliceExpr {
	e := &MakeSliceExpr{Elem: elem, Len: length}
	if len(capacity) > 0 {
		e.Cap = capacity[0]
	}

	return e
}

// Composite returns the positional composite literal t{args...}. t may be a struct type
// or a pointer to one. With no args it is the zero value.
func Composite(t reflect.Type, args ...Expr) *CompositeExpr {
	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}

	if st.Kind() != reflect.Struct {
		panic(fmt.Sprintf("expr: %s is not a struct type", typeString(t)))
	}

	if len(args) != 0 && len(args) != st.NumField() {
		panic(fmt.Sprintf("expr: too few values in %s literal", typeString(t)))
	}

	return &CompositeExpr{Of: t, Args: args}
}

// CompositeInit returns the keyed composite literal t{bindings...}.
func CompositeInit(t reflect.Type, bindings ...Binding) *CompositeInitExpr {
	n := Composite(t)

	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}

	checkBindings(st, bindings)

	return &CompositeInitExpr{New: n, Bindings: bindings}
}

func checkBindings(st reflect.Type, bindings []Binding) {
	for _, b := range bindings {
		f, ok := st.FieldByName(b.Member)
		if !ok {
			panic(fmt.Sprintf("expr: unknown field %s in %s literal", b.Member, typeString(st)))
		}

		if b.Nested != nil {
			if f.Type.Kind() != reflect.Struct {
				panic(fmt.Sprintf("expr: field %s of %s is not a struct", b.Member, typeString(st)))
			}

			checkBindings(f.Type, b.Nested)
		}
	}
}

// Bind assigns value to member in a keyed literal.
func Bind(member string, value Expr) Binding {
	return Binding{Member: member, Value: value}
}

// BindNested assigns the fields of member in place.
func BindNested(member string, bindings ...Binding) Binding {
	if bindings == nil {
		bindings = []Binding{}
	}

	return Binding{Member: member, Nested: bindings}
}

// Lambda returns a predicate with its source text. source may be empty, in which
// case the body is printed.
func Lambda(source string, body Expr) *LambdaExpr {
	return &LambdaExpr{Source: source, Body: body}
}

// FuncLit returns a func value written as source, for use as an argument.
func FuncLit(source string, fn any) *LambdaExpr {
	return &LambdaExpr{Source: source, fn: funcValue(source, fn)}
}

func funcValue(name string, fn any) reflect.Value {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		panic(fmt.Sprintf("expr: %s is not a function", name))
	}

	return v
}

func methodSignature(t reflect.Type, name string) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}

	if t.Kind() == reflect.Interface {
		m, ok := t.MethodByName(name)
		if !ok {
			return nil, false
		}

		return m.Type, true
	}

	m, ok := t.MethodByName(name)
	if !ok && t.Kind() != reflect.Pointer {
		m, ok = reflect.PointerTo(t).MethodByName(name)
	}

	if !ok {
		return nil, false
	}

	// Drop the receiver parameter.
	in := make([]reflect.Type, 0, m.Type.NumIn()-1)
	for i := 1; i < m.Type.NumIn(); i++ {
		in = append(in, m.Type.In(i))
	}

	out := make([]reflect.Type, 0, m.Type.NumOut())
	for i := 0; i < m.Type.NumOut(); i++ {
		out = append(out, m.Type.Out(i))
	}

	return reflect.FuncOf(in, out, m.Type.IsVariadic()), true
}

func checkArity(name string, sig reflect.Type, n int) {
	want := sig.NumIn()
	if sig.IsVariadic() {
		if n < want-1 {
			panic(fmt.Sprintf("expr: not enough arguments in call to %s", name))
		}

		return
	}

	if n != want {
		panic(fmt.Sprintf("expr: wrong argument count in call to %s: have %d, want %d", name, n, want))
	}
}

// resultType is the first result, with a trailing error result reported as an
// evaluation failure rather than a value.
func resultType(sig reflect.Type) reflect.Type {
	if sig.NumOut() == 0 {
		return nil
	}

	return sig.Out(0)
}

func returnsError(sig reflect.Type) bool {
	return sig.NumOut() == 2 && sig.Out(1) == errorType
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "untyped nil"
	}

	return t.String()
}

// isAdaptable reports whether e is a literal that converts to the type of the other
// operand, as an untyped constant would in Go source.
func isAdaptable(e Expr) bool {
	c, ok := e.(*ConstantExpr)
	if !ok || c.Closure || c.typ == nil {
		return false
	}

	return isBasic(c.typ.Kind()) && c.typ.PkgPath() == ""
}

func isBasic(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}
