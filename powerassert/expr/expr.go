package expr

import "reflect"

// Expr is a node of a predicate tree. The set of implementations is closed.
type Expr interface {
	// Kind returns the node kind.
	Kind() Kind
	// Type returns the static type of the node, or nil for an untyped nil or a call
	// with no results.
	Type() reflect.Type

	node()
}

// ConstantExpr is a literal value, or a captured value when Closure is set.
type ConstantExpr struct {
	Value any
	// Name is the variable name of a captured value.
	Name string
	// Closure marks a value captured from the enclosing scope rather than written
	// as a literal.
	Closure bool

	typ reflect.Type
}

// MemberExpr reads a struct field, or a variable when it carries a reference.
type MemberExpr struct {
	// Container is nil for a package-level variable.
	Container Expr
	// Pkg names the declaring package of a package-level variable.
	Pkg    string
	Member string

	ref reflect.Value
	typ reflect.Type
}

// BinaryExpr applies Op to Left and Right. Op is a binary Kind.
type BinaryExpr struct {
	Op          Kind
	Left, Right Expr

	typ reflect.Type
}

// UnaryExpr applies Op to Operand. For Convert, Target is the destination type.
type UnaryExpr struct {
	Op      Kind
	Operand Expr
	Target  reflect.Type

	typ reflect.Type
}

// TypeIsExpr reports whether Operand holds a value of type Target.
type TypeIsExpr struct {
	Operand Expr
	Target  reflect.Type
}

// CondExpr selects IfTrue or IfFalse by Test.
type CondExpr struct {
	Test, IfTrue, IfFalse Expr
}

// CallExpr calls a method on Recv, or the function Func.
//
// An extension-style call is a package function whose first argument reads as the
// receiver, such as strings.HasPrefix(s, p). It has Extension set, a nil Recv and
// the receiver as Args[0].
type CallExpr struct {
	Recv      Expr
	Func      reflect.Value
	Pkg       string
	Name      string
	Args      []Expr
	Extension bool

	sig reflect.Type
	typ reflect.Type
}

// InvokeExpr calls the func value produced by Target.
type InvokeExpr struct {
	Target Expr
	Args   []Expr

	typ reflect.Type
}

// SliceLitExpr is a slice literal []Elem{Items...}.
type SliceLitExpr struct {
	Elem  reflect.Type
	Items []Expr
}

// MakeSliceExpr is make([]Elem, Len, Cap). Cap may be nil.
type MakeSliceExpr struct {
	Elem     reflect.Type
	Len, Cap Expr
}

// CompositeExpr is a positional composite literal T{Args...}, or &T{...} when
// Of is a pointer type.
type CompositeExpr struct {
	Of   reflect.Type
	Args []Expr
}

// CompositeInitExpr is a keyed composite literal T{Member: value, ...}.
type CompositeInitExpr struct {
	New      *CompositeExpr
	Bindings []Binding
}

// Binding assigns Value to Member, or assigns the fields of Member in place when
// Nested is set.
type Binding struct {
	Member string
	Value  Expr
	Nested []Binding
}

// LambdaExpr is a predicate with its source text, or a func literal value passed
// as an argument.
type LambdaExpr struct {
	Source string
	Body   Expr

	fn reflect.Value
}

func (*ConstantExpr) Kind() Kind { return KindConstant }
func (*MemberExpr) Kind() Kind { return KindMember }
func (e *BinaryExpr) Kind() Kind { return e.Op }
func (e *UnaryExpr) Kind() Kind { return e.Op }
func (*TypeIsExpr) Kind() Kind { return KindTypeIs }
func (*CondExpr) Kind() Kind { return KindConditional }
func (*CallExpr) Kind() Kind { return KindCall }
func (*InvokeExpr) Kind() Kind { return KindInvoke }
func (*SliceLitExpr) Kind() Kind { return KindSliceLit }
func (*MakeSliceExpr) Kind() Kind { return KindMakeSlice }
func (*CompositeExpr) Kind() Kind { return KindComposite }
func (*CompositeInitExpr) Kind() Kind { return KindCompositeInit }
func (*LambdaExpr) Kind() Kind { return KindLambda }

func (e *ConstantExpr) Type() reflect.Type { return e.typ }
func (e *MemberExpr) Type() reflect.Type { return e.typ }
func (e *BinaryExpr) Type() reflect.Type { return e.typ }
func (e *UnaryExpr) Type() reflect.Type { return e.typ }
func (*TypeIsExpr) Type() reflect.Type { return boolType }
func (e *CondExpr) Type() reflect.Type { return e.IfTrue.Type() }
func (e *CallExpr) Type() reflect.Type { return e.typ }
func (e *InvokeExpr) Type() reflect.Type { return e.typ }
func (e *SliceLitExpr) Type() reflect.Type { return reflect.SliceOf(e.Elem) }
func (e *MakeSliceExpr) Type() reflect.Type { return reflect.SliceOf(e.Elem) }
func (e *CompositeExpr) Type() reflect.Type { return e.Of }
func (e *CompositeInitExpr) Type() reflect.Type { return e.New.Of }

func (e *LambdaExpr) Type() reflect.Type {
	if e.fn.IsValid() {
		return e.fn.Type()
	}

	return e.Body.Type()
}

func (*ConstantExpr) node() {}
func (*MemberExpr) node() {}
func (*BinaryExpr) node() {}
func (*UnaryExpr) node() {}
func (*TypeIsExpr) node() {}
func (*CondExpr) node() {}
func (*CallExpr) node() {}
func (*InvokeExpr) node() {}
func (*SliceLitExpr) node() {}
func (*MakeSliceExpr) node() {}
func (*CompositeExpr) node() {}
func (*CompositeInitExpr) node() {}
func (*LambdaExpr) node() {}

// IsVariable reports whether the member reads a captured local or package-level
// variable rather than a field.
func (e *MemberExpr) IsVariable() bool {
	return e.ref.IsValid()
}

// IsStatic reports whether the call has no receiver expression.
func (e *CallExpr) IsStatic() bool {
	return e.Recv == nil
}

// Receiver returns the expression the call reads as its receiver: Recv for a
// method call and Args[0] for an extension-style call.
func (e *CallExpr) Receiver() Expr {
	if e.Extension && len(e.Args) > 0 {
		return e.Args[0]
	}

	return e.Recv
}

// IsFuncLit reports whether the lambda wraps a func value instead of a body.
func (e *LambdaExpr) IsFuncLit() bool {
	return e.fn.IsValid()
}

// Children returns the direct subexpressions of e in source order. The body of a
// lambda is not a child: lambdas render as text.
func Children(e Expr) []Expr {
	switch n := e.(type) {
	case *MemberExpr:
		if n.Container != nil {
			return []Expr{n.Container}
		}
	case *BinaryExpr:
		return []Expr{n.Left, n.Right}
	case *UnaryExpr:
		return []Expr{n.Operand}
	case *TypeIsExpr:
		return []Expr{n.Operand}
	case *CondExpr:
		return []Expr{n.Test, n.IfTrue, n.IfFalse}
	case *CallExpr:
		if n.Recv != nil {
			return append([]Expr{n.Recv}, n.Args...)
		}

		return append([]Expr(nil), n.Args...)
	case *InvokeExpr:
		return append([]Expr{n.Target}, n.Args...)
	case *SliceLitExpr:
		return append([]Expr(nil), n.Items...)
	case *MakeSliceExpr:
		if n.Cap != nil {
			return []Expr{n.Len, n.Cap}
		}

		return []Expr{n.Len}
	case *CompositeExpr:
		return append([]Expr(nil), n.Args...)
	case *CompositeInitExpr:
		out := []Expr{n.New}
		for _, b := range n.Bindings {
			if b.Value != nil {
				out = append(out, b.Value)
			}
		}

		return out
	}

	return nil
}
