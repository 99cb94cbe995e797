package gosyntax

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
)

var binaryKinds = map[token.Token]expr.Kind{
	token.ADD:     expr.KindAdd,
	token.SUB:     expr.KindSub,
	token.MUL:     expr.KindMul,
	token.QUO:     expr.KindQuo,
	token.REM:     expr.KindRem,
	token.AND:     expr.KindAnd,
	token.OR:      expr.KindOr,
	token.XOR:     expr.KindXor,
	token.AND_NOT: expr.KindAndNot,
	token.SHL:     expr.KindShl,
	token.SHR:     expr.KindShr,
	token.LAND:    expr.KindLogicalAnd,
	token.LOR:     expr.KindLogicalOr,
	token.EQL:     expr.KindEqual,
	token.NEQ:     expr.KindNotEqual,
	token.LSS:     expr.KindLess,
	token.LEQ:     expr.KindLessEqual,
	token.GTR:     expr.KindGreater,
	token.GEQ:     expr.KindGreaterEqual,
}

// Parse parses src as a Go expression and returns it as a predicate whose source
// text is src. A nil scope resolves only literals and built-in names.
func Parse(src string, scope *Scope) (pred *expr.LambdaExpr, err error) {
	node, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	if scope == nil {
		scope = NewScope()
	}

	// The expr constructors panic on shapes that do not type-check.
	defer func() {
		if r := recover(); r != nil {
			pred, err = nil, fmt.Errorf("%w: %v", ErrInvalidExpression, r)
		}
	}()

	b := &builder{scope: scope}

	body, err := b.expr(node)
	if err != nil {
		return nil, err
	}

	return expr.Lambda(src, body), nil
}

type builder struct {
	scope *Scope
}

func unsupported(n ast.Node, what string) error {
	return fmt.Errorf("%w: %s at column %d", ErrUnsupportedSyntax, what, int(n.Pos()))
}

func unknown(n ast.Node, name string) error {
	return fmt.Errorf("%w %q at column %d", ErrUnknownIdentifier, name, int(n.Pos()))
}

func (b *builder) expr(n ast.Expr) (expr.Expr, error) {
	switch n := n.(type) {
	case *ast.ParenExpr:
		return b.expr(n.X)
	case *ast.BasicLit:
		return literal(n, "")
	case *ast.Ident:
		return b.ident(n)
	case *ast.BinaryExpr:
		return b.binary(n)
	case *ast.UnaryExpr:
		return b.unary(n)
	case *ast.SelectorExpr:
		return b.selector(n)
	case *ast.CallExpr:
		return b.call(n)
	case *ast.IndexExpr:
		return b.index(n)
	case *ast.TypeAssertExpr:
		if n.Type == nil {
			return nil, unsupported(n, "type switch guard")
		}

		operand, err := b.expr(n.X)
		if err != nil {
			return nil, err
		}

		t, err := b.typ(n.Type)
		if err != nil {
			return nil, err
		}

		return expr.TypeIs(operand, t), nil
	case *ast.CompositeLit:
		return b.composite(n, false)
	case *ast.FuncLit:
		return nil, unsupported(n, "function literal")
	case *ast.SliceExpr:
		return nil, unsupported(n, "slice expression")
	case *ast.StarExpr:
		return nil, unsupported(n, "pointer dereference")
	default:
		return nil, unsupported(n, fmt.Sprintf("%T", n))
	}
}

// literal parses a basic literal, with sign "-" for a negated numeric literal.
func literal(n *ast.BasicLit, sign string) (expr.Expr, error) {
	switch n.Kind {
	case token.INT:
		v, err := strconv.ParseInt(sign+n.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExpression, err)
		}

		return expr.Constant(int(v)), nil
	case token.FLOAT:
		v, err := strconv.ParseFloat(sign+n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExpression, err)
		}

		return expr.Constant(v), nil
	case token.IMAG:
		v, err := strconv.ParseComplex(sign+n.Value, 128)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExpression, err)
		}

		return expr.Constant(v), nil
	case token.CHAR:
		if sign != "" {
			return nil, unsupported(n, "negated rune literal")
		}

		r, _, _, err := strconv.UnquoteChar(n.Value[1:len(n.Value)-1], '\'')
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExpression, err)
		}

		return expr.Constant(r), nil
	case token.STRING:
		if sign != "" {
			return nil, unsupported(n, "negated string")
		}

		s, err := strconv.Unquote(n.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExpression, err)
		}

		return expr.Constant(s), nil
	default:
		return nil, unsupported(n, "literal "+n.Kind.String())
	}
}

func (b *builder) ident(n *ast.Ident) (expr.Expr, error) {
	switch n.Name {
	case "true":
		return expr.Constant(true), nil
	case "false":
		return expr.Constant(false), nil
	case "nil":
		return expr.Constant(nil), nil
	}

	if v, ok := b.scope.values[n.Name]; ok {
		return v, nil
	}

	if _, ok := b.scope.funcs[n.Name]; ok {
		return nil, unsupported(n, "function value "+n.Name)
	}

	return nil, unknown(n, n.Name)
}

func (b *builder) binary(n *ast.BinaryExpr) (expr.Expr, error) {
	op, ok := binaryKinds[n.Op]
	if !ok {
		return nil, unsupported(n, "operator "+n.Op.String())
	}

	left, err := b.expr(n.X)
	if err != nil {
		return nil, err
	}

	right, err := b.expr(n.Y)
	if err != nil {
		return nil, err
	}

	return expr.Binary(op, left, right), nil
}

func (b *builder) unary(n *ast.UnaryExpr) (expr.Expr, error) {
	if n.Op == token.AND {
		if lit, ok := n.X.(*ast.CompositeLit); ok {
			return b.composite(lit, true)
		}

		return nil, unsupported(n, "address-of operator")
	}

	if lit, ok := n.X.(*ast.BasicLit); ok && n.Op == token.SUB {
		return literal(lit, "-")
	}

	operand, err := b.expr(n.X)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case token.NOT:
		return expr.Not(operand), nil
	case token.SUB:
		return expr.Negate(operand), nil
	case token.XOR:
		return expr.Complement(operand), nil
	case token.ADD:
		return operand, nil
	default:
		return nil, unsupported(n, "operator "+n.Op.String())
	}
}

// qualified returns "pkg.Name" when n selects from a package in the scope.
func (b *builder) qualified(n *ast.SelectorExpr) (string, bool) {
	pkg, ok := n.X.(*ast.Ident)
	if !ok || !b.scope.isPackage(pkg.Name) {
		return "", false
	}

	if _, shadowed := b.scope.values[pkg.Name]; shadowed {
		return "", false
	}

	return pkg.Name + "." + n.Sel.Name, true
}

func (b *builder) selector(n *ast.SelectorExpr) (expr.Expr, error) {
	if name, ok := b.qualified(n); ok {
		if v, ok := b.scope.values[name]; ok {
			return v, nil
		}

		if _, ok := b.scope.funcs[name]; ok {
			return nil, unsupported(n, "function value "+name)
		}

		return nil, unknown(n, name)
	}

	container, err := b.expr(n.X)
	if err != nil {
		return nil, err
	}

	return expr.Field(container, n.Sel.Name), nil
}

func (b *builder) args(list []ast.Expr) ([]expr.Expr, error) {
	out := make([]expr.Expr, 0, len(list))

	for _, a := range list {
		e, err := b.expr(a)
		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	return out, nil
}

func (b *builder) call(n *ast.CallExpr) (expr.Expr, error) {
	if n.Ellipsis.IsValid() {
		return nil, unsupported(n, "variadic spread")
	}

	if e, ok, err := b.builtin(n); ok || err != nil {
		return e, err
	}

	if t, err := b.typ(n.Fun); err == nil {
		if len(n.Args) != 1 {
			return nil, fmt.Errorf("%w: conversion to %s takes one argument", ErrInvalidExpression, t)
		}

		operand, err := b.expr(n.Args[0])
		if err != nil {
			return nil, err
		}

		return expr.Convert(operand, t), nil
	}

	args, err := b.args(n.Args)
	if err != nil {
		return nil, err
	}

	switch fun := n.Fun.(type) {
	case *ast.Ident:
		if f, ok := b.scope.funcs[fun.Name]; ok {
			return expr.Func("", fun.Name, f.fn, args...), nil
		}
	case *ast.SelectorExpr:
		if name, ok := b.qualified(fun); ok {
			f, ok := b.scope.funcs[name]
			if !ok {
				if _, isValue := b.scope.values[name]; !isValue {
					return nil, unknown(fun, name)
				}

				break
			}

			pkg := fun.X.(*ast.Ident).Name

			if f.extension && len(args) > 0 {
				return expr.Extension(pkg, fun.Sel.Name, f.fn, args[0], args[1:]...), nil
			}

			return expr.Func(pkg, fun.Sel.Name, f.fn, args...), nil
		}

		recv, err := b.expr(fun.X)
		if err != nil {
			return nil, err
		}

		if recv.Type() != nil && recv.Type().Kind() == reflect.Struct {
			if _, isField := recv.Type().FieldByName(fun.Sel.Name); isField {
				return expr.Invoke(expr.Field(recv, fun.Sel.Name), args...), nil
			}
		}

		return expr.Method(recv, fun.Sel.Name, args...), nil
	}

	target, err := b.expr(n.Fun)
	if err != nil {
		return nil, err
	}

	return expr.Invoke(target, args...), nil
}

// builtin handles len and make.
func (b *builder) builtin(n *ast.CallExpr) (expr.Expr, bool, error) {
	id, ok := n.Fun.(*ast.Ident)
	if !ok {
		return nil, false, nil
	}

	if _, shadowed := b.scope.funcs[id.Name]; shadowed {
		return nil, false, nil
	}

	switch id.Name {
	case "len":
		if len(n.Args) != 1 {
			return nil, true, fmt.Errorf("%w: len takes one argument", ErrInvalidExpression)
		}

		operand, err := b.expr(n.Args[0])
		if err != nil {
			return nil, true, err
		}

		return expr.Len(operand), true, nil
	case "make":
		if len(n.Args) < 2 || len(n.Args) > 3 {
			return nil, true, fmt.Errorf("%w: make takes a type and one or two sizes", ErrInvalidExpression)
		}

		t, err := b.typ(n.Args[0])
		if err != nil {
			return nil, true, err
		}

		if t.Kind() != reflect.Slice {
			return nil, true, unsupported(n, "make of "+t.String())
		}

		sizes, err := b.args(n.Args[1:])
		if err != nil {
			return nil, true, err
		}

		return expr.MakeSlice(t.Elem(), sizes[0], sizes[1:]...), true, nil
	}

	return nil, false, nil
}

func (b *builder) index(n *ast.IndexExpr) (expr.Expr, error) {
	container, err := b.expr(n.X)
	if err != nil {
		return nil, err
	}

	key, err := b.expr(n.Index)
	if err != nil {
		return nil, err
	}

	if t := container.Type(); t != nil && t.Kind() == reflect.Map {
		return expr.MapIndex(container, key), nil
	}

	return expr.Index(container, key), nil
}

func (b *builder) composite(n *ast.CompositeLit, pointer bool) (expr.Expr, error) {
	if n.Type == nil {
		return nil, unsupported(n, "untyped composite literal")
	}

	t, err := b.typ(n.Type)
	if err != nil {
		return nil, err
	}

	if t.Kind() == reflect.Slice {
		if pointer {
			return nil, unsupported(n, "pointer to slice literal")
		}

		items, err := b.args(n.Elts)
		if err != nil {
			return nil, err
		}

		return expr.SliceLit(t.Elem(), items...), nil
	}

	if pointer {
		t = reflect.PointerTo(t)
	}

	if len(n.Elts) == 0 {
		return expr.CompositeInit(t), nil
	}

	if _, keyed := n.Elts[0].(*ast.KeyValueExpr); !keyed {
		args, err := b.args(n.Elts)
		if err != nil {
			return nil, err
		}

		return expr.Composite(t, args...), nil
	}

	bindings := make([]expr.Binding, 0, len(n.Elts))

	for _, elt := range n.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			return nil, fmt.Errorf("%w: mixture of field:value and value elements", ErrInvalidExpression)
		}

		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			return nil, unsupported(kv, "non-field key")
		}

		value, err := b.expr(kv.Value)
		if err != nil {
			return nil, err
		}

		bindings = append(bindings, expr.Bind(key.Name, value))
	}

	return expr.CompositeInit(t, bindings...), nil
}
