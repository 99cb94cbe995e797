package expr

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/LerianStudio/lib-powerassert/powerassert/format"
)

var literalFormatter = format.New()

// Print renders e as Go source. Conditionals, which Go lacks, print as c ? a : b.
func Print(e Expr) string {
	var sb strings.Builder

	printExpr(&sb, e)

	return sb.String()
}

func printExpr(sb *strings.Builder, e Expr) {
	switch n := e.(type) {
	case nil:
		sb.WriteString("nil")
	case *ConstantExpr:
		sb.WriteString(constantSource(n))
	case *MemberExpr:
		switch {
		case n.Container == nil && n.Pkg != "":
			sb.WriteString(n.Pkg + "." + n.Member)
		case n.Container == nil || n.IsVariable():
			sb.WriteString(n.Member)
		default:
			printOperand(sb, n.Container, 6)
			sb.WriteString("." + n.Member)
		}
	case *BinaryExpr:
		printBinary(sb, n)
	case *UnaryExpr:
		printUnary(sb, n)
	case *TypeIsExpr:
		printOperand(sb, n.Operand, 6)
		sb.WriteString(".(" + format.TypeName(n.Target) + ")")
	case *CondExpr:
		printOperand(sb, n.Test, 1)
		sb.WriteString(" ? ")
		printOperand(sb, n.IfTrue, 1)
		sb.WriteString(" : ")
		printExpr(sb, n.IfFalse)
	case *CallExpr:
		switch {
		case n.Recv != nil:
			printOperand(sb, n.Recv, 6)
			sb.WriteString("." + n.Name)
		case n.Pkg != "":
			sb.WriteString(n.Pkg + "." + n.Name)
		default:
			sb.WriteString(n.Name)
		}

		printArgs(sb, n.Args)
	case *InvokeExpr:
		printOperand(sb, n.Target, 6)
		printArgs(sb, n.Args)
	case *SliceLitExpr:
		sb.WriteString("[]" + format.TypeName(n.Elem) + "{")
		printList(sb, n.Items)
		sb.WriteString("}")
	case *MakeSliceExpr:
		sb.WriteString("make([]" + format.TypeName(n.Elem) + ", ")
		printExpr(sb, n.Len)

		if n.Cap != nil {
			sb.WriteString(", ")
			printExpr(sb, n.Cap)
		}

		sb.WriteString(")")
	case *CompositeExpr:
		sb.WriteString(compositeType(n.Of) + "{")
		printList(sb, n.Args)
		sb.WriteString("}")
	case *CompositeInitExpr:
		sb.WriteString(compositeType(n.New.Of))
		printBindings(sb, n.Bindings)
	case *LambdaExpr:
		if n.Source != "" {
			sb.WriteString(n.Source)
		} else {
			printExpr(sb, n.Body)
		}
	default:
		sb.WriteString(reflect.TypeOf(e).String())
	}
}

func constantSource(c *ConstantExpr) string {
	if c.Name != "" {
		return c.Name
	}

	if c.Value == nil {
		return "nil"
	}

	if c.Closure {
		return format.TypeName(c.typ)
	}

	if s, ok := c.Value.(string); ok {
		return strconv.Quote(s)
	}

	return literalFormatter.Value(c.Value)
}

func printBinary(sb *strings.Builder, n *BinaryExpr) {
	switch n.Op {
	case KindIndex, KindMapIndex:
		printOperand(sb, n.Left, 6)
		sb.WriteString("[")
		printExpr(sb, n.Right)
		sb.WriteString("]")

		return
	}

	prec := n.Op.precedence()

	printOperand(sb, n.Left, prec)
	sb.WriteString(" " + n.Op.Token() + " ")
	// Go binary operators are left-associative.
	printOperand(sb, n.Right, prec+1)
}

func printUnary(sb *strings.Builder, n *UnaryExpr) {
	switch n.Op {
	case KindConvert:
		t := format.TypeName(n.Target)
		if strings.HasPrefix(t, "*") || strings.HasPrefix(t, "func") {
			t = "(" + t + ")"
		}

		sb.WriteString(t + "(")
		printExpr(sb, n.Operand)
		sb.WriteString(")")
	case KindLen:
		sb.WriteString("len(")
		printExpr(sb, n.Operand)
		sb.WriteString(")")
	default:
		sb.WriteString(unaryToken(n.Op))
		printOperand(sb, n.Operand, 6)
	}
}

func unaryToken(k Kind) string {
	switch k {
	case KindNot:
		return "!"
	case KindNegate:
		return "-"
	case KindComplement:
		return "^"
	default:
		return ""
	}
}

// printOperand parenthesizes e when it binds looser than min.
func printOperand(sb *strings.Builder, e Expr, minPrec int) {
	if precedenceOf(e) < minPrec {
		sb.WriteString("(")
		printExpr(sb, e)
		sb.WriteString(")")

		return
	}

	printExpr(sb, e)
}

func precedenceOf(e Expr) int {
	switch n := e.(type) {
	case *BinaryExpr:
		if n.Op == KindIndex || n.Op == KindMapIndex {
			return 6
		}

		return n.Op.precedence()
	case *CondExpr:
		return KindConditional.precedence()
	case *UnaryExpr:
		if n.Op == KindConvert || n.Op == KindLen {
			return 6
		}

		// Unary operators bind tighter than any binary operator but still need
		// parentheses as the operand of a selector or index.
		return 5
	default:
		return 6
	}
}

func printArgs(sb *strings.Builder, args []Expr) {
	sb.WriteString("(")
	printList(sb, args)
	sb.WriteString(")")
}

func printList(sb *strings.Builder, items []Expr) {
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}

		printExpr(sb, item)
	}
}

func printBindings(sb *strings.Builder, bindings []Binding) {
	sb.WriteString("{")

	for i, b := range bindings {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(b.Member + ": ")

		if b.Nested != nil {
			printBindings(sb, b.Nested)
		} else {
			printExpr(sb, b.Value)
		}
	}

	sb.WriteString("}")
}

func compositeType(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		return "&" + format.TypeName(t.Elem())
	}

	return format.TypeName(t)
}
