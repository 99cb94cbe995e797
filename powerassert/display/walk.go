package display

// Children returns the direct child nodes of n in rendering order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Binary:
		return []Node{n.Left, n.Right}
	case *Unary:
		return []Node{n.Operand}
	case *MemberAccess:
		return []Node{n.Container}
	case *MethodCall:
		if n.Container == nil {
			return append([]Node(nil), n.Args...)
		}

		return append([]Node{n.Container}, n.Args...)
	case *Conditional:
		return []Node{n.Test, n.IfTrue, n.IfFalse}
	case *NewArray:
		return append([]Node(nil), n.Items...)
	case *NewObject:
		return append([]Node(nil), n.Args...)
	case *MemberInit:
		return append([]Node{n.New}, n.Bindings...)
	case *MemberAssignment:
		return []Node{n.Value}
	case *ArrayIndex:
		return []Node{n.Array, n.Index}
	case *Invocation:
		return append([]Node{n.Target}, n.Args...)
	case *TypeCheck:
		return []Node{n.Operand}
	default:
		return nil
	}
}

// Walk visits n and its descendants depth-first, parents before children. When fn
// returns false the children of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, child := range Children(n) {
		Walk(child, fn)
	}
}

// ValueOf returns the rendered value of n itself, or "" when it has none. A
// Conditional has no value of its own; its parts carry theirs.
func ValueOf(n Node) string {
	switch n := n.(type) {
	case *Constant:
		return n.Value
	case *Binary:
		return n.Value
	case *Unary:
		return n.Value
	case *MemberAccess:
		return n.Value
	case *MethodCall:
		return n.Value
	case *NewObject:
		return n.Value
	case *ArrayIndex:
		return n.Value
	case *Invocation:
		return n.Value
	case *TypeCheck:
		return n.Value
	default:
		return ""
	}
}
