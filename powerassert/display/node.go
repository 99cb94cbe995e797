package display

// IndexerName is the member name of a MethodCall that reads an element by key. It
// renders as container[args] instead of container.Member(args).
const IndexerName = "[]"

// Node is one node of a display tree. The set of implementations is closed.
type Node interface {
	node()
}

// Constant is a literal, or a named value such as a captured variable. Value is
// empty for a bare literal, whose text already shows the value.
type Constant struct {
	Text  string
	Value string
	// Raw is the underlying value when the text is a name resolved from it.
	Raw any
}

// Binary is Left Operator Right.
type Binary struct {
	Left     Node
	Operator string
	Right    Node
	Value    string
}

// Unary wraps Operand in Prefix and Suffix, as in !x, -x, int(x) or len(x).
type Unary struct {
	Prefix  string
	Suffix  string
	Operand Node
	Value   string
}

// MemberAccess reads Member from Container.
type MemberAccess struct {
	Container Node
	Member    string
	Value     string
}

// MethodCall calls Member on Container. For a static call Container names the
// declaring package; it is nil for a function declared in the caller's package.
type MethodCall struct {
	Container Node
	Member    string
	Args      []Node
	Value     string
}

// Conditional selects IfTrue or IfFalse by Test. Both branches are valued.
type Conditional struct {
	Test         Node
	TestValue    string
	IfTrue       Node
	IfTrueValue  string
	IfFalse      Node
	IfFalseValue string
}

// NewArray is a slice literal of element type Type.
type NewArray struct {
	Type  string
	Items []Node
}

// NewObject is a composite literal with positional Args.
type NewObject struct {
	Type  string
	Args  []Node
	Value string
}

// MemberInit is a keyed composite literal. Bindings hold *MemberAssignment nodes,
// or a *Constant naming the member for a nested initializer.
type MemberInit struct {
	New      *NewObject
	Bindings []Node
}

// MemberAssignment is one Member: Value element of a keyed literal.
type MemberAssignment struct {
	Member string
	Value  Node
}

// ArrayIndex is Array[Index].
type ArrayIndex struct {
	Array Node
	Index Node
	Value string
}

// Invocation calls a func value.
type Invocation struct {
	Target Node
	Args   []Node
	Value  string
}

// TypeCheck reports whether Operand holds a Type.
type TypeCheck struct {
	Operand Node
	Type    string
	Value   string
}

func (*Constant) node()         {}
func (*Binary) node()           {}
func (*Unary) node()            {}
func (*MemberAccess) node()     {}
func (*MethodCall) node()       {}
func (*Conditional) node()      {}
func (*NewArray) node()         {}
func (*NewObject) node()        {}
func (*MemberInit) node()       {}
func (*MemberAssignment) node() {}
func (*ArrayIndex) node()       {}
func (*Invocation) node()       {}
func (*TypeCheck) node()        {}
