package expr

import "strconv"

// Kind identifies the node kind of an Expr.
type Kind int

// Node kinds.
const (
	KindAdd Kind = iota
	KindSub
	KindMul
	KindQuo
	KindRem
	KindAnd
	KindOr
	KindXor
	KindAndNot
	KindShl
	KindShr
	KindLogicalAnd
	KindLogicalOr
	KindEqual
	KindNotEqual
	KindLess
	KindLessEqual
	KindGreater
	KindGreaterEqual
	KindIndex
	KindMapIndex

	KindNot
	KindNegate
	KindComplement
	KindConvert
	KindLen

	KindTypeIs
	KindConditional
	KindCall
	KindInvoke
	KindConstant
	KindMember
	KindSliceLit
	KindMakeSlice
	KindComposite
	KindCompositeInit
	KindLambda
)

var kindNames = [...]string{
	KindAdd:           "Add",
	KindSub:           "Sub",
	KindMul:           "Mul",
	KindQuo:           "Quo",
	KindRem:           "Rem",
	KindAnd:           "And",
	KindOr:            "Or",
	KindXor:           "Xor",
	KindAndNot:        "AndNot",
	KindShl:           "Shl",
	KindShr:           "Shr",
	KindLogicalAnd:    "LogicalAnd",
	KindLogicalOr:     "LogicalOr",
	KindEqual:         "Equal",
	KindNotEqual:      "NotEqual",
	KindLess:          "Less",
	KindLessEqual:     "LessEqual",
	KindGreater:       "Greater",
	KindGreaterEqual:  "GreaterEqual",
	KindIndex:         "Index",
	KindMapIndex:      "MapIndex",
	KindNot:           "Not",
	KindNegate:        "Negate",
	KindComplement:    "Complement",
	KindConvert:       "Convert",
	KindLen:           "Len",
	KindTypeIs:        "TypeIs",
	KindConditional:   "Conditional",
	KindCall:          "Call",
	KindInvoke:        "Invoke",
	KindConstant:      "Constant",
	KindMember:        "Member",
	KindSliceLit:      "SliceLit",
	KindMakeSlice:     "MakeSlice",
	KindComposite:     "Composite",
	KindCompositeInit: "CompositeInit",
	KindLambda:        "Lambda",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

var binaryTokens = map[Kind]string{
	KindAdd:          "+",
	KindSub:          "-",
	KindMul:          "*",
	KindQuo:          "/",
	KindRem:          "%",
	KindAnd:          "&",
	KindOr:           "|",
	KindXor:          "^",
	KindAndNot:       "&^",
	KindShl:          "<<",
	KindShr:          ">>",
	KindLogicalAnd:   "&&",
	KindLogicalOr:    "||",
	KindEqual:        "==",
	KindNotEqual:     "!=",
	KindLess:         "<",
	KindLessEqual:    "<=",
	KindGreater:      ">",
	KindGreaterEqual: ">=",
}

// Token returns the Go operator for a binary kind, or "" for any other kind.
func (k Kind) Token() string {
	return binaryTokens[k]
}

// IsBinary reports whether k is built by Binary, including Index and MapIndex.
func (k Kind) IsBinary() bool {
	return k >= KindAdd && k <= KindMapIndex
}

// IsComparison reports whether k is one of == != < <= > >=.
func (k Kind) IsComparison() bool {
	return k >= KindEqual && k <= KindGreaterEqual
}

// precedence follows Go operator precedence; 6 is used for operands that never need parentheses.
func (k Kind) precedence() int {
	switch k {
	case KindMul, KindQuo, KindRem, KindShl, KindShr, KindAnd, KindAndNot:
		return 5
	case KindAdd, KindSub, KindOr, KindXor:
		return 4
	case KindEqual, KindNotEqual, KindLess, KindLessEqual, KindGreater, KindGreaterEqual:
		return 3
	case KindLogicalAnd:
		return 2
	case KindLogicalOr:
		return 1
	case KindConditional:
		return 0
	default:
		return 6
	}
}
