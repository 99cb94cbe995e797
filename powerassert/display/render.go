package display

import (
	"sort"
	"strings"
	"unicode/utf8"
)

type stalk struct {
	col   int
	value string
}

type renderer struct {
	sb     strings.Builder
	col    int
	stalks []stalk
	used   map[int]bool
}

// Render lays out n as the expression on one line, a line of stalks under every
// valued token, and the values packed right to left onto as few lines as fit.
func Render(n Node) string {
	r := &renderer{used: map[int]bool{}}
	r.node(n)

	expression := strings.TrimRight(r.sb.String(), " ")
	if len(r.stalks) == 0 {
		return expression
	}

	sort.Slice(r.stalks, func(i, j int) bool { return r.stalks[i].col > r.stalks[j].col })

	lines := []string{expression, r.stalkLine(r.stalks)}

	pending := r.stalks
	for len(pending) > 0 {
		line := make([]rune, r.col+1)
		for i := range line {
			line[i] = ' '
		}

		var deferred []stalk

		limit := -1
		for _, s := range pending {
			width := utf8.RuneCountInString(s.value)
			if limit < 0 || s.col+width < limit {
				line = put(line, s.col, s.value)
			} else {
				line = put(line, s.col, "|")
				deferred = append(deferred, s)
			}

			limit = s.col
		}

		lines = append(lines, strings.TrimRight(string(line), " "))
		pending = deferred
	}

	return strings.Join(lines, "\n")
}

func (r *renderer) stalkLine(stalks []stalk) string {
	line := make([]rune, r.col+1)
	for i := range line {
		line[i] = ' '
	}

	for _, s := range stalks {
		line = put(line, s.col, "|")
	}

	return strings.TrimRight(string(line), " ")
}

func put(line []rune, col int, text string) []rune {
	runes := []rune(text)
	for len(line) < col+len(runes) {
		line = append(line, ' ')
	}

	copy(line[col:], runes)

	return line
}

func (r *renderer) write(s string) {
	r.sb.WriteString(s)
	r.col += utf8.RuneCountInString(s)
}

// mark records value under the current column. A second value at the same column
// is dropped.
func (r *renderer) mark(value string) {
	if value == "" || r.used[r.col] {
		return
	}

	r.used[r.col] = true
	r.stalks = append(r.stalks, stalk{col: r.col, value: oneLine(value)})
}

func oneLine(s string) string {
	return strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\r`, "\t", `\t`).Replace(s)
}

func (r *renderer) node(n Node) {
	switch n := n.(type) {
	case nil:
		r.write("nil")
	case *Constant:
		r.mark(n.Value)
		r.write(n.Text)
	case *Binary:
		r.node(n.Left)
		r.write(" ")
		r.mark(n.Value)
		r.write(n.Operator + " ")
		r.node(n.Right)
	case *Unary:
		r.mark(n.Value)
		r.write(n.Prefix)
		r.node(n.Operand)
		r.write(n.Suffix)
	case *MemberAccess:
		r.node(n.Container)
		r.write(".")
		r.mark(n.Value)
		r.write(n.Member)
	case *MethodCall:
		if n.Container != nil {
			r.node(n.Container)
		}

		if n.Member == IndexerName {
			r.mark(n.Value)
			r.write("[")
			r.list(n.Args)
			r.write("]")

			return
		}

		if n.Container != nil {
			r.write(".")
		}

		r.mark(n.Value)
		r.write(n.Member + "(")
		r.list(n.Args)
		r.write(")")
	case *Conditional:
		r.node(n.Test)
		r.write(" ")
		r.mark(n.TestValue)
		r.write("? ")
		r.node(n.IfTrue)
		r.write(" : ")
		r.node(n.IfFalse)
	case *NewArray:
		r.write("[]" + n.Type + "{")
		r.list(n.Items)
		r.write("}")
	case *NewObject:
		r.mark(n.Value)
		r.write(n.Type + "{")
		r.list(n.Args)
		r.write("}")
	case *MemberInit:
		r.mark(n.New.Value)
		r.write(n.New.Type + "{")
		r.list(n.Bindings)
		r.write("}")
	case *MemberAssignment:
		r.write(n.Member + ": ")
		r.node(n.Value)
	case *ArrayIndex:
		r.node(n.Array)
		r.mark(n.Value)
		r.write("[")
		r.node(n.Index)
		r.write("]")
	case *Invocation:
		r.node(n.Target)
		r.mark(n.Value)
		r.write("(")
		r.list(n.Args)
		r.write(")")
	case *TypeCheck:
		r.node(n.Operand)
		r.write(".")
		r.mark(n.Value)
		r.write("(" + n.Type + ")")
	}
}

func (r *renderer) list(nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			r.write(", ")
		}

		r.node(n)
	}
}
