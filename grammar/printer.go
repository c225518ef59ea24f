package grammar

import (
	"strings"
)

func indent(level int) string {
	return strings.Repeat("    ", level)
}

// String renders the program as an outline: atoms of one level joined by
// spaces, each bracket group opened on its own indented line.
func (p *Program) String() string {
	var b strings.Builder
	writeNodes(&b, p.Nodes, 0)
	return b.String()
}

func writeNodes(b *strings.Builder, nodes []*Node, level int) {
	var line []string
	flush := func() {
		if len(line) > 0 {
			b.WriteString(indent(level) + strings.Join(line, " ") + "\n")
			line = line[:0]
		}
	}
	for _, n := range nodes {
		if n.Atom != nil {
			if n.Atom.Directive != "" {
				flush()
				b.WriteString(indent(level) + n.Atom.Directive + "\n")
				continue
			}
			line = append(line, n.Atom.Text)
			continue
		}
		flush()
		open, close := n.Delimiters()
		b.WriteString(indent(level) + open + "\n")
		writeNodes(b, n.Children(), level+1)
		b.WriteString(indent(level) + close + "\n")
	}
	flush()
}

// Delimiters returns the bracket pair of a group node, or empty strings for
// an atom.
func (n *Node) Delimiters() (open, close string) {
	switch {
	case n.Paren != nil:
		return "(", ")"
	case n.Brace != nil:
		return "{", "}"
	case n.Bracket != nil:
		return "[", "]"
	}
	return "", ""
}
