package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Program is the bracket structure of a Base Language source file.
type Program struct {
	Pos   lexer.Position
	Nodes []*Node `parser:"@@*"`
}

type Node struct {
	Pos     lexer.Position
	Paren   *Paren   `parser:"  @@"`
	Brace   *Brace   `parser:"| @@"`
	Bracket *Bracket `parser:"| @@"`
	Atom    *Atom    `parser:"| @@"`
}

type Paren struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Nodes  []*Node `parser:"\"(\" @@* \")\""`
}

type Brace struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Nodes  []*Node `parser:"\"{\" @@* \"}\""`
}

type Bracket struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Nodes  []*Node `parser:"\"[\" @@* \"]\""`
}

type Atom struct {
	Pos       lexer.Position
	Directive string `parser:"  @Directive"`
	Text      string `parser:"| @(Ident | Escape | Number | String | VerbatimString | Char | Operator)"`
}

// Children returns the nested nodes of a bracket group, or nil for an atom.
func (n *Node) Children() []*Node {
	switch {
	case n.Paren != nil:
		return n.Paren.Nodes
	case n.Brace != nil:
		return n.Brace.Nodes
	case n.Bracket != nil:
		return n.Bracket.Nodes
	}
	return nil
}

// Walk calls fn for every node in depth-first order.
func (p *Program) Walk(fn func(*Node)) {
	var walk func([]*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			fn(n)
			walk(n.Children())
		}
	}
	walk(p.Nodes)
}

// Directives returns every preprocessor line in the program.
func (p *Program) Directives() []*Atom {
	var out []*Atom
	p.Walk(func(n *Node) {
		if n.Atom != nil && n.Atom.Directive != "" {
			out = append(out, n.Atom)
		}
	})
	return out
}

// Depth returns the deepest bracket nesting level.
func (p *Program) Depth() int {
	var depth func([]*Node) int
	depth = func(nodes []*Node) int {
		max := 0
		for _, n := range nodes {
			if n.Atom != nil {
				continue
			}
			if d := 1 + depth(n.Children()); d > max {
				max = d
			}
		}
		return max
	}
	return depth(p.Nodes)
}
