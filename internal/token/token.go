// Package token defines the lexical tokens produced by the scanner and
// rewritten by the dialect processor.
package token

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Position struct {
	Line   int // 1-based
	Column int // 1-based, in runes
	Offset int // 0-based byte index in input
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Start is the position of the first byte of any input.
var Start = Position{Line: 1, Column: 1}

// Advance returns the position reached after reading text from p.
func Advance(p Position, text string) Position {
	for _, r := range text {
		if r == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
	}
	p.Offset += len(text)
	return p
}

// Rebase maps p, measured from the start of a sub-input, into the
// coordinates of the enclosing input where that sub-input begins at origin.
func Rebase(p, origin Position) Position {
	if p.Line == 1 {
		p.Column += origin.Column - 1
	}
	p.Line += origin.Line - 1
	p.Offset += origin.Offset
	return p
}

// Token is a classified span of source text. Text is the exact substring of
// the input the token was scanned from.
type Token struct {
	Kind     Kind
	Text     string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}

// End returns the position just past the token.
func (t Token) End() Position {
	return Advance(t.Position, t.Text)
}

// Len returns the token length in runes.
func (t Token) Len() int {
	return utf8.RuneCountInString(t.Text)
}

// Tokens is an ordered token sequence.
type Tokens []Token

// Add appends a generated token at the given position.
func (tk *Tokens) Add(kind Kind, text string, pos Position) *Tokens {
	*tk = append(*tk, Token{Kind: kind, Text: text, Position: pos})
	return tk
}

// AddTokens appends the given tokens.
func (tk *Tokens) AddTokens(toks ...Token) *Tokens {
	*tk = append(*tk, toks...)
	return tk
}

// Insert places toks before index i.
func (tk *Tokens) Insert(i int, toks ...Token) *Tokens {
	*tk = append((*tk)[:i], append(toks, (*tk)[i:]...)...)
	return tk
}

// Last returns the final token, or nil for an empty sequence.
func (tk Tokens) Last() *Token {
	if len(tk) == 0 {
		return nil
	}
	return &tk[len(tk)-1]
}

// Code concatenates the token texts. For a sequence produced by the scanner
// this reproduces the input exactly.
func (tk Tokens) Code() string {
	var sb strings.Builder
	for _, t := range tk {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// String is the debug form: each token as [KIND] text.
func (tk Tokens) String() string {
	parts := make([]string, 0, len(tk))
	for _, t := range tk {
		parts = append(parts, "["+t.Kind.String()+"] "+t.Text)
	}
	return strings.Join(parts, " ")
}

// Kinds returns the kind of every token, in order.
func (tk Tokens) Kinds() []Kind {
	kinds := make([]Kind, len(tk))
	for i, t := range tk {
		kinds[i] = t.Kind
	}
	return kinds
}

// Significant returns the tokens that are not trivia.
func (tk Tokens) Significant() Tokens {
	out := make(Tokens, 0, len(tk))
	for _, t := range tk {
		if !t.Kind.IsTrivia() {
			out = append(out, t)
		}
	}
	return out
}

// BracketDepths returns the net open depth of parens, braces and brackets.
func (tk Tokens) BracketDepths() (paren, brace, brack int) {
	for _, t := range tk {
		switch t.Kind {
		case LEFT_PAREN:
			paren++
		case RIGHT_PAREN:
			paren--
		case LEFT_BRACE:
			brace++
		case RIGHT_BRACE:
			brace--
		case LEFT_BRACKET:
			brack++
		case RIGHT_BRACKET:
			brack--
		}
	}
	return
}
