package lsp

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"sharpx/internal/token"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions, StartChar and Length in UTF-16
// code units
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into SemanticTokenTypes
	TokenModifiers int // bitmask over SemanticTokenModifiers
}

const (
	typeKeyword = iota
	typeNumber
	typeString
	typeComment
	typeOperator
	typeVariable
	typeFunction
	typeMacro
)

const modDocumentation = 1 << 0

// tokenType maps a token to its semantic type. The second result is false
// for tokens that are not highlighted.
func tokenType(tokens token.Tokens, i int) (int, bool) {
	t := tokens[i]
	switch {
	case t.Kind == token.KEYWORD:
		return typeKeyword, true
	case t.Kind == token.NUMERIC_LITERAL:
		return typeNumber, true
	case t.Kind == token.STRING_LITERAL, t.Kind == token.CHAR_LITERAL, t.Kind == token.UNICODE_ESCAPE:
		return typeString, true
	case t.Kind.IsComment():
		return typeComment, true
	case t.Kind.IsDirective():
		return typeMacro, true
	case t.Kind.IsOperator():
		return typeOperator, true
	case t.Kind == token.IDENTIFIER:
		if next := nextSignificant(tokens, i); next != nil && next.Kind == token.LEFT_PAREN {
			return typeFunction, true
		}
		return typeVariable, true
	}
	return 0, false
}

func nextSignificant(tokens token.Tokens, i int) *token.Token {
	for j := i + 1; j < len(tokens); j++ {
		if !tokens[j].Kind.IsTrivia() {
			return &tokens[j]
		}
	}
	return nil
}

// collectSemanticTokens highlights tokens scanned from content. Tokens that
// span several lines are split into one entry per line.
func collectSemanticTokens(content string, tokens token.Tokens) []SemanticToken {
	var result []SemanticToken
	lines := newLineIndex(content)

	for i, t := range tokens {
		typ, ok := tokenType(tokens, i)
		if !ok {
			continue
		}
		mods := 0
		if t.Kind == token.COMMENT && strings.HasPrefix(t.Text, "///") {
			mods |= modDocumentation
		}

		offset := t.Position.Offset
		for n, segment := range strings.Split(t.Text, "\n") {
			line := t.Position.Line - 1 + n
			text := strings.TrimSuffix(segment, "\r")
			if text != "" {
				result = append(result, SemanticToken{
					Line:           uint32(line),
					StartChar:      uint32(lines.character(line, offset)),
					Length:         uint32(utf16Len(text)),
					TokenType:      typ,
					TokenModifiers: mods,
				})
			}
			offset += len(segment) + 1
		}
	}
	return result
}

// encodeSemanticTokens packs tokens into the LSP wire format using
// delta-line, delta-start compression.
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevStart uint32

	for _, t := range tokens {
		deltaLine := t.Line - prevLine
		deltaStart := t.StartChar
		if deltaLine == 0 {
			deltaStart = t.StartChar - prevStart
		}

		data = append(data, deltaLine, deltaStart, t.Length, uint32(t.TokenType), uint32(t.TokenModifiers))

		prevLine = t.Line
		prevStart = t.StartChar
	}
	return data
}

// lineIndex converts between byte offsets and LSP positions.
type lineIndex struct {
	content string
	starts  []int
}

func newLineIndex(content string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{content: content, starts: starts}
}

// character returns the UTF-16 column of a byte offset on a 0-based line.
func (li *lineIndex) character(line, offset int) int {
	if line < 0 || line >= len(li.starts) {
		return 0
	}
	start := li.starts[line]
	if offset < start || offset > len(li.content) {
		return 0
	}
	return utf16Len(li.content[start:offset])
}

// offset returns the byte offset of a 0-based line and UTF-16 column,
// clamped to the content.
func (li *lineIndex) offset(line, character int) int {
	if line < 0 {
		return 0
	}
	if line >= len(li.starts) {
		return len(li.content)
	}
	i := li.starts[line]
	for units := 0; i < len(li.content) && units < character; {
		r, size := utf8.DecodeRuneInString(li.content[i:])
		if r == '\n' {
			break
		}
		units += utf16RuneLen(r)
		i += size
	}
	return i
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// utf16RuneLen mirrors utf16.RuneLen (Go 1.23+): the number of UTF-16
// code units needed to encode r, or -1 if r is not encodable.
func utf16RuneLen(r rune) int {
	switch {
	case 0 <= r && r < 0xd800, 0xe000 <= r && r < 0x10000:
		return 1
	case 0x10000 <= r && r <= unicode.MaxRune:
		return 2
	default:
		return -1
	}
}
