// Package scanner implements a single-pass tokenizer whose lexical details
// (keywords, sigils, directive forms, operator table) come from a Rules value.
package scanner

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"sharpx/internal/token"
)

const (
	eof           rune = -1
	byteOrderMark rune = 0xFEFF
)

// Scanner tokenizes one input. It is single-use: call ScanTokens once.
type Scanner struct {
	source      string
	rules       *Rules
	tokens      token.Tokens
	start       int
	current     int
	line        int
	column      int
	startLine   int
	startColumn int
	errors      []ScanError
	fatal       *ScanError
	scanned     bool
}

func New(source string, rules *Rules) *Scanner {
	if rules == nil {
		rules = NewRules()
	}
	return &Scanner{
		source: source,
		rules:  rules,
		line:   1,
		column: 1,
	}
}

// Tokenize scans source with rules. On a fatal error the returned tokens end
// with the offending token and err is a *ScanError.
func Tokenize(source string, rules *Rules) (token.Tokens, error) {
	s := New(source, rules)
	tokens := s.ScanTokens()
	if err := s.Err(); err != nil {
		return tokens, err
	}
	return tokens, nil
}

// ScanTokens runs the scan pass. Later calls return the same tokens.
func (s *Scanner) ScanTokens() token.Tokens {
	if s.scanned {
		return s.tokens
	}
	s.scanned = true
	for !s.isAtEnd() && s.fatal == nil {
		s.start = s.current
		s.startLine = s.line
		s.startColumn = s.column
		s.scanToken()
	}
	return s.tokens
}

// Errors returns every error recorded during the pass, fatal or not.
func (s *Scanner) Errors() []ScanError {
	return s.errors
}

// Err returns the error that ended the pass, or nil.
func (s *Scanner) Err() error {
	if s.fatal == nil {
		return nil
	}
	return s.fatal
}

func (s *Scanner) scanToken() {
	c := s.peek()
	rest := s.source[s.current:]
	r := s.rules

	switch {
	case isWhitespace(c):
		s.scanWhitespace()
	case r.lineComment != "" && strings.HasPrefix(rest, r.lineComment):
		s.scanLineComment()
	case r.blockCommentOpen != "" && strings.HasPrefix(rest, r.blockCommentOpen):
		s.scanBlockComment()
	case r.directiveSigil != 0 && c == r.directiveSigil:
		s.scanDirective()
	case r.verbatimSigil != 0 && c == r.verbatimSigil:
		s.scanVerbatimSigil()
	case r.interpolationSigil != 0 && c == r.interpolationSigil:
		s.scanInterpolationSigil()
	case c == '"':
		s.advance()
		s.scanQuoted('"', token.STRING_LITERAL)
	case c == '\'':
		s.advance()
		s.scanQuoted('\'', token.CHAR_LITERAL)
	case isDigit(c) || (c == '.' && isDigit(s.peekNext())):
		s.scanNumber()
	case isIdentStart(c):
		s.scanIdentifier()
	case c == '\\' && (s.peekNext() == 'u' || s.peekNext() == 'U'):
		s.scanUnicodeEscape()
	default:
		s.scanOperator()
	}
}

func (s *Scanner) scanWhitespace() {
	for isWhitespace(s.peek()) {
		s.advance()
	}
	s.addToken(token.WHITESPACE)
}

func (s *Scanner) scanLineComment() {
	for !s.isAtEnd() && s.peek() != '\n' {
		s.advance()
	}
	s.addToken(token.COMMENT)
}

func (s *Scanner) scanBlockComment() {
	s.skip(len(s.rules.blockCommentOpen))
	for !s.isAtEnd() {
		if strings.HasPrefix(s.source[s.current:], s.rules.blockCommentClose) {
			s.skip(len(s.rules.blockCommentClose))
			s.addToken(token.BLOCK_COMMENT)
			return
		}
		s.advance()
	}
	s.addToken(token.BLOCK_COMMENT)
	s.fail(UnterminatedLiteral, "unterminated block comment")
}

// scanQuoted scans the body of a backslash-escaped literal whose opening
// quote has been consumed.
func (s *Scanner) scanQuoted(quote rune, kind token.Kind) {
	for !s.isAtEnd() {
		c := s.advance()
		switch c {
		case '\\':
			if !s.isAtEnd() {
				s.advance()
			}
		case quote:
			s.addToken(kind)
			return
		}
	}
	s.addToken(kind)
	if kind == token.CHAR_LITERAL {
		s.fail(UnterminatedLiteral, "unterminated character literal")
	} else {
		s.fail(UnterminatedLiteral, "unterminated string literal")
	}
}

// scanVerbatim scans the body of a verbatim string whose opening quote has
// been consumed. A doubled quote is an escaped quote.
func (s *Scanner) scanVerbatim() {
	for !s.isAtEnd() {
		if s.advance() != '"' {
			continue
		}
		if s.peek() == '"' {
			s.advance()
			continue
		}
		s.addToken(token.STRING_LITERAL)
		return
	}
	s.addToken(token.STRING_LITERAL)
	s.fail(UnterminatedLiteral, "unterminated verbatim string literal")
}

func (s *Scanner) scanVerbatimSigil() {
	s.advance()
	next := s.peek()
	switch {
	case next == '"':
		s.advance()
		s.scanVerbatim()
	case s.rules.interpolationSigil != 0 && next == s.rules.interpolationSigil && s.peekNext() == '"':
		s.advance()
		s.advance()
		s.scanVerbatim()
	case isIdentStart(next):
		// verbatim identifier, never a keyword
		for isIdentPart(s.peek()) {
			s.advance()
		}
		s.addToken(token.IDENTIFIER)
	default:
		s.unknown()
	}
}

func (s *Scanner) scanInterpolationSigil() {
	s.advance()
	next := s.peek()
	switch {
	case next == '"':
		s.advance()
		s.scanQuoted('"', token.STRING_LITERAL)
	case s.rules.verbatimSigil != 0 && next == s.rules.verbatimSigil && s.peekNext() == '"':
		s.advance()
		s.advance()
		s.scanVerbatim()
	default:
		s.unknown()
	}
}

func (s *Scanner) scanNumber() {
	if s.peek() == '0' {
		switch s.peekNext() {
		case 'x', 'X', 'b', 'B':
			s.advance()
			s.advance()
			for isHexDigit(s.peek()) || s.peek() == '_' {
				s.advance()
			}
			s.scanNumberSuffix()
			s.addToken(token.NUMERIC_LITERAL)
			return
		}
	}

	s.scanDigits()
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		s.scanDigits()
	}
	if e := s.peek(); e == 'e' || e == 'E' {
		next := s.peekNext()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(s.peekAt(2))) {
			s.advance()
			s.advance()
			s.scanDigits()
		}
	}
	s.scanNumberSuffix()
	s.addToken(token.NUMERIC_LITERAL)
}

func (s *Scanner) scanDigits() {
	for isDigit(s.peek()) || s.peek() == '_' {
		s.advance()
	}
}

func (s *Scanner) scanNumberSuffix() {
	for strings.ContainsRune("fFdDmMuUlL", s.peek()) && s.peek() != eof {
		s.advance()
	}
}

func (s *Scanner) scanIdentifier() {
	for isIdentPart(s.peek()) {
		s.advance()
	}
	if s.rules.keywords.Has(s.source[s.start:s.current]) {
		s.addToken(token.KEYWORD)
		return
	}
	s.addToken(token.IDENTIFIER)
}

// scanUnicodeEscape scans \uXXXX or \UXXXXXXXX outside of literals. A
// backslash without enough hex digits is an unknown character.
func (s *Scanner) scanUnicodeEscape() {
	digits := 4
	if s.peekNext() == 'U' {
		digits = 8
	}
	for i := 0; i < digits; i++ {
		if !isHexDigit(s.peekAt(2 + i)) {
			s.advance()
			s.unknown()
			return
		}
	}
	s.skip(2 + digits)
	s.addToken(token.UNICODE_ESCAPE)
}

func (s *Scanner) scanDirective() {
	s.advance()
	r := s.rules
	if r.directives {
		switch next := s.peek(); {
		case r.blockOpen != 0 && next == r.blockOpen:
			s.advance()
			s.scanMacroBlock()
			return
		case r.blockClose != 0 && next == r.blockClose:
			s.advance()
			s.addToken(token.UNKNOWN)
			s.fail(MacroBlockUnbalanced, "macro block close without a matching open")
			return
		case r.shellExec != 0 && next == r.shellExec:
			s.advance()
			s.scanToLineEnd()
			s.addToken(token.SHELL_EXEC)
			return
		}
	}
	s.scanToLineEnd()
	s.addToken(token.DIRECTIVE)
}

// scanMacroBlock scans a macro block whose open marker has been consumed.
// Nested blocks must balance; the token spans the outermost block.
func (s *Scanner) scanMacroBlock() {
	r := s.rules
	depth := 1
	for !s.isAtEnd() {
		if s.advance() != r.directiveSigil {
			continue
		}
		switch s.peek() {
		case r.blockOpen:
			s.advance()
			depth++
		case r.blockClose:
			s.advance()
			depth--
			if depth == 0 {
				s.addToken(token.MACRO_BLOCK)
				return
			}
		}
	}
	s.addToken(token.MACRO_BLOCK)
	s.fail(MacroBlockUnbalanced, fmt.Sprintf("macro block is never closed (%d open)", depth))
}

func (s *Scanner) scanToLineEnd() {
	for !s.isAtEnd() && s.peek() != '\n' {
		s.advance()
	}
}

func (s *Scanner) scanOperator() {
	if op, ok := s.rules.match(s.source[s.current:]); ok {
		s.skip(len(op.Spelling))
		s.addToken(op.Kind)
		return
	}
	s.advance()
	s.unknown()
}

// unknown emits the consumed span as an UNKNOWN token and records a
// non-fatal error.
func (s *Scanner) unknown() {
	s.addToken(token.UNKNOWN)
	s.report(UnrecognizedCharacter, fmt.Sprintf("unexpected character %q", s.source[s.start:s.current]))
}

func (s *Scanner) advance() rune {
	c, size := utf8.DecodeRuneInString(s.source[s.current:])
	s.current += size
	if c == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return c
}

// skip advances over n bytes.
func (s *Scanner) skip(n int) {
	end := s.current + n
	for s.current < end && !s.isAtEnd() {
		s.advance()
	}
}

func (s *Scanner) peek() rune {
	return s.peekAt(0)
}

func (s *Scanner) peekNext() rune {
	return s.peekAt(1)
}

// peekAt returns the rune n positions past the cursor without consuming it.
func (s *Scanner) peekAt(n int) rune {
	i := s.current
	for ; n > 0; n-- {
		if i >= len(s.source) {
			return eof
		}
		_, size := utf8.DecodeRuneInString(s.source[i:])
		i += size
	}
	if i >= len(s.source) {
		return eof
	}
	c, _ := utf8.DecodeRuneInString(s.source[i:])
	return c
}

func (s *Scanner) addToken(kind token.Kind) {
	s.tokens = append(s.tokens, token.Token{
		Kind: kind,
		Text: s.source[s.start:s.current],
		Position: token.Position{
			Line:   s.startLine,
			Column: s.startColumn,
			Offset: s.start,
		},
	})
}

func (s *Scanner) report(kind ErrorKind, message string) {
	s.errors = append(s.errors, ScanError{
		Kind:     kind,
		Message:  message,
		Position: token.Position{Line: s.startLine, Column: s.startColumn, Offset: s.start},
		Length:   s.current - s.start,
	})
}

func (s *Scanner) fail(kind ErrorKind, message string) {
	s.report(kind, message)
	err := s.errors[len(s.errors)-1]
	s.fatal = &err
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

// Helper functions.

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c rune) bool {
	return ('0' <= c && c <= '9') ||
		('a' <= c && c <= 'f') ||
		('A' <= c && c <= 'F')
}

func isIdentStart(c rune) bool {
	return c == '_' || (c != eof && unicode.IsLetter(c))
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || (c != eof && unicode.IsDigit(c))
}

// isWhitespace accepts the Unicode white space set plus U+FEFF, which
// editors write as a byte order mark at the start of C# files.
func isWhitespace(c rune) bool {
	return c != eof && (unicode.IsSpace(c) || c == byteOrderMark)
}
