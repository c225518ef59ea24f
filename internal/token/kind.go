package token

import "fmt"

// Kind is the lexical category of a token. Categories are mutually exclusive;
// the only reclassification the scanner performs is IDENTIFIER -> KEYWORD.
type Kind int

const (
	// Special tokens
	UNKNOWN Kind = iota

	// Trivia
	WHITESPACE
	COMMENT
	BLOCK_COMMENT

	// Identifiers + literals
	IDENTIFIER
	KEYWORD
	NUMERIC_LITERAL
	STRING_LITERAL
	CHAR_LITERAL
	UNICODE_ESCAPE

	// Directives
	DIRECTIVE
	MACRO_BLOCK
	SHELL_EXEC

	// Arithmetic operators
	PLUS
	PLUS_PLUS
	PLUS_EQUAL
	MINUS
	MINUS_MINUS
	MINUS_EQUAL
	ARROW
	STAR
	STAR_EQUAL
	SLASH
	SLASH_EQUAL
	PERCENT
	PERCENT_EQUAL

	// Bitwise and logical operators
	AMPERSAND
	AND
	AMPERSAND_EQUAL
	PIPE
	OR
	PIPE_EQUAL
	CARET
	CARET_EQUAL
	TILDE
	BANG
	QUESTION
	QUESTION_DOT
	QUESTION_QUESTION
	QUESTION_QUESTION_EQUAL

	// Assignment, comparison and shift operators
	EQUAL
	EQUAL_EQUAL
	FAT_ARROW
	BANG_EQUAL
	LESS
	LESS_EQUAL
	LESS_LESS
	LESS_LESS_EQUAL
	GREATER
	GREATER_EQUAL
	GREATER_GREATER
	GREATER_GREATER_EQUAL

	// Brackets
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	LEFT_BRACKET
	RIGHT_BRACKET

	// Separators
	DOT
	DOT_DOT
	COMMA
	COLON
	DOUBLE_COLON
	SEMICOLON

	kindCount
)

var kindNames = [...]string{
	UNKNOWN:                 "UNKNOWN",
	WHITESPACE:              "WHITESPACE",
	COMMENT:                 "COMMENT",
	BLOCK_COMMENT:           "BLOCK_COMMENT",
	IDENTIFIER:              "IDENTIFIER",
	KEYWORD:                 "KEYWORD",
	NUMERIC_LITERAL:         "NUMERIC_LITERAL",
	STRING_LITERAL:          "STRING_LITERAL",
	CHAR_LITERAL:            "CHAR_LITERAL",
	UNICODE_ESCAPE:          "UNICODE_ESCAPE",
	DIRECTIVE:               "DIRECTIVE",
	MACRO_BLOCK:             "MACRO_BLOCK",
	SHELL_EXEC:              "SHELL_EXEC",
	PLUS:                    "PLUS",
	PLUS_PLUS:               "PLUS_PLUS",
	PLUS_EQUAL:              "PLUS_EQUAL",
	MINUS:                   "MINUS",
	MINUS_MINUS:             "MINUS_MINUS",
	MINUS_EQUAL:             "MINUS_EQUAL",
	ARROW:                   "ARROW",
	STAR:                    "STAR",
	STAR_EQUAL:              "STAR_EQUAL",
	SLASH:                   "SLASH",
	SLASH_EQUAL:             "SLASH_EQUAL",
	PERCENT:                 "PERCENT",
	PERCENT_EQUAL:           "PERCENT_EQUAL",
	AMPERSAND:               "AMPERSAND",
	AND:                     "AND",
	AMPERSAND_EQUAL:         "AMPERSAND_EQUAL",
	PIPE:                    "PIPE",
	OR:                      "OR",
	PIPE_EQUAL:              "PIPE_EQUAL",
	CARET:                   "CARET",
	CARET_EQUAL:             "CARET_EQUAL",
	TILDE:                   "TILDE",
	BANG:                    "BANG",
	QUESTION:                "QUESTION",
	QUESTION_DOT:            "QUESTION_DOT",
	QUESTION_QUESTION:       "QUESTION_QUESTION",
	QUESTION_QUESTION_EQUAL: "QUESTION_QUESTION_EQUAL",
	EQUAL:                   "EQUAL",
	EQUAL_EQUAL:             "EQUAL_EQUAL",
	FAT_ARROW:               "FAT_ARROW",
	BANG_EQUAL:              "BANG_EQUAL",
	LESS:                    "LESS",
	LESS_EQUAL:              "LESS_EQUAL",
	LESS_LESS:               "LESS_LESS",
	LESS_LESS_EQUAL:         "LESS_LESS_EQUAL",
	GREATER:                 "GREATER",
	GREATER_EQUAL:           "GREATER_EQUAL",
	GREATER_GREATER:         "GREATER_GREATER",
	GREATER_GREATER_EQUAL:   "GREATER_GREATER_EQUAL",
	LEFT_PAREN:              "LEFT_PAREN",
	RIGHT_PAREN:             "RIGHT_PAREN",
	LEFT_BRACE:              "LEFT_BRACE",
	RIGHT_BRACE:             "RIGHT_BRACE",
	LEFT_BRACKET:            "LEFT_BRACKET",
	RIGHT_BRACKET:           "RIGHT_BRACKET",
	DOT:                     "DOT",
	DOT_DOT:                 "DOT_DOT",
	COMMA:                   "COMMA",
	COLON:                   "COLON",
	DOUBLE_COLON:            "DOUBLE_COLON",
	SEMICOLON:               "SEMICOLON",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText lets kinds appear by name in JSON token dumps.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// LookupKind returns the kind with the given name.
func LookupKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return UNKNOWN, false
}

func (k Kind) IsOperator() bool {
	return k >= PLUS && k <= GREATER_GREATER_EQUAL
}

func (k Kind) IsPunctuation() bool {
	return k >= LEFT_PAREN && k <= SEMICOLON
}

func (k Kind) IsComment() bool {
	return k == COMMENT || k == BLOCK_COMMENT
}

func (k Kind) IsLiteral() bool {
	return k == NUMERIC_LITERAL || k == STRING_LITERAL || k == CHAR_LITERAL
}

// IsDirective reports whether k was introduced by the directive sigil.
func (k Kind) IsDirective() bool {
	return k == DIRECTIVE || k == MACRO_BLOCK || k == SHELL_EXEC
}

// IsTrivia reports whether k carries no meaning for a parser.
func (k Kind) IsTrivia() bool {
	return k == WHITESPACE || k.IsComment()
}
