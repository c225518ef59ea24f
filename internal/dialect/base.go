// Package dialect holds the compiled-in rule sets for the Base Language and
// the Extended Dialect, and loads custom rule sets from dialect files.
package dialect

import (
	"fmt"

	"sharpx/internal/scanner"
	"sharpx/internal/token"
)

const (
	BaseName     = "base"
	ExtendedName = "extended"
)

var baseKeywords = []string{
	"abstract", "as", "base", "bool", "break", "byte", "case", "catch",
	"char", "checked", "class", "const", "continue", "decimal", "default",
	"delegate", "do", "double", "else", "enum", "event", "explicit", "extern",
	"false", "finally", "fixed", "float", "for", "foreach", "goto", "if",
	"implicit", "in", "int", "interface", "internal", "is", "lock", "long",
	"namespace", "new", "null", "object", "operator", "out", "override",
	"params", "private", "protected", "public", "readonly", "ref", "return",
	"sbyte", "sealed", "short", "sizeof", "stackalloc", "static", "string",
	"struct", "switch", "this", "throw", "true", "try", "typeof", "uint",
	"ulong", "unchecked", "unsafe", "ushort", "using", "virtual", "void",
	"volatile", "while",

	// contextual
	"var", "async", "await", "dynamic", "yield", "nameof", "record",
}

// Declaration order only matters between spellings of equal length.
var baseOperators = []scanner.Operator{
	{Spelling: "+", Kind: token.PLUS},
	{Spelling: "++", Kind: token.PLUS_PLUS},
	{Spelling: "+=", Kind: token.PLUS_EQUAL},
	{Spelling: "-", Kind: token.MINUS},
	{Spelling: "--", Kind: token.MINUS_MINUS},
	{Spelling: "-=", Kind: token.MINUS_EQUAL},
	{Spelling: "->", Kind: token.ARROW},
	{Spelling: "*", Kind: token.STAR},
	{Spelling: "*=", Kind: token.STAR_EQUAL},
	{Spelling: "/", Kind: token.SLASH},
	{Spelling: "/=", Kind: token.SLASH_EQUAL},
	{Spelling: "%", Kind: token.PERCENT},
	{Spelling: "%=", Kind: token.PERCENT_EQUAL},

	{Spelling: "&", Kind: token.AMPERSAND},
	{Spelling: "&&", Kind: token.AND},
	{Spelling: "&=", Kind: token.AMPERSAND_EQUAL},
	{Spelling: "|", Kind: token.PIPE},
	{Spelling: "||", Kind: token.OR},
	{Spelling: "|=", Kind: token.PIPE_EQUAL},
	{Spelling: "^", Kind: token.CARET},
	{Spelling: "^=", Kind: token.CARET_EQUAL},
	{Spelling: "~", Kind: token.TILDE},
	{Spelling: "!", Kind: token.BANG},
	{Spelling: "?", Kind: token.QUESTION},
	{Spelling: "?.", Kind: token.QUESTION_DOT},
	{Spelling: "??", Kind: token.QUESTION_QUESTION},
	{Spelling: "??=", Kind: token.QUESTION_QUESTION_EQUAL},

	{Spelling: "=", Kind: token.EQUAL},
	{Spelling: "==", Kind: token.EQUAL_EQUAL},
	{Spelling: "=>", Kind: token.FAT_ARROW},
	{Spelling: "!=", Kind: token.BANG_EQUAL},
	{Spelling: "<", Kind: token.LESS},
	{Spelling: "<=", Kind: token.LESS_EQUAL},
	{Spelling: "<<", Kind: token.LESS_LESS},
	{Spelling: "<<=", Kind: token.LESS_LESS_EQUAL},
	{Spelling: ">", Kind: token.GREATER},
	{Spelling: ">=", Kind: token.GREATER_EQUAL},
	{Spelling: ">>", Kind: token.GREATER_GREATER},
	{Spelling: ">>=", Kind: token.GREATER_GREATER_EQUAL},

	{Spelling: "(", Kind: token.LEFT_PAREN},
	{Spelling: ")", Kind: token.RIGHT_PAREN},
	{Spelling: "{", Kind: token.LEFT_BRACE},
	{Spelling: "}", Kind: token.RIGHT_BRACE},
	{Spelling: "[", Kind: token.LEFT_BRACKET},
	{Spelling: "]", Kind: token.RIGHT_BRACKET},

	{Spelling: ".", Kind: token.DOT},
	{Spelling: "..", Kind: token.DOT_DOT},
	{Spelling: ",", Kind: token.COMMA},
	{Spelling: ":", Kind: token.COLON},
	{Spelling: "::", Kind: token.DOUBLE_COLON},
	{Spelling: ";", Kind: token.SEMICOLON},
}

var (
	base = scanner.NewRules(
		scanner.WithName(BaseName),
		scanner.WithKeywords(scanner.NewKeywordSet(baseKeywords...)),
		scanner.WithVerbatimSigil('@'),
		scanner.WithInterpolationSigil('$'),
		scanner.WithDirectiveSigil('#'),
		scanner.WithComments("//", "/*", "*/"),
		scanner.WithOperators(baseOperators),
	)

	extended = base.With(
		scanner.WithName(ExtendedName),
		scanner.WithDirectives(true),
		scanner.WithMacroBlocks('{', '}'),
		scanner.WithShellExec('!'),
	)
)

// Base returns the Base Language rules. Directive lines are scanned as
// single DIRECTIVE tokens.
func Base() *scanner.Rules {
	return base
}

// Extended returns the Extended Dialect rules: the Base Language plus macro
// blocks (#{ ... #}) and shell-execute lines (#!cmd).
func Extended() *scanner.Rules {
	return extended
}

// Lookup returns the compiled-in rule set with the given name.
func Lookup(name string) (*scanner.Rules, error) {
	switch name {
	case BaseName:
		return base, nil
	case ExtendedName:
		return extended, nil
	default:
		return nil, fmt.Errorf("unknown dialect %q (want %q or %q)", name, BaseName, ExtendedName)
	}
}
