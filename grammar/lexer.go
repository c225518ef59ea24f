package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// BaseLexer tokenizes Base Language source. It is independent of the
// hand-written scanner and only has to be precise enough to find bracket
// structure: operators, for instance, are lexed as runs.
var BaseLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{Name: "Comment", Pattern: `//[^\n]*`, Action: nil},
		{Name: "BlockComment", Pattern: `/\*([^*]|\*+[^*/])*\*+/`, Action: nil},

		// Preprocessor lines
		{Name: "Directive", Pattern: `#[^\n]*`, Action: nil},

		// Literals (verbatim before plain strings and identifiers)
		{Name: "VerbatimString", Pattern: `(?:@\$|\$@|@)"(?:[^"]|"")*"`, Action: nil},
		{Name: "String", Pattern: `\$?"(?:\\.|[^"\\])*"`, Action: nil},
		{Name: "Char", Pattern: `'(?:\\.|[^'\\])*'`, Action: nil},
		{Name: "Number", Pattern: `(?:0[xXbB][0-9a-fA-F_]+|(?:[0-9][0-9_]*)?\.?[0-9][0-9_]*(?:[eE][+-]?[0-9]+)?)[fFdDmMuUlL]*`, Action: nil},

		// Keywords and identifiers
		{Name: "Ident", Pattern: `@?[\p{L}_][\p{L}\p{N}_]*`, Action: nil},
		{Name: "Escape", Pattern: `\\[uU][0-9a-fA-F]+`, Action: nil},

		// Brackets
		{Name: "Open", Pattern: `[(\[{]`, Action: nil},
		{Name: "Close", Pattern: `[)\]}]`, Action: nil},

		// Operators and separators
		{Name: "Operator", Pattern: `[-+*/%&|^!~<>=?.,:;]+`, Action: nil},

		// Whitespace, including U+FEFF (byte order mark)
		{Name: "Whitespace", Pattern: `[\s\v\p{Zs}\x{85}\x{2028}\x{2029}\x{FEFF}]+`, Action: nil},
	},
})
