package scanner_test

import (
	"errors"
	"sync"
	"testing"

	"sharpx/internal/dialect"
	"sharpx/internal/scanner"
	"sharpx/internal/token"
)

type kt struct {
	kind token.Kind
	text string
}

func scan(t *testing.T, input string, rules *scanner.Rules) token.Tokens {
	t.Helper()
	tokens, err := scanner.Tokenize(input, rules)
	if err != nil {
		t.Fatalf("unexpected error scanning %q: %v", input, err)
	}
	return tokens
}

func expectTokens(t *testing.T, tokens token.Tokens, expected []kt) {
	t.Helper()
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %s", len(expected), len(tokens), tokens)
	}
	for i, exp := range expected {
		if tokens[i].Kind != exp.kind || tokens[i].Text != exp.text {
			t.Errorf("token %d: expected %s %q, got %s %q", i, exp.kind, exp.text, tokens[i].Kind, tokens[i].Text)
		}
	}
}

func TestStatement(t *testing.T) {
	tokens := scan(t, "int x = 1+1;", dialect.Base())
	expectTokens(t, tokens, []kt{
		{token.KEYWORD, "int"},
		{token.WHITESPACE, " "},
		{token.IDENTIFIER, "x"},
		{token.WHITESPACE, " "},
		{token.EQUAL, "="},
		{token.WHITESPACE, " "},
		{token.NUMERIC_LITERAL, "1"},
		{token.PLUS, "+"},
		{token.NUMERIC_LITERAL, "1"},
		{token.SEMICOLON, ";"},
	})
}

func TestUnicodeWhitespace(t *testing.T) {
	s := scanner.New("\ufeffint\u00a0x\v=\u20281;", dialect.Extended())
	tokens := s.ScanTokens()
	expectTokens(t, tokens, []kt{
		{token.WHITESPACE, "\ufeff"},
		{token.KEYWORD, "int"},
		{token.WHITESPACE, "\u00a0"},
		{token.IDENTIFIER, "x"},
		{token.WHITESPACE, "\v"},
		{token.EQUAL, "="},
		{token.WHITESPACE, "\u2028"},
		{token.NUMERIC_LITERAL, "1"},
		{token.SEMICOLON, ";"},
	})
	if len(s.Errors()) != 0 {
		t.Errorf("expected no errors, got %v", s.Errors())
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	input := "class Class var _x @class int1 while WHILE"
	expected := []token.Kind{
		token.KEYWORD, token.IDENTIFIER, token.KEYWORD, token.IDENTIFIER,
		token.IDENTIFIER, token.IDENTIFIER, token.KEYWORD, token.IDENTIFIER,
	}

	tokens := scan(t, input, dialect.Base()).Significant()
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, exp := range expected {
		if tokens[i].Kind != exp {
			t.Errorf("%q: expected %s, got %s", tokens[i].Text, exp, tokens[i].Kind)
		}
	}
	if tokens[4].Text != "@class" {
		t.Errorf("verbatim identifier should keep its sigil, got %q", tokens[4].Text)
	}
}

func TestMaximalMunch(t *testing.T) {
	tokens := scan(t, "a+=b++ + c ??= d >>= e?.f => g::h .. i <<j", dialect.Base()).Significant()
	expectTokens(t, tokens, []kt{
		{token.IDENTIFIER, "a"},
		{token.PLUS_EQUAL, "+="},
		{token.IDENTIFIER, "b"},
		{token.PLUS_PLUS, "++"},
		{token.PLUS, "+"},
		{token.IDENTIFIER, "c"},
		{token.QUESTION_QUESTION_EQUAL, "??="},
		{token.IDENTIFIER, "d"},
		{token.GREATER_GREATER_EQUAL, ">>="},
		{token.IDENTIFIER, "e"},
		{token.QUESTION_DOT, "?."},
		{token.IDENTIFIER, "f"},
		{token.FAT_ARROW, "=>"},
		{token.IDENTIFIER, "g"},
		{token.DOUBLE_COLON, "::"},
		{token.IDENTIFIER, "h"},
		{token.DOT_DOT, ".."},
		{token.IDENTIFIER, "i"},
		{token.LESS_LESS, "<<"},
		{token.IDENTIFIER, "j"},
	})
}

func TestOperatorTies(t *testing.T) {
	rules := scanner.NewRules(scanner.WithOperators([]scanner.Operator{
		{Spelling: "<", Kind: token.LESS},
		{Spelling: "<>", Kind: token.BANG_EQUAL},
		{Spelling: "<>", Kind: token.LESS_EQUAL},
	}))
	tokens := scan(t, "<><", rules)
	expectTokens(t, tokens, []kt{
		{token.BANG_EQUAL, "<>"},
		{token.LESS, "<"},
	})
}

func TestStrings(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{`"hello\"world"`, token.STRING_LITERAL},
		{`"tab\tend\\"`, token.STRING_LITERAL},
		{`@"a""b"`, token.STRING_LITERAL},
		{`@"C:\path\"`, token.STRING_LITERAL},
		{`$"hi {name}"`, token.STRING_LITERAL},
		{`$@"a""b"`, token.STRING_LITERAL},
		{`@$"a\b"`, token.STRING_LITERAL},
		{`'x'`, token.CHAR_LITERAL},
		{`'\''`, token.CHAR_LITERAL},
	}

	for _, test := range tests {
		tokens := scan(t, test.input, dialect.Base())
		expectTokens(t, tokens, []kt{{test.kind, test.input}})
	}
}

func TestNumbers(t *testing.T) {
	input := "42 3.14 1e10 2.5E-3f 0x1F 0b1010 1_000 .5 10UL 9m"
	tokens := scan(t, input, dialect.Base()).Significant()
	expected := []string{"42", "3.14", "1e10", "2.5E-3f", "0x1F", "0b1010", "1_000", ".5", "10UL", "9m"}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %s", len(expected), len(tokens), tokens)
	}
	for i, exp := range expected {
		if tokens[i].Kind != token.NUMERIC_LITERAL || tokens[i].Text != exp {
			t.Errorf("expected NUMERIC_LITERAL %q, got %s %q", exp, tokens[i].Kind, tokens[i].Text)
		}
	}
}

func TestNumberMemberAccess(t *testing.T) {
	tokens := scan(t, "1.ToString()", dialect.Base())
	expectTokens(t, tokens, []kt{
		{token.NUMERIC_LITERAL, "1"},
		{token.DOT, "."},
		{token.IDENTIFIER, "ToString"},
		{token.LEFT_PAREN, "("},
		{token.RIGHT_PAREN, ")"},
	})
}

func TestComments(t *testing.T) {
	tokens := scan(t, "// line\nx /* block\n */ y", dialect.Base())
	expectTokens(t, tokens, []kt{
		{token.COMMENT, "// line"},
		{token.WHITESPACE, "\n"},
		{token.IDENTIFIER, "x"},
		{token.WHITESPACE, " "},
		{token.BLOCK_COMMENT, "/* block\n */"},
		{token.WHITESPACE, " "},
		{token.IDENTIFIER, "y"},
	})
	if tokens[6].Position.Line != 3 || tokens[6].Position.Column != 5 {
		t.Errorf("expected y at 3:5, got %s", tokens[6].Position)
	}
}

func TestUnterminatedLiterals(t *testing.T) {
	tests := []struct {
		input  string
		column int
	}{
		{`@"abc`, 1},
		{`x = "abc`, 5},
		{`'a`, 1},
		{`a /* open`, 3},
		{`$@"abc""`, 1},
		{`"ends in escape\`, 1},
	}

	for _, test := range tests {
		tokens, err := scanner.Tokenize(test.input, dialect.Extended())
		if err == nil {
			t.Errorf("%q: expected an error", test.input)
			continue
		}
		var se *scanner.ScanError
		if !errors.As(err, &se) {
			t.Fatalf("%q: expected *ScanError, got %T", test.input, err)
		}
		if se.Kind != scanner.UnterminatedLiteral {
			t.Errorf("%q: expected UnterminatedLiteral, got %s", test.input, se.Kind)
		}
		if se.Position.Line != 1 || se.Position.Column != test.column {
			t.Errorf("%q: expected error at 1:%d, got %s", test.input, test.column, se.Position)
		}
		if tokens.Code() != test.input {
			t.Errorf("%q: tokens should still cover the input, got %q", test.input, tokens.Code())
		}
	}
}

func TestMacroBlocks(t *testing.T) {
	input := "#{ x #{ y #} z #}"
	tokens := scan(t, input, dialect.Extended())
	expectTokens(t, tokens, []kt{{token.MACRO_BLOCK, input}})

	tokens = scan(t, "a #{\n  b();\n#} c", dialect.Extended())
	expectTokens(t, tokens, []kt{
		{token.IDENTIFIER, "a"},
		{token.WHITESPACE, " "},
		{token.MACRO_BLOCK, "#{\n  b();\n#}"},
		{token.WHITESPACE, " "},
		{token.IDENTIFIER, "c"},
	})
}

func TestMacroBlockUnbalanced(t *testing.T) {
	tests := []struct {
		input  string
		line   int
		column int
	}{
		{"#{ x #} #}", 1, 9},
		{"#{ x #{ y #}", 1, 1},
		{"ok();\n#}", 2, 1},
	}

	for _, test := range tests {
		s := scanner.New(test.input, dialect.Extended())
		tokens := s.ScanTokens()

		var se *scanner.ScanError
		if !errors.As(s.Err(), &se) {
			t.Fatalf("%q: expected a scan error, got %v", test.input, s.Err())
		}
		if se.Kind != scanner.MacroBlockUnbalanced {
			t.Errorf("%q: expected MacroBlockUnbalanced, got %s", test.input, se.Kind)
		}
		if se.Position.Line != test.line || se.Position.Column != test.column {
			t.Errorf("%q: expected error at %d:%d, got %s", test.input, test.line, test.column, se.Position)
		}
		if tokens.Code() != test.input {
			t.Errorf("%q: expected tokens to cover the input, got %q", test.input, tokens.Code())
		}
	}
}

func TestShellExec(t *testing.T) {
	tokens := scan(t, "#!echo \"hi there\"\nx", dialect.Extended())
	expectTokens(t, tokens, []kt{
		{token.SHELL_EXEC, "#!echo \"hi there\""},
		{token.WHITESPACE, "\n"},
		{token.IDENTIFIER, "x"},
	})
}

func TestDirectives(t *testing.T) {
	// Base treats every sigil line as a plain directive.
	tokens := scan(t, "#{ x #}\n#!ls", dialect.Base())
	expectTokens(t, tokens, []kt{
		{token.DIRECTIVE, "#{ x #}"},
		{token.WHITESPACE, "\n"},
		{token.DIRECTIVE, "#!ls"},
	})

	tokens = scan(t, "#region Setup\n#endregion", dialect.Extended())
	expectTokens(t, tokens, []kt{
		{token.DIRECTIVE, "#region Setup"},
		{token.WHITESPACE, "\n"},
		{token.DIRECTIVE, "#endregion"},
	})
}

func TestUnknownCharacters(t *testing.T) {
	s := scanner.New("a ` b €", dialect.Base())
	tokens := s.ScanTokens()

	expectTokens(t, tokens, []kt{
		{token.IDENTIFIER, "a"},
		{token.WHITESPACE, " "},
		{token.UNKNOWN, "`"},
		{token.WHITESPACE, " "},
		{token.IDENTIFIER, "b"},
		{token.WHITESPACE, " "},
		{token.UNKNOWN, "€"},
	})

	if s.Err() != nil {
		t.Errorf("unknown characters should not be fatal, got %v", s.Err())
	}
	errs := s.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 recorded errors, got %d", len(errs))
	}
	if errs[0].Kind != scanner.UnrecognizedCharacter || errs[0].Position.Column != 3 {
		t.Errorf("unexpected first error: %s %s", errs[0].Kind, errs[0].Position)
	}
	if errs[1].Position.Column != 7 || errs[1].Length != len("€") {
		t.Errorf("unexpected second error position %s length %d", errs[1].Position, errs[1].Length)
	}
}

func TestUnicodeEscapes(t *testing.T) {
	tokens := scan(t, `\u0041bc \U0001F600 \u00`, dialect.Base())
	expectTokens(t, tokens, []kt{
		{token.UNICODE_ESCAPE, `\u0041`},
		{token.IDENTIFIER, "bc"},
		{token.WHITESPACE, " "},
		{token.UNICODE_ESCAPE, `\U0001F600`},
		{token.WHITESPACE, " "},
		{token.UNKNOWN, `\`},
		{token.IDENTIFIER, "u00"},
	})
}

func TestPositions(t *testing.T) {
	tokens := scan(t, "é = 1\n  bb", dialect.Base())
	eq := tokens[2]
	if eq.Position != (token.Position{Line: 1, Column: 3, Offset: 3}) {
		t.Errorf("expected = at 1:3 offset 3, got %+v", eq.Position)
	}
	last := tokens.Last()
	if last.Position != (token.Position{Line: 2, Column: 3, Offset: 9}) {
		t.Errorf("expected bb at 2:3 offset 9, got %+v", last.Position)
	}
}

func TestRoundTrip(t *testing.T) {
	corpus := []string{
		"",
		"   \t\r\n",
		"using System;\nnamespace A { class B { void C() { var d = new int[] { 1, 2 }; } } }\n",
		"x => x?.y ?? z; a <<= 2; b >>= 1; c != d && e || !f",
		"#region A\n#if DEBUG\nlog(\"x\");\n#endif\n#endregion",
		"#{ a #{ b #} c #}\n#!git status --short\n",
		"@\"multi\nline \"\" verbatim\" $\"{a}\" $@\"{b}\"\"\"",
		"`~\x01 ¿¡ @ $ @@ $$ 🙂 \\x \\u12",
		"1.2.3 0x 0b 1e 1e+ 1__2 .. ...",
		"// trailing comment without newline",
		"/**/ /***/ /* a */",
		"\xff\xfe",
		"a\xc3(\xe2\x82);\x80",
		"\ufeff",
		"\ufeffusing System;\r\n",
		"a\u00a0\v\u2028\u3000b",
	}

	for _, rules := range []*scanner.Rules{dialect.Base(), dialect.Extended()} {
		for _, input := range corpus {
			tokens, _ := scanner.Tokenize(input, rules)
			if got := tokens.Code(); got != input {
				t.Errorf("%s: round trip of %q gave %q", rules.Name(), input, got)
				continue
			}

			pos := token.Start
			for _, tok := range tokens {
				if tok.Text == "" {
					t.Errorf("%s: empty token in %q", rules.Name(), input)
				}
				if tok.Position != pos {
					t.Errorf("%s: token %s at %+v, expected %+v", rules.Name(), tok, tok.Position, pos)
				}
				pos = tok.End()
			}
		}
	}
}

func TestTokenizeConcurrently(t *testing.T) {
	input := "class A { int x = 1+1; #{ y #} }"
	expected := scan(t, input, dialect.Extended())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens, err := scanner.Tokenize(input, dialect.Extended())
			if err != nil || len(tokens) != len(expected) {
				t.Errorf("concurrent scan diverged: %v, %d tokens", err, len(tokens))
			}
		}()
	}
	wg.Wait()
}
