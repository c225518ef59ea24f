package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharpx/grammar"
)

func TestParseStructure(t *testing.T) {
	src := `// SPDX-License-Identifier: Apache-2.0
#region Setup
namespace Demo {
    class Program {
        static void Main(string[] args) {
            var s = @"a""b";
            int x = 1+1; /* block } comment */
            if (x >= 2 && args.Length > 0) { System.Console.WriteLine($"hi {x}"); }
        }
    }
}
#endregion
`
	program, err := grammar.Parse("demo.cs", src)
	require.NoError(t, err)
	require.NotNil(t, program)

	directives := program.Directives()
	require.Len(t, directives, 2)
	assert.Equal(t, "#region Setup", directives[0].Directive)
	assert.Equal(t, 2, directives[0].Pos.Line)
	assert.Equal(t, "#endregion", directives[1].Directive)

	// namespace { class { Main { if { WriteLine ( ) } } } }
	assert.Equal(t, 5, program.Depth())
}

func TestValidateUnbalanced(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"missing close", "class A {\n  void M() {\n}\n", 0},
		{"stray close", "x = 1;\n}\n", 2},
		{"mismatched", "f(a];", 1},
	}

	for _, test := range tests {
		err := grammar.Validate("t.cs", test.src)
		require.Error(t, err, test.name)

		var ge *grammar.Error
		require.ErrorAs(t, err, &ge, test.name)
		if test.line > 0 {
			assert.Equal(t, test.line, ge.Line, test.name)
		}
		assert.Contains(t, err.Error(), "t.cs:", test.name)
	}
}

func TestValidateLexErrors(t *testing.T) {
	for _, src := range []string{
		`var s = "unterminated;`,
		"x = `backtick`;",
	} {
		assert.Error(t, grammar.Validate("t.cs", src), src)
	}
}

func TestValidateUnicodeWhitespace(t *testing.T) {
	for _, src := range []string{
		"\ufeffusing System;\r\n",
		"int\u00a0x = 1;",
		"int\vx\f=\u20031;\u2028\u2029\u0085",
		"f(\u3000a\ufeff);",
	} {
		assert.NoError(t, grammar.Validate("t.cs", src), "%q", src)
	}
}

func TestValidateForbiddenDirectives(t *testing.T) {
	assert.NoError(t, grammar.Validate("t.cs", "#if DEBUG\nx();\n#endif\n", "#{", "#!"))

	err := grammar.Validate("t.cs", "x();\n#!echo hi\n", "#{", "#!")
	require.Error(t, err)
	var ge *grammar.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, 2, ge.Line)
	assert.Equal(t, 1, ge.Column)
	assert.Contains(t, ge.Message, `"#!"`)
}

func TestProgramString(t *testing.T) {
	program, err := grammar.Parse("", "if (a) { b(); }")
	require.NoError(t, err)

	expected := "if\n(\n    a\n)\n{\n    b\n    (\n    )\n    ;\n}\n"
	assert.Equal(t, expected, program.String())
}
