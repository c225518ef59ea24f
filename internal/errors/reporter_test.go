package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharpx/internal/processor"
	"sharpx/internal/scanner"
	"sharpx/internal/token"
)

func init() {
	color.NoColor = true
}

func TestErrorReporter(t *testing.T) {
	source := `class Build {
    void Run() {
        #!echo "unclosed
    }
}`

	_, err := processor.Process(source)
	require.Error(t, err)

	d, ok := FromError(err)
	require.True(t, ok)

	reporter := NewErrorReporter("build.csx", source)
	formatted := reporter.FormatError(d)

	assert.Contains(t, formatted, "error["+ErrorShellSyntax+"]")
	assert.Contains(t, formatted, "build.csx:3:9")
	assert.Contains(t, formatted, `  3 │         #!echo "unclosed`)
	assert.Contains(t, formatted, "  2 │     void Run() {")
	assert.Contains(t, formatted, "  4 │     }")
	assert.Contains(t, formatted, "help: a shell line needs a command")

	// The marker spans the whole shell line.
	assert.Contains(t, formatted, "│         "+strings.Repeat("^", len(`#!echo "unclosed`))+"\n")
}

func TestScanWarning(t *testing.T) {
	s := scanner.New("a ` b", nil)
	s.ScanTokens()
	require.Len(t, s.Errors(), 1)

	d := FromScanError(s.Errors()[0])
	assert.Equal(t, Warning, d.Level)
	assert.Equal(t, WarningUnrecognizedCharacter, d.Code)
	assert.True(t, IsWarning(d.Code))

	formatted := NewErrorReporter("w.cs", "a ` b").FormatError(d)
	assert.Contains(t, formatted, "warning[W0100]")
	assert.Contains(t, formatted, "│   ^\n")
}

func TestFromParseErrorKinds(t *testing.T) {
	tests := []struct {
		kind processor.ErrorKind
		code string
	}{
		{processor.UnterminatedLiteral, ErrorUnterminatedLiteral},
		{processor.MacroBlockUnbalanced, ErrorUnbalancedMacroBlock},
		{processor.ShellSyntax, ErrorShellSyntax},
		{processor.InvalidOutput, ErrorInvalidOutput},
	}

	for _, test := range tests {
		d := FromParseError(&processor.ParseError{Line: 2, Column: 3, Kind: test.kind, Message: "m"})
		assert.Equal(t, test.code, d.Code, test.kind.String())
		assert.Equal(t, Error, d.Level)
		assert.Equal(t, token.Position{Line: 2, Column: 3}, d.Position)
	}
}

func TestFromErrorUnknown(t *testing.T) {
	_, ok := FromError(fmt.Errorf("plain"))
	assert.False(t, ok)

	wrapped := fmt.Errorf("reading: %w", &scanner.ScanError{Kind: scanner.UnterminatedLiteral, Message: "unterminated string literal"})
	d, ok := FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrorUnterminatedLiteral, d.Code)
}

func TestFormatAll(t *testing.T) {
	source := "x ` y\n@\"open"
	reporter := NewErrorReporter("all.cs", source)

	s := scanner.New(source, nil)
	s.ScanTokens()
	var diags []Diagnostic
	for _, se := range s.Errors() {
		diags = append(diags, FromScanError(se))
	}

	out := reporter.FormatAll(diags)
	assert.Contains(t, out, "all.cs: 1 error(s), 2 warning(s)")
}

func TestCodes(t *testing.T) {
	for _, code := range []string{
		ErrorUnterminatedLiteral, ErrorUnbalancedMacroBlock, ErrorShellSyntax,
		ErrorInvalidOutput, ErrorInvalidDialect, WarningUnrecognizedCharacter,
	} {
		assert.NotEqual(t, "Unknown error code", GetErrorDescription(code), code)
		assert.NotEqual(t, "Unknown", GetErrorCategory(code), code)
	}
	assert.Equal(t, "Processor", GetErrorCategory(ErrorShellSyntax))
	assert.Equal(t, "Warning", GetErrorCategory(WarningUnrecognizedCharacter))
	assert.False(t, IsWarning(""))
}
