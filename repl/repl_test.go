package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"sharpx/internal/dialect"
)

func init() {
	color.NoColor = true
}

func session(input string) string {
	var out bytes.Buffer
	Start(strings.NewReader(input), &out, dialect.Extended())
	return out.String()
}

func TestRewritesLines(t *testing.T) {
	out := session("x();\n#!echo hi\n")
	assert.Contains(t, out, PROMPT+"x();\n")
	assert.Contains(t, out, PROMPT+`System.Diagnostics.Process.Start("echo", new string[] { "hi" })?.WaitForExit();`+"\n")
	assert.True(t, strings.HasSuffix(out, PROMPT+"\n"))
}

func TestReportsErrors(t *testing.T) {
	out := session("#!\nx = \"open\n")
	assert.Contains(t, out, "error[E0102]")
	assert.Contains(t, out, "error[E0100]")
	assert.Contains(t, out, "<repl>:1:5")
}

func TestTokenMode(t *testing.T) {
	out := session(":tokens\nint x;\n:tokens\n")
	assert.Contains(t, out, "token mode on\n")
	assert.Contains(t, out, "KEYWORD          \"int\"\n")
	assert.Contains(t, out, "SEMICOLON        \";\"\n")
	assert.NotContains(t, out, "WHITESPACE")
	assert.Contains(t, out, "token mode off\n")
}

func TestQuit(t *testing.T) {
	out := session(":quit\nx();\n")
	assert.Equal(t, PROMPT, out)
}
