package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"sharpx/internal/token"
)

// ErrorLevel represents the severity of a diagnostic
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
)

// Diagnostic is a located problem in a source file, ready for display.
type Diagnostic struct {
	Level    ErrorLevel
	Code     string
	Message  string
	Position token.Position
	Length   int // in runes
	Notes    []string
	HelpText string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s[%s]: %s", d.Position, d.Level, d.Code, d.Message)
}

// ErrorReporter renders diagnostics against the source they refer to
type ErrorReporter struct {
	filename string
	lines    []string
}

func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// FormatError renders d as a header, a location line, the offending source
// line with one line of context each side, a caret marker, notes and help.
func (er *ErrorReporter) FormatError(d Diagnostic) string {
	var result strings.Builder

	levelColor := getLevelColor(d.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	// error[E0100]: message
	if d.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(string(d.Level)), d.Code, d.Message))
	} else {
		result.WriteString(fmt.Sprintf("%s: %s\n", levelColor(string(d.Level)), d.Message))
	}

	line := d.Position.Line
	width := getLineNumberWidth(line + 1)
	indent := strings.Repeat(" ", width)

	result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n", indent, dim("-->"), er.filename, line, d.Position.Column))
	result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if line > 1 && line-1 <= len(er.lines) {
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			dim(fmt.Sprintf("%*d", width, line-1)), dim("│"), er.lines[line-2]))
	}

	if line > 0 && line <= len(er.lines) {
		content := strings.TrimRight(er.lines[line-1], "\r")
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", width, line)), dim("│"), content))
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			indent, dim("│"), createMarker(d.Position.Column, clampLength(content, d.Position.Column, d.Length), d.Level)))
	}

	if line > 0 && line < len(er.lines) {
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			dim(fmt.Sprintf("%*d", width, line+1)), dim("│"), er.lines[line]))
	}

	for _, note := range d.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), noteColor("note:"), note))
	}

	if d.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), helpColor("help:"), d.HelpText))
	}

	result.WriteString("\n")
	return result.String()
}

// FormatAll renders every diagnostic followed by a summary line.
func (er *ErrorReporter) FormatAll(diags []Diagnostic) string {
	var result strings.Builder
	errs, warns := 0, 0
	for _, d := range diags {
		result.WriteString(er.FormatError(d))
		if d.Level == Warning {
			warns++
		} else if d.Level == Error {
			errs++
		}
	}
	if errs+warns > 0 {
		result.WriteString(fmt.Sprintf("%s: %d error(s), %d warning(s)\n", er.filename, errs, warns))
	}
	return result.String()
}

func getLevelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// createMarker underlines length runes starting at column
func createMarker(column, length int, level ErrorLevel) string {
	if length <= 0 {
		length = 1
	}
	spaces := strings.Repeat(" ", max(0, column-1))
	return spaces + getLevelColor(level)(strings.Repeat("^", length))
}

// clampLength keeps a multi-line span's marker on the first line.
func clampLength(content string, column, length int) int {
	rest := len([]rune(content)) - (column - 1)
	if length > rest {
		return max(1, rest)
	}
	return length
}

func getLineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3
	}
	return width
}
