package lsp

import (
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"sharpx/internal/errors"
	"sharpx/internal/processor"
	"sharpx/internal/scanner"
)

const diagnosticSource = "sharpx"

// ConvertScanErrors transforms scanner errors into LSP diagnostics.
// Unrecognized characters are warnings; unterminated literals and
// unbalanced macro blocks are errors.
func ConvertScanErrors(content string, scanErrors []scanner.ScanError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic
	lines := newLineIndex(content)
	for _, se := range scanErrors {
		diagnostics = append(diagnostics, convert(lines, errors.FromScanError(se)))
	}
	return diagnostics
}

// ConvertParseError transforms a processor error into a diagnostic.
func ConvertParseError(content string, pe *processor.ParseError) protocol.Diagnostic {
	return convert(newLineIndex(content), errors.FromParseError(pe))
}

func convert(lines *lineIndex, d errors.Diagnostic) protocol.Diagnostic {
	line := max(0, d.Position.Line-1)
	start := min(max(0, d.Position.Offset), len(lines.content))

	// the marked span stays on the first line
	end := start
	for n := 0; n < max(1, d.Length) && end < len(lines.content) && lines.content[end] != '\n'; n++ {
		_, size := utf8.DecodeRuneInString(lines.content[end:])
		end += size
	}

	severity := protocol.DiagnosticSeverityError
	if d.Level == errors.Warning {
		severity = protocol.DiagnosticSeverityWarning
	}

	message := d.Message
	if d.HelpText != "" {
		message += " (" + d.HelpText + ")"
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{
				Line:      uint32(line),
				Character: uint32(lines.character(line, start)),
			},
			End: protocol.Position{
				Line:      uint32(line),
				Character: uint32(lines.character(line, end)),
			},
		},
		Severity: ptrSeverity(severity),
		Code:     &protocol.IntegerOrString{Value: d.Code},
		Source:   ptrString(diagnosticSource),
		Message:  message,
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
