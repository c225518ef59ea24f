package errors

import (
	stderrors "errors"
	"fmt"

	"sharpx/grammar"
	"sharpx/internal/processor"
	"sharpx/internal/scanner"
	"sharpx/internal/token"
)

// FromScanError converts a scanner error. Unrecognized characters become
// warnings; everything else is an error.
func FromScanError(se scanner.ScanError) Diagnostic {
	d := Diagnostic{
		Level:    Error,
		Message:  se.Message,
		Position: se.Position,
		Length:   max(1, se.Length),
	}
	switch se.Kind {
	case scanner.UnrecognizedCharacter:
		d.Level = Warning
		d.Code = WarningUnrecognizedCharacter
		d.Length = 1
	case scanner.UnterminatedLiteral:
		d.Code = ErrorUnterminatedLiteral
		d.Length = 1
		d.HelpText = "close the literal; it runs to the end of the file"
	case scanner.MacroBlockUnbalanced:
		d.Code = ErrorUnbalancedMacroBlock
		d.HelpText = "every macro block open marker needs exactly one close marker"
	}
	return d
}

// FromParseError converts a processor error.
func FromParseError(pe *processor.ParseError) Diagnostic {
	d := Diagnostic{
		Level:    Error,
		Message:  pe.Message,
		Position: pe.Position(),
		Length:   max(1, pe.Length),
	}
	switch pe.Kind {
	case processor.UnterminatedLiteral:
		d.Code = ErrorUnterminatedLiteral
		d.Length = 1
		d.HelpText = "close the literal; it runs to the end of the file"
	case processor.MacroBlockUnbalanced:
		d.Code = ErrorUnbalancedMacroBlock
		d.HelpText = "every macro block open marker needs exactly one close marker"
	case processor.ShellSyntax:
		d.Code = ErrorShellSyntax
		d.HelpText = "a shell line needs a command and balanced quotes"
	case processor.InvalidOutput:
		d.Code = ErrorInvalidOutput
		d.Notes = append(d.Notes, "the check runs on the output after directives are lowered")
	}
	return d
}

func FromGrammarError(ge *grammar.Error) Diagnostic {
	return Diagnostic{
		Level:    Error,
		Code:     ErrorInvalidOutput,
		Message:  ge.Message,
		Position: token.Position{Line: ge.Line, Column: ge.Column, Offset: ge.Offset},
		Length:   1,
	}
}

// FromError converts any error produced while scanning, processing or
// validating a file. The second result is false for errors without a
// source position.
func FromError(err error) (Diagnostic, bool) {
	var pe *processor.ParseError
	if stderrors.As(err, &pe) {
		return FromParseError(pe), true
	}
	var se *scanner.ScanError
	if stderrors.As(err, &se) {
		return FromScanError(*se), true
	}
	var ge *grammar.Error
	if stderrors.As(err, &ge) {
		return FromGrammarError(ge), true
	}
	return Diagnostic{}, false
}

// Dialect wraps a dialect loading failure, which has no source position.
func Dialect(path string, err error) Diagnostic {
	return Diagnostic{
		Level:   Error,
		Code:    ErrorInvalidDialect,
		Message: fmt.Sprintf("cannot use dialect %s: %v", path, err),
	}
}
