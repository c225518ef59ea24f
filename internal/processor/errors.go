package processor

import (
	"fmt"

	"sharpx/grammar"
	"sharpx/internal/scanner"
	"sharpx/internal/token"
)

type ErrorKind int

const (
	UnterminatedLiteral ErrorKind = iota
	MacroBlockUnbalanced
	// ShellSyntax is an empty shell line or one whose quoting does not close.
	ShellSyntax
	// InvalidOutput means the rewritten text is not structurally valid Base
	// Language.
	InvalidOutput
)

func (k ErrorKind) String() string {
	switch k {
	case UnterminatedLiteral:
		return "UnterminatedLiteral"
	case MacroBlockUnbalanced:
		return "MacroBlockUnbalanced"
	case ShellSyntax:
		return "ShellSyntax"
	case InvalidOutput:
		return "InvalidOutput"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseError is the single error a Processor produces for malformed input.
type ParseError struct {
	Filename string
	Line     int
	Column   int
	Offset   int
	Length   int
	Kind     ErrorKind
	Message  string
}

func (e *ParseError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

func (e *ParseError) Position() token.Position {
	return token.Position{Line: e.Line, Column: e.Column, Offset: e.Offset}
}

// rebase moves the error from a macro body's coordinates into the enclosing
// source, where the body starts at origin.
func (e *ParseError) rebase(origin token.Position) {
	pos := token.Rebase(e.Position(), origin)
	e.Line, e.Column, e.Offset = pos.Line, pos.Column, pos.Offset
}

func fromScanError(filename string, se *scanner.ScanError) *ParseError {
	kind := UnterminatedLiteral
	if se.Kind == scanner.MacroBlockUnbalanced {
		kind = MacroBlockUnbalanced
	}
	return &ParseError{
		Filename: filename,
		Line:     se.Position.Line,
		Column:   se.Position.Column,
		Offset:   se.Position.Offset,
		Length:   se.Length,
		Kind:     kind,
		Message:  se.Message,
	}
}

func fromGrammarError(ge *grammar.Error) *ParseError {
	return &ParseError{
		Filename: ge.Filename,
		Line:     ge.Line,
		Column:   ge.Column,
		Offset:   ge.Offset,
		Length:   1,
		Kind:     InvalidOutput,
		Message:  "rewritten output is not valid: " + ge.Message,
	}
}
