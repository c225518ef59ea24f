package scanner

import (
	"fmt"

	"sharpx/internal/token"
)

type ErrorKind int

const (
	// UnrecognizedCharacter is non-fatal: the character becomes an UNKNOWN
	// token and scanning continues.
	UnrecognizedCharacter ErrorKind = iota
	// UnterminatedLiteral ends the scan pass.
	UnterminatedLiteral
	// MacroBlockUnbalanced ends the scan pass.
	MacroBlockUnbalanced
)

func (k ErrorKind) String() string {
	switch k {
	case UnrecognizedCharacter:
		return "UnrecognizedCharacter"
	case UnterminatedLiteral:
		return "UnterminatedLiteral"
	case MacroBlockUnbalanced:
		return "MacroBlockUnbalanced"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Fatal reports whether an error of this kind stops the scan pass.
func (k ErrorKind) Fatal() bool {
	return k != UnrecognizedCharacter
}

type ScanError struct {
	Kind     ErrorKind
	Message  string
	Position token.Position // start of the offending token
	Length   int            // bytes covered
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}
