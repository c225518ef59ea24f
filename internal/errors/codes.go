package errors

// Diagnostic codes for the sharpx toolchain.
//
// Code ranges:
// E0100-E0199: Scanner and processor errors
// E0200-E0299: Dialect file errors
// W0100-W0199: Scanner warnings

const (
	// E0100: String, character or comment runs to the end of input
	ErrorUnterminatedLiteral = "E0100"

	// E0101: Macro block opened but never closed, or closed without an open
	ErrorUnbalancedMacroBlock = "E0101"

	// E0102: Shell-execute line is empty or badly quoted
	ErrorShellSyntax = "E0102"

	// E0103: Rewritten output is not valid Base Language
	ErrorInvalidOutput = "E0103"

	// E0200: Dialect file cannot be decoded or describes invalid rules
	ErrorInvalidDialect = "E0200"

	// W0100: Character the dialect does not recognize
	WarningUnrecognizedCharacter = "W0100"
)

// GetErrorDescription returns a human-readable description of the code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUnterminatedLiteral:
		return "Literal or comment is not closed before the end of input"
	case ErrorUnbalancedMacroBlock:
		return "Macro block markers do not balance"
	case ErrorShellSyntax:
		return "Shell-execute line cannot be split into a command"
	case ErrorInvalidOutput:
		return "Rewritten source is not structurally valid"
	case ErrorInvalidDialect:
		return "Dialect file is invalid"
	case WarningUnrecognizedCharacter:
		return "Character is not part of the dialect"
	default:
		return "Unknown error code"
	}
}

func IsWarning(code string) bool {
	return code != "" && code[0] == 'W'
}

// GetErrorCategory returns the category of the code based on its range
func GetErrorCategory(code string) string {
	switch {
	case IsWarning(code):
		return "Warning"
	case code >= "E0100" && code < "E0200":
		return "Processor"
	case code >= "E0200" && code < "E0300":
		return "Dialect"
	default:
		return "Unknown"
	}
}
