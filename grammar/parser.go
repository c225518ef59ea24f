package grammar

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
)

var parser = participle.MustBuild[Program](
	participle.Lexer(BaseLexer),
	participle.Elide("Whitespace", "Comment", "BlockComment"),
)

// Error is a structural error in Base Language source.
type Error struct {
	Filename string
	Line     int
	Column   int
	Offset   int
	Message  string
}

func (e *Error) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Parse parses source into its bracket structure.
func Parse(filename, source string) (*Program, error) {
	program, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, toError(filename, err)
	}
	return program, nil
}

// Validate checks that source is structurally valid Base Language: it lexes,
// its brackets balance, and no directive line starts with one of the
// forbidden prefixes.
func Validate(filename, source string, forbidden ...string) error {
	program, err := Parse(filename, source)
	if err != nil {
		return err
	}
	for _, d := range program.Directives() {
		for _, prefix := range forbidden {
			if prefix != "" && strings.HasPrefix(d.Directive, prefix) {
				return &Error{
					Filename: filename,
					Line:     d.Pos.Line,
					Column:   d.Pos.Column,
					Offset:   d.Pos.Offset,
					Message:  fmt.Sprintf("directive %q is not valid here", prefix),
				}
			}
		}
	}
	return nil
}

func toError(filename string, err error) *Error {
	pe, ok := err.(participle.Error)
	if !ok {
		return &Error{Filename: filename, Line: 1, Column: 1, Message: err.Error()}
	}
	pos := pe.Position()
	return &Error{
		Filename: filename,
		Line:     pos.Line,
		Column:   pos.Column,
		Offset:   pos.Offset,
		Message:  pe.Message(),
	}
}
