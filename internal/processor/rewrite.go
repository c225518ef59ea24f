package processor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-shellwords"

	"sharpx/internal/token"
)

// emitter builds generated tokens that all carry the position of the
// directive they replace.
type emitter struct {
	toks token.Tokens
	pos  token.Position
}

func (e *emitter) add(kind token.Kind, text string) {
	e.toks.Add(kind, text, e.pos)
}

func (e *emitter) ident(path ...string) {
	for i, part := range path {
		if i > 0 {
			e.add(token.DOT, ".")
		}
		e.add(token.IDENTIFIER, part)
	}
}

func (e *emitter) space() {
	e.add(token.WHITESPACE, " ")
}

// lowerShell turns a shell-execute line into a blocking process start:
//
//	#!cmd a "b c"
//	System.Diagnostics.Process.Start("cmd", new string[] { "a", "b c" })?.WaitForExit();
//
// Lines using shell operators (pipes, redirections, lists) run through the
// configured shell with -c.
func (p *Processor) lowerShell(t token.Token) (token.Tokens, *ParseError) {
	prefix := string(p.rules.DirectiveSigil()) + string(p.rules.ShellExec())
	line := strings.TrimPrefix(t.Text, prefix)
	command := strings.TrimRightFunc(line, unicode.IsSpace)
	trailing := line[len(command):]

	shellErr := func(format string, args ...any) *ParseError {
		return &ParseError{
			Filename: p.filename,
			Line:     t.Position.Line,
			Column:   t.Position.Column,
			Offset:   t.Position.Offset,
			Length:   utf8.RuneCountInString(strings.TrimRightFunc(t.Text, unicode.IsSpace)),
			Kind:     ShellSyntax,
			Message:  fmt.Sprintf(format, args...),
		}
	}

	argv, err := splitCommand(command, p.shell)
	if err != nil {
		return nil, shellErr("invalid shell line: %s", err)
	}
	if len(argv) == 0 {
		return nil, shellErr("empty shell line")
	}
	log.Debugf("%s: shell line %q lowered to %q", t.Position, command, argv)

	e := &emitter{pos: t.Position}
	e.ident("System", "Diagnostics", "Process", "Start")
	e.add(token.LEFT_PAREN, "(")
	e.add(token.STRING_LITERAL, quote(argv[0]))
	e.add(token.COMMA, ",")
	e.space()
	e.add(token.KEYWORD, "new")
	e.space()
	e.add(token.KEYWORD, "string")
	e.add(token.LEFT_BRACKET, "[")
	e.add(token.RIGHT_BRACKET, "]")
	e.space()
	e.add(token.LEFT_BRACE, "{")
	e.space()
	for i, arg := range argv[1:] {
		if i > 0 {
			e.add(token.COMMA, ",")
			e.space()
		}
		e.add(token.STRING_LITERAL, quote(arg))
	}
	if len(argv) > 1 {
		e.space()
	}
	e.add(token.RIGHT_BRACE, "}")
	e.add(token.RIGHT_PAREN, ")")
	e.add(token.QUESTION_DOT, "?.")
	e.ident("WaitForExit")
	e.add(token.LEFT_PAREN, "(")
	e.add(token.RIGHT_PAREN, ")")
	e.add(token.SEMICOLON, ";")
	if trailing != "" {
		e.add(token.WHITESPACE, trailing)
	}
	return e.toks, nil
}

// splitCommand splits a command line into argv. When the line stops at a
// shell operator the whole line is handed to shell instead.
func splitCommand(command, shell string) ([]string, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false

	args, err := parser.Parse(command)
	if err != nil {
		return nil, err
	}
	if parser.Position >= 0 {
		return []string{shell, "-c", strings.TrimSpace(command)}, nil
	}
	return args, nil
}

// lowerMacro turns a macro block into a braced block whose body is processed
// with the same options.
func (p *Processor) lowerMacro(t token.Token) (token.Tokens, *ParseError) {
	sigil := string(p.rules.DirectiveSigil())
	open := sigil + string(p.rules.BlockOpen())
	close := sigil + string(p.rules.BlockClose())
	body := strings.TrimSuffix(strings.TrimPrefix(t.Text, open), close)
	origin := token.Advance(t.Position, open)

	child := New(body,
		WithRules(p.rules),
		WithFilename(p.filename),
		WithShell(p.shell),
		WithValidation(false),
	)
	if _, err := child.Run(); err != nil {
		perr := err.(*ParseError)
		perr.rebase(origin)
		return nil, perr
	}
	for _, w := range child.Warnings() {
		w.Position = token.Rebase(w.Position, origin)
		p.warnings = append(p.warnings, w)
	}

	out := make(token.Tokens, 0, len(child.Tokens())+2)
	out.Add(token.LEFT_BRACE, "{", t.Position)
	for _, ct := range child.Tokens() {
		ct.Position = token.Rebase(ct.Position, origin)
		out.AddTokens(ct)
	}
	out.Add(token.RIGHT_BRACE, "}", token.Advance(origin, body))
	log.Debugf("%s: macro block lowered (%d body tokens)", t.Position, len(child.Tokens()))
	return out, nil
}

// quote renders s as a regular string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
