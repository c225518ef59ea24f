// Package processor rewrites Extended Dialect source into Base Language
// source by lowering directive tokens.
package processor

import (
	"errors"
	"strings"

	"github.com/tliron/commonlog"

	"sharpx/grammar"
	"sharpx/internal/dialect"
	"sharpx/internal/scanner"
	"sharpx/internal/token"
)

var log = commonlog.GetLogger("sharpx.processor")

// DefaultShell runs shell lines that need more than argv splitting (pipes,
// redirections, command lists).
const DefaultShell = "/bin/sh"

type Option func(*Processor)

// WithRules sets the dialect. The default is dialect.Extended().
func WithRules(rules *scanner.Rules) Option {
	return func(p *Processor) {
		if rules != nil {
			p.rules = rules
		}
	}
}

// WithFilename names the source in errors.
func WithFilename(name string) Option {
	return func(p *Processor) {
		p.filename = name
	}
}

// WithValidation turns the structural check of the output on or off. It is
// on by default.
func WithValidation(enabled bool) Option {
	return func(p *Processor) {
		p.validate = enabled
	}
}

func WithShell(shell string) Option {
	return func(p *Processor) {
		p.shell = shell
	}
}

// Processor converts one source string. It is single-use: Run returns the
// same result on every call.
type Processor struct {
	source   string
	rules    *scanner.Rules
	filename string
	validate bool
	shell    string

	ran      bool
	output   string
	err      error
	tokens   token.Tokens
	warnings []scanner.ScanError
}

func New(source string, opts ...Option) *Processor {
	p := &Processor{
		source:   source,
		rules:    dialect.Extended(),
		validate: true,
		shell:    DefaultShell,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process rewrites source. A non-nil error is always a *ParseError.
func Process(source string, opts ...Option) (string, error) {
	return New(source, opts...).Run()
}

func (p *Processor) Run() (string, error) {
	if !p.ran {
		p.ran = true
		p.output, p.err = p.run()
	}
	return p.output, p.err
}

// Tokens returns the rewritten token sequence. It is empty before Run and
// when scanning or lowering failed; after a validation failure it holds the
// rejected output. Each token keeps its source position.
func (p *Processor) Tokens() token.Tokens {
	return p.tokens
}

// Warnings returns the non-fatal scan errors met while processing, in
// source coordinates.
func (p *Processor) Warnings() []scanner.ScanError {
	return p.warnings
}

func (p *Processor) run() (string, error) {
	out, perr := p.rewrite()
	if perr != nil {
		return "", perr
	}

	p.tokens = out
	code := out.Code()
	if p.validate {
		if err := grammar.Validate(p.filename, code, p.markers()...); err != nil {
			var ge *grammar.Error
			if errors.As(err, &ge) {
				verr := fromGrammarError(ge)
				pos := p.sourcePosition(ge.Offset)
				verr.Line, verr.Column, verr.Offset = pos.Line, pos.Column, pos.Offset
				return "", verr
			}
			return "", &ParseError{Filename: p.filename, Line: 1, Column: 1, Kind: InvalidOutput, Message: err.Error()}
		}
	}

	log.Debugf("processed %q: %d bytes in, %d bytes out", p.filename, len(p.source), len(code))
	return code, nil
}

// rewrite scans the source and lowers every directive token.
func (p *Processor) rewrite() (token.Tokens, *ParseError) {
	s := scanner.New(p.source, p.rules)
	tokens := s.ScanTokens()
	for _, se := range s.Errors() {
		if !se.Kind.Fatal() {
			p.warnings = append(p.warnings, se)
		}
	}
	if err := s.Err(); err != nil {
		var se *scanner.ScanError
		errors.As(err, &se)
		return nil, fromScanError(p.filename, se)
	}

	out := make(token.Tokens, 0, len(tokens))
	for _, t := range tokens {
		switch t.Kind {
		case token.SHELL_EXEC:
			lowered, err := p.lowerShell(t)
			if err != nil {
				return nil, err
			}
			out.AddTokens(lowered...)
		case token.MACRO_BLOCK:
			lowered, err := p.lowerMacro(t)
			if err != nil {
				return nil, err
			}
			out.AddTokens(lowered...)
		default:
			out.AddTokens(t)
		}
	}
	return out, nil
}

// sourcePosition maps a byte offset in the rewritten output to the source.
// Tokens passed through map exactly; generated tokens map to the directive
// they were lowered from. Offsets past the output map to the end of the
// source.
func (p *Processor) sourcePosition(offset int) token.Position {
	at := 0
	for _, t := range p.tokens {
		if offset < at+len(t.Text) {
			pos := t.Position
			if pos.Offset <= len(p.source) && strings.HasPrefix(p.source[pos.Offset:], t.Text) {
				pos = token.Advance(pos, t.Text[:max(0, offset-at)])
			}
			return pos
		}
		at += len(t.Text)
	}
	return token.Advance(token.Start, p.source)
}

// markers returns the Extended Dialect line prefixes that must not survive
// into the output.
func (p *Processor) markers() []string {
	r := p.rules
	if !r.DirectivesEnabled() || r.DirectiveSigil() == 0 {
		return nil
	}
	sigil := string(r.DirectiveSigil())
	var out []string
	for _, m := range []rune{r.BlockOpen(), r.BlockClose(), r.ShellExec()} {
		if m != 0 {
			out = append(out, sigil+string(m))
		}
	}
	return out
}
