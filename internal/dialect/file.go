package dialect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"sharpx/internal/scanner"
)

type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// File is the on-disk form of a custom dialect. Unset fields inherit from
// the dialect named by Extends.
type File struct {
	Name    string `toml:"name" yaml:"name"`
	Extends string `toml:"extends" yaml:"extends"`

	// Keywords replaces the inherited keyword set when non-empty.
	Keywords      []string `toml:"keywords" yaml:"keywords"`
	ExtraKeywords []string `toml:"extra_keywords" yaml:"extra_keywords"`

	VerbatimSigil  string `toml:"verbatim_sigil" yaml:"verbatim_sigil"`
	DirectiveSigil string `toml:"directive_sigil" yaml:"directive_sigil"`
	BlockOpen      string `toml:"block_open" yaml:"block_open"`
	BlockClose     string `toml:"block_close" yaml:"block_close"`
	ShellExec      string `toml:"shell_exec" yaml:"shell_exec"`
	Directives     *bool  `toml:"directives" yaml:"directives"`

	LineComment       string `toml:"line_comment" yaml:"line_comment"`
	BlockCommentOpen  string `toml:"block_comment_open" yaml:"block_comment_open"`
	BlockCommentClose string `toml:"block_comment_close" yaml:"block_comment_close"`
}

// Load reads a dialect file. The format follows the extension: .toml, or
// .yaml / .yml.
func Load(path string) (*scanner.Rules, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		format = FormatTOML
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return nil, fmt.Errorf("dialect file %s: unsupported extension %q", path, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialect file: %w", err)
	}

	rules, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("dialect file %s: %w", path, err)
	}
	return rules, nil
}

// Resolve returns the compiled-in dialect called nameOrPath, or loads it as
// a dialect file.
func Resolve(nameOrPath string) (*scanner.Rules, error) {
	if nameOrPath == "" {
		return extended, nil
	}
	if rules, err := Lookup(nameOrPath); err == nil {
		return rules, nil
	}
	return Load(nameOrPath)
}

func Parse(data []byte, format Format) (*scanner.Rules, error) {
	var f File
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &f)
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("unknown dialect file format %d", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode dialect: %w", err)
	}
	return f.Rules()
}

// Rules builds the rule set described by f.
func (f *File) Rules() (*scanner.Rules, error) {
	parentName := f.Extends
	if parentName == "" {
		parentName = BaseName
	}
	parent, err := Lookup(parentName)
	if err != nil {
		return nil, err
	}

	var opts []scanner.Option
	if f.Name != "" {
		opts = append(opts, scanner.WithName(f.Name))
	}

	keywords := parent.Keywords()
	if len(f.Keywords) > 0 {
		keywords = scanner.NewKeywordSet(f.Keywords...)
	}
	if len(f.ExtraKeywords) > 0 {
		keywords = keywords.Union(scanner.NewKeywordSet(f.ExtraKeywords...))
	}
	opts = append(opts, scanner.WithKeywords(keywords))

	sigils := []struct {
		field string
		value string
		apply func(rune) scanner.Option
	}{
		{"verbatim_sigil", f.VerbatimSigil, scanner.WithVerbatimSigil},
		{"directive_sigil", f.DirectiveSigil, scanner.WithDirectiveSigil},
		{"shell_exec", f.ShellExec, scanner.WithShellExec},
	}
	for _, s := range sigils {
		if s.value == "" {
			continue
		}
		r, err := singleRune(s.field, s.value)
		if err != nil {
			return nil, err
		}
		opts = append(opts, s.apply(r))
	}

	open, close := parent.BlockOpen(), parent.BlockClose()
	if f.BlockOpen != "" {
		if open, err = singleRune("block_open", f.BlockOpen); err != nil {
			return nil, err
		}
	}
	if f.BlockClose != "" {
		if close, err = singleRune("block_close", f.BlockClose); err != nil {
			return nil, err
		}
	}
	opts = append(opts, scanner.WithMacroBlocks(open, close))

	directives := parent.DirectivesEnabled()
	if f.Directives != nil {
		directives = *f.Directives
	}
	if directives && (open == 0 || close == 0) {
		return nil, fmt.Errorf("directives enabled but block_open/block_close not set")
	}
	if directives && open == close {
		return nil, fmt.Errorf("block_open and block_close must differ, both are %q", open)
	}
	opts = append(opts, scanner.WithDirectives(directives))

	line := parent.LineComment()
	blockOpen, blockClose := parent.BlockComment()
	if f.LineComment != "" {
		line = f.LineComment
	}
	if f.BlockCommentOpen != "" || f.BlockCommentClose != "" {
		if f.BlockCommentOpen == "" || f.BlockCommentClose == "" {
			return nil, fmt.Errorf("block_comment_open and block_comment_close must be set together")
		}
		blockOpen, blockClose = f.BlockCommentOpen, f.BlockCommentClose
	}
	opts = append(opts, scanner.WithComments(line, blockOpen, blockClose))

	return parent.With(opts...), nil
}

func singleRune(field, value string) (rune, error) {
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("%s must be a single character, got %q", field, value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r, nil
}
