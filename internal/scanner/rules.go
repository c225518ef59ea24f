package scanner

import (
	"maps"
	"slices"
	"sort"
	"strings"

	"sharpx/internal/token"
)

// Operator is one operator or punctuation spelling in a rule table.
type Operator struct {
	Spelling string
	Kind     token.Kind
}

// KeywordSet is an immutable set of reserved words. The zero value is empty.
type KeywordSet struct {
	words map[string]struct{}
}

func NewKeywordSet(words ...string) KeywordSet {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return KeywordSet{words: set}
}

// Has reports whether word is reserved. Matching is case-sensitive.
func (ks KeywordSet) Has(word string) bool {
	_, ok := ks.words[word]
	return ok
}

func (ks KeywordSet) Len() int {
	return len(ks.words)
}

// Words returns the reserved words in sorted order.
func (ks KeywordSet) Words() []string {
	var words []string
	for w := range ks.words {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}

// Union returns a new set holding the words of both sets.
func (ks KeywordSet) Union(other KeywordSet) KeywordSet {
	set := make(map[string]struct{}, len(ks.words)+len(other.words))
	maps.Copy(set, ks.words)
	maps.Copy(set, other.words)
	return KeywordSet{words: set}
}

// Rules configures the scanner for one dialect. A Rules value is immutable
// once built; derive variants with With.
type Rules struct {
	name               string
	keywords           KeywordSet
	verbatimSigil      rune
	interpolationSigil rune
	directiveSigil     rune
	blockOpen          rune
	blockClose         rune
	shellExec          rune
	directives         bool
	lineComment        string
	blockCommentOpen   string
	blockCommentClose  string
	operators          []Operator

	// operators grouped by first byte, longest spelling first
	byFirst map[byte][]Operator
}

type Option func(*Rules)

func WithName(name string) Option {
	return func(r *Rules) { r.name = name }
}

func WithKeywords(ks KeywordSet) Option {
	return func(r *Rules) { r.keywords = ks }
}

// WithVerbatimSigil sets the rune that, followed by a quote, opens a verbatim
// string and, followed by an identifier, marks a verbatim identifier.
func WithVerbatimSigil(sigil rune) Option {
	return func(r *Rules) { r.verbatimSigil = sigil }
}

func WithInterpolationSigil(sigil rune) Option {
	return func(r *Rules) { r.interpolationSigil = sigil }
}

func WithDirectiveSigil(sigil rune) Option {
	return func(r *Rules) { r.directiveSigil = sigil }
}

// WithMacroBlocks sets the markers that follow the directive sigil to open
// and close a macro block.
func WithMacroBlocks(open, close rune) Option {
	return func(r *Rules) {
		r.blockOpen = open
		r.blockClose = close
	}
}

// WithShellExec sets the marker that follows the directive sigil to start a
// shell-execute line.
func WithShellExec(marker rune) Option {
	return func(r *Rules) { r.shellExec = marker }
}

// WithDirectives enables the macro block and shell-execute directive forms.
// When disabled every directive line gets the base handling.
func WithDirectives(enabled bool) Option {
	return func(r *Rules) { r.directives = enabled }
}

func WithComments(line, blockOpen, blockClose string) Option {
	return func(r *Rules) {
		r.lineComment = line
		r.blockCommentOpen = blockOpen
		r.blockCommentClose = blockClose
	}
}

func WithOperators(ops []Operator) Option {
	return func(r *Rules) { r.operators = slices.Clone(ops) }
}

// NewRules builds a rule set from the given options.
func NewRules(opts ...Option) *Rules {
	r := &Rules{}
	for _, opt := range opts {
		opt(r)
	}
	r.index()
	return r
}

// With returns a copy of r with opts applied; r is left unchanged.
func (r *Rules) With(opts ...Option) *Rules {
	c := *r
	c.operators = slices.Clone(r.operators)
	for _, opt := range opts {
		opt(&c)
	}
	c.index()
	return &c
}

func (r *Rules) index() {
	r.byFirst = make(map[byte][]Operator)
	for _, op := range r.operators {
		if op.Spelling == "" {
			continue
		}
		r.byFirst[op.Spelling[0]] = append(r.byFirst[op.Spelling[0]], op)
	}
	for _, ops := range r.byFirst {
		// stable, so equal lengths keep declaration order
		sort.SliceStable(ops, func(i, j int) bool {
			return len(ops[i].Spelling) > len(ops[j].Spelling)
		})
	}
}

// match returns the longest operator spelled at the start of rest.
func (r *Rules) match(rest string) (Operator, bool) {
	if rest == "" {
		return Operator{}, false
	}
	for _, op := range r.byFirst[rest[0]] {
		if strings.HasPrefix(rest, op.Spelling) {
			return op, true
		}
	}
	return Operator{}, false
}

func (r *Rules) Name() string             { return r.name }
func (r *Rules) Keywords() KeywordSet     { return r.keywords }
func (r *Rules) VerbatimSigil() rune      { return r.verbatimSigil }
func (r *Rules) InterpolationSigil() rune { return r.interpolationSigil }
func (r *Rules) DirectiveSigil() rune     { return r.directiveSigil }
func (r *Rules) BlockOpen() rune          { return r.blockOpen }
func (r *Rules) BlockClose() rune         { return r.blockClose }
func (r *Rules) ShellExec() rune          { return r.shellExec }
func (r *Rules) DirectivesEnabled() bool  { return r.directives }
func (r *Rules) LineComment() string      { return r.lineComment }

func (r *Rules) BlockComment() (open, close string) {
	return r.blockCommentOpen, r.blockCommentClose
}

// Operators returns a copy of the operator table in declaration order.
func (r *Rules) Operators() []Operator {
	return slices.Clone(r.operators)
}
