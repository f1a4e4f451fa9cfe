// Package normalize fixes known mis-transcriptions and strips conversational filler.
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/transcript-squeeze/internal/rules"
	"github.com/alnah/transcript-squeeze/internal/source"
)

var (
	multiSpaceRe   = regexp.MustCompile(`  +`)
	leadingSpaceRe = regexp.MustCompile(`(?m)^\s+`)
)

// filler is a compiled filler rule.
type filler struct {
	re          *regexp.Regexp
	replacement string
}

// Normalizer applies corrections and filler removal to block text.
// It is immutable after New and safe for concurrent use.
type Normalizer struct {
	rules   rules.Rules
	fillers []filler
}

// New compiles the filler patterns in r, preserving their order.
// Returns ErrInvalidPattern if a pattern does not compile.
func New(r rules.Rules) (*Normalizer, error) {
	n := &Normalizer{
		rules:   r.Clone(),
		fillers: make([]filler, 0, len(r.Fillers)),
	}
	for i, f := range r.Fillers {
		re, err := regexp.Compile("(?i)" + f.Pattern)
		if err != nil {
			return nil, fmt.Errorf("filler %d %q: %w: %w", i, f.Pattern, ErrInvalidPattern, err)
		}
		n.fillers = append(n.fillers, filler{re: re, replacement: f.Replacement})
	}
	return n, nil
}

// Normalize returns text with corrections for t applied, filler removed,
// space runs collapsed and leading whitespace stripped from every line.
func (n *Normalizer) Normalize(text string, t source.Type) string {
	return n.StripFiller(n.Correct(text, t))
}

// Correct applies the common corrections, then the overlay for t.
func (n *Normalizer) Correct(text string, t source.Type) string {
	for _, c := range n.rules.CorrectionsFor(t.String()) {
		text = strings.ReplaceAll(text, c.From, c.To)
	}
	return text
}

// StripFiller applies each filler rule once, in order. A removal may expose
// a match for a later rule but never for an earlier one.
func (n *Normalizer) StripFiller(text string) string {
	for _, f := range n.fillers {
		text = f.re.ReplaceAllLiteralString(text, f.replacement)
	}
	text = multiSpaceRe.ReplaceAllLiteralString(text, " ")
	return leadingSpaceRe.ReplaceAllLiteralString(text, "")
}
