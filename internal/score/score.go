// Package score rates transcript blocks by how much substantive content they carry.
package score

import (
	"strings"
	"unicode/utf8"

	ahocorasick "github.com/BobuSumisu/aho-corasick"

	"github.com/alnah/transcript-squeeze/internal/rules"
)

// Score weights and length bands.
const (
	// Garbage is the fixed score of a block containing a garbage pattern.
	// It is below every usable threshold, so such blocks are never kept.
	Garbage = -10

	SubstantiveWeight = 3
	LowValueWeight    = -5

	LongBonus      = 2
	LongLength     = 400
	VeryLongBonus  = 3
	VeryLongLength = 800
	QuestionBonus  = 2
	ShortPenalty   = -3
	ShortLength    = 60
)

// Scorer assigns an integer content score to block text.
// It is immutable after New and safe for concurrent use.
type Scorer struct {
	substantive *termSet
	lowValue    *termSet
	garbage     *termSet
}

// New builds a Scorer from the term tables in r.
// Terms are matched case-insensitively as plain substrings.
func New(r rules.Rules) *Scorer {
	return &Scorer{
		substantive: newTermSet(r.Substantive),
		lowValue:    newTermSet(r.LowValue),
		garbage:     newTermSet(r.Garbage),
	}
}

// Score returns the content score of text.
//
// A garbage match short-circuits to Garbage. Otherwise each distinct
// substantive term adds SubstantiveWeight and each distinct low-value term
// adds LowValueWeight, regardless of how often it occurs. Length bands and
// a question mark then adjust the total; all adjustments stack.
func (s *Scorer) Score(text string) int {
	lower := strings.ToLower(text)
	if s.garbage.any(lower) {
		return Garbage
	}

	score := SubstantiveWeight*s.substantive.distinct(lower) +
		LowValueWeight*s.lowValue.distinct(lower)

	n := utf8.RuneCountInString(text)
	if n > LongLength {
		score += LongBonus
	}
	if n > VeryLongLength {
		score += VeryLongBonus
	}
	if strings.Contains(text, "?") {
		score += QuestionBonus
	}
	if n < ShortLength {
		score += ShortPenalty
	}
	return score
}

// termSet scans text for a fixed set of lowercase terms in a single pass.
type termSet struct {
	trie *ahocorasick.Trie
}

func newTermSet(terms []string) *termSet {
	seen := make(map[string]bool, len(terms))
	patterns := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		patterns = append(patterns, t)
	}
	if len(patterns) == 0 {
		return &termSet{}
	}
	return &termSet{trie: ahocorasick.NewTrieBuilder().AddStrings(patterns).Build()}
}

// distinct counts how many different terms occur in text.
func (ts *termSet) distinct(text string) int {
	if ts.trie == nil {
		return 0
	}
	found := make(map[string]struct{})
	for _, m := range ts.trie.MatchString(text) {
		found[m.MatchString()] = struct{}{}
	}
	return len(found)
}

// any reports whether at least one term occurs in text.
func (ts *termSet) any(text string) bool {
	if ts.trie == nil {
		return false
	}
	return len(ts.trie.MatchString(text)) > 0
}
