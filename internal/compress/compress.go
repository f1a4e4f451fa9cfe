// Package compress selects the most inclusive set of transcript blocks that
// fits a character budget.
//
// Blocks are scored once. A threshold t keeps every block scoring at least t,
// so raising t can only drop blocks: the kept set and its size shrink
// monotonically. The search walks t upward from 0 and stops at the first
// threshold whose estimated size fits, which is the largest selection that
// fits. If none fits, the strictest threshold is used anyway.
package compress

import (
	"slices"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/alnah/transcript-squeeze/internal/format"
	"github.com/alnah/transcript-squeeze/internal/segment"
	"github.com/alnah/transcript-squeeze/internal/source"
)

// MaxThreshold is the strictest threshold tried.
const MaxThreshold = 29

// joinOverhead is the per-kept-block allowance for separators in the size
// estimate. It is charged per block, not per join.
const joinOverhead = 2

// NoCompressionRatio is the ratio reported when the search is skipped.
const NoCompressionRatio = "N/A (no compression)"

// Scorer rates block text.
type Scorer interface {
	Score(text string) int
}

// Normalizer cleans block text for a source type.
type Normalizer interface {
	Normalize(text string, t source.Type) string
}

// Candidate is a scored, cleaned block eligible for selection.
type Candidate struct {
	Index   int    // original position in the transcript
	Score   int    // score of the raw block text
	Cleaned string // normalized, trimmed text
	Length  int    // characters in Cleaned
}

// Stats describes one compression pass.
type Stats struct {
	TotalBlocks     int    `yaml:"total_blocks"`
	KeptBlocks      int    `yaml:"kept_blocks"`
	Threshold       int    `yaml:"threshold"`
	OriginalChars   int    `yaml:"original_chars"`
	CompressedChars int    `yaml:"compressed_chars"`
	Ratio           string `yaml:"ratio"`
	Compressed      bool   `yaml:"compressed"`
}

// Compressor runs the threshold search.
type Compressor struct {
	scorer     Scorer
	normalizer Normalizer
	logger     *zap.Logger
}

// Option configures a Compressor.
type Option func(*Compressor)

// WithLogger sets the logger used for per-threshold diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Compressor) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Compressor.
func New(s Scorer, n Normalizer, opts ...Option) *Compressor {
	c := &Compressor{
		scorer:     s,
		normalizer: n,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Candidates scores and normalizes blocks. Blocks whose cleaned text falls
// to MinLength characters or fewer are dropped.
func (c *Compressor) Candidates(blocks []segment.Block, t source.Type) []Candidate {
	out := make([]Candidate, 0, len(blocks))
	for _, b := range blocks {
		cleaned := strings.TrimSpace(c.normalizer.Normalize(b.Text, t))
		n := utf8.RuneCountInString(cleaned)
		if n <= segment.MinLength {
			continue
		}
		out = append(out, Candidate{
			Index:   b.Index,
			Score:   c.scorer.Score(b.Text),
			Cleaned: cleaned,
			Length:  n,
		})
	}
	return out
}

// Select returns the candidates scoring at least threshold, in ascending
// original index order.
func Select(candidates []Candidate, threshold int) []Candidate {
	var kept []Candidate
	for _, cand := range candidates {
		if cand.Score >= threshold {
			kept = append(kept, cand)
		}
	}
	slices.SortStableFunc(kept, func(a, b Candidate) int {
		return a.Index - b.Index
	})
	return kept
}

// EstimateSize approximates the joined size of kept blocks.
func EstimateSize(kept []Candidate) int {
	total := 0
	for _, cand := range kept {
		total += cand.Length + joinOverhead
	}
	return total
}

// Compress reduces raw to at most target characters where possible.
// A transcript with no segmentable blocks is returned unchanged with zero Stats.
// When no threshold up to MaxThreshold fits, the MaxThreshold selection is
// returned even though it exceeds target.
func (c *Compressor) Compress(raw string, target int, t source.Type) (string, Stats) {
	blocks := segment.Segment(raw)
	if len(blocks) == 0 {
		c.logger.Debug("no segmentable blocks; returning transcript unchanged")
		return raw, Stats{}
	}

	candidates := c.Candidates(blocks, t)
	threshold, kept := c.search(candidates, target)

	texts := make([]string, len(kept))
	for i, cand := range kept {
		texts[i] = cand.Cleaned
	}
	result := segment.Join(texts)

	original := utf8.RuneCountInString(raw)
	compressed := utf8.RuneCountInString(result)
	return result, Stats{
		TotalBlocks:     len(blocks),
		KeptBlocks:      len(kept),
		Threshold:       threshold,
		OriginalChars:   original,
		CompressedChars: compressed,
		Ratio:           format.Ratio(original, compressed),
		Compressed:      true,
	}
}

// search returns the smallest threshold whose selection fits target, or
// MaxThreshold and its selection when none does.
func (c *Compressor) search(candidates []Candidate, target int) (int, []Candidate) {
	for threshold := 0; threshold <= MaxThreshold; threshold++ {
		kept := Select(candidates, threshold)
		size := EstimateSize(kept)
		c.logger.Debug("threshold attempt",
			zap.Int("threshold", threshold),
			zap.Int("kept", len(kept)),
			zap.Int("estimate", size),
			zap.Int("target", target))
		if size <= target {
			return threshold, kept
		}
	}

	c.logger.Warn("no threshold fits target; using strictest",
		zap.Int("threshold", MaxThreshold),
		zap.Int("target", target))
	return MaxThreshold, Select(candidates, MaxThreshold)
}
