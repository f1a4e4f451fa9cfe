// Package cleanup turns a meeting export into a compressed document that
// keeps the notes section intact and fits a character target.
package cleanup

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/alnah/transcript-squeeze/internal/compress"
	"github.com/alnah/transcript-squeeze/internal/normalize"
	"github.com/alnah/transcript-squeeze/internal/rules"
	"github.com/alnah/transcript-squeeze/internal/score"
	"github.com/alnah/transcript-squeeze/internal/source"
)

// DefaultTarget is the output size, in characters, used when none is given.
const DefaultTarget = 75000

// Overhead is reserved out of the target for the transcript header and
// separators.
const Overhead = 200

// TranscriptHeader introduces the cleaned transcript in the output.
const TranscriptHeader = "---\n\n## Cleaned Transcript\n\n"

// Result describes one cleanup run.
type Result struct {
	Source          source.Type    // resolved source type
	OriginalChars   int            // whole input
	NotesChars      int            // notes section before trimming
	TranscriptChars int            // raw transcript section
	Target          int            // requested output size
	Budget          int            // share of Target left for the transcript
	Stats           compress.Stats // transcript compression statistics
	Output          string         // assembled document
}

// FinalChars returns the size of the assembled document.
func (r Result) FinalChars() int {
	return utf8.RuneCountInString(r.Output)
}

// Fits reports whether the assembled document is within Target.
func (r Result) Fits() bool {
	return r.FinalChars() <= r.Target
}

// Cleaner runs the source split, compression and output assembly.
// It holds no mutable state after New.
type Cleaner struct {
	normalizer *normalize.Normalizer
	compressor *compress.Compressor
	logger     *zap.Logger
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithLogger sets the diagnostics logger, also used by the compressor.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cleaner) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a Cleaner from a rule set.
// Returns normalize.ErrInvalidPattern if a filler pattern does not compile.
func New(r rules.Rules, opts ...Option) (*Cleaner, error) {
	n, err := normalize.New(r)
	if err != nil {
		return nil, err
	}

	c := &Cleaner{
		normalizer: n,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.compressor = compress.New(score.New(r), n, compress.WithLogger(c.logger))
	return c, nil
}

// Clean compresses text to fit target characters.
// An auto or zero t is resolved by detection. When the transcript already
// fits its budget it is only normalized and Stats.Compressed is false.
func (c *Cleaner) Clean(text string, target int, t source.Type) Result {
	st := t.Resolve(text)
	notes, raw := source.Split(st, text)

	res := Result{
		Source:          st,
		OriginalChars:   utf8.RuneCountInString(text),
		NotesChars:      utf8.RuneCountInString(notes),
		TranscriptChars: utf8.RuneCountInString(raw),
		Target:          target,
	}
	res.Budget = target - res.NotesChars - Overhead

	c.logger.Debug("split input",
		zap.Stringer("source", st),
		zap.Int("notes", res.NotesChars),
		zap.Int("transcript", res.TranscriptChars),
		zap.Int("budget", res.Budget))

	var cleaned string
	if res.TranscriptChars <= res.Budget {
		cleaned = c.normalizer.Normalize(raw, st)
		res.Stats = compress.Stats{
			OriginalChars:   res.TranscriptChars,
			CompressedChars: utf8.RuneCountInString(cleaned),
			Ratio:           compress.NoCompressionRatio,
		}
	} else {
		cleaned, res.Stats = c.compressor.Compress(raw, res.Budget, st)
	}

	res.Output = assemble(notes, cleaned)
	return res
}

func assemble(notes, cleaned string) string {
	var b strings.Builder
	if n := strings.TrimSpace(notes); n != "" {
		b.WriteString(n)
		b.WriteString("\n\n")
	}
	b.WriteString(TranscriptHeader)
	b.WriteString(cleaned)
	return b.String()
}
