// Package rules holds the term tables, corrections and filler patterns that
// drive scoring and normalization. The built-in set is embedded; a user YAML
// file can be layered on top of it.
package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

// Replacement is a literal substring fix for a known mis-transcription.
type Replacement struct {
	From string `koanf:"from" yaml:"from"`
	To   string `koanf:"to" yaml:"to"`
}

// Filler is a case-insensitive pattern removed (or replaced) inline.
type Filler struct {
	Pattern     string `koanf:"pattern" yaml:"pattern"`
	Replacement string `koanf:"replacement" yaml:"replacement,omitempty"`
}

// Corrections holds the common replacement table and per-source overlays.
// Overlays are keyed by source type name and applied after Common.
type Corrections struct {
	Common  []Replacement            `koanf:"common" yaml:"common"`
	Sources map[string][]Replacement `koanf:"sources" yaml:"sources,omitempty"`
}

// Rules is the complete scoring and cleaning configuration.
// Treat it as an immutable value: build it once with Default or Load and
// pass it to the scorer and normalizer. Clone before modifying a copy.
type Rules struct {
	Substantive []string    `koanf:"substantive_terms" yaml:"substantive_terms"`
	LowValue    []string    `koanf:"low_value_terms" yaml:"low_value_terms"`
	Garbage     []string    `koanf:"garbage_patterns" yaml:"garbage_patterns"`
	Corrections Corrections `koanf:"corrections" yaml:"corrections"`
	Fillers     []Filler    `koanf:"fillers" yaml:"fillers"`
}

var defaultRules = sync.OnceValues(func() (Rules, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultRulesYAML), yaml.Parser()); err != nil {
		return Rules{}, fmt.Errorf("failed to parse default rules: %w", err)
	}
	return unmarshal(k)
})

// Default returns the built-in rule set.
// Panics if the embedded rules are malformed, which is a build defect.
func Default() Rules {
	r, err := defaultRules()
	if err != nil {
		panic(err)
	}
	return r.Clone()
}

// Load returns the built-in rules with the YAML file at path layered on top.
// Lists in the file replace the defaults; correction overlays merge per source.
// An empty path returns Default().
func Load(path string) (Rules, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); err != nil {
		return Rules{}, fmt.Errorf("cannot access rules file: %w: %w", ErrInvalidRules, err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultRulesYAML), yaml.Parser()); err != nil {
		return Rules{}, fmt.Errorf("failed to parse default rules: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Rules{}, fmt.Errorf("failed to load rules file %s: %w: %w", path, ErrInvalidRules, err)
	}
	return unmarshal(k)
}

func unmarshal(k *koanf.Koanf) (Rules, error) {
	var r Rules
	if err := k.Unmarshal("", &r); err != nil {
		return Rules{}, fmt.Errorf("failed to decode rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

// Validate rejects rules that would match everything or nothing.
// Filler patterns are compiled (and checked) by the normalizer.
func (r Rules) Validate() error {
	var errs []error
	tables := []struct {
		name  string
		terms []string
	}{
		{"substantive_terms", r.Substantive},
		{"low_value_terms", r.LowValue},
		{"garbage_patterns", r.Garbage},
	}
	for _, table := range tables {
		for i, term := range table.terms {
			if strings.TrimSpace(term) == "" {
				errs = append(errs, fmt.Errorf("%s[%d] is empty", table.name, i))
			}
		}
	}
	for i, c := range r.Corrections.Common {
		if c.From == "" {
			errs = append(errs, fmt.Errorf("corrections.common[%d].from is empty", i))
		}
	}
	for _, src := range slices.Sorted(maps.Keys(r.Corrections.Sources)) {
		for i, c := range r.Corrections.Sources[src] {
			if c.From == "" {
				errs = append(errs, fmt.Errorf("corrections.sources.%s[%d].from is empty", src, i))
			}
		}
	}
	for i, f := range r.Fillers {
		if f.Pattern == "" {
			errs = append(errs, fmt.Errorf("fillers[%d].pattern is empty", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRules, errors.Join(errs...))
	}
	return nil
}

// CorrectionsFor returns the common replacements followed by the overlay
// for the given source type name.
func (r Rules) CorrectionsFor(sourceType string) []Replacement {
	out := slices.Clone(r.Corrections.Common)
	return append(out, r.Corrections.Sources[sourceType]...)
}

// Clone returns a deep copy of r.
func (r Rules) Clone() Rules {
	c := Rules{
		Substantive: slices.Clone(r.Substantive),
		LowValue:    slices.Clone(r.LowValue),
		Garbage:     slices.Clone(r.Garbage),
		Fillers:     slices.Clone(r.Fillers),
		Corrections: Corrections{
			Common: slices.Clone(r.Corrections.Common),
		},
	}
	if r.Corrections.Sources != nil {
		c.Corrections.Sources = make(map[string][]Replacement, len(r.Corrections.Sources))
		for k, v := range r.Corrections.Sources {
			c.Corrections.Sources[k] = slices.Clone(v)
		}
	}
	return c
}
