// Package source recognizes where a transcript came from and separates a
// preserved notes section from the raw transcript.
package source

import (
	"fmt"
	"slices"
)

// Source type names accepted on the command line and in config.
const (
	Auto    = "auto"
	Notion  = "notion"
	Plaud   = "plaud"
	Zoom    = "zoom"
	Teams   = "teams"
	Generic = "generic"
)

// names lists every recognized source type, in help-text order.
var names = []string{Auto, Notion, Plaud, Zoom, Teams, Generic}

// Type represents a validated transcript source type.
// Zero value is treated as Generic by Split and as "no overlay" by the
// normalizer. Use ParseType to create from user input, or the pre-parsed values.
type Type struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Type{}

// Pre-parsed source types for use in code.
var (
	AutoType    = Type{name: Auto}
	NotionType  = Type{name: Notion}
	PlaudType   = Type{name: Plaud}
	ZoomType    = Type{name: Zoom}
	TeamsType   = Type{name: Teams}
	GenericType = Type{name: Generic}
)

// ParseType validates and parses a source type string.
// Returns ErrUnknownType if the name is not recognized.
func ParseType(s string) (Type, error) {
	if s == "" {
		return Type{}, fmt.Errorf("source type cannot be empty: %w", ErrUnknownType)
	}
	if !slices.Contains(names, s) {
		return Type{}, fmt.Errorf("unknown source type %q (use one of %v): %w", s, names, ErrUnknownType)
	}
	return Type{name: s}, nil
}

// Names returns all recognized source type names.
func Names() []string {
	return slices.Clone(names)
}

// String returns the source type name.
// Returns empty string for zero value.
func (t Type) String() string {
	return t.name
}

// IsZero returns true if no source type was set.
func (t Type) IsZero() bool {
	return t.name == ""
}

// IsAuto returns true if the type must be resolved by content sniffing.
func (t Type) IsAuto() bool {
	return t.name == Auto
}

// OrDefault returns the type, or AutoType if zero.
func (t Type) OrDefault() Type {
	if t.IsZero() {
		return AutoType
	}
	return t
}

// Resolve returns a concrete source type for text.
// Auto and zero values are resolved with Detect; anything else is returned as-is.
func (t Type) Resolve(text string) Type {
	if t.IsZero() || t.IsAuto() {
		return Detect(text)
	}
	return t
}
