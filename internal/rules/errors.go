package rules

import "errors"

// ErrInvalidRules indicates a rules file that cannot be read or parsed, or a
// rule set with empty terms or patterns.
var ErrInvalidRules = errors.New("invalid rules")
