package normalize

import "errors"

// ErrInvalidPattern indicates a filler pattern is not a valid regular expression.
var ErrInvalidPattern = errors.New("invalid filler pattern")
