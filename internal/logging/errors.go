package logging

import "errors"

// ErrInvalidConfig indicates an unknown log level or format.
var ErrInvalidConfig = errors.New("invalid logging config")
