package source

import "errors"

// ErrUnknownType indicates an unrecognized source type name was specified.
var ErrUnknownType = errors.New("unknown source type")
