package config

import "errors"

var (
	// ErrInvalidKey indicates an unsupported configuration key.
	ErrInvalidKey = errors.New("invalid config key")

	// ErrInvalidValue indicates a value that cannot be stored for its key.
	ErrInvalidValue = errors.New("invalid config value")

	// ErrNotDirectory indicates an output-dir path that exists but is not a directory.
	ErrNotDirectory = errors.New("path is not a directory")

	// ErrNotWritable indicates an output-dir that cannot be created or written.
	ErrNotWritable = errors.New("directory is not writable")
)
