package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readInput reads a transcript file as UTF-8 text.
// A leading byte order mark is dropped, invalid bytes become U+FFFD and
// CRLF line endings become LF so blank-line splitting sees "\n\n".
// Empty or blank files are valid input.
func readInput(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		return "", fmt.Errorf("cannot access file: %w", err)
	}

	// #nosec G304 -- path is user-provided, checked above
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}
