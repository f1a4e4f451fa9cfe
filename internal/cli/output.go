package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// warnNonMarkdownExtension writes a warning to w if path has an extension
// that is not .md. This alerts users that the output will be Markdown
// regardless of the file extension they specified.
func warnNonMarkdownExtension(w io.Writer, path string) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && ext != ".md" {
		_, _ = fmt.Fprintf(w, "Warning: output is Markdown regardless of %s extension\n", ext)
	}
}

// checkOutput fails fast when path exists and force is not set.
func checkOutput(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("output file already exists: %s (use --force to overwrite): %w", path, ErrOutputExists)
	}
	return nil
}

// writeOutput writes content to path. Without force an existing file is
// refused; with force it is replaced atomically.
func writeOutput(path, content string, force bool) error {
	if force {
		return replaceFileAtomic(path, content)
	}
	return writeFileAtomic(path, content)
}

// writeFileAtomic writes content to path atomically.
// It fails if the file already exists (O_EXCL), preventing accidental overwrites.
// On write failure, the partial file is removed.
func writeFileAtomic(path, content string) error {
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.WriteString(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}

	return nil
}

// replaceFileAtomic writes content to a temp file next to path, then renames
// it over path. Readers see either the old or the new file, never a mix.
func replaceFileAtomic(path, content string) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	tmp := f.Name()

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.WriteString(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return f.Chmod(0644)
	}()

	if writeErr != nil {
		_ = os.Remove(tmp)
		return writeErr
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("cannot replace output file: %w", err)
	}
	return nil
}
