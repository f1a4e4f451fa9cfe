package cli

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// Tests for readInput
// ---------------------------------------------------------------------------

func TestReadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{
			name:    "plain text",
			content: "first block\n\nsecond block\n",
			want:    "first block\n\nsecond block\n",
		},
		{
			name:    "byte order mark dropped",
			content: "\xef\xbb\xbfWEBVTT\n\nhello",
			want:    "WEBVTT\n\nhello",
		},
		{
			name:    "CRLF normalized",
			content: "first block\r\n\r\nsecond block\r\n",
			want:    "first block\n\nsecond block\n",
		},
		{
			name:    "lone CR kept",
			content: "a\rb",
			want:    "a\rb",
		},
		{
			name:    "invalid bytes replaced",
			content: "caf\xe9 talk",
			want:    "caf\uFFFD talk",
		},
		{
			name:    "multibyte text untouched",
			content: "réunion à 10h",
			want:    "réunion à 10h",
		},
		{
			name:    "empty file",
			content: "",
			want:    "",
		},
		{
			name:    "whitespace only",
			content: "\r\n \t\n\n",
			want:    "\n \t\n\n",
		},
		{
			name:    "byte order mark only",
			content: "\xef\xbb\xbf",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeTestFile(t, "in.md", tt.content)
			got, err := readInput(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("readInput() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("readInput() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("readInput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadInput_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := readInput("/nonexistent/path/meeting.md")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("readInput() error = %v, want %v", err, ErrFileNotFound)
	}
}

func TestReadInput_Directory(t *testing.T) {
	t.Parallel()

	_, err := readInput(t.TempDir())
	if err == nil {
		t.Fatal("readInput(dir) expected error, got nil")
	}
	if errors.Is(err, ErrFileNotFound) {
		t.Errorf("readInput(dir) error = %v, want a read failure", err)
	}
}
