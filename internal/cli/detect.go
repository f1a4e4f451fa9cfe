package cli

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/alnah/transcript-squeeze/internal/format"
	"github.com/alnah/transcript-squeeze/internal/source"
)

// DetectCmd creates the detect command.
func DetectCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <transcript-file>",
		Short: "Show the detected source type and section sizes",
		Long: `Detect the export format of a transcript file and show how it splits.

Prints the file size and the source type auto-detection would choose, then
the size of the preserved notes section and of the raw transcript section.`,
		Example: `  squeeze detect meeting.md`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(env, args[0])
		},
	}
}

// runDetect handles the detect command.
func runDetect(env *Env, inputPath string) error {
	text, err := readInput(inputPath)
	if err != nil {
		return err
	}

	st := source.Detect(text)
	notes, raw := source.Split(st, text)

	fmt.Fprintf(env.Stdout, "File: %s (%s)\n", inputPath, format.Size(int64(len(text))))
	fmt.Fprintf(env.Stdout, "Source: %s\n", st)
	fmt.Fprintf(env.Stdout, "Original: %s chars\n", format.Chars(utf8.RuneCountInString(text)))
	fmt.Fprintf(env.Stdout, "Notes: %s chars\n", format.Chars(utf8.RuneCountInString(notes)))
	fmt.Fprintf(env.Stdout, "Transcript: %s chars\n", format.Chars(utf8.RuneCountInString(raw)))
	return nil
}
