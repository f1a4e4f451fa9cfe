package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alnah/transcript-squeeze/internal/compress"
	"github.com/alnah/transcript-squeeze/internal/normalize"
	"github.com/alnah/transcript-squeeze/internal/score"
	"github.com/alnah/transcript-squeeze/internal/segment"
	"github.com/alnah/transcript-squeeze/internal/source"
)

// previewLength is the number of characters of cleaned text shown per block.
const previewLength = 60

// blocksOptions holds validated options for the blocks command.
type blocksOptions struct {
	inputPath  string
	sourceType source.Type
	rulesPath  string
	minScore   int
	sweep      bool
}

// BlocksCmd creates the blocks command, a tuning aid for rule files.
func BlocksCmd(env *Env) *cobra.Command {
	var (
		sourceType string
		rulesPath  string
		minScore   int
		sweep      bool
	)

	cmd := &cobra.Command{
		Use:   "blocks <transcript-file>",
		Short: "List scored transcript blocks",
		Long: `List the candidate blocks of a transcript with their scores.

Each row shows the block's position in the transcript, its score, its length
after cleaning and the start of its cleaned text. Use it to see why blocks are
kept or dropped, and to tune a --rules file.

With --sweep, a second table shows how many blocks and characters each
threshold keeps.`,
		Example: `  squeeze blocks meeting.md
  squeeze blocks meeting.md --min-score 5
  squeeze blocks export.md -s notion --rules banking_rules.yaml --sweep`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := blocksOptions{
				inputPath: args[0],
				rulesPath: rulesPath,
				minScore:  minScore,
				sweep:     sweep,
			}
			if sourceType != "" {
				st, err := source.ParseType(sourceType)
				if err != nil {
					return err
				}
				opts.sourceType = st
			}
			return runBlocks(env, opts)
		},
	}

	cmd.Flags().StringVarP(&sourceType, "source-type", "s", source.Auto, "Source type: auto, notion, plaud, zoom, teams, generic")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rules file layered on the built-in rules")
	cmd.Flags().IntVar(&minScore, "min-score", score.Garbage, "Only list blocks scoring at least this")
	cmd.Flags().BoolVar(&sweep, "sweep", false, "Also show kept blocks and size per threshold")

	return cmd
}

// runBlocks handles the blocks command.
func runBlocks(env *Env, opts blocksOptions) error {
	r, err := env.RulesLoader.Load(opts.rulesPath)
	if err != nil {
		return err
	}
	n, err := normalize.New(r)
	if err != nil {
		return err
	}

	text, err := readInput(opts.inputPath)
	if err != nil {
		return err
	}

	st := opts.sourceType.Resolve(text)
	_, raw := source.Split(st, text)
	blocks := segment.Segment(raw)
	cands := compress.New(score.New(r), n).Candidates(blocks, st)

	shown := writeBlocksTable(env.Stdout, cands, opts.minScore)
	fmt.Fprintf(env.Stdout, "\n%d of %d candidates shown (%d blocks segmented, source: %s)\n",
		shown, len(cands), len(blocks), st)

	if opts.sweep {
		fmt.Fprintln(env.Stdout)
		writeSweepTable(env.Stdout, cands)
	}
	return nil
}

// writeBlocksTable lists candidates scoring at least minScore and returns
// how many were listed.
func writeBlocksTable(w io.Writer, cands []compress.Candidate, minScore int) int {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tSCORE\tCHARS\tPREVIEW")
	shown := 0
	for _, c := range cands {
		if c.Score < minScore {
			continue
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", c.Index, c.Score, c.Length, preview(c.Cleaned))
		shown++
	}
	_ = tw.Flush()
	return shown
}

// writeSweepTable shows the selection each threshold would make.
func writeSweepTable(w io.Writer, cands []compress.Candidate) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "THRESHOLD\tKEPT\tESTIMATE")
	for t := 0; t <= compress.MaxThreshold; t++ {
		kept := compress.Select(cands, t)
		fmt.Fprintf(tw, "%d\t%d\t%d\n", t, len(kept), compress.EstimateSize(kept))
	}
	_ = tw.Flush()
}

// preview returns the first previewLength characters of s on one line.
func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= previewLength {
		return s
	}
	return string(r[:previewLength-3]) + "..."
}
