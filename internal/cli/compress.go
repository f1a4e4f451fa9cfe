package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/alnah/transcript-squeeze/internal/cleanup"
	"github.com/alnah/transcript-squeeze/internal/compress"
	"github.com/alnah/transcript-squeeze/internal/config"
	"github.com/alnah/transcript-squeeze/internal/format"
	"github.com/alnah/transcript-squeeze/internal/logging"
	"github.com/alnah/transcript-squeeze/internal/source"
)

// compressFlags holds raw flag values for the compress command.
type compressFlags struct {
	output     string
	target     int
	targetSet  bool
	sourceType string
	rulesPath  string
	statsPath  string
	force      bool
	verbose    bool
}

// compressOptions holds validated options for the compress command.
// Zero target and source type mean "not set on the command line".
type compressOptions struct {
	inputPath  string
	output     string
	target     int
	sourceType source.Type
	rulesPath  string
	statsPath  string
	force      bool
	verbose    bool
}

// CompressCmd creates the compress command.
// The env parameter provides injectable dependencies for testing.
func CompressCmd(env *Env) *cobra.Command {
	var f compressFlags

	cmd := &cobra.Command{
		Use:   "compress <transcript-file>",
		Short: "Compress a meeting transcript to a character budget",
		Long: `Compress a meeting transcript so the whole document fits a character budget.

The notes section of Notion exports is kept verbatim. The transcript is split
into blank-line separated blocks, each block is scored for substantive content,
and the lowest-value blocks are dropped until the rest fits. Kept blocks have
common mis-transcriptions corrected and verbal filler removed.

A transcript that already fits is only cleaned, never cut.

Source types: auto, notion, plaud, zoom, teams, generic (default: auto).`,
		Example: `  squeeze compress meeting.md -o meeting_compressed.md
  squeeze compress export.md -n 50000 -s notion
  squeeze compress call.vtt -o call.md --stats call_stats.yaml
  squeeze compress meeting.md --rules banking_rules.yaml --force -v`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.targetSet = cmd.Flags().Changed("target")
			opts, err := parseCompressOptions(args[0], f)
			if err != nil {
				return err
			}
			return runCompress(cmd, env, opts)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file path (default: <input>_compressed.md)")
	cmd.Flags().IntVarP(&f.target, "target", "n", cleanup.DefaultTarget, "Target output size in characters")
	cmd.Flags().StringVarP(&f.sourceType, "source-type", "s", "", "Source type: auto, notion, plaud, zoom, teams, generic")
	cmd.Flags().StringVar(&f.rulesPath, "rules", "", "YAML rules file layered on the built-in rules")
	cmd.Flags().StringVar(&f.statsPath, "stats", "", "Also write compression statistics to this YAML file")
	cmd.Flags().BoolVarP(&f.force, "force", "f", false, "Overwrite existing output files")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Log every threshold attempt")

	return cmd
}

// deriveCompressedOutputPath converts an input path to a compressed output path.
// Example: "meeting.vtt" -> "meeting_compressed.md"
func deriveCompressedOutputPath(inputPath string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + "_compressed.md"
}

// parseCompressOptions validates and parses CLI inputs into compressOptions.
// All parsing happens at the CLI boundary.
func parseCompressOptions(inputPath string, f compressFlags) (compressOptions, error) {
	opts := compressOptions{
		inputPath: inputPath,
		output:    f.output,
		rulesPath: f.rulesPath,
		statsPath: f.statsPath,
		force:     f.force,
		verbose:   f.verbose,
	}

	if f.targetSet {
		if f.target <= 0 {
			return compressOptions{}, fmt.Errorf("target must be positive, got %d: %w", f.target, ErrInvalidTarget)
		}
		opts.target = f.target
	}

	if f.sourceType != "" {
		st, err := source.ParseType(f.sourceType)
		if err != nil {
			return compressOptions{}, err
		}
		opts.sourceType = st
	}

	return opts, nil
}

// compressSettings are the options after config file and env defaults apply.
type compressSettings struct {
	output     string
	target     int
	sourceType source.Type
	rulesPath  string
	logging    logging.Config
}

// resolveCompressSettings applies precedence: flag, then config (file or
// env), then built-in default.
func resolveCompressSettings(opts compressOptions, cfg config.Config) (compressSettings, error) {
	s := compressSettings{
		target:     opts.target,
		sourceType: opts.sourceType,
		rulesPath:  opts.rulesPath,
		logging:    logging.NewDefaultConfig(),
	}

	if s.target == 0 {
		switch {
		case cfg.Target > 0:
			s.target = cfg.Target
		case cfg.Target < 0:
			return compressSettings{}, fmt.Errorf("config target must be positive, got %d: %w", cfg.Target, ErrInvalidTarget)
		default:
			s.target = cleanup.DefaultTarget
		}
	}

	if s.sourceType.IsZero() && cfg.SourceType != "" {
		st, err := source.ParseType(cfg.SourceType)
		if err != nil {
			return compressSettings{}, fmt.Errorf("config %s: %w", config.KeySourceType, err)
		}
		s.sourceType = st
	}
	s.sourceType = s.sourceType.OrDefault()

	if s.rulesPath == "" {
		s.rulesPath = config.ExpandPath(cfg.RulesFile)
	}

	if cfg.LogLevel != "" {
		s.logging.Level = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		s.logging.Format = cfg.LogFormat
	}
	if opts.verbose {
		s.logging.Level = "debug"
	}

	defaultOutput := deriveCompressedOutputPath(filepath.Base(opts.inputPath))
	s.output = config.ResolveOutputPath(opts.output, config.ExpandPath(cfg.OutputDir), defaultOutput)

	return s, nil
}

// runCompress executes the compress command with validated options.
func runCompress(cmd *cobra.Command, env *Env, opts compressOptions) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast) ===

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	settings, err := resolveCompressSettings(opts, cfg)
	if err != nil {
		return err
	}

	if err := checkOutput(settings.output, opts.force); err != nil {
		return err
	}
	if opts.statsPath != "" {
		if err := checkOutput(opts.statsPath, opts.force); err != nil {
			return err
		}
	}
	warnNonMarkdownExtension(env.Stderr, settings.output)

	logger, err := env.LoggerFactory.NewLogger(settings.logging, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	r, err := env.RulesLoader.Load(settings.rulesPath)
	if err != nil {
		return err
	}
	if settings.rulesPath != "" {
		logger.Info("loaded rules", zap.String("path", settings.rulesPath))
	}

	cleaner, err := cleanup.New(r, cleanup.WithLogger(logger))
	if err != nil {
		return err
	}

	// === READ INPUT ===

	fmt.Fprintf(env.Stderr, "Reading %s...\n", opts.inputPath)

	text, err := readInput(opts.inputPath)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// === COMPRESS ===

	res := cleaner.Clean(text, settings.target, settings.sourceType)
	writeCompressReport(env.Stderr, res)

	if err := ctx.Err(); err != nil {
		return err
	}

	// === WRITE OUTPUT ===

	if err := writeOutput(settings.output, res.Output, opts.force); err != nil {
		return err
	}
	if opts.statsPath != "" {
		if err := writeStatsFile(opts.statsPath, opts.inputPath, settings.output, res, opts.force); err != nil {
			return err
		}
	}

	fmt.Fprintf(env.Stderr, "Done: %s\n", settings.output)
	return nil
}

// status returns PASS when the result fits its target, OVER otherwise.
func status(res cleanup.Result) string {
	if res.Fits() {
		return "PASS"
	}
	return "OVER"
}

// writeCompressReport prints source sizes, compression statistics and the
// final verdict.
func writeCompressReport(w io.Writer, res cleanup.Result) {
	fmt.Fprintf(w, "Source: %s\n", res.Source)
	fmt.Fprintf(w, "Original: %s chars\n", format.Chars(res.OriginalChars))
	fmt.Fprintf(w, "Notes: %s chars\n", format.Chars(res.NotesChars))
	fmt.Fprintf(w, "Transcript: %s chars\n", format.Chars(res.TranscriptChars))

	st := res.Stats
	if st.Compressed {
		fmt.Fprintf(w, "Compressing to ~%s chars\n", format.Chars(res.Budget))
	} else {
		fmt.Fprintln(w, "Fits within target, cleaned only")
	}

	fmt.Fprintln(w, "\n--- Stats ---")
	if st.Compressed {
		fmt.Fprintf(w, "  Blocks: %d kept of %d\n", st.KeptBlocks, st.TotalBlocks)
		fmt.Fprintf(w, "  Threshold: %d\n", st.Threshold)
		if st.Threshold == compress.MaxThreshold && st.KeptBlocks > 0 {
			fmt.Fprintln(w, "  Warning: strictest threshold reached")
		}
	}
	fmt.Fprintf(w, "  Transcript: %s -> %s chars\n", format.Chars(st.OriginalChars), format.Chars(st.CompressedChars))
	fmt.Fprintf(w, "  Ratio: %s\n", st.Ratio)
	fmt.Fprintf(w, "  Final: %s chars\n", format.Chars(res.FinalChars()))
	fmt.Fprintf(w, "  Target: %s\n", format.Chars(res.Target))
	fmt.Fprintf(w, "  Status: %s\n", status(res))
}

// statsRecord is the YAML document written by --stats.
type statsRecord struct {
	Input      string         `yaml:"input"`
	Output     string         `yaml:"output"`
	Source     string         `yaml:"source"`
	Original   int            `yaml:"original_chars"`
	Notes      int            `yaml:"notes_chars"`
	Transcript int            `yaml:"transcript_chars"`
	Target     int            `yaml:"target"`
	Budget     int            `yaml:"transcript_budget"`
	Final      int            `yaml:"final_chars"`
	Status     string         `yaml:"status"`
	Stats      compress.Stats `yaml:"stats"`
}

// writeStatsFile writes the run statistics as YAML.
func writeStatsFile(path, input, output string, res cleanup.Result, force bool) error {
	data, err := yaml.Marshal(statsRecord{
		Input:      input,
		Output:     output,
		Source:     res.Source.String(),
		Original:   res.OriginalChars,
		Notes:      res.NotesChars,
		Transcript: res.TranscriptChars,
		Target:     res.Target,
		Budget:     res.Budget,
		Final:      res.FinalChars(),
		Status:     status(res),
		Stats:      res.Stats,
	})
	if err != nil {
		return fmt.Errorf("cannot encode stats: %w", err)
	}
	return writeOutput(path, string(data), force)
}
