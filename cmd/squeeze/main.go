package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/transcript-squeeze/internal/cli"
	"github.com/alnah/transcript-squeeze/internal/config"
	"github.com/alnah/transcript-squeeze/internal/logging"
	"github.com/alnah/transcript-squeeze/internal/normalize"
	"github.com/alnah/transcript-squeeze/internal/rules"
	"github.com/alnah/transcript-squeeze/internal/source"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitInterrupt  = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	// SQUEEZE_* variables set there override the config file.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env := cli.DefaultEnv()

	rootCmd := newRootCmd(env)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// newRootCmd builds the command tree around env.
func newRootCmd(env *cli.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "squeeze",
		Short:   "Compress meeting transcripts to fit a character budget",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.CompressCmd(env))
	rootCmd.AddCommand(cli.DetectCmd(env))
	rootCmd.AddCommand(cli.BlocksCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	return rootCmd
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Usage errors (ExitUsage = 2): bad flags, arguments or flag values.
	if isCobraUsageError(err) || errors.Is(err, source.ErrUnknownType) ||
		errors.Is(err, cli.ErrInvalidTarget) {
		return ExitUsage
	}

	// Setup errors (ExitSetup = 3): rules and logging cannot be built.
	if errors.Is(err, rules.ErrInvalidRules) || errors.Is(err, normalize.ErrInvalidPattern) ||
		errors.Is(err, logging.ErrInvalidConfig) {
		return ExitSetup
	}

	// Validation errors (ExitValidation = 4): input, output and config values.
	if errors.Is(err, cli.ErrFileNotFound) || errors.Is(err, cli.ErrOutputExists) ||
		errors.Is(err, config.ErrInvalidKey) || errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrNotDirectory) || errors.Is(err, config.ErrNotWritable) {
		return ExitValidation
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",          // Missing required flag
	"unknown flag",           // Flag doesn't exist
	"unknown shorthand",      // Short flag doesn't exist
	"unknown command",        // Subcommand doesn't exist
	"flag needs an argument", // Flag provided without value
	"invalid argument",       // Invalid flag value type
	"accepts ",               // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",      // Too few arguments
	"requires at most",       // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
