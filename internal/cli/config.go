package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alnah/transcript-squeeze/internal/config"
	"github.com/alnah/transcript-squeeze/internal/logging"
	"github.com/alnah/transcript-squeeze/internal/source"
)

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/transcript-squeeze/config.yaml.
Settings can also be overridden via environment variables.
Command-line flags take precedence over both.

Supported settings:
  output-dir    Default directory for output files (env: SQUEEZE_OUTPUT_DIR)
  target        Default target size in characters  (env: SQUEEZE_TARGET)
  source-type   Default source type                (env: SQUEEZE_SOURCE_TYPE)
  rules-file    Rules file layered on the defaults (env: SQUEEZE_RULES_FILE)
  log-level     Diagnostics level: debug, info, warn, error (env: SQUEEZE_LOG_LEVEL)
  log-format    Diagnostics format: console, json  (env: SQUEEZE_LOG_FORMAT)`,
		Example: `  squeeze config set output-dir ~/Documents/meetings
  squeeze config set target 50000
  squeeze config get target
  squeeze config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Values are checked before they are saved: output-dir is created if missing,
target must be a positive integer, source-type, log-level and log-format must
be known names, and rules-file must load.`,
		Example: `  squeeze config set output-dir ~/Documents/meetings
  squeeze config set source-type notion
  squeeze config set rules-file ~/rules/banking.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.
An environment override takes precedence over the file value.`,
		Example: `  squeeze config get output-dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable overrides.`,
		Example: `  squeeze config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// validateConfigValue checks value for key and returns the form to store.
func validateConfigValue(env *Env, key, value string) (string, error) {
	switch key {
	case config.KeyOutputDir:
		expanded := config.ExpandPath(value)
		if err := config.EnsureOutputDir(expanded); err != nil {
			return "", fmt.Errorf("invalid output-dir: %w", err)
		}
		return expanded, nil
	case config.KeyTarget:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return "", fmt.Errorf("target must be a positive integer, got %q: %w", value, ErrInvalidTarget)
		}
		return strconv.Itoa(n), nil
	case config.KeySourceType:
		if _, err := source.ParseType(value); err != nil {
			return "", err
		}
		return value, nil
	case config.KeyRulesFile:
		expanded := config.ExpandPath(value)
		if _, err := env.RulesLoader.Load(expanded); err != nil {
			return "", err
		}
		return expanded, nil
	case config.KeyLogLevel:
		cfg := logging.NewDefaultConfig()
		cfg.Level = value
		if err := cfg.Validate(); err != nil {
			return "", err
		}
		return value, nil
	case config.KeyLogFormat:
		cfg := logging.NewDefaultConfig()
		cfg.Format = value
		if err := cfg.Validate(); err != nil {
			return "", err
		}
		return value, nil
	}
	return value, nil
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if err := config.ValidKey(key); err != nil {
		return err
	}

	value, err := validateConfigValue(env, key, value)
	if err != nil {
		return err
	}

	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if err := config.ValidKey(key); err != nil {
		return err
	}

	value := env.Getenv(config.EnvName(key))
	if value == "" {
		var err error
		value, err = config.Get(key)
		if err != nil {
			return err
		}
	}

	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}
	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	for _, key := range config.Keys() {
		if envVal := env.Getenv(config.EnvName(key)); envVal != "" {
			data[key] = envVal + " (from env)"
		}
	}

	if len(data) == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range config.Keys() {
			fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	for _, key := range config.Keys() {
		if value, ok := data[key]; ok {
			fmt.Fprintf(env.Stdout, "%s=%s\n", key, value)
		}
	}
	return nil
}
