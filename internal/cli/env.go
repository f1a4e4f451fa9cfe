// Package cli implements the squeeze commands.
package cli

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/alnah/transcript-squeeze/internal/config"
	"github.com/alnah/transcript-squeeze/internal/logging"
	"github.com/alnah/transcript-squeeze/internal/rules"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Factories for domain objects
	ConfigLoader  ConfigLoader
	RulesLoader   RulesLoader
	LoggerFactory LoggerFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// RulesLoader loads the scoring and cleaning rules.
// An empty path means the built-in rules.
type RulesLoader interface {
	Load(path string) (rules.Rules, error)
}

// LoggerFactory creates the diagnostics logger.
type LoggerFactory interface {
	NewLogger(cfg logging.Config, w io.Writer) (*zap.Logger, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithRulesLoader sets the rules loader.
func WithRulesLoader(l RulesLoader) EnvOption {
	return func(e *Env) {
		e.RulesLoader = l
	}
}

// WithLoggerFactory sets the logger factory.
func WithLoggerFactory(f LoggerFactory) EnvOption {
	return func(e *Env) {
		e.LoggerFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		Getenv:        os.Getenv,
		ConfigLoader:  &defaultConfigLoader{},
		RulesLoader:   &defaultRulesLoader{},
		LoggerFactory: &defaultLoggerFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultRulesLoader implements RulesLoader using the rules package.
type defaultRulesLoader struct{}

func (defaultRulesLoader) Load(path string) (rules.Rules, error) {
	return rules.Load(path)
}

// defaultLoggerFactory implements LoggerFactory using the logging package.
type defaultLoggerFactory struct{}

func (defaultLoggerFactory) NewLogger(cfg logging.Config, w io.Writer) (*zap.Logger, error) {
	return logging.New(cfg, w)
}

// Compile-time interface verification.
var (
	_ ConfigLoader  = (*defaultConfigLoader)(nil)
	_ RulesLoader   = (*defaultRulesLoader)(nil)
	_ LoggerFactory = (*defaultLoggerFactory)(nil)
)
