// Package logging builds the zap loggers used for diagnostics.
//
// Human-facing progress is written directly to stderr by the CLI; this
// logger carries the machine-oriented detail (threshold attempts, rule
// sources, timings) and is quiet unless the level is lowered.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// DefaultLevel keeps diagnostics out of the console report unless requested.
const DefaultLevel = "warn"

// Config holds logging configuration.
type Config struct {
	Level  string `koanf:"log-level"`
	Format string `koanf:"log-format"`
}

// NewDefaultConfig returns the configuration used when nothing is set.
func NewDefaultConfig() Config {
	return Config{Level: DefaultLevel, Format: FormatConsole}
}

// Validate checks config for errors.
func (c Config) Validate() error {
	if c.Format != FormatConsole && c.Format != FormatJSON {
		return fmt.Errorf("log format must be %q or %q, got %q: %w", FormatConsole, FormatJSON, c.Format, ErrInvalidConfig)
	}
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// New creates a logger writing to w.
func New(cfg Config, w io.Writer) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := zapcore.ParseLevel(cfg.Level)

	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.AddSync(w), level)
	return zap.New(core).Named("squeeze"), nil
}

// newEncoder creates JSON or console encoder.
func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == FormatConsole {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}
