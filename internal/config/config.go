// Package config loads and saves user defaults from the config file and
// SQUEEZE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config keys.
const (
	KeyOutputDir  = "output-dir"
	KeyTarget     = "target"
	KeySourceType = "source-type"
	KeyRulesFile  = "rules-file"
	KeyLogLevel   = "log-level"
	KeyLogFormat  = "log-format"
)

// EnvPrefix prefixes environment overrides: SQUEEZE_OUTPUT_DIR overrides output-dir.
const EnvPrefix = "SQUEEZE_"

// appName names the configuration directory.
const appName = "transcript-squeeze"

// keys lists the supported configuration keys in display order.
var keys = []string{KeyOutputDir, KeyTarget, KeySourceType, KeyRulesFile, KeyLogLevel, KeyLogFormat}

// Config holds user configuration loaded from
// ~/.config/transcript-squeeze/config.yaml and SQUEEZE_* variables.
// Zero values mean "not set"; callers apply their own defaults.
type Config struct {
	OutputDir  string `koanf:"output-dir"`
	Target     int    `koanf:"target"`
	SourceType string `koanf:"source-type"`
	RulesFile  string `koanf:"rules-file"`
	LogLevel   string `koanf:"log-level"`
	LogFormat  string `koanf:"log-format"`
}

// Keys returns the supported configuration keys.
func Keys() []string {
	return slices.Clone(keys)
}

// ValidKey returns ErrInvalidKey if key is not a supported configuration key.
func ValidKey(key string) error {
	if !slices.Contains(keys, key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v): %w", key, keys, ErrInvalidKey)
	}
	return nil
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// envKey maps SQUEEZE_OUTPUT_DIR to output-dir. Unknown variables map to ""
// and are skipped by the provider.
func envKey(s string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
	if !slices.Contains(keys, key) {
		return ""
	}
	return key
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/transcript-squeeze.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}

// loadFile reads the config file into a fresh koanf instance.
// A missing file yields an empty instance.
func loadFile(p string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return k, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := k.Load(file.Provider(p), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", p, err)
	}
	return k, nil
}

// Load reads the configuration file, then applies environment overrides.
// Precedence: environment variables, then config file values.
// Returns an empty Config if the file doesn't exist (not an error).
func Load() (Config, error) {
	var cfg Config

	p, err := path()
	if err != nil {
		return cfg, err
	}

	k, err := loadFile(p)
	if err != nil {
		return cfg, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return cfg, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Save writes a single key to the config file, keeping the other keys.
// Creates the config directory and file if they don't exist.
func Save(key, value string) error {
	if err := ValidKey(key); err != nil {
		return err
	}

	p, err := path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	k, err := loadFile(p)
	if err != nil {
		return err
	}

	var v any = value
	if key == KeyTarget {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("target must be an integer, got %q: %w", value, ErrInvalidValue)
		}
		v = n
	}
	if err := k.Set(key, v); err != nil {
		return fmt.Errorf("cannot set %s: %w", key, err)
	}

	data, err := k.Marshal(yaml.Parser())
	if err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	// #nosec G306 -- config file with standard permissions, path from home dir
	if err := os.WriteFile(p, data, 0644); err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	if err := ValidKey(key); err != nil {
		return "", err
	}

	p, err := path()
	if err != nil {
		return "", err
	}

	k, err := loadFile(p)
	if err != nil {
		return "", err
	}
	if !k.Exists(key) {
		return "", nil
	}
	return k.String(key), nil
}

// List returns all config file values as strings, keyed by config key.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	k, err := loadFile(p)
	if err != nil {
		return nil, err
	}

	data := make(map[string]string)
	for _, key := range keys {
		if k.Exists(key) {
			data[key] = k.String(key)
		}
	}
	return data, nil
}

// ResolveOutputPath resolves the final output path using the following precedence:
//  1. If output is absolute, use it as-is
//  2. If output is relative and outputDir is set, join them
//  3. If output is empty, use defaultName in outputDir (or cwd if no outputDir)
//
// All paths are cleaned using filepath.Clean.
func ResolveOutputPath(output, outputDir, defaultName string) string {
	if output != "" && filepath.IsAbs(output) {
		return filepath.Clean(output)
	}

	if output != "" {
		if outputDir != "" {
			return filepath.Clean(filepath.Join(outputDir, output))
		}
		return filepath.Clean(output)
	}

	if outputDir != "" {
		return filepath.Clean(filepath.Join(outputDir, defaultName))
	}
	return filepath.Clean(defaultName)
}

// EnsureOutputDir checks that d is a writable directory, creating it if needed.
func EnsureOutputDir(d string) error {
	if d == "" {
		return fmt.Errorf("output-dir cannot be empty: %w", ErrInvalidValue)
	}
	d = ExpandPath(d)

	info, err := os.Stat(d)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user output dir
				return fmt.Errorf("cannot create directory %s: %w: %w", d, ErrNotWritable, err)
			}
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s: %w", d, ErrNotDirectory)
	}

	f, err := os.CreateTemp(d, ".squeeze-write-test-*")
	if err != nil {
		return fmt.Errorf("%s: %w: %w", d, ErrNotWritable, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}
