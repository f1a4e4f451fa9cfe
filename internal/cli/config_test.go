package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/transcript-squeeze/internal/config"
	"github.com/alnah/transcript-squeeze/internal/logging"
	"github.com/alnah/transcript-squeeze/internal/rules"
	"github.com/alnah/transcript-squeeze/internal/source"
)

// Notes:
// - These tests write the real config file, redirected with XDG_CONFIG_HOME,
//   so they cannot run in parallel.
// - Environment overrides are read through env.Getenv and stubbed with
//   staticEnv; config.Load itself is not involved in get and list.

// isolateConfig points the config file at a fresh temp dir.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

// ---------------------------------------------------------------------------
// Tests for validateConfigValue
// ---------------------------------------------------------------------------

func TestValidateConfigValue(t *testing.T) {
	t.Parallel()

	notDir := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(notDir, []byte("file"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		key     string
		value   string
		want    string
		wantErr error
	}{
		{"target", config.KeyTarget, "50000", "50000", nil},
		{"target normalized", config.KeyTarget, "0042", "42", nil},
		{"zero target", config.KeyTarget, "0", "", ErrInvalidTarget},
		{"negative target", config.KeyTarget, "-3", "", ErrInvalidTarget},
		{"non-numeric target", config.KeyTarget, "lots", "", ErrInvalidTarget},
		{"source type", config.KeySourceType, "notion", "notion", nil},
		{"unknown source type", config.KeySourceType, "skype", "", source.ErrUnknownType},
		{"log level", config.KeyLogLevel, "debug", "debug", nil},
		{"unknown log level", config.KeyLogLevel, "loud", "", logging.ErrInvalidConfig},
		{"log format", config.KeyLogFormat, "json", "json", nil},
		{"unknown log format", config.KeyLogFormat, "xml", "", logging.ErrInvalidConfig},
		{"output dir is a file", config.KeyOutputDir, notDir, "", config.ErrNotDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _ := testEnv()
			got, err := validateConfigValue(env, tt.key, tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("validateConfigValue(%q, %q) error = %v, want %v", tt.key, tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("validateConfigValue(%q, %q) unexpected error: %v", tt.key, tt.value, err)
			}
			if got != tt.want {
				t.Errorf("validateConfigValue(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.want)
			}
		})
	}
}

func TestValidateConfigValue_RulesFileIsLoaded(t *testing.T) {
	t.Parallel()

	env, mocks := testEnv()
	mocks.rulesLoader.LoadFunc = func(path string) (rules.Rules, error) {
		if path == "/rules/broken.yaml" {
			return rules.Rules{}, rules.ErrInvalidRules
		}
		return rules.Default(), nil
	}

	if _, err := validateConfigValue(env, config.KeyRulesFile, "/rules/bank.yaml"); err != nil {
		t.Errorf("valid rules file: unexpected error: %v", err)
	}
	if _, err := validateConfigValue(env, config.KeyRulesFile, "/rules/broken.yaml"); !errors.Is(err, rules.ErrInvalidRules) {
		t.Errorf("broken rules file: error = %v, want %v", err, rules.ErrInvalidRules)
	}

	paths := mocks.rulesLoader.Paths()
	if len(paths) != 2 || paths[0] != "/rules/bank.yaml" {
		t.Errorf("rules loaded from %v", paths)
	}
}

// ---------------------------------------------------------------------------
// Tests for runConfigSet
// ---------------------------------------------------------------------------

func TestRunConfigSet_ValidKey(t *testing.T) {
	isolateConfig(t)

	outputDir := t.TempDir()
	env, mocks := testEnv()

	if err := runConfigSet(env, config.KeyOutputDir, outputDir); err != nil {
		t.Fatalf("runConfigSet(%q, %q) unexpected error: %v", config.KeyOutputDir, outputDir, err)
	}

	if got := mocks.stderr.String(); !strings.Contains(got, "Set output-dir = "+outputDir) {
		t.Errorf("stderr = %q, want containing 'Set output-dir'", got)
	}

	got, err := config.Get(config.KeyOutputDir)
	if err != nil {
		t.Fatalf("config.Get() unexpected error: %v", err)
	}
	if got != outputDir {
		t.Errorf("config.Get(%q) = %q, want %q", config.KeyOutputDir, got, outputDir)
	}
}

func TestRunConfigSet_Target(t *testing.T) {
	isolateConfig(t)

	env, _ := testEnv()
	if err := runConfigSet(env, config.KeyTarget, "50000"); err != nil {
		t.Fatalf("runConfigSet() unexpected error: %v", err)
	}

	got, err := config.Get(config.KeyTarget)
	if err != nil {
		t.Fatalf("config.Get() unexpected error: %v", err)
	}
	if got != "50000" {
		t.Errorf("config.Get(%q) = %q, want %q", config.KeyTarget, got, "50000")
	}
}

func TestRunConfigSet_InvalidKey(t *testing.T) {
	t.Parallel()

	env, _ := testEnv()
	err := runConfigSet(env, "invalid-key", "value")
	if !errors.Is(err, config.ErrInvalidKey) {
		t.Fatalf("runConfigSet(\"invalid-key\") error = %v, want %v", err, config.ErrInvalidKey)
	}
	if !strings.Contains(err.Error(), "unknown") {
		t.Errorf("error = %q, want containing %q", err.Error(), "unknown")
	}
}

func TestRunConfigSet_InvalidValueNotSaved(t *testing.T) {
	isolateConfig(t)

	env, _ := testEnv()
	if err := runConfigSet(env, config.KeyTarget, "-1"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("runConfigSet(target, -1) error = %v, want %v", err, ErrInvalidTarget)
	}

	data, err := config.List()
	if err != nil {
		t.Fatalf("config.List() unexpected error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("config.List() = %v, want empty", data)
	}
}

func TestRunConfigSet_InvalidOutputDir(t *testing.T) {
	isolateConfig(t)

	filePath := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(filePath, []byte("file"), 0644); err != nil {
		t.Fatalf("os.WriteFile(%q) unexpected error: %v", filePath, err)
	}

	env, _ := testEnv()
	err := runConfigSet(env, config.KeyOutputDir, filePath)
	if err == nil {
		t.Fatalf("runConfigSet(%q, %q) expected error, got nil", config.KeyOutputDir, filePath)
	}
	if !strings.Contains(err.Error(), "invalid output-dir") {
		t.Errorf("error = %q, want containing %q", err.Error(), "invalid output-dir")
	}
}

// ---------------------------------------------------------------------------
// Tests for runConfigGet
// ---------------------------------------------------------------------------

func TestRunConfigGet_FromFile(t *testing.T) {
	isolateConfig(t)

	if err := config.Save(config.KeySourceType, "notion"); err != nil {
		t.Fatalf("config.Save() unexpected error: %v", err)
	}

	env, mocks := testEnv()
	if err := runConfigGet(env, config.KeySourceType); err != nil {
		t.Fatalf("runConfigGet() unexpected error: %v", err)
	}
	if got := mocks.stdout.String(); got != "notion\n" {
		t.Errorf("stdout = %q, want %q", got, "notion\n")
	}
}

func TestRunConfigGet_EnvWins(t *testing.T) {
	isolateConfig(t)

	if err := config.Save(config.KeySourceType, "notion"); err != nil {
		t.Fatalf("config.Save() unexpected error: %v", err)
	}

	env, mocks := testEnv(withTestGetenv(map[string]string{
		config.EnvName(config.KeySourceType): "zoom",
	}))
	if err := runConfigGet(env, config.KeySourceType); err != nil {
		t.Fatalf("runConfigGet() unexpected error: %v", err)
	}
	if got := mocks.stdout.String(); got != "zoom\n" {
		t.Errorf("stdout = %q, want %q", got, "zoom\n")
	}
}

func TestRunConfigGet_UnsetPrintsNothing(t *testing.T) {
	isolateConfig(t)

	env, mocks := testEnv()
	if err := runConfigGet(env, config.KeyRulesFile); err != nil {
		t.Fatalf("runConfigGet() unexpected error: %v", err)
	}
	if got := mocks.stdout.String(); got != "" {
		t.Errorf("stdout = %q, want empty", got)
	}
}

func TestRunConfigGet_InvalidKey(t *testing.T) {
	t.Parallel()

	env, _ := testEnv()
	if err := runConfigGet(env, "invalid-key"); !errors.Is(err, config.ErrInvalidKey) {
		t.Fatalf("runConfigGet(\"invalid-key\") error = %v, want %v", err, config.ErrInvalidKey)
	}
}

// ---------------------------------------------------------------------------
// Tests for runConfigList
// ---------------------------------------------------------------------------

func TestRunConfigList_WithConfig(t *testing.T) {
	isolateConfig(t)

	if err := config.Save(config.KeyTarget, "40000"); err != nil {
		t.Fatal(err)
	}
	if err := config.Save(config.KeySourceType, "teams"); err != nil {
		t.Fatal(err)
	}

	env, mocks := testEnv()
	if err := runConfigList(env); err != nil {
		t.Fatalf("runConfigList() unexpected error: %v", err)
	}

	want := "target=40000\nsource-type=teams\n"
	if got := mocks.stdout.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestRunConfigList_EmptyConfig(t *testing.T) {
	isolateConfig(t)

	env, mocks := testEnv()
	if err := runConfigList(env); err != nil {
		t.Fatalf("runConfigList() unexpected error: %v", err)
	}

	got := mocks.stdout.String()
	if !strings.Contains(got, "No configuration set.") {
		t.Errorf("stdout = %q, want 'No configuration set.'", got)
	}
	for _, key := range config.Keys() {
		if !strings.Contains(got, "  "+key+"\n") {
			t.Errorf("stdout missing available setting %q", key)
		}
	}
}

func TestRunConfigList_WithEnvOverride(t *testing.T) {
	isolateConfig(t)

	if err := config.Save(config.KeyLogLevel, "info"); err != nil {
		t.Fatal(err)
	}

	env, mocks := testEnv(withTestGetenv(map[string]string{
		config.EnvName(config.KeyLogLevel): "debug",
	}))
	if err := runConfigList(env); err != nil {
		t.Fatalf("runConfigList() unexpected error: %v", err)
	}

	if got := mocks.stdout.String(); got != "log-level=debug (from env)\n" {
		t.Errorf("stdout = %q, want env value marked", got)
	}
}

// ---------------------------------------------------------------------------
// Tests for ConfigCmd (Cobra integration)
// ---------------------------------------------------------------------------

func TestConfigCmd_HasSubcommands(t *testing.T) {
	t.Parallel()

	env, _ := testEnv()
	cmd := ConfigCmd(env)

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, name := range []string{"set", "get", "list"} {
		if !subcommands[name] {
			t.Errorf("expected subcommand %q", name)
		}
	}
}

func TestConfigCmd_ArgCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"set without args", []string{"set"}},
		{"set without value", []string{"set", "target"}},
		{"get without key", []string{"get"}},
		{"list with extra arg", []string{"list", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _ := testEnv()
			cmd := ConfigCmd(env)
			cmd.SetArgs(tt.args)
			cmd.SetOut(&syncBuffer{})
			cmd.SetErr(&syncBuffer{})

			if err := cmd.Execute(); err == nil {
				t.Errorf("ConfigCmd.Execute(%v) expected error, got nil", tt.args)
			}
		})
	}
}

func TestConfigCmd_ListNoArgs(t *testing.T) {
	isolateConfig(t)

	env, _ := testEnv()
	cmd := ConfigCmd(env)
	cmd.SetArgs([]string{"list"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("ConfigCmd.Execute([list]) unexpected error: %v", err)
	}
}
