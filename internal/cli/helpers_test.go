package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alnah/transcript-squeeze/internal/config"
	"github.com/alnah/transcript-squeeze/internal/logging"
	"github.com/alnah/transcript-squeeze/internal/rules"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

// mockConfigLoader returns an empty config unless LoadFunc is set.
type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

// mockRulesLoader records requested paths and returns the built-in rules
// unless LoadFunc is set.
type mockRulesLoader struct {
	mu       sync.Mutex
	paths    []string
	LoadFunc func(path string) (rules.Rules, error)
}

func (m *mockRulesLoader) Load(path string) (rules.Rules, error) {
	m.mu.Lock()
	m.paths = append(m.paths, path)
	m.mu.Unlock()
	if m.LoadFunc != nil {
		return m.LoadFunc(path)
	}
	return rules.Default(), nil
}

func (m *mockRulesLoader) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

// mockLoggerFactory records the logging config it was asked for and returns
// a no-op logger unless NewLoggerFunc is set.
type mockLoggerFactory struct {
	mu            sync.Mutex
	configs       []logging.Config
	NewLoggerFunc func(cfg logging.Config, w io.Writer) (*zap.Logger, error)
}

func (m *mockLoggerFactory) NewLogger(cfg logging.Config, w io.Writer) (*zap.Logger, error) {
	m.mu.Lock()
	m.configs = append(m.configs, cfg)
	m.mu.Unlock()
	if m.NewLoggerFunc != nil {
		return m.NewLoggerFunc(cfg, w)
	}
	return zap.NewNop(), nil
}

func (m *mockLoggerFactory) Configs() []logging.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]logging.Config(nil), m.configs...)
}

var (
	_ ConfigLoader  = (*mockConfigLoader)(nil)
	_ RulesLoader   = (*mockRulesLoader)(nil)
	_ LoggerFactory = (*mockLoggerFactory)(nil)
)

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

type testMocks struct {
	stdout        *syncBuffer
	stderr        *syncBuffer
	configLoader  *mockConfigLoader
	rulesLoader   *mockRulesLoader
	loggerFactory *mockLoggerFactory
}

// testEnvOption configures testEnv.
type testEnvOption func(*Env, *testMocks)

// withTestConfig makes the config loader return cfg.
func withTestConfig(cfg config.Config) testEnvOption {
	return func(_ *Env, m *testMocks) {
		m.configLoader.LoadFunc = func() (config.Config, error) { return cfg, nil }
	}
}

// withTestGetenv replaces the environment lookup.
func withTestGetenv(vars map[string]string) testEnvOption {
	return func(e *Env, _ *testMocks) {
		e.Getenv = staticEnv(vars)
	}
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	mocks := &testMocks{
		stdout:        &syncBuffer{},
		stderr:        &syncBuffer{},
		configLoader:  &mockConfigLoader{},
		rulesLoader:   &mockRulesLoader{},
		loggerFactory: &mockLoggerFactory{},
	}

	env := &Env{
		Stdout:        mocks.stdout,
		Stderr:        mocks.stderr,
		Getenv:        staticEnv(nil),
		ConfigLoader:  mocks.configLoader,
		RulesLoader:   mocks.rulesLoader,
		LoggerFactory: mocks.loggerFactory,
	}

	for _, opt := range opts {
		opt(env, mocks)
	}
	return env, mocks
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// testCmd returns a bare command carrying ctx, standing in for the cobra
// command a RunE receives.
func testCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	return cmd
}

// writeTestFile writes content to name inside a fresh temp dir and returns
// the path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

// readTestFile returns the content of path or fails the test.
func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// meetingTranscript returns a generic transcript of 20 low value chatter
// blocks followed by 10 substantive blocks, separated by blank lines.
func meetingTranscript() string {
	var blocks []string
	for i := 0; i < 20; i++ {
		blocks = append(blocks, "Yeah okay sounds good, thanks everyone for joining today.")
	}
	for i := 0; i < 10; i++ {
		blocks = append(blocks, "We agreed to migrate the settlement database to Kafka event streams by Q3, "+
			"the platform team owns the API contract and the budget is 40k for the rollout.")
	}
	return strings.Join(blocks, "\n\n") + "\n"
}
