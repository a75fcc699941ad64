package testsupport

import (
	"path/filepath"
	"testing"

	"ohmg/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp paths per test. It
// defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Service.CSRFToken = "test-token"
	cfg.Service.Username = "alice"
	cfg.Workflow.PollIntervalSeconds = 1
	cfg.Stub.Bind = "127.0.0.1:0"
	cfg.Stub.DataDir = base
	cfg.Stub.DatabasePath = filepath.Join(base, "stub.db")
	cfg.Stub.LoadDelayMS = 1

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBaseURL points the service section at url.
func WithBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) { cfg.Service.BaseURL = url }
}

// WithCSRFToken sets the session token on the test config.
func WithCSRFToken(token string) ConfigOption {
	return func(cfg *config.Config) { cfg.Service.CSRFToken = token }
}

// WithUser sets the acting user fields on the test config.
func WithUser(username string, staff bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Service.Username = username
		cfg.Service.Staff = staff
	}
}
