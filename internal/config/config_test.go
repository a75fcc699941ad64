package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ohmg/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved existing path, got %q exists=%v", resolved, exists)
	}
	if cfg.Service.BaseURL != "https://oldinsurancemaps.net" {
		t.Fatalf("unexpected base url %q", cfg.Service.BaseURL)
	}
	if cfg.PollInterval() != 4*time.Second {
		t.Fatalf("unexpected poll interval %v", cfg.PollInterval())
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	path := writeConfig(t, `
[service]
base_url = "https://maps.example.org/"
csrf_token = "abc"
username = "alice"

[workflow]
poll_interval_seconds = 10
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Service.BaseURL != "https://maps.example.org" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Service.BaseURL)
	}
	if got := cfg.SummaryEndpoint("vol1"); got != "https://maps.example.org/volumes/vol1/summary" {
		t.Fatalf("unexpected summary endpoint %q", got)
	}
	user := cfg.User()
	if user.Username != "alice" || !user.IsAuthenticated || user.IsStaff {
		t.Fatalf("unexpected user %+v", user)
	}
	if cfg.PollInterval() != 10*time.Second {
		t.Fatalf("unexpected poll interval %v", cfg.PollInterval())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		want     string
	}{
		{"bad url", "[service]\nbase_url = \"not a url\"\n", "base_url"},
		{"bad interval", "[workflow]\npoll_interval_seconds = -1\n", "poll_interval"},
		{"bad format", "[logging]\nformat = \"yaml\"\n", "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.contents)
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCSRFTokenEnvFallback(t *testing.T) {
	t.Setenv("OHMG_CSRF_TOKEN", "env-token")
	path := writeConfig(t, "")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Service.CSRFToken != "env-token" {
		t.Fatalf("expected env fallback, got %q", cfg.Service.CSRFToken)
	}
	if err := cfg.RequireCSRFToken(); err != nil {
		t.Fatalf("RequireCSRFToken returned error: %v", err)
	}
}

func TestRequireCSRFToken(t *testing.T) {
	t.Setenv("OHMG_CSRF_TOKEN", "")
	path := writeConfig(t, "")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.RequireCSRFToken(); err == nil {
		t.Fatal("expected error when csrf token missing")
	}
}

func TestCreateSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[service]") {
		t.Fatal("sample config missing service section")
	}
	if err := config.CreateSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}
}
