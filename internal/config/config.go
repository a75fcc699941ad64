package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"ohmg/internal/volume"
)

//go:embed sample_config.toml
var sampleConfig string

// Service contains the connection settings for the georeferencing service.
type Service struct {
	BaseURL        string `toml:"base_url"`
	CSRFToken      string `toml:"csrf_token"`
	Username       string `toml:"username"`
	Staff          bool   `toml:"staff"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Map contains tile rendering settings passed through to viewers.
type Map struct {
	ProviderAPIKey string `toml:"provider_api_key"`
	TileHost       string `toml:"tile_host"`
}

// Workflow contains client-side timing settings.
type Workflow struct {
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Stub contains settings for the local development daemon.
type Stub struct {
	Bind         string `toml:"bind"`
	DatabasePath string `toml:"database_path"`
	DataDir      string `toml:"data_dir"`
	LoadDelayMS  int    `toml:"load_delay_ms"`
}

// Config encapsulates all configuration values for ohmg.
//
// Configuration sections by subsystem:
//   - Service: base URL, CSRF token, and acting user for the live service
//   - Map: tile provider credentials handed to map viewers
//   - Workflow: background refresh cadence
//   - Logging: log format and level
//   - Stub: local development daemon bind address and database
type Config struct {
	Service  Service  `toml:"service"`
	Map      Map      `toml:"map"`
	Workflow Workflow `toml:"workflow"`
	Logging  Logging  `toml:"logging"`
	Stub     Stub     `toml:"stub"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ohmg/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("ohmg.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// SummaryEndpoint returns the volume summary operation endpoint for the
// given volume identifier.
func (c *Config) SummaryEndpoint(identifier string) string {
	return fmt.Sprintf("%s/volumes/%s/summary", strings.TrimRight(c.Service.BaseURL, "/"), identifier)
}

// DocumentEndpoint returns the per-document georeference operation endpoint.
func (c *Config) DocumentEndpoint(documentID string) string {
	return fmt.Sprintf("%s/documents/%s/georeference", strings.TrimRight(c.Service.BaseURL, "/"), documentID)
}

// PollInterval returns the background refresh period.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Workflow.PollIntervalSeconds) * time.Second
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Service.TimeoutSeconds) * time.Second
}

// User returns the acting user record derived from the service section.
func (c *Config) User() volume.User {
	name := strings.TrimSpace(c.Service.Username)
	return volume.User{
		Username:        name,
		IsStaff:         c.Service.Staff,
		IsAuthenticated: name != "",
	}
}

// EnsureDirectories creates the directories the stub daemon writes into.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Stub.DataDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Stub.DataDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Stub.DataDir, err)
	}
	return nil
}

// CreateSample writes the sample configuration file to path, refusing to
// overwrite an existing file.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
