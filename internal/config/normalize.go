package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeService(); err != nil {
		return err
	}
	if err := c.normalizeStub(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeService() error {
	c.Service.BaseURL = strings.TrimRight(strings.TrimSpace(c.Service.BaseURL), "/")
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = defaultBaseURL
	}
	if c.Service.TimeoutSeconds <= 0 {
		c.Service.TimeoutSeconds = defaultTimeoutSeconds
	}
	if strings.TrimSpace(c.Service.CSRFToken) == "" {
		if env := strings.TrimSpace(os.Getenv("OHMG_CSRF_TOKEN")); env != "" {
			c.Service.CSRFToken = env
		}
	}
	if strings.TrimSpace(c.Service.Username) == "" {
		if env := strings.TrimSpace(os.Getenv("OHMG_USERNAME")); env != "" {
			c.Service.Username = env
		}
	}
	return nil
}

func (c *Config) normalizeStub() error {
	var err error
	if strings.TrimSpace(c.Stub.Bind) == "" {
		c.Stub.Bind = defaultStubBind
	}
	if strings.TrimSpace(c.Stub.DatabasePath) == "" {
		c.Stub.DatabasePath = defaultStubDatabasePath
	}
	if c.Stub.DatabasePath, err = expandPath(c.Stub.DatabasePath); err != nil {
		return fmt.Errorf("stub.database_path: %w", err)
	}
	if strings.TrimSpace(c.Stub.DataDir) == "" {
		c.Stub.DataDir = defaultStubDataDir
	}
	if c.Stub.DataDir, err = expandPath(c.Stub.DataDir); err != nil {
		return fmt.Errorf("stub.data_dir: %w", err)
	}
	if c.Stub.LoadDelayMS <= 0 {
		c.Stub.LoadDelayMS = defaultStubLoadDelayMS
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		expanded, err := expandPath(c.Logging.File)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
