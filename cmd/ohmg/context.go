package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ohmg/internal/api"
	"ohmg/internal/config"
	"ohmg/internal/logging"
	"ohmg/internal/remote"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newClient() (*remote.Client, *config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.RequireCSRFToken(); err != nil {
		return nil, nil, err
	}
	client, err := remote.New(cfg.Service.CSRFToken,
		remote.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()}))
	if err != nil {
		return nil, nil, fmt.Errorf("build operation client: %w", err)
	}
	return client, cfg, nil
}

// openDashboard fetches the current snapshot for identifier and wraps it in a
// session. The caller owns the session and must Close it.
func (c *commandContext) openDashboard(ctx context.Context, identifier string) (*api.Dashboard, error) {
	client, cfg, err := c.newClient()
	if err != nil {
		return nil, err
	}

	endpoint := cfg.SummaryEndpoint(identifier)
	initial, err := client.SubmitVolumeOperation(ctx, endpoint, remote.OpRefresh, remote.VolumePayload{})
	if err != nil {
		return nil, fmt.Errorf("fetch volume %s: %w", identifier, err)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, err
	}

	return api.NewDashboard(client, endpoint, *initial, cfg.User(), cfg.PollInterval(), logger)
}

// withDashboard runs fn inside a session's lifetime.
func (c *commandContext) withDashboard(ctx context.Context, identifier string, fn func(*api.Dashboard) error) error {
	dashboard, err := c.openDashboard(ctx, identifier)
	if err != nil {
		return err
	}
	defer dashboard.Close()
	return fn(dashboard)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
