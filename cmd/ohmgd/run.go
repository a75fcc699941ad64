package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"ohmg/internal/config"
	"ohmg/internal/logging"
	"ohmg/internal/stubserver"
)

// run acquires the single-instance lock, opens the stub store, seeds the demo
// volume, and serves until ctx is canceled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	lockPath := filepath.Join(filepath.Dir(cfg.Stub.DatabasePath), "ohmgd.lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another ohmgd instance is already running")
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			logger.Warn("failed to release daemon lock", logging.Error(unlockErr))
		}
	}()

	store, err := stubserver.OpenStore(cfg.Stub.DatabasePath)
	if err != nil {
		return fmt.Errorf("open stub store: %w", err)
	}
	defer store.Close()

	if err := store.SeedDemo(ctx, 0); err != nil {
		return fmt.Errorf("seed demo volume: %w", err)
	}

	server := stubserver.NewServer(store, stubserver.Options{
		Bind:      cfg.Stub.Bind,
		CSRFToken: cfg.Service.CSRFToken,
		LoadDelay: time.Duration(cfg.Stub.LoadDelayMS) * time.Millisecond,
		Logger:    logger,
	})

	logger.Info("ohmgd started",
		logging.String("bind", cfg.Stub.Bind),
		logging.String("database", cfg.Stub.DatabasePath),
		logging.String("lock", lockPath))
	return server.ListenAndServe(ctx)
}
