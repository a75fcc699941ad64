package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"ohmg/internal/config"
	"ohmg/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare data directory: %v", err)
	}

	var logger *slog.Logger
	if cfg.Logging.File != "" {
		fileLogger, closer, err := logging.NewFileLogger(cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			log.Fatalf("init logger: %v", err)
		}
		defer closer.Close()
		logger = fileLogger
	} else {
		stderrLogger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			log.Fatalf("init logger: %v", err)
		}
		logger = stderrLogger
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("ohmgd exited", logging.Error(err))
		cancel()
		log.Fatalf("ohmgd: %v", err)
	}
	logger.Info("ohmgd shutting down")
}
