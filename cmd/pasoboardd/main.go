package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/pasoboard/internal/app"
	"github.com/thenoetrevino/pasoboard/internal/config"
	"github.com/thenoetrevino/pasoboard/internal/logging"
)

func main() {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Under a service manager logs go to stderr unless a file is configured
	if cfg.Log.File == "" {
		cfg.Log.File = "stderr"
	}
	closer, err := logging.Init(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		slog.Error("failed to initialize logging", "error", err)
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	slog.Info("pasoboard server starting", "addr", cfg.Server.Addr, "driver", cfg.Database.Driver, "pid", os.Getpid())

	// Run blocks until shutdown
	runErr := application.Run(ctx)
	if err := application.Close(); err != nil {
		slog.Error("failed to close", "error", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		slog.Error("server error", "error", runErr)
		os.Exit(1)
	}

	slog.Info("pasoboard server shut down gracefully")
}
