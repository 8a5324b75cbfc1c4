package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nfrund/signup/internal/app"
	"github.com/nfrund/signup/internal/config"
	"github.com/nfrund/signup/internal/logging"
	"github.com/nfrund/signup/internal/server"
)

func main() {
	cfg := config.New()
	logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server gracefully stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	deps, err := app.Resolve(app.NewInjector(cfg))
	if err != nil {
		return err
	}
	if err := deps.Start(ctx); err != nil {
		return err
	}

	s, err := server.New(deps)
	if err != nil {
		return errors.Join(err, deps.Closer.Close(ctx))
	}
	return s.Start(ctx, cfg.GetServerAddr())
}
