package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hrkpi/internal/app/server"
	"hrkpi/internal/platform/config"
)

func main() {
	cfg := config.Load()

	level := slog.LevelInfo
	if !cfg.IsProduction() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := run(cfg); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Run(ctx)
}
