package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/TimDeve/slice-n-dice/internal/config"
	"github.com/TimDeve/slice-n-dice/internal/database"
	"github.com/TimDeve/slice-n-dice/internal/metrics"
	"github.com/TimDeve/slice-n-dice/internal/server"
	"github.com/TimDeve/slice-n-dice/internal/services"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("loading .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	sessionService := services.NewSessionService(cfg)
	collector := metrics.NewCollector("slice_n_dice")

	srv := server.New(db, cfg, sessionService, collector)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
