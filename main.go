package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solstice-labs/lumen/lumen"
	"github.com/solstice-labs/lumen/lumen/database"
	"github.com/solstice-labs/lumen/lumen/events"
	"github.com/solstice-labs/lumen/lumen/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := lumen.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	customHandler := logger.NewHandler(cfg.Log.Level)
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting Lumen companion engine",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	slog.Info("Database connected",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.String("error", err.Error()))
		os.Exit(-1)
	}

	app := lumen.New(*cfg, version, commit)
	if err := app.Setup(ctx, db); err != nil {
		slog.Error("Failed to set up application", slog.Any("error", err))
		os.Exit(-1)
	}
	defer app.Close(context.Background())

	// Log every companion change; the UI would subscribe the same way.
	unsubscribe := app.Bus.Subscribe(func(ev events.CompanionChanged) {
		slog.Debug("Companion changed",
			slog.String("type", "sim"),
			slog.String("op", string(ev.Op)),
			slog.String("companion_id", ev.Companion.ID.String()),
			slog.String("mood", string(ev.Companion.Mood)),
			slog.String("stage", string(ev.Companion.Stage)))
	})
	defer unsubscribe()

	logger.LogSystem("Lumen is running",
		"player_id", cfg.Player.ID,
		"sweep_interval", cfg.SweepInterval().String())

	// Quests and decay are poll-based: nothing fires on its own, so the
	// process sweeps all companions on a fixed interval.
	ticker := time.NewTicker(cfg.SweepInterval())
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			sweepCtx, sweepCancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := app.Sweep(sweepCtx); err != nil {
				logger.LogError("Sweep failed", err)
			}
			sweepCancel()
		case <-stop:
			slog.Info("Shutting down")
			return
		}
	}
}
