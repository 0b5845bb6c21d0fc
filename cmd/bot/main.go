package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"prayer_bot/internal/bot"
	"prayer_bot/internal/config"
	"prayer_bot/internal/evaluator"
	"prayer_bot/internal/geocode"
	"prayer_bot/internal/prayer"
	"prayer_bot/internal/rules"
	"prayer_bot/internal/schedule"
	"prayer_bot/internal/scheduler"
	"prayer_bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	catalog := rules.DefaultCatalog()
	if err := rules.Validate(catalog); err != nil {
		log.Error("invalid rule catalog", "error", err)
		os.Exit(1)
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	schedules := schedule.NewCache(prayer.New(http.DefaultClient, cfg.PrayerAPIURL))
	geocoder := geocode.New(http.DefaultClient, cfg.GeocodeAPIURL)

	b, err := bot.New(cfg.TelegramBotToken, store, cfg, schedules, geocoder, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	eval := evaluator.New(store, store, schedules, b.Notifier(), catalog, log)
	eval.SetWorkerPoolSize(cfg.WorkerPoolSize)

	sched := scheduler.New(eval, log)
	sched.SetTickInterval(time.Duration(cfg.TickSeconds) * time.Second)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting bot", "tick_seconds", cfg.TickSeconds, "rules", len(catalog))

	go sched.Run(ctx)

	b.Run(ctx)

	log.Info("bot stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
