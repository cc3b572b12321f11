package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"task-manager/internal/auth"
	"task-manager/internal/config"
	"task-manager/internal/notify"
	"task-manager/internal/repository"
	"task-manager/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	log := mustMakeLogger(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("task manager failed", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := repository.NewDB(log, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	repo := repository.New(log, db, repository.NewBus())
	session := auth.NewSession(log, auth.NewTokenVerifier(cfg.AuthSecret), repo)

	var notifier interface {
		service.Notifier
		SendDigest(ctx context.Context, text string) error
	} = notify.Nop{}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(log, cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		notifier = tg
	}

	controller := service.NewController(log, repo, session,
		service.WithNotifier(notifier),
		service.WithDeadlinePolicy(service.DeadlinePolicy{MinLead: cfg.ApproachingLead, Window: cfg.ApproachingWindow}),
	)

	scheduler := service.NewSchedulerService(log, loc)
	if err := controller.StartSweeping(scheduler, cfg.SweepInterval); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	defer controller.StopSweeping()

	var digestEntry cron.EntryID
	if cfg.TelegramToken != "" {
		if digestEntry, err = scheduler.ScheduleDaily(cfg.DigestTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := notifier.SendDigest(jobCtx, controller.Agenda()); err != nil {
				log.Error("daily digest", "error", err)
			}
		}); err != nil {
			return fmt.Errorf("schedule digest: %w", err)
		}
	}

	scheduler.Start()
	defer scheduler.Stop()
	if next, ok := scheduler.Next(digestEntry); ok {
		log.Info("daily digest scheduled", "next", next)
	}

	done := make(chan error, 1)
	go func() { done <- controller.Run(ctx) }()

	if cfg.AuthToken != "" {
		if err := session.SignIn(ctx, cfg.AuthToken); err != nil {
			return fmt.Errorf("sign in: %w", err)
		}
	} else {
		log.Warn("AUTH_TOKEN not set, waiting unauthenticated")
	}

	log.Info("task manager started", "sweep_interval", cfg.SweepInterval)
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func mustMakeLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
