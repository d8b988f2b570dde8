// Command modsweep periodically re-evaluates posts with active reports and
// applies any auto-moderation action an earlier evaluation missed.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"reelhub/internal/bootstrap"
	"reelhub/internal/config"
	"reelhub/internal/middleware"
	"reelhub/internal/notifications"
	"reelhub/internal/observability"
	"reelhub/internal/repository"
	"reelhub/internal/service"
)

func main() {
	once := flag.Bool("once", false, "Run a single sweep and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := bootstrap.InitObservability(cfg, "reelhub-modsweep")
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, rdb, err := bootstrap.InitRuntime(cfg, bootstrap.Options{ServiceName: "reelhub-modsweep"})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	mod := service.NewModerationService(
		repository.NewReportRepository(db),
		repository.NewPostRepository(db),
		service.ModerationThresholdsFromConfig(cfg),
	)
	mod.SetSweepRate(cfg.ModerationSweepRate)
	if rdb != nil {
		mod.OnAction(notifications.NewNotifier(rdb).ModerationHook)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweep := func() {
		runCtx := observability.EnsureCorrelationID(ctx)
		result, err := mod.SweepActiveReports(runCtx)
		if err != nil {
			if ctx.Err() == nil {
				middleware.Logger.Error("Moderation sweep failed", slog.String("error", err.Error()))
			}
			return
		}
		middleware.Logger.Info("Moderation sweep finished",
			slog.Int("evaluated", result.Evaluated),
			slog.Int("actions", result.Actions),
			slog.Int("failures", result.Failures),
			slog.String("correlation_id", observability.ExtractCorrelationID(runCtx)),
		)
	}

	sweep()
	if *once {
		return
	}

	interval := time.Duration(cfg.ModerationSweepInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			middleware.Logger.Info("Moderation sweeper stopping")
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			if rdb != nil {
				_ = rdb.Close()
			}
			return
		case <-ticker.C:
			sweep()
		}
	}
}
