// Package bootstrap wires the process-level dependencies shared by the
// server and worker commands.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"reelhub/internal/cache"
	"reelhub/internal/config"
	"reelhub/internal/database"
	"reelhub/internal/middleware"
	"reelhub/internal/models"
	"reelhub/internal/observability"
	"reelhub/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Version is stamped into traces.
var Version = "dev"

// Options control runtime initialization behavior.
type Options struct {
	// ServiceName labels traces, e.g. "reelhub-api" or "reelhub-modsweep".
	ServiceName string
	// SeedDemo fills an empty development database with demo data.
	SeedDemo bool
}

// InitObservability applies the configured log level and starts tracing.
// The returned function flushes pending spans.
func InitObservability(cfg *config.Config, serviceName string) (func(context.Context) error, error) {
	if cfg.LogLevel != "" {
		middleware.SetLogLevel(cfg.LogLevel)
	}
	observability.SetLogger(middleware.Logger)
	observability.Config.EnableRepoLogging = strings.EqualFold(strings.TrimSpace(cfg.LogLevel), "debug")
	return observability.InitTracing(observability.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
	})
}

// InitRuntime connects to DB and Redis and optionally seeds demo data.
// Redis is optional: a nil client disables caching and pub/sub.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	// Connect DB
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	var r *redis.Client
	if cfg.RedisURL != "" {
		r = cache.InitRedis(cfg.RedisURL)
	}

	if opts.SeedDemo {
		if err := seedDemo(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

func seedDemo(cfg *config.Config, db *gorm.DB) error {
	if !strings.EqualFold(cfg.Env, "development") {
		return nil
	}
	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}

	opts := seed.DefaultOptions()
	opts.ShouldClean = false
	summary, err := seed.NewSeeder(db, opts).Seed(context.Background())
	if err != nil {
		return err
	}
	middleware.Logger.Info("Demo data seeded",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
	)
	return nil
}
