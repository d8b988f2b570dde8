// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags   string `mapstructure:"FEATURE_FLAGS"`
	SeedDemoData   bool   `mapstructure:"SEED_DEMO_DATA"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`

	DBHost                        string `mapstructure:"DB_HOST"`
	DBPort                        string `mapstructure:"DB_PORT"`
	DBUser                        string `mapstructure:"DB_USER"`
	DBPassword                    string `mapstructure:"DB_PASSWORD"`
	DBName                        string `mapstructure:"DB_NAME"`
	DBSSLMode                     string `mapstructure:"DB_SSLMODE"`
	DBMaxOpenConns                int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns                int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes      int    `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSchemaMode                  string `mapstructure:"DB_SCHEMA_MODE"`
	DBAutoMigrateAllowDestructive bool   `mapstructure:"DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE"`

	RedisURL string `mapstructure:"REDIS_URL"`

	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint        string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TracingSamplerRatio float64 `mapstructure:"TRACING_SAMPLER_RATIO"`

	// Feed ranking
	FeedCandidatePoolSize   int     `mapstructure:"FEED_CANDIDATE_POOL_SIZE"`
	FeedAffinityLikeWindow  int     `mapstructure:"FEED_AFFINITY_LIKE_WINDOW"`
	FeedFollowBonus         float64 `mapstructure:"FEED_FOLLOW_BONUS"`
	FeedHashtagBonus        float64 `mapstructure:"FEED_HASHTAG_BONUS"`
	FeedLikeWeight          float64 `mapstructure:"FEED_LIKE_WEIGHT"`
	FeedCommentWeight       float64 `mapstructure:"FEED_COMMENT_WEIGHT"`
	FeedShareWeight         float64 `mapstructure:"FEED_SHARE_WEIGHT"`
	FeedRecencyMultiplier   float64 `mapstructure:"FEED_RECENCY_MULTIPLIER"`
	FeedRecencyWindowHours  int     `mapstructure:"FEED_RECENCY_WINDOW_HOURS"`
	FeedAffinityCacheTTLSec int     `mapstructure:"FEED_AFFINITY_CACHE_TTL_SECONDS"`

	// Moderation
	ModerationCriticalThreshold int64 `mapstructure:"MODERATION_CRITICAL_THRESHOLD"`
	ModerationHighThreshold     int64 `mapstructure:"MODERATION_HIGH_THRESHOLD"`
	ModerationMediumThreshold   int64 `mapstructure:"MODERATION_MEDIUM_THRESHOLD"`
	ModerationLowThreshold      int64 `mapstructure:"MODERATION_LOW_THRESHOLD"`
	ModerationSweepInterval     int   `mapstructure:"MODERATION_SWEEP_INTERVAL_SECONDS"`
	ModerationSweepRate         int   `mapstructure:"MODERATION_SWEEP_POSTS_PER_SECOND"`

	// Per-user request budgets for write endpoints
	FollowRateLimit int `mapstructure:"FOLLOW_RATE_LIMIT_PER_MINUTE"`
	ReportRateLimit int `mapstructure:"REPORT_RATE_LIMIT_PER_MINUTE"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional; defaults and env cover every key.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))
	config.DBSchemaMode = strings.ToLower(strings.TrimSpace(config.DBSchemaMode))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("PORT", "8375")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("FEATURE_FLAGS", "for_you_feed=true")
	viper.SetDefault("SEED_DEMO_DATA", false)

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "reelhub")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	viper.SetDefault("DB_SCHEMA_MODE", "hybrid")
	viper.SetDefault("DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE", false)

	viper.SetDefault("REDIS_URL", "localhost:6379")

	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)

	viper.SetDefault("FEED_CANDIDATE_POOL_SIZE", 500)
	viper.SetDefault("FEED_AFFINITY_LIKE_WINDOW", 100)
	viper.SetDefault("FEED_FOLLOW_BONUS", 50)
	viper.SetDefault("FEED_HASHTAG_BONUS", 30)
	viper.SetDefault("FEED_LIKE_WEIGHT", 1)
	viper.SetDefault("FEED_COMMENT_WEIGHT", 2)
	viper.SetDefault("FEED_SHARE_WEIGHT", 3)
	viper.SetDefault("FEED_RECENCY_MULTIPLIER", 100)
	viper.SetDefault("FEED_RECENCY_WINDOW_HOURS", 24)
	viper.SetDefault("FEED_AFFINITY_CACHE_TTL_SECONDS", 120)

	viper.SetDefault("MODERATION_CRITICAL_THRESHOLD", 1)
	viper.SetDefault("MODERATION_HIGH_THRESHOLD", 3)
	viper.SetDefault("MODERATION_MEDIUM_THRESHOLD", 5)
	viper.SetDefault("MODERATION_LOW_THRESHOLD", 10)
	viper.SetDefault("MODERATION_SWEEP_INTERVAL_SECONDS", 300)
	viper.SetDefault("MODERATION_SWEEP_POSTS_PER_SECOND", 20)

	viper.SetDefault("FOLLOW_RATE_LIMIT_PER_MINUTE", 60)
	viper.SetDefault("REPORT_RATE_LIMIT_PER_MINUTE", 10)
}

// IsProduction reports whether the config targets a production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// RecencyWindow is the age after which a post earns no recency weight.
func (c *Config) RecencyWindow() time.Duration {
	return time.Duration(c.FeedRecencyWindowHours) * time.Hour
}

// AffinityCacheTTL is how long a viewer's liked-hashtag set is cached.
func (c *Config) AffinityCacheTTL() time.Duration {
	return time.Duration(c.FeedAffinityCacheTTLSec) * time.Second
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DBConnMaxLifetimeMinutes < 0 {
		return errors.New("DB_CONN_MAX_LIFETIME_MINUTES must not be negative")
	}
	if c.FeedCandidatePoolSize < 0 || c.FeedAffinityLikeWindow < 0 {
		return errors.New("FEED_CANDIDATE_POOL_SIZE and FEED_AFFINITY_LIKE_WINDOW must not be negative")
	}
	if c.FeedRecencyWindowHours < 0 {
		return errors.New("FEED_RECENCY_WINDOW_HOURS must not be negative")
	}
	if c.FeedFollowBonus < 0 || c.FeedHashtagBonus < 0 || c.FeedLikeWeight < 0 ||
		c.FeedCommentWeight < 0 || c.FeedShareWeight < 0 || c.FeedRecencyMultiplier < 0 {
		return errors.New("FEED_* ranking weights must not be negative")
	}
	if c.ModerationCriticalThreshold < 0 || c.ModerationHighThreshold < 0 ||
		c.ModerationMediumThreshold < 0 || c.ModerationLowThreshold < 0 {
		return errors.New("moderation thresholds must not be negative")
	}

	// Strict checks for production
	if c.IsProduction() {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must enable TLS in production")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
