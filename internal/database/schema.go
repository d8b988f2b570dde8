package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"reelhub/internal/config"
	"reelhub/internal/middleware"
	"reelhub/internal/models"

	"gorm.io/gorm"
)

const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaStatus summarizes what ApplySchema would do and whether the social
// graph tables carry the indexes the repositories depend on.
type SchemaStatus struct {
	Mode               string
	Environment        string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
	MissingIndexes     []string
}

// IntegrityIndex is a unique index that turns a concurrent duplicate write
// into a constraint violation instead of a second row.
type IntegrityIndex struct {
	Model interface{}
	Table string
	Name  string
}

// IntegrityIndexes are required for follow, like and report de-duplication.
func IntegrityIndexes() []IntegrityIndex {
	return []IntegrityIndex{
		{Model: &models.User{}, Table: "users", Name: "idx_users_username"},
		{Model: &models.Follow{}, Table: "follows", Name: "idx_follows_pair"},
		{Model: &models.Like{}, Table: "likes", Name: "idx_likes_post_user"},
		{Model: &models.Report{}, Table: "reports", Name: "idx_reports_post_reporter"},
	}
}

// MissingIntegrityIndexes lists "table.index" for every absent integrity index.
func MissingIntegrityIndexes(db *gorm.DB) []string {
	var missing []string
	m := db.Migrator()
	for _, idx := range IntegrityIndexes() {
		if !m.HasTable(idx.Model) || !m.HasIndex(idx.Model, idx.Name) {
			missing = append(missing, idx.Table+"."+idx.Name)
		}
	}
	return missing
}

// CounterDrift counts rows whose denormalized counters disagree with the
// edge tables they summarize. All zero means the graph is consistent.
type CounterDrift struct {
	Followers int64
	Following int64
	PostLikes int64
}

// Clean reports whether no drift was found.
func (d CounterDrift) Clean() bool {
	return d.Followers == 0 && d.Following == 0 && d.PostLikes == 0
}

var driftQueries = []struct {
	sql  string
	dest func(*CounterDrift) *int64
}{
	{
		"SELECT COUNT(*) FROM users u WHERE u.followers_count <> (SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id)",
		func(d *CounterDrift) *int64 { return &d.Followers },
	},
	{
		"SELECT COUNT(*) FROM users u WHERE u.following_count <> (SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id)",
		func(d *CounterDrift) *int64 { return &d.Following },
	},
	{
		"SELECT COUNT(*) FROM posts p WHERE p.likes_count <> (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id)",
		func(d *CounterDrift) *int64 { return &d.PostLikes },
	},
}

// CheckCounterDrift compares follower, following and like counters with the
// rows they are derived from.
func CheckCounterDrift(ctx context.Context, db *gorm.DB) (CounterDrift, error) {
	var drift CounterDrift
	for _, q := range driftQueries {
		if err := db.WithContext(ctx).Raw(q.sql).Scan(q.dest(&drift)).Error; err != nil {
			return CounterDrift{}, fmt.Errorf("counter drift: %w", err)
		}
	}
	return drift, nil
}

func isProdLikeEnv(env string) bool {
	e := strings.ToLower(strings.TrimSpace(env))
	return e == "production" || e == "prod" || e == "staging" || e == "stage"
}

func normalizedSchemaMode(cfg *config.Config) string {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	if mode == "" {
		return SchemaModeHybrid
	}
	return mode
}

func schemaPolicy(cfg *config.Config) (runSQL bool, runAuto bool, err error) {
	mode := normalizedSchemaMode(cfg)
	prodLike := isProdLikeEnv(cfg.Env)

	switch mode {
	case SchemaModeSQL:
		return true, false, nil
	case SchemaModeAuto:
		if prodLike && !cfg.DBAutoMigrateAllowDestructive {
			return false, false, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q without DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		return false, true, nil
	case SchemaModeHybrid:
		return true, !prodLike, nil
	default:
		return false, false, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
}

func runAutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	runSQL, runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return err
	}

	if runSQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}

	if runAuto {
		mode := normalizedSchemaMode(cfg)
		if mode == SchemaModeAuto && cfg.DBAutoMigrateAllowDestructive {
			middleware.Logger.Warn("DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true set for DB_SCHEMA_MODE=auto; review schema diffs before production deployment")
		}
		middleware.Logger.Info("Running GORM AutoMigrate", slog.String("mode", mode), slog.String("env", cfg.Env))
		if err := runAutoMigrate(db); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	if missing := MissingIntegrityIndexes(db); len(missing) > 0 {
		return fmt.Errorf("schema is missing unique indexes: %s", strings.Join(missing, ", "))
	}
	return nil
}

func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	runSQL, runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               normalizedSchemaMode(cfg),
		Environment:        cfg.Env,
		WillRunSQL:         runSQL,
		WillRunAutoMigrate: runAuto,
		MissingIndexes:     MissingIntegrityIndexes(db),
	}

	if !runSQL {
		return status, nil
	}

	store := NewMigrationStore(db)
	applied, err := store.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied

	appliedSet := make(map[int]bool, len(applied))
	for _, version := range applied {
		appliedSet[version] = true
	}
	for _, m := range GetMigrations() {
		if !appliedSet[m.Version] {
			status.PendingMigrations = append(status.PendingMigrations, m)
		}
	}

	return status, nil
}
