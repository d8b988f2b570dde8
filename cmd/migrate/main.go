// Command migrate manages the ReelHub schema: SQL migrations, AutoMigrate,
// status and rollback, plus a verify step that checks the unique indexes and
// denormalized follow/like counters of a live database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"reelhub/internal/config"
	"reelhub/internal/database"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|auto|status|verify|down> [version]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	switch cmd {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Println("automigrations applied")
	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("mode=%s env=%s run_sql=%t run_auto=%t applied=%d pending=%d", status.Mode, status.Environment, status.WillRunSQL, status.WillRunAutoMigrate, len(status.AppliedVersions), len(status.PendingMigrations))
		for _, m := range status.PendingMigrations {
			log.Printf("pending: %06d_%s", m.Version, m.Name)
		}
		for _, idx := range status.MissingIndexes {
			log.Printf("missing unique index: %s", idx)
		}
	case "verify":
		return verify(ctx, db)
	case "down":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: go run ./cmd/migrate down <version>")
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
		}
		if err := database.RollbackMigration(ctx, db, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("rolled back migration %d", version)
	default:
		return usage()
	}

	return nil
}

// verify fails when de-duplication indexes are missing or when follower,
// following or like counters no longer match their rows.
func verify(ctx context.Context, db *gorm.DB) error {
	if missing := database.MissingIntegrityIndexes(db); len(missing) > 0 {
		return fmt.Errorf("missing unique indexes: %s", strings.Join(missing, ", "))
	}
	drift, err := database.CheckCounterDrift(ctx, db)
	if err != nil {
		return err
	}
	log.Printf("counter drift: followers=%d following=%d post_likes=%d", drift.Followers, drift.Following, drift.PostLikes)
	if !drift.Clean() {
		return fmt.Errorf("denormalized counters drifted from the follow and like tables")
	}
	log.Println("schema verified")
	return nil
}
