package database

import (
	"embed"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"reelhub/internal/middleware"
)

// Migration is one embedded NNNNNN_name.{up,down}.sql pair.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
	// UniqueIndexes are the unique indexes the up script creates.
	UniqueIndexes []string
}

var uniqueIndexRE = regexp.MustCompile(`(?i)CREATE\s+UNIQUE\s+INDEX\s+(?:IF\s+NOT\s+EXISTS\s+)?([a-z0-9_]+)`)

func uniqueIndexesIn(script string) []string {
	var out []string
	for _, m := range uniqueIndexRE.FindAllStringSubmatch(script, -1) {
		out = append(out, strings.ToLower(m[1]))
	}
	return out
}

// UncoveredIntegrityIndexes lists integrity indexes no embedded migration
// creates. SQL-only schema mode would run without them.
func UncoveredIntegrityIndexes() []string {
	created := make(map[string]bool)
	for _, m := range migrations {
		for _, idx := range m.UniqueIndexes {
			created[idx] = true
		}
	}
	var out []string
	for _, idx := range IntegrityIndexes() {
		if !created[idx.Name] {
			out = append(out, idx.Table+"."+idx.Name)
		}
	}
	return out
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrations []Migration

func init() {
	if err := RegisterMigrations(migrationFS); err != nil {
		middleware.Logger.Error("failed to register embedded migrations", slog.String("error", err.Error()))
	}
}

func RegisterMigrations(efs embed.FS) error {
	entries, err := efs.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		base := strings.TrimSuffix(name, ".up.sql")
		parts := strings.SplitN(base, "_", 2)
		if len(parts) != 2 {
			middleware.Logger.Warn("Skipping migration with invalid naming", slog.String("file", name))
			continue
		}

		version, err := strconv.Atoi(parts[0])
		if err != nil {
			middleware.Logger.Warn("Skipping migration with non-numeric version", slog.String("file", name))
			continue
		}

		upBytes, err := efs.ReadFile(path.Join("migrations", name))
		if err != nil {
			return fmt.Errorf("failed to read up migration %s: %w", name, err)
		}

		downName := base + ".down.sql"
		downBytes, err := efs.ReadFile(path.Join("migrations", downName))
		if err != nil {
			return fmt.Errorf("failed to read down migration %s: %w", downName, err)
		}

		migrations = append(migrations, Migration{
			Version:       version,
			Name:          parts[1],
			UpScript:      string(upBytes),
			DownScript:    string(downBytes),
			UniqueIndexes: uniqueIndexesIn(string(upBytes)),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return nil
}

func GetMigrations() []Migration {
	return migrations
}

func GetMigrationByVersion(version int) *Migration {
	for _, m := range migrations {
		if m.Version == version {
			return &m
		}
	}
	return nil
}

func (m *Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}
