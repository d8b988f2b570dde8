package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"reelhub/internal/config"
	"reelhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name          string
		mode          string
		env           string
		allowDestruct bool
		wantSQL       bool
		wantAuto      bool
		wantErr       bool
	}{
		{"hybrid in development", "hybrid", "development", false, true, true, false},
		{"hybrid in production", "hybrid", "production", false, true, false, false},
		{"empty mode defaults to hybrid", "", "test", false, true, true, false},
		{"sql only", "sql", "production", false, true, false, false},
		{"auto in development", "auto", "development", false, false, true, false},
		{"auto in production refused", "auto", "production", false, false, false, true},
		{"auto in production allowed", "auto", "production", true, false, true, false},
		{"unknown mode", "yolo", "development", false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{DBSchemaMode: tt.mode, Env: tt.env, DBAutoMigrateAllowDestructive: tt.allowDestruct}
			runSQL, runAuto, err := schemaPolicy(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, runSQL)
			assert.Equal(t, tt.wantAuto, runAuto)
		})
	}
}

func TestEmbeddedMigrationsRegistered(t *testing.T) {
	m := GetMigrationByVersion(1)
	require.NotNil(t, m)
	assert.Equal(t, "social_graph", m.Name)
	assert.Contains(t, m.UpScript, "idx_follows_pair")
	assert.Contains(t, m.UpScript, "idx_reports_post_reporter")
	assert.Contains(t, m.DownScript, "DROP TABLE IF EXISTS follows")
	assert.Equal(t, "000001_social_graph", m.String())
	assert.ElementsMatch(t, []string{
		"idx_users_username", "idx_users_email", "idx_follows_pair",
		"idx_likes_post_user", "idx_reports_post_reporter",
	}, m.UniqueIndexes)
	assert.Empty(t, UncoveredIntegrityIndexes(), "sql schema mode must create every integrity index")
}

func TestUniqueIndexesIn(t *testing.T) {
	script := `CREATE UNIQUE INDEX idx_a ON t (a);
create unique index if not exists IDX_B on t (b);
CREATE INDEX idx_c ON t (c);`
	assert.Equal(t, []string{"idx_a", "idx_b"}, uniqueIndexesIn(script))
}

func TestValidateAppliedVersions(t *testing.T) {
	registered := []Migration{{Version: 1}, {Version: 2}}
	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1, 2}, registered))

	err := validateAppliedVersions([]int{1, 7}, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000007")
}

func TestGormConfig_TranslatesDuplicateKeys(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(PersistentModels()...))

	a := models.User{Username: "ann", Email: "ann@example.com", Password: "x"}
	b := models.User{Username: "bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	require.NoError(t, db.Create(&models.Follow{FollowerID: a.ID, FollowingID: b.ID}).Error)
	err = db.Create(&models.Follow{FollowerID: a.ID, FollowingID: b.ID}).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestCustomGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(slog.New(slog.NewTextHandler(&buf, nil)), logger.Warn)
	ctx := context.Background()

	l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Empty(t, buf.String(), "fast successful queries are not logged at warn")

	l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT * FROM posts", 0 }, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "record not found is not an error")

	l.Trace(ctx, time.Now(), func() (string, int64) { return "INSERT INTO follows", 0 }, gorm.ErrDuplicatedKey)
	assert.Contains(t, buf.String(), "GORM duplicate key")

	buf.Reset()
	l.Trace(ctx, time.Now(), func() (string, int64) { return "UPDATE posts", 0 }, errors.New("boom"))
	assert.Contains(t, buf.String(), "GORM query error")

	buf.Reset()
	l.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) { return "SELECT pg_sleep(1)", 1 }, nil)
	assert.Contains(t, buf.String(), "GORM slow query")
}

func openMigrated(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, runAutoMigrate(db))
	return db
}

func TestMissingIntegrityIndexes(t *testing.T) {
	db := openMigrated(t)
	assert.Empty(t, MissingIntegrityIndexes(db))

	require.NoError(t, db.Exec("DROP INDEX idx_follows_pair").Error)
	assert.Equal(t, []string{"follows.idx_follows_pair"}, MissingIntegrityIndexes(db))
}

func TestCheckCounterDrift(t *testing.T) {
	db := openMigrated(t)
	ctx := context.Background()

	alice := &models.User{Username: "alice", Email: "alice@example.com", Password: "x", IsActive: true}
	bob := &models.User{Username: "bob", Email: "bob@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(alice).Error)
	require.NoError(t, db.Create(bob).Error)

	drift, err := CheckCounterDrift(ctx, db)
	require.NoError(t, err)
	assert.True(t, drift.Clean())

	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}).Error)
	drift, err = CheckCounterDrift(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, CounterDrift{Followers: 1, Following: 1}, drift)

	require.NoError(t, db.Model(bob).UpdateColumn("followers_count", 1).Error)
	require.NoError(t, db.Model(alice).UpdateColumn("following_count", 1).Error)
	drift, err = CheckCounterDrift(ctx, db)
	require.NoError(t, err)
	assert.True(t, drift.Clean())
}
