// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"reelhub/internal/database"
	"reelhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an isolated in-memory SQLite database with the full schema.
// A single connection keeps every query on the same memory database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	cfg := database.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// CreateUser inserts an active user with a unique handle.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:    username,
		DisplayName: username,
		Email:       username + "@example.com",
		Password:    "x",
		IsActive:    true,
		Role:        models.RoleUser,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// Deactivate marks a user inactive. Zero values are skipped by Create, so
// flags that default to true are cleared with an explicit update.
func Deactivate(t testing.TB, db *gorm.DB, userID uint) {
	t.Helper()
	if err := db.Model(&models.User{}).Where("id = ?", userID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate user %d: %v", userID, err)
	}
}

// Suspend sets suspended_at on a user.
func Suspend(t testing.TB, db *gorm.DB, userID uint) {
	t.Helper()
	if err := db.Model(&models.User{}).Where("id = ?", userID).Update("suspended_at", time.Now()).Error; err != nil {
		t.Fatalf("suspend user %d: %v", userID, err)
	}
}

// PostOption customizes a post fixture.
type PostOption func(*models.Post)

// WithHashtags sets the post hashtags.
func WithHashtags(tags ...string) PostOption {
	return func(p *models.Post) { p.Hashtags = models.NewHashtagSet(tags...) }
}

// WithCreatedAt backdates the post.
func WithCreatedAt(ts time.Time) PostOption {
	return func(p *models.Post) { p.CreatedAt = ts.UTC() }
}

// WithEngagement sets the engagement counters.
func WithEngagement(likes, comments, shares int64) PostOption {
	return func(p *models.Post) {
		p.LikesCount = likes
		p.CommentsCount = comments
		p.SharesCount = shares
	}
}

// WithStatus sets the publication status.
func WithStatus(status models.PostStatus) PostOption {
	return func(p *models.Post) { p.Status = status }
}

// CreatePost inserts a public published post for author.
func CreatePost(t testing.TB, db *gorm.DB, authorID uint, opts ...PostOption) *models.Post {
	t.Helper()
	p := &models.Post{
		UserID:   authorID,
		Caption:  "clip",
		VideoURL: "https://cdn.example.com/v.mp4",
		IsPublic: true,
		Status:   models.PostStatusPublished,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// MakePrivate clears is_public on a post.
func MakePrivate(t testing.TB, db *gorm.DB, postID uint) {
	t.Helper()
	if err := db.Model(&models.Post{}).Where("id = ?", postID).Update("is_public", false).Error; err != nil {
		t.Fatalf("make post %d private: %v", postID, err)
	}
}

// MarkRemoved hides a post as moderation would.
func MarkRemoved(t testing.TB, db *gorm.DB, postID uint) {
	t.Helper()
	if err := db.Model(&models.Post{}).Where("id = ?", postID).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": time.Now()}).Error; err != nil {
		t.Fatalf("remove post %d: %v", postID, err)
	}
}
