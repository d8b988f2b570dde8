package repository

import (
	"context"
	"fmt"

	"reelhub/internal/models"

	"gorm.io/gorm"
)

// Counter names a denormalized counter column. Counters are only ever changed
// with a single UPDATE expression so concurrent writers cannot lose updates.
type Counter struct {
	Table  string
	Column string
}

// Denormalized counters maintained by the repositories.
var (
	UserFollowersCount = Counter{Table: "users", Column: "followers_count"}
	UserFollowingCount = Counter{Table: "users", Column: "following_count"}
	UserPostsCount     = Counter{Table: "users", Column: "posts_count"}
	UserLikesCount     = Counter{Table: "users", Column: "likes_count"}
	PostLikesCount     = Counter{Table: "posts", Column: "likes_count"}
	PostCommentsCount  = Counter{Table: "posts", Column: "comments_count"}
	PostSharesCount    = Counter{Table: "posts", Column: "shares_count"}
	PostViewsCount     = Counter{Table: "posts", Column: "views_count"}
)

func (c Counter) String() string {
	return c.Table + "." + c.Column
}

func (c Counter) missing(id uint) error {
	resource := "User"
	if c.Table == "posts" {
		resource = "Post"
	}
	return models.NewNotFoundError(resource, id)
}

// Increment adds one to the counter on row id.
func (c Counter) Increment(ctx context.Context, db *gorm.DB, id uint) error {
	return c.add(ctx, db, id, gorm.Expr(c.Column+" + 1"))
}

// Decrement subtracts one from the counter on row id, never going below zero.
func (c Counter) Decrement(ctx context.Context, db *gorm.DB, id uint) error {
	expr := fmt.Sprintf("CASE WHEN %[1]s > 0 THEN %[1]s - 1 ELSE 0 END", c.Column)
	return c.add(ctx, db, id, gorm.Expr(expr))
}

func (c Counter) add(ctx context.Context, db *gorm.DB, id uint, expr interface{}) error {
	res := db.WithContext(ctx).Table(c.Table).Where("id = ?", id).UpdateColumn(c.Column, expr)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return c.missing(id)
	}
	return nil
}

// IncrementMany adds one to the counter on every row in ids in one statement
// and returns the number of rows touched. Extra column assignments ride along.
func (c Counter) IncrementMany(ctx context.Context, db *gorm.DB, ids []uint, extra map[string]interface{}) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	updates := map[string]interface{}{c.Column: gorm.Expr(c.Column + " + 1")}
	for k, v := range extra {
		updates[k] = v
	}
	res := db.WithContext(ctx).Table(c.Table).Where("id IN ?", ids).UpdateColumns(updates)
	if res.Error != nil {
		return 0, storageErr(res.Error)
	}
	return res.RowsAffected, nil
}

// Read returns the current counter value on row id.
func (c Counter) Read(ctx context.Context, db *gorm.DB, id uint) (int64, error) {
	var v int64
	if err := db.WithContext(ctx).Table(c.Table).Select(c.Column).Where("id = ?", id).Scan(&v).Error; err != nil {
		return 0, storageErr(err)
	}
	return v, nil
}
