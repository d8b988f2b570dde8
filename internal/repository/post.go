package repository

import (
	"context"
	"errors"
	"time"

	"reelhub/internal/models"
	"reelhub/internal/observability"

	"gorm.io/gorm"
)

// PostQuery selects a page of visible posts. Zero fields are ignored.
type PostQuery struct {
	Viewer    uint
	Hashtag   string
	AuthorID  uint
	AuthorIDs []uint
	Page      int
	Limit     int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListVisible(ctx context.Context, q PostQuery) ([]models.Post, int64, error)
	Candidates(ctx context.Context, viewer uint, poolSize int) ([]models.Post, error)
	IncrementViews(ctx context.Context, ids []uint, touchedAt *time.Time) (int64, error)
	IncrementShares(ctx context.Context, id uint) (int64, error)
	LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error)
	RecentLikedHashtags(ctx context.Context, userID uint, window int) (map[string]struct{}, error)
	ToggleLike(ctx context.Context, postID, userID uint) (models.LikeResult, error)
	MarkRemoved(ctx context.Context, postID uint, at time.Time) (bool, error)
	MarkFlagged(ctx context.Context, postID uint, at time.Time) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// visibleTo is the common feed filter: published, not removed by moderation,
// and either public or owned by the viewer.
func visibleTo(viewer uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("posts.status = ? AND posts.is_deleted = ?", models.PostStatusPublished, false)
		if viewer == 0 {
			return db.Where("posts.is_public = ?", true)
		}
		return db.Where("(posts.is_public = ? OR posts.user_id = ?)", true, viewer)
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return UserPostsCount.Increment(ctx, tx, post.UserID)
	})
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, storageErr(err)
	}
	return &post, nil
}

func (r *postRepository) ListVisible(ctx context.Context, q PostQuery) ([]models.Post, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Post{}).Scopes(visibleTo(q.Viewer))
	if q.Hashtag != "" {
		base = base.Where(`posts.hashtags LIKE ? ESCAPE '\'`, models.HashtagPattern(q.Hashtag))
	}
	if q.AuthorID != 0 {
		base = base.Where("posts.user_id = ?", q.AuthorID)
	}
	if q.AuthorIDs != nil {
		if len(q.AuthorIDs) == 0 {
			return []models.Post{}, 0, nil
		}
		base = base.Where("posts.user_id IN ?", q.AuthorIDs)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, storageErr(err)
	}

	posts := []models.Post{}
	if total == 0 {
		return posts, 0, nil
	}
	if err := base.Session(&gorm.Session{}).
		Preload("User").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(q.Limit).
		Offset(offset(q.Page, q.Limit)).
		Find(&posts).Error; err != nil {
		return nil, 0, storageErr(err)
	}
	return posts, total, nil
}

// Candidates returns the most recent visible posts not authored by viewer.
func (r *postRepository) Candidates(ctx context.Context, viewer uint, poolSize int) ([]models.Post, error) {
	var posts []models.Post
	db := r.db.WithContext(ctx).Scopes(visibleTo(viewer))
	if viewer != 0 {
		db = db.Where("posts.user_id <> ?", viewer)
	}
	if err := db.Preload("User").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(poolSize).
		Find(&posts).Error; err != nil {
		return nil, storageErr(err)
	}
	return posts, nil
}

// IncrementViews bumps views_count on every post in one statement and, when
// touchedAt is set, stamps last_interaction_at.
func (r *postRepository) IncrementViews(ctx context.Context, ids []uint, touchedAt *time.Time) (int64, error) {
	var extra map[string]interface{}
	if touchedAt != nil {
		extra = map[string]interface{}{"last_interaction_at": *touchedAt}
	}
	return PostViewsCount.IncrementMany(ctx, r.db, ids, extra)
}

func (r *postRepository) IncrementShares(ctx context.Context, id uint) (int64, error) {
	var shares int64
	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := PostSharesCount.Increment(ctx, tx, id); err != nil {
			return err
		}
		var err error
		shares, err = PostSharesCount.Read(ctx, tx, id)
		return err
	})
	return shares, err
}

func (r *postRepository) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(postIDs))
	if userID == 0 || len(postIDs) == 0 {
		return out, nil
	}
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, storageErr(err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// RecentLikedHashtags collects the hashtags of the posts behind the user's
// most recent likes.
func (r *postRepository) RecentLikedHashtags(ctx context.Context, userID uint, window int) (map[string]struct{}, error) {
	var rows []struct {
		Hashtags models.HashtagSet
	}
	if err := r.db.WithContext(ctx).
		Table("likes").
		Select("posts.hashtags").
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Order("likes.id DESC").
		Limit(window).
		Scan(&rows).Error; err != nil {
		return nil, storageErr(err)
	}
	tags := make(map[string]struct{})
	for _, row := range rows {
		for _, t := range row.Hashtags {
			tags[t] = struct{}{}
		}
	}
	return tags, nil
}

// ToggleLike likes or unlikes a post. The post and author counters move by
// exactly one in the same transaction as the like row.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID uint) (models.LikeResult, error) {
	var result models.LikeResult
	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "user_id").
			Where("id = ? AND is_deleted = ?", postID, false).
			First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", postID)
			}
			return err
		}

		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			if err := PostLikesCount.Decrement(ctx, tx, postID); err != nil {
				return err
			}
			if err := UserLikesCount.Decrement(ctx, tx, post.UserID); err != nil {
				return err
			}
		} else {
			if err := tx.Create(&models.Like{PostID: postID, UserID: userID}).Error; err != nil {
				if isDuplicateKey(err) {
					return &models.AppError{Code: models.CodeConflict, Message: "Like already recorded", Err: err}
				}
				return err
			}
			if err := PostLikesCount.Increment(ctx, tx, postID); err != nil {
				return err
			}
			if err := UserLikesCount.Increment(ctx, tx, post.UserID); err != nil {
				return err
			}
			result.Liked = true
		}

		count, err := PostLikesCount.Read(ctx, tx, postID)
		if err != nil {
			return err
		}
		result.LikesCount = count
		return nil
	})
	return result, err
}

// MarkRemoved hides a post. It reports false when the post was already removed.
func (r *postRepository) MarkRemoved(ctx context.Context, postID uint, at time.Time) (bool, error) {
	defer observability.TrackQuery("mark_removed", "posts")()
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND is_deleted = ?", postID, false).
		UpdateColumns(map[string]interface{}{"is_deleted": true, "deleted_at": at})
	if res.Error != nil {
		return false, storageErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// MarkFlagged stamps flagged_at once. Removed posts are not flagged.
func (r *postRepository) MarkFlagged(ctx context.Context, postID uint, at time.Time) (bool, error) {
	defer observability.TrackQuery("mark_flagged", "posts")()
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND flagged_at IS NULL AND is_deleted = ?", postID, false).
		UpdateColumn("flagged_at", at)
	if res.Error != nil {
		return false, storageErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}
