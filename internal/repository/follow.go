package repository

import (
	"context"
	"strings"
	"time"

	"reelhub/internal/models"
	"reelhub/internal/observability"

	"gorm.io/gorm"
)

// FollowRow is a user joined with the follow edge that put them in a list.
type FollowRow struct {
	models.User
	FollowedAt time.Time `gorm:"column:followed_at"`
}

// FollowListQuery selects a page of followers or followees.
type FollowListQuery struct {
	UserID uint
	Search string
	Page   int
	Limit  int
}

// FollowRepository defines persistence operations for the follow graph.
type FollowRepository interface {
	// Create inserts the edge and bumps both counters in one transaction.
	Create(ctx context.Context, followerID, followingID uint) (models.FollowCounts, error)
	// Delete removes the edge and decrements both counters in one transaction.
	Delete(ctx context.Context, followerID, followingID uint) (models.FollowCounts, error)
	Exists(ctx context.Context, followerID, followingID uint) (bool, error)
	FollowedAmong(ctx context.Context, followerID uint, candidateIDs []uint) (map[uint]bool, error)
	FollowingIDs(ctx context.Context, followerID uint) ([]uint, error)
	ListFollowers(ctx context.Context, q FollowListQuery) ([]FollowRow, int64, error)
	ListFollowing(ctx context.Context, q FollowListQuery) ([]FollowRow, int64, error)
	Mutual(ctx context.Context, a, b uint, limit int) ([]FollowRow, error)
}

type followRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db, log: observability.NewRepoLogger("follows")}
}

func (r *followRepository) Create(ctx context.Context, followerID, followingID uint) (models.FollowCounts, error) {
	defer observability.TrackQuery("create", "follows")()
	var counts models.FollowCounts
	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		edge := models.Follow{FollowerID: followerID, FollowingID: followingID}
		if err := tx.Create(&edge).Error; err != nil {
			if isDuplicateKey(err) {
				return models.ErrAlreadyFollowing
			}
			return err
		}
		if err := UserFollowersCount.Increment(ctx, tx, followingID); err != nil {
			return err
		}
		if err := UserFollowingCount.Increment(ctx, tx, followerID); err != nil {
			return err
		}
		return readCounts(ctx, tx, followerID, followingID, &counts)
	})
	if err == nil {
		r.log.LogMutation(ctx, "create", map[string]interface{}{"follower_id": followerID, "following_id": followingID})
	}
	return counts, err
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID uint) (models.FollowCounts, error) {
	defer observability.TrackQuery("delete", "follows")()
	var counts models.FollowCounts
	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFollowing
		}
		if err := UserFollowersCount.Decrement(ctx, tx, followingID); err != nil {
			return err
		}
		if err := UserFollowingCount.Decrement(ctx, tx, followerID); err != nil {
			return err
		}
		return readCounts(ctx, tx, followerID, followingID, &counts)
	})
	if err == nil {
		r.log.LogMutation(ctx, "delete", map[string]interface{}{"follower_id": followerID, "following_id": followingID})
	}
	return counts, err
}

// readCounts loads the followee's followers and the follower's following
// inside the mutating transaction.
func readCounts(ctx context.Context, tx *gorm.DB, followerID, followingID uint, out *models.FollowCounts) error {
	followers, err := UserFollowersCount.Read(ctx, tx, followingID)
	if err != nil {
		return err
	}
	following, err := UserFollowingCount.Read(ctx, tx, followerID)
	if err != nil {
		return err
	}
	out.FollowersCount = followers
	out.FollowingCount = following
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Limit(1).
		Count(&n).Error; err != nil {
		return false, storageErr(err)
	}
	return n > 0, nil
}

func (r *followRepository) FollowedAmong(ctx context.Context, followerID uint, candidateIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(candidateIDs))
	if followerID == 0 || len(candidateIDs) == 0 {
		return out, nil
	}
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, candidateIDs).
		Pluck("following_id", &ids).Error; err != nil {
		return nil, storageErr(err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *followRepository) FollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error; err != nil {
		return nil, storageErr(err)
	}
	return ids, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, q FollowListQuery) ([]FollowRow, int64, error) {
	// followers of U: edges pointing at U, listing the follower side
	return r.list(ctx, q, "follows.follower_id", "follows.following_id")
}

func (r *followRepository) ListFollowing(ctx context.Context, q FollowListQuery) ([]FollowRow, int64, error) {
	return r.list(ctx, q, "follows.following_id", "follows.follower_id")
}

func (r *followRepository) list(ctx context.Context, q FollowListQuery, listedCol, anchorCol string) ([]FollowRow, int64, error) {
	base := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN follows ON users.id = "+listedCol).
		Where(anchorCol+" = ?", q.UserID).
		Where("users.is_active = ? AND users.deleted_at IS NULL", true)

	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		pattern := "%" + models.EscapeLike(s) + "%"
		base = base.Where(`(LOWER(users.username) LIKE ? ESCAPE '\' OR LOWER(users.display_name) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, storageErr(err)
	}

	var rows []FollowRow
	if total == 0 {
		return rows, 0, nil
	}
	if err := base.Session(&gorm.Session{}).
		Select("users.*, follows.created_at AS followed_at").
		Order("follows.created_at DESC").
		Order("follows.id DESC").
		Limit(q.Limit).
		Offset(offset(q.Page, q.Limit)).
		Find(&rows).Error; err != nil {
		return nil, 0, storageErr(err)
	}
	return rows, total, nil
}

func (r *followRepository) Mutual(ctx context.Context, a, b uint, limit int) ([]FollowRow, error) {
	var rows []FollowRow
	if err := r.db.WithContext(ctx).
		Table("users").
		Select("users.*, fa.created_at AS followed_at").
		Joins("JOIN follows fa ON fa.following_id = users.id AND fa.follower_id = ?", a).
		Joins("JOIN follows fb ON fb.following_id = users.id AND fb.follower_id = ?", b).
		Where("users.is_active = ? AND users.deleted_at IS NULL", true).
		Order("fa.created_at DESC").
		Order("fa.id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, storageErr(err)
	}
	return rows, nil
}
