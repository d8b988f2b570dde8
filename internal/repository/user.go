package repository

import (
	"context"
	"errors"

	"reelhub/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Stats(ctx context.Context, id uint) (*models.FollowStats, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, storageErr(err)
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.User, error) {
	out := make(map[uint]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, storageErr(err)
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return &models.AppError{Code: models.CodeConflict, Message: "Username or email already taken", Err: err}
		}
		return storageErr(err)
	}
	return nil
}

func (r *userRepository) Stats(ctx context.Context, id uint) (*models.FollowStats, error) {
	var stats models.FollowStats
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Select("followers_count AS followers, following_count AS following, posts_count AS posts, likes_count AS likes").
		Where("id = ?", id).
		Scan(&stats)
	if res.Error != nil {
		return nil, storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("User", id)
	}
	return &stats, nil
}
