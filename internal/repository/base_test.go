package repository

import (
	"errors"
	"fmt"
	"testing"

	"reelhub/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"postgres unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"postgres fk violation", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: follows.follower_id"), true},
		{"other", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDuplicateKey(tt.err))
		})
	}
}

func TestStorageErr(t *testing.T) {
	assert.NoError(t, storageErr(nil))
	assert.ErrorIs(t, storageErr(models.ErrSelfFollow), models.ErrSelfFollow)

	wrapped := storageErr(errors.New("disk full"))
	var appErr *models.AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, models.CodeStorage, appErr.Code)
}
