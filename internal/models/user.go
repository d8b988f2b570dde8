// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values carried in the access token and on the user row.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User represents an account in the ReelHub application.
// FollowersCount and FollowingCount mirror the follows table and are only
// ever changed by the atomic counter helpers in the repository package.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"size:50;uniqueIndex;not null" json:"username"`
	DisplayName    string         `gorm:"size:100" json:"display_name"`
	Email          string         `gorm:"size:255;uniqueIndex;not null" json:"-"`
	Password       string         `gorm:"not null" json:"-"`
	Avatar         string         `gorm:"size:500" json:"avatar"`
	Bio            string         `gorm:"type:text" json:"bio"`
	IsVerified     bool           `gorm:"default:false" json:"is_verified"`
	IsActive       bool           `gorm:"default:true;index" json:"-"`
	IsPrivate      bool           `gorm:"default:false" json:"is_private"`
	Role           string         `gorm:"size:20;default:'user'" json:"-"`
	SuspendedAt    *time.Time     `json:"-"`
	FollowersCount int64          `gorm:"not null;default:0" json:"followers_count"`
	FollowingCount int64          `gorm:"not null;default:0" json:"following_count"`
	PostsCount     int64          `gorm:"not null;default:0" json:"posts_count"`
	LikesCount     int64          `gorm:"not null;default:0" json:"likes_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// CanInteract reports whether the account may follow or be followed.
func (u *User) CanInteract() bool {
	return u.IsActive && u.SuspendedAt == nil
}

// IsStaff reports whether the user can review reports.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}

// PublicProfile is the projection of a user that other users may see.
type PublicProfile struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	Avatar         string    `json:"avatar"`
	Bio            string    `json:"bio"`
	IsVerified     bool      `json:"is_verified"`
	IsPrivate      bool      `json:"is_private"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	LikesCount     int64     `json:"likes_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// PublicProfile projects the user without credentials or moderation data.
func (u *User) PublicProfile() PublicProfile {
	return PublicProfile{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		Avatar:         u.Avatar,
		Bio:            u.Bio,
		IsVerified:     u.IsVerified,
		IsPrivate:      u.IsPrivate,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		LikesCount:     u.LikesCount,
		CreatedAt:      u.CreatedAt,
	}
}
