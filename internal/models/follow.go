package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Follow is a directed edge: FollowerID follows FollowingID.
// Edges are hard-deleted on unfollow.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follows_pair;index:idx_follows_follower_created,priority:1" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follows_pair;index:idx_follows_following_created,priority:1" json:"following_id"`
	CreatedAt   time.Time `gorm:"index:idx_follows_follower_created,priority:2;index:idx_follows_following_created,priority:2" json:"created_at"`

	Follower  User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}

var errSelfLoop = errors.New("follow edge cannot point at its own follower")

// BeforeCreate rejects self-loops at the storage boundary.
func (f *Follow) BeforeCreate(_ *gorm.DB) error {
	if f.FollowerID == f.FollowingID {
		return errSelfLoop
	}
	return nil
}

// FollowCounts are the two counters touched by a follow or unfollow:
// the followee's followers and the follower's following.
type FollowCounts struct {
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}

// FollowStats summarizes a user's counters.
type FollowStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Posts     int64 `json:"posts"`
	Likes     int64 `json:"likes"`
}

// FollowEntry is one row of a followers or following list.
type FollowEntry struct {
	PublicProfile
	FollowedAt      time.Time `json:"followed_at"`
	IsFollowingBack bool      `json:"is_following_back"`
}

// FollowList is a page of follow entries.
type FollowList struct {
	Users      []FollowEntry `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

// Pagination describes a page of results.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination computes total_pages as ceil(total/limit).
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}
