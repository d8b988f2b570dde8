package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostStatusDraft       PostStatus = "draft"
	PostStatusPublished   PostStatus = "published"
	PostStatusUnderReview PostStatus = "under_review"
	PostStatusRejected    PostStatus = "rejected"
	PostStatusRemoved     PostStatus = "removed"
)

// Post represents a short video in the ReelHub application.
// IsDeleted is the moderation removal flag; it is not a GORM soft delete.
type Post struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	User              User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Caption           string     `gorm:"type:text" json:"caption"`
	Hashtags          HashtagSet `gorm:"type:text;not null;default:''" json:"hashtags"`
	VideoURL          string     `gorm:"size:500" json:"video_url"`
	ThumbnailURL      string     `gorm:"size:500" json:"thumbnail_url"`
	VideoDuration     float64    `gorm:"default:0" json:"video_duration"`
	LikesCount        int64      `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount     int64      `gorm:"not null;default:0" json:"comments_count"`
	SharesCount       int64      `gorm:"not null;default:0" json:"shares_count"`
	ViewsCount        int64      `gorm:"not null;default:0" json:"views_count"`
	IsPublic          bool       `gorm:"default:true" json:"is_public"`
	Status            PostStatus `gorm:"type:varchar(20);default:'published';index" json:"status"`
	IsDeleted         bool       `gorm:"default:false;index" json:"-"`
	RemovedAt         *time.Time `gorm:"column:deleted_at" json:"-"`
	FlaggedAt         *time.Time `json:"-"`
	LastInteractionAt *time.Time `json:"-"`
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Post) TableName() string {
	return "posts"
}

// VisibleTo reports whether viewer may see the post in a feed or by id.
// A zero viewer is an anonymous reader.
func (p *Post) VisibleTo(viewer uint) bool {
	if p.IsDeleted || p.Status != PostStatusPublished {
		return false
	}
	return p.IsPublic || (viewer != 0 && p.UserID == viewer)
}

// Like represents a user's like on a post.
// The combination of PostID and UserID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user;index:idx_likes_user_created,priority:1" json:"user_id"`
	CreatedAt time.Time `gorm:"index:idx_likes_user_created,priority:2" json:"created_at"`

	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Like) TableName() string {
	return "likes"
}

// HashtagSet is a normalized set of hashtags. It is stored as ",a,b," so a
// single tag can be matched with LIKE '%,tag,%' on every dialect.
type HashtagSet []string

// NormalizeHashtag lower-cases a tag and strips a leading '#'.
func NormalizeHashtag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

// NewHashtagSet normalizes, de-duplicates and sorts tags.
func NewHashtagSet(tags ...string) HashtagSet {
	seen := make(map[string]struct{}, len(tags))
	out := make(HashtagSet, 0, len(tags))
	for _, t := range tags {
		n := NormalizeHashtag(t)
		if n == "" || strings.Contains(n, ",") {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Contains reports membership of an already normalized tag.
func (h HashtagSet) Contains(tag string) bool {
	for _, t := range h {
		if t == tag {
			return true
		}
	}
	return false
}

// Intersects reports whether any tag of h is in other.
func (h HashtagSet) Intersects(other map[string]struct{}) bool {
	for _, t := range h {
		if _, ok := other[t]; ok {
			return true
		}
	}
	return false
}

// likeEscaper escapes LIKE metacharacters for use with ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike makes s match literally inside a LIKE pattern.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// HashtagPattern returns the LIKE pattern matching posts carrying tag.
// Use it with ESCAPE '\'.
func HashtagPattern(tag string) string {
	return "%," + EscapeLike(NormalizeHashtag(tag)) + ",%"
}

// Value implements driver.Valuer.
func (h HashtagSet) Value() (driver.Value, error) {
	if len(h) == 0 {
		return "", nil
	}
	return "," + strings.Join(NewHashtagSet(h...), ",") + ",", nil
}

// Scan implements sql.Scanner.
func (h *HashtagSet) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*h = HashtagSet{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("hashtag set: unsupported type %T", src)
	}
	parts := strings.Split(strings.Trim(raw, ","), ",")
	out := make(HashtagSet, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	*h = out
	return nil
}

// MarshalJSON always renders an array, never null.
func (h HashtagSet) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(h))
}

// MediaView is the resolved media metadata of a post.
type MediaView struct {
	VideoURL     string  `json:"video_url"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Duration     float64 `json:"duration"`
}

// PostView is what feeds return for a post. It never carries moderation
// state or author credentials.
type PostView struct {
	ID            uint            `json:"id"`
	Caption       string          `json:"caption"`
	Hashtags      HashtagSet      `json:"hashtags"`
	Media         MediaView       `json:"media"`
	LikesCount    int64           `json:"likes_count"`
	CommentsCount int64           `json:"comments_count"`
	SharesCount   int64           `json:"shares_count"`
	ViewsCount    int64           `json:"views_count"`
	IsPublic      bool            `json:"is_public"`
	Status        PostStatus      `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	Author        PublicProfile   `json:"author"`
	LikedByViewer bool            `json:"liked_by_viewer"`
	Score         *ScoreBreakdown `json:"score,omitempty"`
}

// ScoreBreakdown explains a for-you ranking score.
type ScoreBreakdown struct {
	FollowBonus  float64 `json:"follow_bonus"`
	HashtagBonus float64 `json:"hashtag_bonus"`
	Engagement   float64 `json:"engagement"`
	Recency      float64 `json:"recency"`
	Total        float64 `json:"total"`
}

// NewPostView projects a post and its preloaded author.
func NewPostView(p *Post, liked bool) PostView {
	return PostView{
		ID:       p.ID,
		Caption:  p.Caption,
		Hashtags: p.Hashtags,
		Media: MediaView{
			VideoURL:     p.VideoURL,
			ThumbnailURL: p.ThumbnailURL,
			Duration:     p.VideoDuration,
		},
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		SharesCount:   p.SharesCount,
		ViewsCount:    p.ViewsCount,
		IsPublic:      p.IsPublic,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		Author:        p.User.PublicProfile(),
		LikedByViewer: liked,
	}
}

// Feed is a page of post views.
type Feed struct {
	Posts      []PostView `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// LikeResult is returned by a like toggle.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}
