package service

import (
	"sort"
	"time"

	"reelhub/internal/config"
	"reelhub/internal/models"
)

// RankingWeights tune the for-you score.
type RankingWeights struct {
	FollowBonus       float64
	HashtagBonus      float64
	LikeWeight        float64
	CommentWeight     float64
	ShareWeight       float64
	RecencyMultiplier float64
	RecencyWindow     time.Duration
}

// DefaultRankingWeights returns the stock for-you weights.
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{
		FollowBonus:       50,
		HashtagBonus:      30,
		LikeWeight:        1,
		CommentWeight:     2,
		ShareWeight:       3,
		RecencyMultiplier: 100,
		RecencyWindow:     24 * time.Hour,
	}
}

// RankingWeightsFromConfig reads FEED_* tuning. Unset (zero) values keep
// their defaults.
func RankingWeightsFromConfig(cfg *config.Config) RankingWeights {
	w := DefaultRankingWeights()
	if cfg == nil {
		return w
	}
	override(&w.FollowBonus, cfg.FeedFollowBonus)
	override(&w.HashtagBonus, cfg.FeedHashtagBonus)
	override(&w.LikeWeight, cfg.FeedLikeWeight)
	override(&w.CommentWeight, cfg.FeedCommentWeight)
	override(&w.ShareWeight, cfg.FeedShareWeight)
	override(&w.RecencyMultiplier, cfg.FeedRecencyMultiplier)
	if window := cfg.RecencyWindow(); window > 0 {
		w.RecencyWindow = window
	}
	return w
}

func override(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

// ViewerContext is what the ranker knows about the reader.
type ViewerContext struct {
	ViewerID uint
	Followed map[uint]bool
	Affinity map[string]struct{}
}

// Score computes the for-you score of p for the viewer at now. It reads
// nothing but its arguments, so equal inputs always give equal scores.
func Score(p *models.Post, vc ViewerContext, w RankingWeights, now time.Time) models.ScoreBreakdown {
	var b models.ScoreBreakdown
	if vc.Followed[p.UserID] {
		b.FollowBonus = w.FollowBonus
	}
	if len(vc.Affinity) > 0 && p.Hashtags.Intersects(vc.Affinity) {
		b.HashtagBonus = w.HashtagBonus
	}
	b.Engagement = float64(p.LikesCount)*w.LikeWeight +
		float64(p.CommentsCount)*w.CommentWeight +
		float64(p.SharesCount)*w.ShareWeight
	b.Recency = w.RecencyMultiplier * recencyFactor(now.Sub(p.CreatedAt), w.RecencyWindow)
	b.Total = b.FollowBonus + b.HashtagBonus + b.Engagement + b.Recency
	return b
}

// recencyFactor decays linearly from 1 at age 0 to 0 at window. Posts from
// the future count as brand new.
func recencyFactor(age, window time.Duration) float64 {
	if age <= 0 {
		return 1
	}
	if window <= 0 || age >= window {
		return 0
	}
	return 1 - float64(age)/float64(window)
}

// RankedPost pairs a post with its score.
type RankedPost struct {
	Post  *models.Post
	Score models.ScoreBreakdown
}

// Rank scores posts and orders them by score, then created_at, then id,
// all descending.
func Rank(posts []models.Post, vc ViewerContext, w RankingWeights, now time.Time) []RankedPost {
	ranked := make([]RankedPost, len(posts))
	for i := range posts {
		ranked[i] = RankedPost{Post: &posts[i], Score: Score(&posts[i], vc, w, now)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score.Total != b.Score.Total {
			return a.Score.Total > b.Score.Total
		}
		if !a.Post.CreatedAt.Equal(b.Post.CreatedAt) {
			return a.Post.CreatedAt.After(b.Post.CreatedAt)
		}
		return a.Post.ID > b.Post.ID
	})
	return ranked
}

// pageOf returns the [page, limit] window of ranked.
func pageOf(ranked []RankedPost, page, limit int) []RankedPost {
	start := (page - 1) * limit
	if start >= len(ranked) {
		return nil
	}
	end := start + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[start:end]
}
