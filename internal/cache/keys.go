package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserStatsKeyPrefix = "user:%d:stats"
	AffinityKeyPrefix  = "feed:affinity:%d"
)

const (
	UserStatsTTL = time.Minute
	// AffinityTTL is the default; the feed service reads FEED_AFFINITY_CACHE_TTL_SECONDS.
	AffinityTTL = 2 * time.Minute
)

// UserStatsKey caches a user's follow stats.
func UserStatsKey(userID uint) string {
	return fmt.Sprintf(UserStatsKeyPrefix, userID)
}

// AffinityKey caches the hashtags behind a viewer's recent likes.
func AffinityKey(userID uint) string {
	return fmt.Sprintf(AffinityKeyPrefix, userID)
}

// Invalidate deletes keys. Failures are counted by the client hook and ignored.
func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateUserStats drops cached stats for every user given.
func InvalidateUserStats(ctx context.Context, userIDs ...uint) {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, UserStatsKey(id))
	}
	Invalidate(ctx, keys...)
}

// InvalidateAffinity drops a viewer's cached hashtag affinity.
func InvalidateAffinity(ctx context.Context, userID uint) {
	Invalidate(ctx, AffinityKey(userID))
}
