package service

import (
	"context"
	"errors"

	"reelhub/internal/cache"
	"reelhub/internal/models"
	"reelhub/internal/observability"
	"reelhub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FollowListOptions selects a page of a followers or following list.
// Viewer drives is_following_back; zero means anonymous.
type FollowListOptions struct {
	Page   int
	Limit  int
	Search string
	Viewer uint
}

// FollowService maintains the follow graph and its denormalized counters.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow creates the edge follower -> following and returns the followee's
// followers_count and the follower's following_count.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID uint) (counts models.FollowCounts, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "FollowService", "Follow",
		attribute.Int64("follower_id", int64(followerID)),
		attribute.Int64("following_id", int64(followingID)),
	)
	defer func() {
		observability.FollowOperations.WithLabelValues("follow", outcome(err)).Inc()
		span.End(err)
	}()

	if followerID == followingID {
		return counts, models.ErrSelfFollow
	}

	users, err := s.userRepo.GetByIDs(ctx, []uint{followerID, followingID})
	if err != nil {
		return counts, err
	}
	follower, ok := users[followerID]
	if !ok {
		return counts, models.NewNotFoundError("User", followerID)
	}
	following, ok := users[followingID]
	if !ok {
		return counts, models.NewNotFoundError("User", followingID)
	}
	if !follower.CanInteract() || !following.CanInteract() {
		return counts, models.ErrBlockedInteraction
	}

	counts, err = s.followRepo.Create(ctx, followerID, followingID)
	if err != nil {
		return counts, err
	}
	cache.InvalidateUserStats(ctx, followerID, followingID)
	return counts, nil
}

// Unfollow removes the edge follower -> following. Counters never go below zero.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID uint) (counts models.FollowCounts, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "FollowService", "Unfollow",
		attribute.Int64("follower_id", int64(followerID)),
		attribute.Int64("following_id", int64(followingID)),
	)
	defer func() {
		observability.FollowOperations.WithLabelValues("unfollow", outcome(err)).Inc()
		span.End(err)
	}()

	if followerID == followingID {
		return counts, models.ErrSelfFollow
	}

	counts, err = s.followRepo.Delete(ctx, followerID, followingID)
	if err != nil {
		return counts, err
	}
	cache.InvalidateUserStats(ctx, followerID, followingID)
	return counts, nil
}

// IsFollowing reports whether a follows b.
func (s *FollowService) IsFollowing(ctx context.Context, a, b uint) (bool, error) {
	if a == 0 || a == b {
		return false, nil
	}
	return s.followRepo.Exists(ctx, a, b)
}

// MutualFollows lists active users that both a and b follow, most recently
// followed by a first.
func (s *FollowService) MutualFollows(ctx context.Context, a, b uint, limit int) ([]models.PublicProfile, error) {
	limit = clampLimit(limit, DefaultMutualLimit, MaxMutualLimit)
	rows, err := s.followRepo.Mutual(ctx, a, b, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicProfile, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].PublicProfile())
	}
	return out, nil
}

// ListFollowers returns a page of the users following userID.
func (s *FollowService) ListFollowers(ctx context.Context, userID uint, opts FollowListOptions) (*models.FollowList, error) {
	return s.list(ctx, userID, opts, s.followRepo.ListFollowers)
}

// ListFollowing returns a page of the users userID follows.
func (s *FollowService) ListFollowing(ctx context.Context, userID uint, opts FollowListOptions) (*models.FollowList, error) {
	return s.list(ctx, userID, opts, s.followRepo.ListFollowing)
}

type followLister func(context.Context, repository.FollowListQuery) ([]repository.FollowRow, int64, error)

func (s *FollowService) list(ctx context.Context, userID uint, opts FollowListOptions, fetch followLister) (*models.FollowList, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	page, limit := normalizePage(opts.Page, opts.Limit)
	rows, total, err := fetch(ctx, repository.FollowListQuery{
		UserID: userID,
		Search: opts.Search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	followedBack, err := s.followRepo.FollowedAmong(ctx, opts.Viewer, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]models.FollowEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, models.FollowEntry{
			PublicProfile:   rows[i].PublicProfile(),
			FollowedAt:      rows[i].FollowedAt,
			IsFollowingBack: followedBack[rows[i].ID],
		})
	}
	return &models.FollowList{
		Users:      entries,
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}

// FollowStats returns the user's follower, following, post and like counters.
func (s *FollowService) FollowStats(ctx context.Context, userID uint) (*models.FollowStats, error) {
	var stats models.FollowStats
	err := cache.Aside(ctx, cache.UserStatsKey(userID), &stats, cache.UserStatsTTL, func() error {
		fresh, err := s.userRepo.Stats(ctx, userID)
		if err != nil {
			return err
		}
		stats = *fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// outcome labels a metric with the error kind, or "ok".
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		if appErr.Kind != "" {
			return appErr.Kind
		}
		return appErr.Code
	}
	return "error"
}
