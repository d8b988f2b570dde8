package service

import (
	"context"
	"log/slog"
	"time"

	"reelhub/internal/cache"
	"reelhub/internal/config"
	"reelhub/internal/models"
	"reelhub/internal/observability"
	"reelhub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// FeedOptions tune candidate selection for the for-you feed.
type FeedOptions struct {
	Weights            RankingWeights
	CandidatePoolSize  int
	AffinityLikeWindow int
	AffinityCacheTTL   time.Duration
}

// DefaultFeedOptions returns the stock feed tuning.
func DefaultFeedOptions() FeedOptions {
	return FeedOptions{
		Weights:            DefaultRankingWeights(),
		CandidatePoolSize:  500,
		AffinityLikeWindow: 100,
		AffinityCacheTTL:   cache.AffinityTTL,
	}
}

// FeedOptionsFromConfig reads FEED_* settings.
func FeedOptionsFromConfig(cfg *config.Config) FeedOptions {
	opts := DefaultFeedOptions()
	if cfg == nil {
		return opts
	}
	opts.Weights = RankingWeightsFromConfig(cfg)
	if cfg.FeedCandidatePoolSize > 0 {
		opts.CandidatePoolSize = cfg.FeedCandidatePoolSize
	}
	if cfg.FeedAffinityLikeWindow > 0 {
		opts.AffinityLikeWindow = cfg.FeedAffinityLikeWindow
	}
	if ttl := cfg.AffinityCacheTTL(); ttl > 0 {
		opts.AffinityCacheTTL = ttl
	}
	return opts
}

// FeedService assembles the public, following and for-you feeds and the
// engagement operations that feed into ranking.
type FeedService struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	opts       FeedOptions
	now        func() time.Time
	log        *slog.Logger
}

// NewFeedService returns a new FeedService.
func NewFeedService(
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	opts FeedOptions,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		followRepo: followRepo,
		userRepo:   userRepo,
		opts:       opts,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetLogger routes the service's logs to l instead of the process logger.
func (s *FeedService) SetLogger(l *slog.Logger) {
	s.log = l
}

func (s *FeedService) logger() *slog.Logger {
	return serviceLogger(s.log)
}

// PublicFeed lists visible posts newest first, optionally narrowed to one hashtag.
func (s *FeedService) PublicFeed(ctx context.Context, viewer uint, page, limit int, hashtag string) (feed *models.Feed, err error) {
	defer observability.TrackFeed("public")()
	ctx, span := observability.StartServiceSpan(ctx, "FeedService", "PublicFeed",
		attribute.Int64("viewer_id", int64(viewer)),
		attribute.String("hashtag", hashtag),
	)
	defer func() { span.End(err) }()

	page, limit = normalizePage(page, limit)
	posts, total, err := s.postRepo.ListVisible(ctx, repository.PostQuery{
		Viewer:  viewer,
		Hashtag: models.NormalizeHashtag(hashtag),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	views, err := s.buildViews(ctx, viewer, posts)
	if err != nil {
		return nil, err
	}
	s.recordViews(ctx, posts, nil)
	return &models.Feed{Posts: views, Pagination: models.NewPagination(page, limit, total)}, nil
}

// FollowingFeed lists visible posts by the authors viewer follows, newest first.
func (s *FeedService) FollowingFeed(ctx context.Context, viewer uint, page, limit int) (feed *models.Feed, err error) {
	defer observability.TrackFeed("following")()
	ctx, span := observability.StartServiceSpan(ctx, "FeedService", "FollowingFeed",
		attribute.Int64("viewer_id", int64(viewer)),
	)
	defer func() { span.End(err) }()

	page, limit = normalizePage(page, limit)
	followed, err := s.followRepo.FollowingIDs(ctx, viewer)
	if err != nil {
		return nil, err
	}
	if len(followed) == 0 {
		return &models.Feed{Posts: []models.PostView{}, Pagination: models.NewPagination(page, limit, 0)}, nil
	}

	posts, total, err := s.postRepo.ListVisible(ctx, repository.PostQuery{
		Viewer:    viewer,
		AuthorIDs: followed,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	views, err := s.buildViews(ctx, viewer, posts)
	if err != nil {
		return nil, err
	}
	return &models.Feed{Posts: views, Pagination: models.NewPagination(page, limit, total)}, nil
}

// ForYouFeed ranks the most recent candidate posts for viewer. Each view
// carries its score breakdown.
func (s *FeedService) ForYouFeed(ctx context.Context, viewer uint, page, limit int) (feed *models.Feed, err error) {
	defer observability.TrackFeed("for_you")()
	ctx, span := observability.StartServiceSpan(ctx, "FeedService", "ForYouFeed",
		attribute.Int64("viewer_id", int64(viewer)),
	)
	defer func() { span.End(err) }()

	page, limit = normalizePage(page, limit)

	var (
		candidates []models.Post
		followed   map[uint]bool
		affinity   map[string]struct{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = s.postRepo.Candidates(gctx, viewer, s.opts.CandidatePoolSize)
		return err
	})
	g.Go(func() error {
		followed = map[uint]bool{}
		if viewer == 0 {
			return nil
		}
		ids, err := s.followRepo.FollowingIDs(gctx, viewer)
		if err != nil {
			return err
		}
		for _, id := range ids {
			followed[id] = true
		}
		return nil
	})
	g.Go(func() error {
		var err error
		affinity, err = s.hashtagAffinity(gctx, viewer)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	observability.FeedCandidates.Observe(float64(len(candidates)))
	span.AddAttributes(attribute.Int("candidates", len(candidates)))

	now := s.now()
	ranked := Rank(candidates, ViewerContext{ViewerID: viewer, Followed: followed, Affinity: affinity}, s.opts.Weights, now)
	window := pageOf(ranked, page, limit)

	posts := make([]models.Post, len(window))
	for i, rp := range window {
		posts[i] = *rp.Post
	}
	views, err := s.buildViews(ctx, viewer, posts)
	if err != nil {
		return nil, err
	}
	for i := range views {
		score := window[i].Score
		views[i].Score = &score
	}
	s.recordViews(ctx, posts, &now)

	return &models.Feed{Posts: views, Pagination: models.NewPagination(page, limit, int64(len(ranked)))}, nil
}

// hashtagAffinity is the set of hashtags on the posts behind viewer's most
// recent likes. Cached per viewer; a cache outage falls through to the store.
func (s *FeedService) hashtagAffinity(ctx context.Context, viewer uint) (map[string]struct{}, error) {
	if viewer == 0 {
		return map[string]struct{}{}, nil
	}
	var tags []string
	err := cache.Aside(ctx, cache.AffinityKey(viewer), &tags, s.opts.AffinityCacheTTL, func() error {
		set, err := s.postRepo.RecentLikedHashtags(ctx, viewer, s.opts.AffinityLikeWindow)
		if err != nil {
			return err
		}
		tags = make([]string, 0, len(set))
		for t := range set {
			tags = append(tags, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		out[t] = struct{}{}
	}
	return out, nil
}

// buildViews projects posts and marks the ones viewer liked with one query.
func (s *FeedService) buildViews(ctx context.Context, viewer uint, posts []models.Post) ([]models.PostView, error) {
	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	liked, err := s.postRepo.LikedPostIDs(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.PostView, len(posts))
	for i := range posts {
		views[i] = models.NewPostView(&posts[i], liked[posts[i].ID])
	}
	return views, nil
}

// recordViews bumps views_count for the posts just served. The counts are
// approximate: failures are logged and the read still succeeds.
func (s *FeedService) recordViews(ctx context.Context, posts []models.Post, touchedAt *time.Time) {
	if len(posts) == 0 {
		return
	}
	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	if _, err := s.postRepo.IncrementViews(ctx, ids, touchedAt); err != nil {
		observability.ViewIncrementFailures.Inc()
		s.logger().WarnContext(ctx, "Failed to record post views",
			slog.Int("posts", len(ids)),
			slog.String("error", err.Error()),
		)
	}
}

// GetPost returns one post if viewer may see it. A non-owner viewer counts
// as one view.
func (s *FeedService) GetPost(ctx context.Context, postID, viewer uint) (*models.PostView, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(viewer) {
		return nil, models.NewNotFoundError("Post", postID)
	}

	liked, err := s.postRepo.LikedPostIDs(ctx, viewer, []uint{post.ID})
	if err != nil {
		return nil, err
	}
	if viewer != 0 && viewer != post.UserID {
		s.recordViews(ctx, []models.Post{*post}, nil)
		post.ViewsCount++
	}
	view := models.NewPostView(post, liked[post.ID])
	return &view, nil
}

// UserPosts lists a user's visible posts. The owner also sees their private ones.
func (s *FeedService) UserPosts(ctx context.Context, userID, viewer uint, page, limit int) (*models.Feed, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)
	posts, total, err := s.postRepo.ListVisible(ctx, repository.PostQuery{
		Viewer:   viewer,
		AuthorID: userID,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	views, err := s.buildViews(ctx, viewer, posts)
	if err != nil {
		return nil, err
	}
	return &models.Feed{Posts: views, Pagination: models.NewPagination(page, limit, total)}, nil
}

// ToggleLike likes or unlikes a visible post and drops the user's cached
// hashtag affinity.
func (s *FeedService) ToggleLike(ctx context.Context, postID, userID uint) (result models.LikeResult, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "FeedService", "ToggleLike",
		attribute.Int64("post_id", int64(postID)),
		attribute.Int64("user_id", int64(userID)),
	)
	defer func() { span.End(err) }()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return result, err
	}
	if !post.VisibleTo(userID) {
		return result, models.NewNotFoundError("Post", postID)
	}

	result, err = s.postRepo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return result, err
	}
	cache.InvalidateAffinity(ctx, userID)
	cache.InvalidateUserStats(ctx, post.UserID)
	return result, nil
}

// Share counts a share of a visible post and returns the new shares_count.
func (s *FeedService) Share(ctx context.Context, postID, viewer uint) (int64, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return 0, err
	}
	if !post.VisibleTo(viewer) {
		return 0, models.NewNotFoundError("Post", postID)
	}
	return s.postRepo.IncrementShares(ctx, postID)
}
