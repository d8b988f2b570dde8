package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reelhub/internal/middleware"
	"reelhub/internal/models"
	"reelhub/internal/repository"
	"reelhub/internal/service"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers       int
	NumPosts       int
	FollowsPerUser int
	LikesPerUser   int
	// ReportRatio is the share of posts that receive reports.
	ReportRatio float64
	MaxDays     int
	ShouldClean bool
	SkipBcrypt  bool
	DryRun      bool
	// RandSeed makes a run reproducible. Zero seeds from the clock.
	RandSeed int64
}

// DefaultOptions is a small populated graph suitable for local development.
func DefaultOptions() Options {
	return Options{
		NumUsers:       50,
		NumPosts:       200,
		FollowsPerUser: 8,
		LikesPerUser:   15,
		ReportRatio:    0.05,
		MaxDays:        30,
		ShouldClean:    true,
	}
}

// Summary counts what a run created.
type Summary struct {
	Users   int `json:"users"`
	Posts   int `json:"posts"`
	Follows int `json:"follows"`
	Likes   int `json:"likes"`
	Reports int `json:"reports"`
}

// Seeder populates the database through the same services the API uses, so
// follow counters, like counters and auto-moderation stay consistent.
type Seeder struct {
	db         *gorm.DB
	opts       Options
	factory    *Factory
	follows    *service.FollowService
	feed       *service.FeedService
	moderation *service.ModerationService
}

// NewSeeder wires a seeder against db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	followRepo := repository.NewFollowRepository(db)
	reportRepo := repository.NewReportRepository(db)

	return &Seeder{
		db:         db,
		opts:       opts,
		factory:    NewFactory(db, opts),
		follows:    service.NewFollowService(followRepo, userRepo),
		feed:       service.NewFeedService(postRepo, followRepo, userRepo, service.DefaultFeedOptions()),
		moderation: service.NewModerationService(reportRepo, postRepo, service.DefaultModerationThresholds()),
	}
}

// Seed creates users, posts, follows, likes and reports. The first user is
// a moderator.
func (s *Seeder) Seed(ctx context.Context) (*Summary, error) {
	middleware.Logger.InfoContext(ctx, "Seeding database",
		slog.Int("users", s.opts.NumUsers),
		slog.Int("posts", s.opts.NumPosts),
	)

	if s.opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	summary := &Summary{}
	users, err := s.seedUsers(ctx)
	if err != nil {
		return summary, fmt.Errorf("seed users: %w", err)
	}
	summary.Users = len(users)
	if len(users) == 0 {
		return summary, nil
	}

	posts, err := s.seedPosts(ctx, users)
	if err != nil {
		return summary, fmt.Errorf("seed posts: %w", err)
	}
	summary.Posts = len(posts)

	if summary.Follows, err = s.seedFollows(ctx, users); err != nil {
		return summary, fmt.Errorf("seed follows: %w", err)
	}
	if summary.Likes, err = s.seedLikes(ctx, users, posts); err != nil {
		return summary, fmt.Errorf("seed likes: %w", err)
	}
	if summary.Reports, err = s.seedReports(ctx, users, posts); err != nil {
		return summary, fmt.Errorf("seed reports: %w", err)
	}

	middleware.Logger.InfoContext(ctx, "Seeding complete",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("follows", summary.Follows),
		slog.Int("likes", summary.Likes),
		slog.Int("reports", summary.Reports),
	)
	return summary, nil
}

// ClearAll deletes every seeded table, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE reports, likes, follows, posts, users RESTART IDENTITY CASCADE`).Error
	}
	for _, model := range []interface{}{&models.Report{}, &models.Like{}, &models.Follow{}, &models.Post{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		var overrides []func(*models.User)
		if i == 0 {
			overrides = append(overrides, func(u *models.User) {
				u.Username = "moderator"
				u.DisplayName = "Moderator"
				u.Email = "moderator@example.com"
				u.Role = models.RoleModerator
			})
		}
		u, err := s.factory.CreateUser(ctx, overrides...)
		if err != nil {
			return users, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *Seeder) seedPosts(ctx context.Context, users []*models.User) ([]*models.Post, error) {
	fake := s.factory.Faker()
	posts := make([]*models.Post, 0, s.opts.NumPosts)
	for i := 0; i < s.opts.NumPosts; i++ {
		author := users[fake.Number(0, len(users)-1)]
		p, err := s.factory.CreatePost(ctx, author)
		if err != nil {
			return posts, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// pick returns up to n distinct indexes in [0, size) other than skip.
func (s *Seeder) pick(size, n, skip int) []int {
	fake := s.factory.Faker()
	idx := make([]int, 0, size)
	for i := 0; i < size; i++ {
		if i != skip {
			idx = append(idx, i)
		}
	}
	fake.ShuffleAnySlice(idx)
	if n < len(idx) {
		idx = idx[:n]
	}
	return idx
}

func (s *Seeder) seedFollows(ctx context.Context, users []*models.User) (int, error) {
	if s.opts.DryRun {
		return 0, nil
	}
	created := 0
	for i, u := range users {
		for _, j := range s.pick(len(users), s.opts.FollowsPerUser, i) {
			if _, err := s.follows.Follow(ctx, u.ID, users[j].ID); err != nil {
				if errors.Is(err, models.ErrAlreadyFollowing) {
					continue
				}
				return created, err
			}
			created++
		}
	}
	return created, nil
}

func (s *Seeder) seedLikes(ctx context.Context, users []*models.User, posts []*models.Post) (int, error) {
	if s.opts.DryRun || len(posts) == 0 {
		return 0, nil
	}
	created := 0
	for _, u := range users {
		for _, j := range s.pick(len(posts), s.opts.LikesPerUser, -1) {
			res, err := s.feed.ToggleLike(ctx, posts[j].ID, u.ID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					continue
				}
				return created, err
			}
			if res.Liked {
				created++
			}
		}
	}
	return created, nil
}

// seedReports files one to three reports on a ReportRatio share of posts.
// Posts auto-moderation removes along the way simply stop taking reports.
func (s *Seeder) seedReports(ctx context.Context, users []*models.User, posts []*models.Post) (int, error) {
	if s.opts.DryRun || s.opts.ReportRatio <= 0 || len(users) < 2 {
		return 0, nil
	}
	fake := s.factory.Faker()
	created := 0
	for _, p := range posts {
		if fake.Float64Range(0, 1) >= s.opts.ReportRatio {
			continue
		}
		authorIdx := -1
		for i, u := range users {
			if u.ID == p.UserID {
				authorIdx = i
				break
			}
		}
		for _, j := range s.pick(len(users), fake.Number(1, 3), authorIdx) {
			reason := s.factory.RandomReason()
			_, err := s.moderation.CreateReport(ctx, p.ID, users[j].ID, string(reason), fake.Sentence(6))
			if err != nil {
				if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrDuplicateReport) {
					continue
				}
				return created, err
			}
			created++
		}
	}
	return created, nil
}
