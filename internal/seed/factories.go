// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reelhub/internal/models"
	"reelhub/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded account gets.
const DefaultPassword = "password123"

// HashtagPool is the tag vocabulary seeded posts draw from.
var HashtagPool = []string{
	"dance", "comedy", "food", "travel", "fitness", "music", "pets", "diy",
	"fashion", "gaming", "science", "art", "sports", "cooking", "nature",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	opts  Options
	fake  *gofakeit.Faker
	users repository.UserRepository
	posts repository.PostRepository
	// synthetic ID counter when running in DryRun mode
	nextID   uint
	userSeq  int
	password string
}

// NewFactory creates a new Factory bound to the provided Gorm DB. db may be
// nil in DryRun mode.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	f := &Factory{opts: opts, fake: gofakeit.New(seed), nextID: 1000}
	if db != nil {
		f.users = repository.NewUserRepository(db)
		f.posts = repository.NewPostRepository(db)
	}
	return f
}

// Faker exposes the factory's deterministic generator.
func (f *Factory) Faker() *gofakeit.Faker {
	return f.fake
}

func (f *Factory) hashedPassword() (string, error) {
	if f.password != "" {
		return f.password, nil
	}
	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		f.password = DefaultPassword
		return f.password, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	f.password = string(hashed)
	return f.password, nil
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	password, err := f.hashedPassword()
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	f.userSeq++
	first, last := f.fake.FirstName(), f.fake.LastName()
	username := strings.ToLower(fmt.Sprintf("%s_%s%d", first, last, f.userSeq))
	user := &models.User{
		Username:    username,
		DisplayName: first + " " + last,
		Email:       username + "@example.com",
		Password:    password,
		Bio:         f.fake.Sentence(10),
		Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.fake.UUID()),
		IsVerified:  f.fake.Number(1, 10) == 1,
		IsActive:    true,
		Role:        models.RoleUser,
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		return user, nil
	}

	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post for author without persisting it. Creation
// times spread over the last MaxDays days.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	age := time.Duration(f.fake.Number(0, maxDays*24*60-1)) * time.Minute

	tags := make([]string, f.fake.Number(1, 3))
	for i := range tags {
		tags[i] = f.fake.RandomString(HashtagPool)
	}
	hashtags := models.NewHashtagSet(tags...)

	caption := f.fake.Sentence(8)
	for _, tag := range hashtags {
		caption += " #" + tag
	}

	videoID := f.fake.UUID()
	post := &models.Post{
		UserID:        author.ID,
		Caption:       caption,
		Hashtags:      hashtags,
		VideoURL:      fmt.Sprintf("https://cdn.example.com/videos/%s.mp4", videoID),
		ThumbnailURL:  fmt.Sprintf("https://picsum.photos/seed/%s/720/1280", videoID),
		VideoDuration: f.fake.Float64Range(5, 90),
		SharesCount:   int64(f.fake.Number(0, 40)),
		CommentsCount: int64(f.fake.Number(0, 60)),
		IsPublic:      true,
		Status:        models.PostStatusPublished,
		CreatedAt:     time.Now().UTC().Add(-age),
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost builds and persists a post for author.
func (f *Factory) CreatePost(ctx context.Context, author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(author, overrides...)
	if f.opts.DryRun {
		f.nextID++
		post.ID = f.nextID
		return post, nil
	}
	if err := f.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// RandomReason picks a report reason, weighted toward the low severities
// real reports cluster on.
func (f *Factory) RandomReason() models.ReportReason {
	options := models.ReportReasonOptions()
	if f.fake.Number(1, 10) <= 6 {
		low := make([]models.ReportReason, 0, len(options))
		for _, o := range options {
			if o.Severity == models.SeverityLow {
				low = append(low, o.Value)
			}
		}
		return low[f.fake.Number(0, len(low)-1)]
	}
	return options[f.fake.Number(0, len(options)-1)].Value
}
