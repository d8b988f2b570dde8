package service

import (
	"context"
	"errors"
	"testing"

	"reelhub/internal/cache"
	"reelhub/internal/models"
	"reelhub/internal/repository"
	"reelhub/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn  func(context.Context, uint) (*models.User, error)
	getByIDsFn func(context.Context, []uint) (map[uint]*models.User, error)
	statsFn    func(context.Context, uint) (*models.FollowStats, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.User, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *userRepoStub) Create(context.Context, *models.User) error { return nil }
func (s *userRepoStub) Stats(ctx context.Context, id uint) (*models.FollowStats, error) {
	return s.statsFn(ctx, id)
}

func newFollowService(t *testing.T) (*FollowService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewFollowService(repository.NewFollowRepository(db), repository.NewUserRepository(db)), db
}

func TestFollowService_FollowValidation(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	gone := testutil.CreateUser(t, db, "gone")
	testutil.Deactivate(t, db, gone.ID)
	banned := testutil.CreateUser(t, db, "banned")
	testutil.Suspend(t, db, banned.ID)

	tests := []struct {
		name     string
		follower uint
		target   uint
		wantErr  error
	}{
		{"self follow", alice.ID, alice.ID, models.ErrSelfFollow},
		{"missing target", alice.ID, 9999, models.ErrNotFound},
		{"missing follower", 9999, bob.ID, models.ErrNotFound},
		{"inactive target", alice.ID, gone.ID, models.ErrBlockedInteraction},
		{"suspended follower", banned.ID, bob.ID, models.ErrBlockedInteraction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Follow(ctx, tt.follower, tt.target)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var edges int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&edges).Error)
	assert.Zero(t, edges, "rejected follows write nothing")
}

func TestFollowService_FollowUnfollow(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	counts, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FollowCounts{FollowersCount: 1, FollowingCount: 1}, counts)

	_, err = svc.Follow(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, models.ErrAlreadyFollowing)
	assert.ErrorIs(t, err, models.ErrConflict)

	ok, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	counts, err = svc.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FollowCounts{}, counts)

	_, err = svc.Unfollow(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, models.ErrNotFollowing)

	_, err = svc.Unfollow(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, models.ErrSelfFollow)
}

func TestFollowService_Lists(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()

	star := testutil.CreateUser(t, db, "star")
	fans := []*models.User{
		testutil.CreateUser(t, db, "fan_one"),
		testutil.CreateUser(t, db, "fan_two"),
		testutil.CreateUser(t, db, "other"),
	}
	for _, f := range fans {
		_, err := svc.Follow(ctx, f.ID, star.ID)
		require.NoError(t, err)
	}
	_, err := svc.Follow(ctx, star.ID, fans[0].ID)
	require.NoError(t, err)

	list, err := svc.ListFollowers(ctx, star.ID, FollowListOptions{Page: 1, Limit: 2, Viewer: star.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Pagination.Total)
	assert.Equal(t, 2, list.Pagination.TotalPages)
	require.Len(t, list.Users, 2)

	back := map[uint]bool{}
	page2, err := svc.ListFollowers(ctx, star.ID, FollowListOptions{Page: 2, Limit: 2, Viewer: star.ID})
	require.NoError(t, err)
	for _, e := range append(list.Users, page2.Users...) {
		back[e.ID] = e.IsFollowingBack
	}
	assert.True(t, back[fans[0].ID])
	assert.False(t, back[fans[1].ID])

	search, err := svc.ListFollowers(ctx, star.ID, FollowListOptions{Search: "FAN"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), search.Pagination.Total)
	assert.Equal(t, DefaultPageSize, search.Pagination.Limit)

	anon, err := svc.ListFollowing(ctx, star.ID, FollowListOptions{})
	require.NoError(t, err)
	require.Len(t, anon.Users, 1)
	assert.False(t, anon.Users[0].IsFollowingBack, "anonymous viewers follow nobody")

	_, err = svc.ListFollowers(ctx, 9999, FollowListOptions{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFollowService_MutualFollows(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")
	shared := testutil.CreateUser(t, db, "shared")
	onlyA := testutil.CreateUser(t, db, "only_a")

	for _, edge := range [][2]uint{{a.ID, shared.ID}, {b.ID, shared.ID}, {a.ID, onlyA.ID}} {
		_, err := svc.Follow(ctx, edge[0], edge[1])
		require.NoError(t, err)
	}

	mutual, err := svc.MutualFollows(ctx, a.ID, b.ID, 0)
	require.NoError(t, err)
	require.Len(t, mutual, 1)
	assert.Equal(t, shared.ID, mutual[0].ID)
}

func TestFollowService_FollowStatsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	calls := 0
	users := &userRepoStub{
		statsFn: func(_ context.Context, id uint) (*models.FollowStats, error) {
			calls++
			return &models.FollowStats{Followers: 4, Following: 2, Posts: 1}, nil
		},
	}
	svc := NewFollowService(nil, users)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		stats, err := svc.FollowStats(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(4), stats.Followers)
	}
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists(cache.UserStatsKey(7)))

	cache.InvalidateUserStats(ctx, 7)
	_, err := svc.FollowStats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFollowService_StorageErrorsPropagate(t *testing.T) {
	boom := models.NewStorageError(errors.New("connection reset"))
	users := &userRepoStub{
		getByIDsFn: func(context.Context, []uint) (map[uint]*models.User, error) { return nil, boom },
		statsFn:    func(context.Context, uint) (*models.FollowStats, error) { return nil, boom },
	}
	svc := NewFollowService(nil, users)

	_, err := svc.Follow(context.Background(), 1, 2)
	assert.ErrorIs(t, err, models.ErrStorage)
	_, err = svc.FollowStats(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrStorage)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "error", outcome(errors.New("x")))
	assert.Equal(t, models.ErrSelfFollow.Kind, outcome(models.ErrSelfFollow))
	assert.Equal(t, models.ErrNotFound.Code, outcome(models.NewNotFoundError("User", 1)))
}
