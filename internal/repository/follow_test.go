package repository

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"sync"
	"testing"
	"time"

	"reelhub/internal/models"
	"reelhub/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// edgeCounts recomputes both counters from the edge set.
func edgeCounts(t *testing.T, db *gorm.DB, userID uint) (followers, following int64) {
	t.Helper()
	require.NoError(t, db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&followers).Error)
	require.NoError(t, db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&following).Error)
	return followers, following
}

func TestFollowRepository_CreateAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	counts, err := repo.Create(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FollowCounts{FollowersCount: 1, FollowingCount: 1}, counts)

	ok, err := repo.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Exists(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ok, "edges are directed")

	_, err = repo.Create(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, models.ErrAlreadyFollowing)

	counts, err = repo.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FollowCounts{FollowersCount: 0, FollowingCount: 0}, counts)

	_, err = repo.Delete(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, models.ErrNotFollowing)
}

func TestFollowRepository_DeleteFloorsAtZero(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	// An edge inserted behind the repository's back leaves the counters at zero.
	require.NoError(t, db.Create(&models.Follow{FollowerID: a.ID, FollowingID: b.ID}).Error)

	counts, err := repo.Delete(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.FollowersCount)
	assert.Equal(t, int64(0), counts.FollowingCount)
}

func TestFollowRepository_CreateMissingUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "alice")

	_, err := repo.Create(ctx, a.ID, 4242)
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&n).Error)
	assert.Zero(t, n, "failed follow must not leave an edge behind")
	followers, following := edgeCounts(t, db, a.ID)
	assert.Zero(t, followers)
	assert.Zero(t, following)
}

func TestFollowRepository_RollbackOnCounterFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "follows"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "followers_count"`)).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), 1, 2)
	assert.ErrorIs(t, err, models.ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_ConcurrentDuplicateFollow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, a.ID, b.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, models.ErrAlreadyFollowing):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)

	stats, err := NewUserRepository(db).Stats(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Followers)
}

// Random interleavings of follow and unfollow never let a counter drift from
// the edge set.
func TestFollowRepository_CountersMatchEdges(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFollowRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	ids := make([]uint, 0, 6)
	for _, name := range []string{"u0", "u1", "u2", "u3", "u4", "u5"} {
		ids = append(ids, testutil.CreateUser(t, db, name).ID)
	}

	rng := rand.New(rand.NewSource(42))
	for step := 0; step < 300; step++ {
		from := ids[rng.Intn(len(ids))]
		to := ids[rng.Intn(len(ids))]
		if from == to {
			continue
		}
		var err error
		if rng.Intn(2) == 0 {
			_, err = repo.Create(ctx, from, to)
			if err != nil {
				require.ErrorIs(t, err, models.ErrAlreadyFollowing)
			}
		} else {
			_, err = repo.Delete(ctx, from, to)
			if err != nil {
				require.ErrorIs(t, err, models.ErrNotFollowing)
			}
		}
	}

	for _, id := range ids {
		stats, err := users.Stats(ctx, id)
		require.NoError(t, err)
		followers, following := edgeCounts(t, db, id)
		assert.Equal(t, followers, stats.Followers, "followers of %d", id)
		assert.Equal(t, following, stats.Following, "following of %d", id)
	}
}

func TestFollowRepository_Lists(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	target := testutil.CreateUser(t, db, "target")
	ann := testutil.CreateUser(t, db, "ann")
	andy := testutil.CreateUser(t, db, "andy")
	zed := testutil.CreateUser(t, db, "zed")
	gone := testutil.CreateUser(t, db, "gone")

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, u := range []*models.User{ann, andy, zed, gone} {
		require.NoError(t, db.Create(&models.Follow{
			FollowerID: u.ID, FollowingID: target.ID, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}
	testutil.Deactivate(t, db, gone.ID)

	rows, total, err := repo.ListFollowers(ctx, FollowListQuery{UserID: target.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total, "inactive followers are hidden")
	require.Len(t, rows, 3)
	assert.Equal(t, "zed", rows[0].Username, "newest edge first")
	assert.Equal(t, "ann", rows[2].Username)
	assert.True(t, rows[2].FollowedAt.Equal(base))

	rows, total, err = repo.ListFollowers(ctx, FollowListQuery{UserID: target.ID, Search: "AN", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	rows, total, err = repo.ListFollowers(ctx, FollowListQuery{UserID: target.ID, Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "ann", rows[0].Username)

	rows, total, err = repo.ListFollowing(ctx, FollowListQuery{UserID: ann.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, target.ID, rows[0].ID)
}

func TestFollowRepository_SearchEscapesWildcards(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	target := testutil.CreateUser(t, db, "target")
	for _, name := range []string{"a_b", "axb", "pct100"} {
		u := testutil.CreateUser(t, db, name)
		_, err := repo.Create(ctx, u.ID, target.ID)
		require.NoError(t, err)
	}

	tests := []struct {
		search string
		want   []string
	}{
		{"a_b", []string{"a_b"}},
		{"_", []string{"a_b"}},
		{"%", nil},
		{"x", []string{"axb"}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			rows, total, err := repo.ListFollowers(ctx, FollowListQuery{UserID: target.ID, Search: tt.search, Page: 1, Limit: 10})
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)
			var names []string
			for _, r := range rows {
				names = append(names, r.Username)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFollowRepository_FollowedAmongAndMutual(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")
	x := testutil.CreateUser(t, db, "x")
	y := testutil.CreateUser(t, db, "y")
	z := testutil.CreateUser(t, db, "z")

	for _, edge := range [][2]uint{{a.ID, x.ID}, {a.ID, y.ID}, {a.ID, z.ID}, {b.ID, x.ID}, {b.ID, z.ID}} {
		_, err := repo.Create(ctx, edge[0], edge[1])
		require.NoError(t, err)
	}
	testutil.Deactivate(t, db, z.ID)

	among, err := repo.FollowedAmong(ctx, a.ID, []uint{x.ID, b.ID, y.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{x.ID: true, y.ID: true}, among)

	ids, err := repo.FollowingIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{x.ID, z.ID}, ids)

	mutual, err := repo.Mutual(ctx, a.ID, b.ID, 10)
	require.NoError(t, err)
	require.Len(t, mutual, 1, "inactive mutual follows are hidden")
	assert.Equal(t, x.ID, mutual[0].ID)
}
