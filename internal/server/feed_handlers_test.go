package server

import (
	"net/http"
	"testing"
	"time"

	"reelhub/internal/models"
	"reelhub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicFeedHandler(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	author := testutil.CreateUser(t, api.db, "author")
	now := time.Now().UTC()
	older := testutil.CreatePost(t, api.db, author.ID, testutil.WithCreatedAt(now.Add(-time.Hour)), testutil.WithHashtags("dance"))
	newer := testutil.CreatePost(t, api.db, author.ID, testutil.WithCreatedAt(now))

	var feed models.Feed
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/feed/public", "", nil, &feed))
	require.Len(t, feed.Posts, 2)
	assert.Equal(t, newer.ID, feed.Posts[0].ID)
	assert.Equal(t, older.ID, feed.Posts[1].ID)
	assert.Equal(t, "author", feed.Posts[0].Author.Username)

	var tagged models.Feed
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/feed/public?hashtag=%23dance", "", nil, &tagged))
	require.Len(t, tagged.Posts, 1)
	assert.Equal(t, older.ID, tagged.Posts[0].ID)

	var errBody models.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/feed/public?hashtag=no-dashes", "", nil, &errBody))
	assert.Equal(t, models.CodeValidation, errBody.Code)
}

func TestFollowingFeedHandler(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	viewer := testutil.CreateUser(t, api.db, "viewer")
	followed := testutil.CreateUser(t, api.db, "followed")
	stranger := testutil.CreateUser(t, api.db, "stranger")
	mine := testutil.CreatePost(t, api.db, followed.ID)
	testutil.CreatePost(t, api.db, stranger.ID)
	tok := tokenFor(t, viewer.ID, models.RoleUser)

	var empty models.Feed
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/feed/following", tok, nil, &empty))
	assert.Empty(t, empty.Posts)

	require.Equal(t, http.StatusCreated,
		api.do(t, http.MethodPost, "/api/users/"+itoa(followed.ID)+"/follow", tok, nil, nil))

	var feed models.Feed
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/feed/following", tok, nil, &feed))
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, mine.ID, feed.Posts[0].ID)
}

func TestForYouFeedHandler(t *testing.T) {
	seed := func(t *testing.T, api *testAPI) string {
		author := testutil.CreateUser(t, api.db, "author")
		viewer := testutil.CreateUser(t, api.db, "viewer")
		testutil.CreatePost(t, api.db, author.ID, testutil.WithEngagement(3, 1, 0))
		return tokenFor(t, viewer.ID, models.RoleUser)
	}

	t.Run("scores included by default", func(t *testing.T) {
		api := newTestAPI(t, nil, nil)
		tok := seed(t, api)
		var feed models.Feed
		require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/feed/for-you", tok, nil, &feed))
		require.Len(t, feed.Posts, 1)
		require.NotNil(t, feed.Posts[0].Score)
		assert.Greater(t, feed.Posts[0].Score.Total, 0.0)
	})

	t.Run("score breakdown flag off", func(t *testing.T) {
		cfg := testConfig()
		cfg.FeatureFlags = "score_breakdown=off"
		api := newTestAPI(t, cfg, nil)
		tok := seed(t, api)
		var feed models.Feed
		require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/feed/for-you", tok, nil, &feed))
		require.Len(t, feed.Posts, 1)
		assert.Nil(t, feed.Posts[0].Score)
	})

	t.Run("for you flag off serves public feed", func(t *testing.T) {
		cfg := testConfig()
		cfg.FeatureFlags = "for_you_feed=off"
		api := newTestAPI(t, cfg, nil)
		tok := seed(t, api)
		var feed models.Feed
		require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/feed/for-you", tok, nil, &feed))
		require.Len(t, feed.Posts, 1)
		assert.Nil(t, feed.Posts[0].Score)
	})

	t.Run("anonymous", func(t *testing.T) {
		api := newTestAPI(t, nil, nil)
		seed(t, api)
		var feed models.Feed
		require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/feed/for-you?limit=5", "", nil, &feed))
		assert.Len(t, feed.Posts, 1)
		assert.Equal(t, 5, feed.Pagination.Limit)
	})
}

func TestPostHandlers(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	author := testutil.CreateUser(t, api.db, "author")
	fan := testutil.CreateUser(t, api.db, "fan")
	post := testutil.CreatePost(t, api.db, author.ID)
	tok := tokenFor(t, fan.ID, models.RoleUser)
	postPath := "/api/posts/" + itoa(post.ID)

	var liked models.LikeResult
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, postPath+"/like", tok, nil, &liked))
	assert.Equal(t, models.LikeResult{Liked: true, LikesCount: 1}, liked)

	var view models.PostView
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, postPath, tok, nil, &view))
	assert.True(t, view.LikedByViewer)

	var unliked models.LikeResult
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, postPath+"/like", tok, nil, &unliked))
	assert.Equal(t, models.LikeResult{Liked: false, LikesCount: 0}, unliked)

	var shared map[string]int64
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, postPath+"/share", "", nil, &shared))
	assert.Equal(t, int64(1), shared["shares_count"])

	var userFeed models.Feed
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/users/"+itoa(author.ID)+"/posts", "", nil, &userFeed))
	assert.Len(t, userFeed.Posts, 1)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/posts/9999", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodPost, postPath+"/like", "", nil, nil))
}
