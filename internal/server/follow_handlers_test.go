package server

import (
	"net/http"
	"testing"

	"reelhub/internal/models"
	"reelhub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type followResponse struct {
	Following bool                `json:"following"`
	Counts    models.FollowCounts `json:"counts"`
}

func TestFollowUser(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	alice := testutil.CreateUser(t, api.db, "alice")
	bob := testutil.CreateUser(t, api.db, "bob")
	tok := tokenFor(t, alice.ID, models.RoleUser)

	tests := []struct {
		name     string
		path     string
		status   int
		wantCode string
		wantKind string
	}{
		{"follows", "/api/users/" + itoa(bob.ID) + "/follow", http.StatusCreated, "", ""},
		{"already following", "/api/users/" + itoa(bob.ID) + "/follow", http.StatusConflict, models.CodeConflict, "already_following"},
		{"self", "/api/users/" + itoa(alice.ID) + "/follow", http.StatusUnprocessableEntity, models.CodeInvalidState, "self_follow"},
		{"unknown target", "/api/users/9999/follow", http.StatusNotFound, models.CodeNotFound, ""},
		{"bad id", "/api/users/abc/follow", http.StatusBadRequest, models.CodeValidation, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantCode == "" {
				var body followResponse
				require.Equal(t, tt.status, api.do(t, http.MethodPost, tt.path, tok, nil, &body))
				assert.True(t, body.Following)
				assert.Equal(t, models.FollowCounts{FollowersCount: 1, FollowingCount: 1}, body.Counts)
				return
			}
			var errBody models.ErrorResponse
			assert.Equal(t, tt.status, api.do(t, http.MethodPost, tt.path, tok, nil, &errBody))
			assert.Equal(t, tt.wantCode, errBody.Code)
			assert.Equal(t, tt.wantKind, errBody.Kind)
		})
	}
}

func TestUnfollowUser(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	alice := testutil.CreateUser(t, api.db, "alice")
	bob := testutil.CreateUser(t, api.db, "bob")
	tok := tokenFor(t, alice.ID, models.RoleUser)
	path := "/api/users/" + itoa(bob.ID) + "/follow"

	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, path, tok, nil, nil))

	var body followResponse
	require.Equal(t, http.StatusOK, api.do(t, http.MethodDelete, path, tok, nil, &body))
	assert.False(t, body.Following)
	assert.Equal(t, models.FollowCounts{}, body.Counts)

	var errBody models.ErrorResponse
	assert.Equal(t, http.StatusUnprocessableEntity, api.do(t, http.MethodDelete, path, tok, nil, &errBody))
	assert.Equal(t, "not_following", errBody.Kind)
}

func TestFollowListsAndStatus(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	star := testutil.CreateUser(t, api.db, "star")
	fanA := testutil.CreateUser(t, api.db, "fan_a")
	fanB := testutil.CreateUser(t, api.db, "fan_b")
	starPath := "/api/users/" + itoa(star.ID)

	for _, fan := range []*models.User{fanA, fanB} {
		require.Equal(t, http.StatusCreated,
			api.do(t, http.MethodPost, starPath+"/follow", tokenFor(t, fan.ID, models.RoleUser), nil, nil))
	}
	// star follows fan_a back
	require.Equal(t, http.StatusCreated,
		api.do(t, http.MethodPost, "/api/users/"+itoa(fanA.ID)+"/follow", tokenFor(t, star.ID, models.RoleUser), nil, nil))

	t.Run("followers paginated", func(t *testing.T) {
		var list models.FollowList
		require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, starPath+"/followers?page=1&limit=1", "", nil, &list))
		assert.Len(t, list.Users, 1)
		assert.Equal(t, int64(2), list.Pagination.Total)
		assert.Equal(t, 2, list.Pagination.TotalPages)
	})

	t.Run("followers search", func(t *testing.T) {
		var list models.FollowList
		require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, starPath+"/followers?search=FAN_B", "", nil, &list))
		require.Len(t, list.Users, 1)
		assert.Equal(t, fanB.ID, list.Users[0].ID)
	})

	t.Run("following", func(t *testing.T) {
		var list models.FollowList
		require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, starPath+"/following", "", nil, &list))
		require.Len(t, list.Users, 1)
		assert.Equal(t, fanA.ID, list.Users[0].ID)
	})

	t.Run("status", func(t *testing.T) {
		var status map[string]bool
		path := "/api/users/" + itoa(fanA.ID) + "/follow-status"
		require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, path, tokenFor(t, star.ID, models.RoleUser), nil, &status))
		assert.True(t, status["is_following"])
		assert.True(t, status["is_followed_by"])
	})

	t.Run("mutual", func(t *testing.T) {
		var body struct {
			Users []models.PublicProfile `json:"users"`
		}
		path := "/api/users/" + itoa(fanB.ID) + "/mutual"
		require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, path, tokenFor(t, fanA.ID, models.RoleUser), nil, &body))
		require.Len(t, body.Users, 1)
		assert.Equal(t, star.ID, body.Users[0].ID)
	})

	t.Run("stats", func(t *testing.T) {
		var stats models.FollowStats
		require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, starPath+"/stats", "", nil, &stats))
		assert.Equal(t, int64(2), stats.Followers)
		assert.Equal(t, int64(1), stats.Following)
	})

	t.Run("unknown user", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/users/9999/followers", "", nil, nil))
	})
}
