package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"reelhub/internal/config"
	"reelhub/internal/middleware"
	"reelhub/internal/models"
	"reelhub/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-that-is-long-enough-for-hs256"

func TestMain(m *testing.M) {
	// Per-route Redis limits are skipped outside production-like envs.
	_ = os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

type testAPI struct {
	srv *Server
	app *fiber.App
	db  *gorm.DB
}

func testConfig() *config.Config {
	return &config.Config{
		Env:            "test",
		Port:           "0",
		JWTSecret:      testJWTSecret,
		AllowedOrigins: "http://localhost:5173",
	}
}

func newTestAPI(t *testing.T, cfg *config.Config, rdb *redis.Client) *testAPI {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	db := testutil.NewTestDB(t)
	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)
	return &testAPI{srv: srv, app: srv.App(), db: db}
}

func tokenFor(t *testing.T, userID uint, role string) string {
	t.Helper()
	tok, err := middleware.IssueToken(testJWTSecret, userID, role, time.Hour)
	require.NoError(t, err)
	return tok
}

// do sends a request and decodes a JSON response body into out when non-nil.
func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out), "%s %s", method, path)
	}
	return resp.StatusCode
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		api := newTestAPI(t, nil, nil)
		var body map[string]interface{}
		assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/health/live", "", nil, &body))
		assert.Equal(t, "up", body["status"])
	})

	t.Run("redis missing is degraded", func(t *testing.T) {
		api := newTestAPI(t, nil, nil)
		var body map[string]interface{}
		assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/health/ready", "", nil, &body))
		assert.Equal(t, "degraded", body["status"])
		checks := body["checks"].(map[string]interface{})
		assert.Equal(t, "healthy", checks["database"])
		assert.Equal(t, "unavailable", checks["redis"])
	})

	t.Run("redis reachable is healthy", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		api := newTestAPI(t, nil, rdb)
		var body map[string]interface{}
		assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/health", "", nil, &body))
		assert.Equal(t, "healthy", body["status"])
	})
}

func TestSwaggerDocs(t *testing.T) {
	api := newTestAPI(t, nil, nil)

	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/swagger/doc.json", "", nil, &doc))
	assert.Equal(t, "/api", doc.BasePath)
	for _, route := range []string{"/feed/for-you", "/users/{id}/follow", "/posts/{id}/report", "/admin/moderation/sweep"} {
		assert.Contains(t, doc.Paths, route)
	}
}

func TestAuthRequiredRoutes(t *testing.T) {
	api := newTestAPI(t, nil, nil)

	var errBody models.ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/api/feed/following", "", nil, &errBody))
	assert.Equal(t, models.CodeUnauthorized, errBody.Code)

	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodPost, "/api/users/1/follow", "not-a-jwt", nil, nil))
}

func TestAdminRoutesRequireModerator(t *testing.T) {
	api := newTestAPI(t, nil, nil)
	user := testutil.CreateUser(t, api.db, "plain")

	var errBody models.ErrorResponse
	status := api.do(t, http.MethodGet, "/api/admin/reports", tokenFor(t, user.ID, models.RoleUser), nil, &errBody)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, models.CodeForbidden, errBody.Code)

	var flags map[string]interface{}
	status = api.do(t, http.MethodGet, "/api/admin/feature-flags", tokenFor(t, user.ID, models.RoleAdmin), nil, &flags)
	assert.Equal(t, http.StatusOK, status)
	evaluated := flags["evaluated"].(map[string]interface{})
	assert.Equal(t, true, evaluated["for_you_feed"])
	assert.Len(t, flags["definitions"], 2)
	assert.Empty(t, flags["unknown"])
}
