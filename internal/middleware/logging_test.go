package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"reelhub/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureRequestLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	prev := Logger
	t.Cleanup(func() { Logger = prev })
	var buf bytes.Buffer
	Logger = slog.New(&ctxHandler{slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})})
	return &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines[len(lines)-1])
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &out))
	return out
}

func TestStructuredLogger(t *testing.T) {
	buf := captureRequestLogs(t, slog.LevelInfo)

	app := fiber.New()
	app.Use(requestid.New(), ContextMiddleware(), StructuredLogger())
	app.Post("/api/users/:id/follow", func(c *fiber.Ctx) error {
		c.Locals("userID", uint(5))
		c.Locals("role", "user")
		return c.SendStatus(fiber.StatusCreated)
	})
	app.Get("/api/posts/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	t.Run("success logs route template and viewer", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/users/9/follow", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		line := lastLine(t, buf)
		assert.Equal(t, "INFO", line["level"])
		assert.Equal(t, "/api/users/:id/follow", line["route"])
		assert.Equal(t, "/api/users/9/follow", line["path"])
		assert.EqualValues(t, 5, line["viewer_id"])
		assert.Equal(t, "user", line["role"])
		assert.NotEmpty(t, line["request_id"])
	})

	t.Run("client errors log at warn", func(t *testing.T) {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/1", nil))
		require.NoError(t, err)

		line := lastLine(t, buf)
		assert.Equal(t, "WARN", line["level"])
		assert.EqualValues(t, http.StatusNotFound, line["status"])
		_, hasViewer := line["viewer_id"]
		assert.False(t, hasViewer)
	})

	t.Run("health checks stay below info", func(t *testing.T) {
		buf.Reset()
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestContextMiddleware_RequestIDIsCorrelationID(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New(), ContextMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(observability.ExtractCorrelationID(c.UserContext()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "req-123", body.String())
}

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { SetLogLevel("info") })

	SetLogLevel("debug")
	assert.Equal(t, slog.LevelDebug, logLevel.Level())
	SetLogLevel("nonsense")
	assert.Equal(t, slog.LevelDebug, logLevel.Level(), "unknown levels are ignored")
	SetLogLevel(" WARN ")
	assert.Equal(t, slog.LevelWarn, logLevel.Level())
}
