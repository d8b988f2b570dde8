package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"reelhub/internal/config"
	"reelhub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func TestAuthRequired(t *testing.T) {
	// Setup app and config
	app := fiber.New()
	InitMiddleware(&config.Config{JWTSecret: testSecret})

	app.Get("/test", AuthRequired, func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"userID": c.Locals("userID"),
			"role":   c.Locals("role"),
		})
	})

	validToken := func(userID uint, role string, exp time.Duration) string {
		s, err := IssueToken(testSecret, userID, role, exp)
		require.NoError(t, err)
		return s
	}
	foreignIssuer := func() string {
		claims := jwt.MapClaims{
			"sub": strconv.FormatUint(123, 10),
			"iss": "someone-else",
			"aud": TokenAudience,
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		return s
	}

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserID uint
		expectedRole   string
	}{
		{
			name:           "Happy Path",
			authHeader:     "Bearer " + validToken(123, models.RoleUser, time.Hour),
			expectedStatus: http.StatusOK,
			expectedUserID: 123,
			expectedRole:   models.RoleUser,
		},
		{
			name:           "Admin Role Carried",
			authHeader:     "Bearer " + validToken(7, models.RoleAdmin, time.Hour),
			expectedStatus: http.StatusOK,
			expectedUserID: 7,
			expectedRole:   models.RoleAdmin,
		},
		{
			name:           "Missing Header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Format",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Malformed Token",
			authHeader:     "Bearer malformed.token.here",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Token",
			authHeader:     "Bearer " + validToken(123, models.RoleUser, -time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Issuer",
			authHeader:     "Bearer " + foreignIssuer(),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body struct {
					UserID uint   `json:"userID"`
					Role   string `json:"role"`
				}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.expectedUserID, body.UserID)
				assert.Equal(t, tt.expectedRole, body.Role)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	app := fiber.New()
	InitMiddleware(&config.Config{JWTSecret: testSecret})
	app.Get("/feed", OptionalAuth, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": UserID(c)})
	})

	token, err := IssueToken(testSecret, 42, models.RoleUser, time.Hour)
	require.NoError(t, err)

	cases := map[string]struct {
		header string
		want   uint
	}{
		"anonymous":     {"", 0},
		"valid token":   {"Bearer " + token, 42},
		"garbage token": {"Bearer nope", 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/feed", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var body struct {
				UserID uint `json:"userID"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.want, body.UserID)
		})
	}
}

func TestRequireRole(t *testing.T) {
	app := fiber.New()
	InitMiddleware(&config.Config{JWTSecret: testSecret})
	app.Get("/admin", AuthRequired, RequireRole(models.RoleAdmin, models.RoleModerator), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	for role, want := range map[string]int{
		models.RoleUser:      http.StatusForbidden,
		models.RoleModerator: http.StatusNoContent,
		models.RoleAdmin:     http.StatusNoContent,
	} {
		token, err := IssueToken(testSecret, 1, role, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, role)
	}
}
