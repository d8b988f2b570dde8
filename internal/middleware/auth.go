// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"reelhub/internal/config"
	"reelhub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Token issuer and audience accepted by the API.
const (
	TokenIssuer   = "reelhub-api"
	TokenAudience = "reelhub-client"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// Identity is what a verified access token asserts about the caller.
type Identity struct {
	UserID uint
	Role   string
}

var (
	errMissingToken  = errors.New("Authorization required")
	errInvalidFormat = errors.New("Invalid authorization header format")
	errInvalidToken  = errors.New("Invalid or expired token")
	errInvalidClaims = errors.New("Invalid token claims")
)

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errInvalidFormat
	}
	return parts[1], nil
}

// ParseToken validates an HMAC-signed access token and returns its identity.
func ParseToken(secret, tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
	)
	if err != nil || !token.Valid {
		return Identity{}, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errInvalidClaims
	}

	// Subject claim per RFC 7519
	sub, ok := claims["sub"].(string)
	if !ok {
		return Identity{}, errInvalidClaims
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return Identity{}, errInvalidClaims
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = models.RoleUser
	}

	return Identity{UserID: uint(userID), Role: role}, nil
}

// IssueToken signs an access token. Credential exchange lives outside this
// service; the seeder and tests use this to mint tokens.
func IssueToken(secret string, userID uint, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(userID), 10),
		"role": role,
		"iss":  TokenIssuer,
		"aud":  TokenAudience,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func setIdentity(c *fiber.Ctx, id Identity) {
	c.Locals("userID", id.UserID)
	c.Locals("role", id.Role)
	// Sync to UserContext for logging and downstream services
	ctx := context.WithValue(c.UserContext(), UserIDKey, id.UserID)
	c.SetUserContext(ctx)
}

func unauthorized(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(err.Error()))
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	tokenString, err := bearerToken(c.Get("Authorization"))
	if err != nil {
		return unauthorized(c, err)
	}

	id, err := ParseToken(cfg.JWTSecret, tokenString)
	if err != nil {
		return unauthorized(c, err)
	}

	setIdentity(c, id)
	return c.Next()
}

// OptionalAuth attaches the caller's identity when a valid token is present
// and lets anonymous requests through untouched.
func OptionalAuth(c *fiber.Ctx) error {
	tokenString, err := bearerToken(c.Get("Authorization"))
	if err != nil {
		return c.Next()
	}
	if id, err := ParseToken(cfg.JWTSecret, tokenString); err == nil {
		setIdentity(c, id)
	}
	return c.Next()
}

// RequireRole rejects callers whose token role is not one of roles.
// Must be placed after AuthRequired so that role is available in locals.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Moderator access required"))
	}
}

// UserID returns the authenticated user id, or 0 for anonymous requests.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}
