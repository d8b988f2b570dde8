package server

import (
	"reelhub/internal/featureflags"
	"reelhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags returns the feed flags the server reads, their configured
// values and how they evaluate for the calling moderator.
// @Summary Get feature flags
// @Description Flag definitions, configured values and their evaluation for the caller
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{definitions=[]featureflags.Definition,raw=map[string]string,evaluated=map[string]bool,unknown=[]string}
// @Failure 401 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"definitions": featureflags.Definitions(),
			"raw":         map[string]string{},
			"evaluated":   map[string]bool{},
			"unknown":     []string{},
		})
	}

	unknown := s.featureFlags.Unknown()
	if unknown == nil {
		unknown = []string{}
	}
	return c.JSON(fiber.Map{
		"definitions": featureflags.Definitions(),
		"raw":         s.featureFlags.Raw(),
		"evaluated":   s.featureFlags.Snapshot(userID),
		"unknown":     unknown,
	})
}
