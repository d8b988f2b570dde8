package server

import (
	"reelhub/internal/middleware"
	"reelhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/:id/follow
// @Summary Follow a user
// @Description Follow the user and return both accounts' updated counters
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 201 {object} object{following=bool,counts=models.FollowCounts}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Failure 429 {object} object{error=string}
// @Router /users/{id}/follow [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	counts, err := s.followService.Follow(c.UserContext(), middleware.UserID(c), targetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"following": true,
		"counts":    counts,
	})
}

// UnfollowUser handles DELETE /api/users/:id/follow
// @Summary Unfollow a user
// @Description Remove an existing follow edge
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{following=bool,counts=models.FollowCounts}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Failure 429 {object} object{error=string}
// @Router /users/{id}/follow [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	counts, err := s.followService.Unfollow(c.UserContext(), middleware.UserID(c), targetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"following": false,
		"counts":    counts,
	})
}

// GetFollowers handles GET /api/users/:id/followers?page=&limit=&search=
// @Summary List followers
// @Description Paginated followers of a user, optionally filtered by username or display name
// @Tags follows
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Username or display name filter"
// @Success 200 {object} models.FollowList
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /users/{id}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	list, err := s.followService.ListFollowers(c.UserContext(), userID, followListOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetFollowing handles GET /api/users/:id/following?page=&limit=&search=
// @Summary List following
// @Description Paginated accounts a user follows, optionally filtered by username or display name
// @Tags follows
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Username or display name filter"
// @Success 200 {object} models.FollowList
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /users/{id}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	list, err := s.followService.ListFollowing(c.UserContext(), userID, followListOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func followListOptions(c *fiber.Ctx) service.FollowListOptions {
	p := parsePage(c)
	return service.FollowListOptions{
		Page:   p.Page,
		Limit:  p.Limit,
		Search: c.Query("search"),
		Viewer: middleware.UserID(c),
	}
}

// GetMutualFollows handles GET /api/users/:id/mutual?limit=
// It lists accounts both the caller and :id follow.
// @Summary List mutual follows
// @Description Accounts followed by both the caller and the given user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param limit query int false "Maximum results"
// @Success 200 {object} object{users=[]models.PublicProfile}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /users/{id}/mutual [get]
func (s *Server) GetMutualFollows(c *fiber.Ctx) error {
	otherID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.followService.MutualFollows(c.UserContext(), middleware.UserID(c), otherID, c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// GetFollowStatus handles GET /api/users/:id/follow-status
// @Summary Get follow status
// @Description Whether the caller follows the user and whether the user follows back
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{is_following=bool,is_followed_by=bool}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /users/{id}/follow-status [get]
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	otherID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	me := middleware.UserID(c)

	following, err := s.followService.IsFollowing(c.UserContext(), me, otherID)
	if err != nil {
		return respondError(c, err)
	}
	followedBy, err := s.followService.IsFollowing(c.UserContext(), otherID, me)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"is_following":   following,
		"is_followed_by": followedBy,
	})
}

// GetFollowStats handles GET /api/users/:id/stats
// @Summary Get follow stats
// @Description Follower and following counters for a user
// @Tags follows
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.FollowStats
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /users/{id}/stats [get]
func (s *Server) GetFollowStats(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	stats, err := s.followService.FollowStats(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
