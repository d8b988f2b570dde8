package server

import (
	"reelhub/internal/featureflags"
	"reelhub/internal/middleware"
	"reelhub/internal/models"
	"reelhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetPublicFeed handles GET /api/feed/public?page=&limit=&hashtag=
// @Summary Public feed
// @Description Newest public posts, optionally restricted to one hashtag
// @Tags feed
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param hashtag query string false "Hashtag filter, with or without #"
// @Success 200 {object} models.Feed
// @Failure 400 {object} object{error=string}
// @Router /feed/public [get]
func (s *Server) GetPublicFeed(c *fiber.Ctx) error {
	p := parsePage(c)
	hashtag := c.Query("hashtag")
	if hashtag != "" {
		if err := validation.ValidateHashtag(hashtag); err != nil {
			return respondError(c, models.NewValidationError(err.Error()))
		}
	}

	feed, err := s.feedService.PublicFeed(c.UserContext(), middleware.UserID(c), p.Page, p.Limit, hashtag)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}

// GetFollowingFeed handles GET /api/feed/following?page=&limit=
// @Summary Following feed
// @Description Newest posts from accounts the caller follows
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.Feed
// @Failure 401 {object} object{error=string}
// @Router /feed/following [get]
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	p := parsePage(c)
	feed, err := s.feedService.FollowingFeed(c.UserContext(), middleware.UserID(c), p.Page, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}

// GetForYouFeed handles GET /api/feed/for-you?page=&limit=
// Viewers outside the for_you_feed rollout get the public feed. Score
// breakdowns are included only while the score_breakdown flag is on.
// @Summary For-you feed
// @Description Ranked feed personalised for the caller; anonymous viewers get a popularity ranking
// @Tags feed
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.Feed
// @Failure 400 {object} object{error=string}
// @Router /feed/for-you [get]
func (s *Server) GetForYouFeed(c *fiber.Ctx) error {
	viewer := middleware.UserID(c)
	p := parsePage(c)
	if !s.flagEnabled(featureflags.ForYouFeed, viewer) {
		feed, err := s.feedService.PublicFeed(c.UserContext(), viewer, p.Page, p.Limit, "")
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(feed)
	}

	feed, err := s.feedService.ForYouFeed(c.UserContext(), viewer, p.Page, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	if !s.flagEnabled(featureflags.ScoreBreakdown, viewer) {
		for i := range feed.Posts {
			feed.Posts[i].Score = nil
		}
	}
	return c.JSON(feed)
}

func (s *Server) flagEnabled(name string, userID uint) bool {
	if s.featureFlags == nil {
		return true
	}
	return s.featureFlags.Enabled(name, userID)
}

// GetUserPosts handles GET /api/users/:id/posts?page=&limit=
// @Summary List user posts
// @Description Posts authored by a user, newest first
// @Tags posts
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.Feed
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /users/{id}/posts [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePage(c)

	feed, err := s.feedService.UserPosts(c.UserContext(), userID, middleware.UserID(c), p.Page, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}

// GetPost handles GET /api/posts/:id
// @Summary Get post
// @Description Single post with the caller's like state
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostView
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	view, err := s.feedService.GetPost(c.UserContext(), postID, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// ToggleLike handles POST /api/posts/:id/like
// @Summary Toggle like
// @Description Like the post, or remove the caller's like if present
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.LikeResult
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /posts/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.feedService.ToggleLike(c.UserContext(), postID, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// SharePost handles POST /api/posts/:id/share
// @Summary Share post
// @Description Record a share and return the new share count
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{shares_count=int}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /posts/{id}/share [post]
func (s *Server) SharePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	shares, err := s.feedService.Share(c.UserContext(), postID, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"shares_count": shares})
}
