// Package server contains the HTTP handlers for the social graph, feed and
// moderation API.
package server

import (
	"context"
	"log/slog"
	"time"

	_ "reelhub/docs" // swagger docs
	"reelhub/internal/cache"
	"reelhub/internal/config"
	"reelhub/internal/featureflags"
	"reelhub/internal/middleware"
	"reelhub/internal/models"
	"reelhub/internal/notifications"
	"reelhub/internal/repository"
	"reelhub/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config            *config.Config
	db                *gorm.DB
	redis             *redis.Client
	app               *fiber.App
	promMiddleware    *fiberprometheus.FiberPrometheus
	shutdownCtx       context.Context
	shutdownFn        context.CancelFunc
	notifier          *notifications.Notifier
	featureFlags      *featureflags.Manager
	followService     *service.FollowService
	feedService       *service.FeedService
	moderationService *service.ModerationService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// The bootstrap layer establishes DB and Redis; tests pass SQLite and a nil
// or miniredis client.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	followRepo := repository.NewFollowRepository(db)
	reportRepo := repository.NewReportRepository(db)

	if redisClient != nil {
		cache.SetClient(redisClient)
	}
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:            cfg,
		db:                db,
		redis:             redisClient,
		promMiddleware:    middleware.InitMetrics("reelhub-api"),
		featureFlags:      featureflags.NewManager(cfg.FeatureFlags),
		followService:     service.NewFollowService(followRepo, userRepo),
		feedService:       service.NewFeedService(postRepo, followRepo, userRepo, service.FeedOptionsFromConfig(cfg)),
		moderationService: service.NewModerationService(reportRepo, postRepo, service.ModerationThresholdsFromConfig(cfg)),
	}
	server.moderationService.SetSweepRate(cfg.ModerationSweepRate)
	if unknown := server.featureFlags.Unknown(); len(unknown) > 0 {
		middleware.Logger.Warn("FEATURE_FLAGS names flags the server does not read", slog.Any("flags", unknown))
	}

	// Moderation events fan out over Redis pub/sub when it is available.
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.moderationService.OnAction(server.notifier.ModerationHook)
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	followLimit := middleware.RateLimit(s.redis, s.config.FollowRateLimit, time.Minute, "follow")
	reportLimit := middleware.RateLimit(s.redis, s.config.ReportRateLimit, time.Minute, "report")

	// Follow graph. Specific /:id/:resource routes only; there is no profile CRUD here.
	users := api.Group("/users")
	users.Get("/:id/followers", middleware.OptionalAuth, s.GetFollowers)
	users.Get("/:id/following", middleware.OptionalAuth, s.GetFollowing)
	users.Get("/:id/stats", s.GetFollowStats)
	users.Get("/:id/posts", middleware.OptionalAuth, s.GetUserPosts)
	users.Get("/:id/mutual", middleware.AuthRequired, s.GetMutualFollows)
	users.Get("/:id/follow-status", middleware.AuthRequired, s.GetFollowStatus)
	users.Post("/:id/follow", middleware.AuthRequired, followLimit, s.FollowUser)
	users.Delete("/:id/follow", middleware.AuthRequired, followLimit, s.UnfollowUser)

	// Feeds
	feed := api.Group("/feed")
	feed.Get("/public", middleware.OptionalAuth, s.GetPublicFeed)
	feed.Get("/following", middleware.AuthRequired, s.GetFollowingFeed)
	feed.Get("/for-you", middleware.OptionalAuth, s.GetForYouFeed)

	// Posts
	posts := api.Group("/posts")
	posts.Post("/:id/like", middleware.AuthRequired, s.ToggleLike)
	posts.Post("/:id/share", middleware.OptionalAuth, s.SharePost)
	posts.Post("/:id/report", middleware.AuthRequired, reportLimit, s.CreateReport)
	posts.Get("/:id/report-status", middleware.AuthRequired, s.GetReportStatus)
	posts.Get("/:id", middleware.OptionalAuth, s.GetPost)

	api.Get("/reports/reasons", s.GetReportReasons)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthRequired, middleware.RequireRole(models.RoleModerator, models.RoleAdmin))
	admin.Get("/reports", s.ListReports)
	admin.Patch("/reports/:id", s.UpdateReportStatus)
	admin.Get("/posts/:id/reports", s.GetPostReports)
	admin.Post("/moderation/sweep", s.RunModerationSweep)
	admin.Get("/feature-flags", s.GetFeatureFlags)
}

// LivenessCheck reports that the process is up
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the database and Redis are reachable. Redis is optional: the
// feed cache and rate limits fail open without it.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus != "healthy" {
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// App builds the Fiber app with middleware and routes installed.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "ReelHub API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, fe)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "Unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.App()

	if s.notifier != nil {
		go func() {
			err := s.notifier.SubscribeModeration(s.shutdownCtx, func(ev models.ModerationEvent) {
				middleware.Logger.Info("Moderation event",
					slog.Uint64("post_id", uint64(ev.PostID)),
					slog.String("action", string(ev.Action)),
					slog.String("source", ev.Source),
				)
			})
			if err != nil {
				middleware.Logger.Error("Failed to subscribe to moderation events", slog.String("error", err.Error()))
			}
		}()
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
