// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"log"
	"time"

	_ "scribe/docs" // swagger docs
	"scribe/internal/cache"
	"scribe/internal/config"
	"scribe/internal/database"
	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/render"
	"scribe/internal/repository"
	"scribe/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	responses      cache.ResponseStore
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	tagRepo        repository.TagRepository
	postService    *service.PostService
	userService    *service.UserService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// It registers the Prometheus collectors, so call it once per process; tests
// use newServer instead.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	s := newServer(cfg, db, redisClient)
	s.promMiddleware = middleware.InitMetrics("scribe-api")
	return s, nil
}

func newServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	s := &Server{
		config:    cfg,
		db:        db,
		redis:     redisClient,
		responses: cache.NewRedisResponseStore(redisClient),
		userRepo:  repository.NewUserRepository(db),
		postRepo:  repository.NewPostRepository(db),
		tagRepo:   repository.NewTagRepository(db),
	}
	s.postService = service.NewPostService(s.postRepo, s.tagRepo, render.NewHTMLRenderer())
	s.userService = service.NewUserService(s.userRepo)
	return s
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(app, s.promMiddleware, "/metrics"))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    middleware.CacheHeader + ", X-Trace-ID",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
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

// anonCache caches the wrapped GET route for anonymous callers only.
func (s *Server) anonCache(route string) fiber.Handler {
	return middleware.CacheIfAnonymous(middleware.AnonCacheConfig{
		Store: s.responses,
		TTL:   s.config.ListCacheTTL(),
		Route: route,
		IsAuthenticated: func(c *fiber.Ctx) bool {
			_, ok := s.optionalUserID(c)
			return ok
		},
	})
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Home)

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Scribe Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	// /fragment must precede /:id
	posts := api.Group("/posts")
	posts.Get("/", s.anonCache("/api/posts"), s.GetPosts)
	posts.Get("/fragment", s.anonCache("/api/posts/fragment"), s.GetPostsFragment)
	posts.Get("/:id", s.anonCache("/api/posts/:id"), s.GetPost)
	posts.Post("/", s.AuthRequired(), middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Put("/:id", s.AuthRequired(), s.UpdatePost)
	posts.Delete("/:id", s.AuthRequired(), s.DeletePost)

	tags := api.Group("/tags")
	tags.Get("/", s.GetTags)
	tags.Get("/:slug/posts", s.GetTagPosts)

	users := api.Group("/users", s.AuthRequired())
	users.Get("/me", s.GetMyProfile)
	users.Get("/me/posts", s.GetMyPosts)
	users.Put("/me/password", middleware.RateLimit(s.redis, 5, 10*time.Minute, "change_password"), s.ChangePassword)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional: the
// service runs without the response cache when it is missing.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.db == nil || database.Ping(ctx, s.db) != nil {
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
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// NewApp builds the Fiber app with the shared error handler.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   "Scribe API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app := NewApp()
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				log.Printf("error closing sql DB: %v", cerr)
			}
		}
	}
	if replica := database.GetReadDB(); replica != nil {
		if sqlDB, err := replica.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
