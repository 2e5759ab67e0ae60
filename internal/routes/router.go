// Package routes assembles the Fiber application.
package routes

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/localnerve/mindsync/internal/config"
	"github.com/localnerve/mindsync/internal/handlers"
	"github.com/localnerve/mindsync/internal/middleware"
	"github.com/localnerve/mindsync/internal/services"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/localnerve/mindsync/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// SessionCookie is the name of the session cookie
const SessionCookie = "sessionId"

// Options configures New
type Options struct {
	Config *config.Config
	Store  storage.Storage
	// SessionStorage backs the session middleware; nil keeps sessions in memory
	SessionStorage fiber.Storage
	// Registry receives the HTTP metrics; nil uses a fresh registry
	Registry *prometheus.Registry
	// Now is the clock for date windows; nil uses time.Now
	Now func() time.Time
	// Quiet disables the access log
	Quiet bool
}

// New builds the application with every route mounted
func New(opts Options) *fiber.App {
	cfg := opts.Config
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          utils.ErrorHandler,
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	if !opts.Quiet {
		app.Use(logger.New())
	}
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigin,
		AllowCredentials: true,
	}))

	// Prometheus metrics
	prom := fiberprometheus.NewWithRegistry(registry, "mindsync", "", "", nil)
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Session cookies are sealed with the key derived from SESSION_SECRET.
	// A cookie that fails to decrypt is dropped and the request is anonymous.
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: cfg.CookieKey(),
	}))

	sessions := session.New(session.Config{
		Expiration:     cfg.SessionTTL,
		Storage:        opts.SessionStorage,
		KeyLookup:      "cookie:" + SessionCookie,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		KeyGenerator:   uuid.NewString,
	})

	authService := services.NewAuthService(opts.Store)

	authHandler := &handlers.AuthHandler{Auth: authService, Sessions: sessions}
	courseHandler := &handlers.CourseHandler{Store: opts.Store}
	termHandler := &handlers.TermHandler{Store: opts.Store, Now: now}
	taskHandler := &handlers.TaskHandler{Store: opts.Store, Now: now}
	sessionHandler := &handlers.StudySessionHandler{Store: opts.Store, Location: loc, Now: now}
	goalHandler := &handlers.GoalHandler{Store: opts.Store}
	settingsHandler := &handlers.SettingsHandler{Store: opts.Store}
	statsHandler := &handlers.UserStatsHandler{Store: opts.Store}
	dashboardHandler := &handlers.DashboardHandler{Store: opts.Store, Stats: statsHandler, Location: loc, Now: now}
	healthHandler := &handlers.HealthHandler{Config: cfg, Store: opts.Store}
	if pinger, ok := opts.SessionStorage.(services.Pinger); ok {
		healthHandler.Sessions = pinger
	}

	// API routes under /api
	api := app.Group("/api")
	api.Get("/health", healthHandler.Get)

	api.Use(middleware.Identify(sessions, authService.Lookup))

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/session", authHandler.Session)

	// Everything below requires a session
	protected := api.Group("", middleware.RequireAuthenticated())

	protected.Get("/courses", courseHandler.List)
	protected.Post("/courses", courseHandler.Create)
	protected.Get("/courses/:id", courseHandler.Get)
	protected.Put("/courses/:id", courseHandler.Update)
	protected.Delete("/courses/:id", courseHandler.Delete)

	protected.Get("/terms", termHandler.List)
	protected.Get("/terms/active", termHandler.Active)
	protected.Post("/terms", termHandler.Create)
	protected.Get("/terms/:id", termHandler.Get)
	protected.Put("/terms/:id", termHandler.Update)
	protected.Delete("/terms/:id", termHandler.Delete)

	protected.Get("/tasks", taskHandler.List)
	protected.Get("/tasks/upcoming", taskHandler.Upcoming)
	protected.Get("/tasks/type/:type", taskHandler.ByType)
	protected.Get("/tasks/course/:courseId", taskHandler.ByCourse)
	protected.Post("/tasks", taskHandler.Create)
	protected.Get("/tasks/:id", taskHandler.Get)
	protected.Put("/tasks/:id", taskHandler.Update)
	protected.Delete("/tasks/:id", taskHandler.Delete)

	protected.Get("/study-sessions", sessionHandler.List)
	protected.Get("/study-sessions/day", sessionHandler.ForDay)
	protected.Post("/study-sessions", sessionHandler.Create)
	protected.Get("/study-sessions/:id", sessionHandler.Get)
	protected.Put("/study-sessions/:id", sessionHandler.Update)
	protected.Delete("/study-sessions/:id", sessionHandler.Delete)

	protected.Get("/goals", goalHandler.List)
	protected.Post("/goals", goalHandler.Create)
	protected.Get("/goals/:id", goalHandler.Get)
	protected.Put("/goals/:id", goalHandler.Update)
	protected.Delete("/goals/:id", goalHandler.Delete)

	protected.Get("/settings", settingsHandler.Get)
	protected.Put("/settings", settingsHandler.Update)

	protected.Get("/user-stats", statsHandler.Get)
	protected.Put("/user-stats", statsHandler.Update)

	protected.Get("/dashboard", dashboardHandler.Get)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.ErrorResponse(c, "Resource not found", fiber.StatusNotFound)
	})

	return app
}
