package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/mindsync/internal/config"
	"github.com/localnerve/mindsync/internal/database"
	"github.com/localnerve/mindsync/internal/routes"
	"github.com/localnerve/mindsync/internal/services"
	"github.com/localnerve/mindsync/internal/sessionstore"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/localnerve/mindsync/docs/api" // Swagger docs
)

// @title MindSync API
// @version 1.0.0
// @description Student productivity service: courses, terms, tasks, study sessions, goals and statistics
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/mindsync
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:5000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name sessionId

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.UsesDefaultSecret() {
		log.Println("WARNING: SESSION_SECRET is not set, using the built-in default")
	}

	// Storage
	store, db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	// Session storage
	var sessionStorage fiber.Storage
	var pruner services.SessionPruner
	switch cfg.SessionStore {
	case "database":
		gormStorage := sessionstore.NewGormStorage(db)
		sessionStorage, pruner = gormStorage, gormStorage
	case "redis":
		redisStorage, err := sessionstore.NewRedisStorage(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisStorage.Close()
		sessionStorage = redisStorage
	default:
		log.Println("Sessions are kept in memory and are lost on restart")
	}

	// Background jobs
	if cfg.SchedulerEnabled {
		scheduler := services.NewScheduler(store, cfg.Location)
		if err := scheduler.Register(pruner); err != nil {
			log.Fatalf("Failed to schedule jobs: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	app := routes.New(routes.Options{
		Config:         cfg,
		Store:          store,
		SessionStorage: sessionStorage,
		Registry:       prometheus.DefaultRegisterer.(*prometheus.Registry),
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}
