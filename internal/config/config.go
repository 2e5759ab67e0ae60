package config

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port       string
	CORSOrigin string
	Location   *time.Location

	// Database configuration
	DBType            string // memory, sqlite, sqlite-pure, mysql, postgres, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBLogLevel        string

	// Session configuration
	SessionSecret string
	SessionStore  string // database, redis, memory
	SessionTTL    time.Duration
	CookieSecure  bool
	RedisAddr     string

	// Scheduler configuration
	SchedulerEnabled bool
}

// DefaultSessionSecret is used when SESSION_SECRET is not set
const DefaultSessionSecret = "change-this-to-a-secure-random-secret"

// Load loads configuration from environment variables.
// If ENV_FILE is set, that file is loaded into the environment first.
func Load() (*Config, error) {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	loc, err := time.LoadLocation(getEnv("TZ", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TZ: %w", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "5000"),
		CORSOrigin:        getEnv("CORS_ORIGIN", "http://localhost:3000"),
		Location:          loc,
		DBType:            strings.ToLower(getEnv("DB_TYPE", "postgres")),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBDatabase:        getEnv("DB_DATABASE", "mindsync"),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 10),
		DBLogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		SessionSecret:     getEnv("SESSION_SECRET", DefaultSessionSecret),
		SessionStore:      strings.ToLower(getEnv("SESSION_STORE", "database")),
		SessionTTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		CookieSecure:      getEnvAsBool("COOKIE_SECURE", false),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		SchedulerEnabled:  getEnvAsBool("SCHEDULER_ENABLED", true),
	}

	// Validate required fields
	switch cfg.DBType {
	case "memory":
	case "sqlite", "sqlite-pure":
		if cfg.DBDatabase == "" {
			return nil, fmt.Errorf("DB_DATABASE is required")
		}
	case "mysql", "mariadb", "postgres", "postgresql", "sqlserver", "mssql":
		if cfg.DBDatabase == "" {
			return nil, fmt.Errorf("DB_DATABASE is required")
		}
		if cfg.DBUser == "" {
			return nil, fmt.Errorf("DB_USER is required")
		}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}

	switch cfg.SessionStore {
	case "database", "memory":
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=redis")
		}
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.SessionStore)
	}

	if cfg.SessionStore == "database" && cfg.DBType == "memory" {
		// No SQL connection exists to hold the sessions table
		cfg.SessionStore = "memory"
	}

	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}

	return cfg, nil
}

// UsesDefaultSecret reports whether the insecure fallback session secret is in effect
func (c *Config) UsesDefaultSecret() bool {
	return c.SessionSecret == DefaultSessionSecret
}

// CookieKey derives the base64 AES-256 key that encrypts the session cookie from SessionSecret
func (c *Config) CookieKey() string {
	sum := sha256.Sum256([]byte(c.SessionSecret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a time.Duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
