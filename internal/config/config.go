package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	App struct {
		Port        string
		Debug       bool
		FrontendURL string
	}
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}
	Redis struct {
		Enabled  bool
		Host     string
		Port     string
		Password string
		DB       int
	}
	NASA struct {
		APIKey   string
		NEOURL   string
		Timeout  time.Duration
		CacheTTL time.Duration
	}
	Auth struct {
		Secret     string
		AccessTTL  time.Duration
		RefreshTTL time.Duration
	}
	RateLimit struct {
		RequestsPerSecond int
		Burst             int
	}
}

// ErrMissingJWTSecret is returned by Validate when no signing secret is set
// outside debug mode.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// debugJWTSecret signs tokens only when DEBUG is on and JWT_SECRET is unset.
const debugJWTSecret = "neowatch-debug-only-secret"

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Port = getEnv("PORT", "8000")
	cfg.App.Debug = getEnvAsBool("DEBUG", false)
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

	// DB
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.DBName = getEnv("DB_NAME", "nasa_db")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	// Redis
	cfg.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", false)
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	// NASA NeoWs
	cfg.NASA.APIKey = getEnv("NASA_API_KEY", "DEMO_KEY")
	cfg.NASA.NEOURL = getEnv("NASA_NEO_URL", "https://api.nasa.gov/neo/rest/v1/feed")
	cfg.NASA.Timeout = getEnvAsDuration("NASA_TIMEOUT", 30*time.Second)
	cfg.NASA.CacheTTL = getEnvAsDuration("NASA_CACHE_TTL", 0)

	// Auth
	cfg.Auth.Secret = getEnv("JWT_SECRET", "")
	if cfg.Auth.Secret == "" && cfg.App.Debug {
		cfg.Auth.Secret = debugJWTSecret
	}
	cfg.Auth.AccessTTL = getEnvAsDuration("JWT_ACCESS_TTL", 60*time.Minute)
	cfg.Auth.RefreshTTL = getEnvAsDuration("JWT_REFRESH_TTL", 24*time.Hour)

	// Rate Limit
	cfg.RateLimit.RequestsPerSecond = getEnvAsInt("RATE_LIMIT_RPS", 10)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)

	return cfg
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if dur, err := time.ParseDuration(value); err == nil {
			return dur
		}
	}
	return defaultValue
}
