package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// MongoDB
	MongoURI     string
	MongoDB      string
	MongoTimeout time.Duration

	// Redis (rate limiting; leave RedisAddr empty to disable)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret string
	TokenTTL  time.Duration

	// CORS
	CORSAllowedOrigins string // comma-separated

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "task-manager-api"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "3000"),
		GinMode: getenv("GIN_MODE", "release"),

		MongoURI:     getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:      getenv("MONGODB_DATABASE", "taskmanager"),
		MongoTimeout: getdur("MONGODB_TIMEOUT", 10*time.Second),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		JWTSecret: getenv("JWT_SECRET", "devsecret"),
		TokenTTL:  getdur("JWT_TTL", 24*time.Hour),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),
	}
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
