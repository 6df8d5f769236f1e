// Package config loads the tasks-api settings from the environment.
package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment names the deployment stage the server runs in.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Preview     Environment = "preview"
)

// Config holds every setting of the server process.
type Config struct {
	Environment     Environment
	Port            int
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	Database        DatabaseConfig
	Cache           CacheConfig
}

// DatabaseConfig selects and configures the task store driver.
type DatabaseConfig struct {
	Driver string // "sqlite" or "postgres"
	Path   string // sqlite file path
	DSN    string // postgres connection string
	Debug  bool
}

// CacheConfig configures the optional Redis list cache.
type CacheConfig struct {
	RedisAddr string
	Prefix    string
	TTL       time.Duration
}

// Enabled reports whether a Redis address was configured.
func (c CacheConfig) Enabled() bool {
	return c.RedisAddr != ""
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Environment:     Environment(getEnv("ENVIRONMENT", string(Development))),
		Port:            getEnvInt("PORT", 4000),
		CORSOrigins:     ParseOrigins(os.Getenv("CORS_ORIGINS")),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			Path:   getEnv("DB_PATH", "tasks.db"),
			DSN:    os.Getenv("DB_DSN"),
			Debug:  getEnvBool("DB_DEBUG", false),
		},
		Cache: CacheConfig{
			RedisAddr: os.Getenv("REDIS_ADDR"),
			Prefix:    getEnv("CACHE_PREFIX", "tasks:"),
			TTL:       getEnvDuration("CACHE_TTL", time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Environment {
	case Development, Production, Preview:
	default:
		return fmt.Errorf("invalid ENVIRONMENT %q: must be one of development, production, preview", c.Environment)
	}

	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required when DB_DRIVER is postgres")
		}
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: must be sqlite or postgres", c.Database.Driver)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}

	for _, origin := range c.CORSOrigins {
		if origin == "*" && len(c.CORSOrigins) == 1 {
			continue
		}
		if err := validateOrigin(origin); err != nil {
			return fmt.Errorf("invalid CORS_ORIGINS entry %q: %w", origin, err)
		}
	}
	return nil
}

// validateOrigin accepts scheme://host[:port], optionally with a "*."
// subdomain wildcard, which is what the CORS middleware can match.
func validateOrigin(origin string) error {
	if i := strings.Index(origin, "://*."); i != -1 {
		origin = origin[:i+3] + origin[i+5:]
	}

	u, err := url.Parse(origin)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("must not carry a path, query or fragment")
	}
	return nil
}

// IsProduction reports whether the server runs in production.
func (c Config) IsProduction() bool {
	return c.Environment == Production
}

// AllowedOrigins resolves the CORS allow-list. An empty configured list
// permits every origin ("*") outside production and none in production,
// reported by ok=false.
func (c Config) AllowedOrigins() (origins string, ok bool) {
	if len(c.CORSOrigins) > 0 {
		return strings.Join(c.CORSOrigins, ","), true
	}
	if c.IsProduction() {
		return "", false
	}
	return "*", true
}

// ParseOrigins splits a comma-separated origin list, trimming entries and
// dropping empty ones.
func ParseOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// getEnv returns environment variable or default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}
