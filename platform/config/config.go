// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DriverPostgres selects the pgx-backed repository.
	DriverPostgres = "postgres"
	// DriverSQLite selects the database/sql SQLite repository.
	DriverSQLite = "sqlite"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseDriver() string
	GetDatabaseURL() string
	GetDatabasePath() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
	IsWriteAuthEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// GeocoderConfig provides settings for the reverse geocoding provider.
type GeocoderConfig interface {
	GetGeocoderProvider() string
	GetGoogleMapsAPIKey() string
	GetGoogleMapsURL() string
	GetNominatimURL() string
	GetGeocoderUserAgent() string
}

// CacheConfig provides settings for the Redis geocode cache.
type CacheConfig interface {
	GetRedisURL() string
	GetGeocodeCacheTTL() time.Duration
	IsCacheEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseDriver   string
	DatabaseURL      string
	DatabasePath     string
	JWTAccessSecret  string
	CORSAllowAll     bool
	CORSOrigins      []string
	RateLimitRPS     float64
	RateLimitBurst   int
	GeocoderProvider string
	GoogleMapsAPIKey string
	GoogleMapsURL    string
	NominatimURL     string
	GeocoderAgent    string
	RedisURL         string
	GeocodeCacheTTL  time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseDriver() string { return c.DatabaseDriver }
func (c *Config) GetDatabaseURL() string    { return c.DatabaseURL }
func (c *Config) GetDatabasePath() string   { return c.DatabasePath }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }
func (c *Config) IsWriteAuthEnabled() bool   { return c.JWTAccessSecret != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// GeocoderConfig implementation
func (c *Config) GetGeocoderProvider() string  { return c.GeocoderProvider }
func (c *Config) GetGoogleMapsAPIKey() string  { return c.GoogleMapsAPIKey }
func (c *Config) GetGoogleMapsURL() string     { return c.GoogleMapsURL }
func (c *Config) GetNominatimURL() string      { return c.NominatimURL }
func (c *Config) GetGeocoderUserAgent() string { return c.GeocoderAgent }

// CacheConfig implementation
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetGeocodeCacheTTL() time.Duration { return c.GeocodeCacheTTL }
func (c *Config) IsCacheEnabled() bool              { return c.RedisURL != "" }

// Load reads configuration from the environment, after loading an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", ""))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "true"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":3000"),
		DatabaseDriver:   strings.ToLower(getEnv("DATABASE_DRIVER", DriverSQLite)),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DatabasePath:     getEnv("DB_PATH", "locations.db"),
		JWTAccessSecret:  getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		RateLimitRPS:     mustFloat(getEnv("RATE_LIMIT_RPS", "10")),
		RateLimitBurst:   mustInt(getEnv("RATE_LIMIT_BURST", "20")),
		GeocoderProvider: strings.ToLower(getEnv("GEOCODER_PROVIDER", "nominatim")),
		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		GoogleMapsURL:    getEnv("GOOGLE_MAPS_URL", "https://maps.googleapis.com"),
		NominatimURL:     getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		GeocoderAgent:    getEnv("GEOCODER_USER_AGENT", "pinmap/1.0"),
		RedisURL:         getEnv("REDIS_URL", ""),
		GeocodeCacheTTL:  mustDuration(getEnv("GEOCODE_CACHE_TTL", "24h")),
	}

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when DATABASE_DRIVER is postgres")
		}
	case DriverSQLite:
		if cfg.DatabasePath == "" {
			return nil, fmt.Errorf("DB_PATH is required when DATABASE_DRIVER is sqlite")
		}
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	if cfg.GeocoderProvider == "google" && cfg.GoogleMapsAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY is required when GEOCODER_PROVIDER is google")
	}
	if !cfg.CORSAllowAll && len(cfg.CORSOrigins) == 0 {
		return nil, fmt.Errorf("CORS_ORIGINS is required when CORS_ALLOW_ALL is false")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
