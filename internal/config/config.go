// Package config loads server configuration from STEELQUOTE_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the HTTP server.
type Config struct {
	Server ServerConfig
	Quote  QuoteConfig
	Cache  CacheConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	AllowedOrigins  []string
	Redact          bool // mask contact details in echoed requirements text
}

// QuoteConfig selects the rate card used when a request names none.
type QuoteConfig struct {
	RateCard string
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Backend       string // "memory", "redis" or "none"
	TTL           time.Duration
	RedisAddress  string
	RedisPassword string
	RedisDB       int
}

// LogConfig holds structured logging configuration
type LogConfig struct {
	Level string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("STEELQUOTE_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("STEELQUOTE_PORT", 8080),
			RequestTimeout:  getEnvAsDuration("STEELQUOTE_REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("STEELQUOTE_SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxBodyBytes:    int64(getEnvAsInt("STEELQUOTE_MAX_BODY_BYTES", 10<<20)),
			AllowedOrigins:  getEnvAsList("STEELQUOTE_ALLOWED_ORIGINS", []string{"*"}),
			Redact:          getEnvAsBool("STEELQUOTE_REDACT", true),
		},
		Quote: QuoteConfig{
			RateCard: getEnv("STEELQUOTE_RATE_CARD", "standard"),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(getEnv("STEELQUOTE_CACHE", "memory")),
			TTL:           getEnvAsDuration("STEELQUOTE_CACHE_TTL", 15*time.Minute),
			RedisAddress:  getEnv("STEELQUOTE_REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("STEELQUOTE_REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("STEELQUOTE_REDIS_DB", 0),
		},
		Log: LogConfig{
			Level: strings.ToLower(getEnv("STEELQUOTE_LOG_LEVEL", "info")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive: %s", c.Server.RequestTimeout)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive: %d", c.Server.MaxBodyBytes)
	}

	switch c.Cache.Backend {
	case "memory", "none":
	case "redis":
		if c.Cache.RedisAddress == "" {
			return fmt.Errorf("redis address is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.Log.Level)
	}

	if c.Quote.RateCard == "" {
		return fmt.Errorf("rate card is required")
	}

	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
