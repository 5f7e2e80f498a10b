package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	PollInterval   time.Duration
	ListCacheTTL   time.Duration
	RateLimitAPI   RateLimitConfig
	UseIDToken     bool
	PhoneRegion    string
	LogLevel       string
	LogFormat      string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8000"),
		RequestTimeout: parseDuration(getEnv("REQUEST_TIMEOUT", "15s"), 15*time.Second),
		PollInterval:   parseDuration(getEnv("POLL_INTERVAL", "2s"), 2*time.Second),
		ListCacheTTL:   parseDuration(getEnv("LIST_CACHE_TTL", "2m"), 2*time.Minute),
		UseIDToken:     parseBool(getEnv("USE_ID_TOKEN", "false")),
		PhoneRegion:    getEnv("PHONE_REGION", "NL"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_API", "10/sec"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_API value: %w", err)
	}
	cfg.RateLimitAPI = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}

func parseBool(input string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(input))
	if err != nil {
		return false
	}
	return b
}
