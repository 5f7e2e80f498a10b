package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend:8000")
	t.Setenv("POLL_INTERVAL", "500ms")
	t.Setenv("LIST_CACHE_TTL", "5m")
	t.Setenv("RATE_LIMIT_API", "20/min")
	t.Setenv("PHONE_REGION", "BE")
	t.Setenv("USE_ID_TOKEN", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "http://backend:8000" {
		t.Fatalf("unexpected api base url: %s", cfg.APIBaseURL)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Fatalf("expected poll interval 500ms, got %s", cfg.PollInterval)
	}
	if cfg.ListCacheTTL != 5*time.Minute {
		t.Fatalf("expected list cache ttl 5m, got %s", cfg.ListCacheTTL)
	}
	if cfg.RateLimitAPI.Requests != 20 || cfg.RateLimitAPI.Interval != time.Minute {
		t.Fatalf("unexpected rate limit config: %+v", cfg.RateLimitAPI)
	}
	if cfg.PhoneRegion != "BE" || !cfg.UseIDToken {
		t.Fatalf("unexpected config values: %+v", cfg)
	}

	// invalid rate limit should error
	os.Unsetenv("RATE_LIMIT_API")
	t.Setenv("RATE_LIMIT_API", "xyz")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid rate limit")
	}
}

func TestDefaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "POLL_INTERVAL", "LIST_CACHE_TTL", "RATE_LIMIT_API", "PHONE_REGION", "USE_ID_TOKEN"} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Fatalf("expected default poll interval 2s, got %s", cfg.PollInterval)
	}
	if cfg.ListCacheTTL != 2*time.Minute {
		t.Fatalf("expected default list cache ttl 2m, got %s", cfg.ListCacheTTL)
	}
	if cfg.PhoneRegion != "NL" {
		t.Fatalf("expected default phone region NL, got %s", cfg.PhoneRegion)
	}
	if cfg.UseIDToken {
		t.Fatalf("expected id token disabled by default")
	}
}

func TestParseRateLimit(t *testing.T) {
	cfg, err := parseRateLimit("5/sec")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Requests != 5 || cfg.Interval != time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if _, err := parseRateLimit("bad-format"); err == nil {
		t.Fatalf("expected error for malformed value")
	}
	if _, err := parseRateLimit("0/min"); err == nil {
		t.Fatalf("expected error for zero requests")
	}
	if _, err := parseRateLimit("5/day"); err == nil {
		t.Fatalf("expected error for unsupported unit")
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("FOO")
	if val := getEnv("FOO", "fallback"); val != "fallback" {
		t.Fatalf("expected fallback, got %s", val)
	}
	t.Setenv("FOO", "value")
	if val := getEnv("FOO", "fallback"); val != "value" {
		t.Fatalf("expected env value, got %s", val)
	}
}

func TestParseDuration(t *testing.T) {
	if parseDuration("3h", time.Second) != 3*time.Hour {
		t.Fatalf("expected 3h duration")
	}
	if parseDuration("invalid", 15*time.Second) != 15*time.Second {
		t.Fatalf("expected fallback duration")
	}
}
