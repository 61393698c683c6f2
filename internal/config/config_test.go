package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_NAME", "NASA_TIMEOUT", "NASA_CACHE_TTL", "REDIS_ENABLED", "JWT_ACCESS_TTL", "DEBUG"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.App.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.App.Port)
	}
	if cfg.DB.DBName != "nasa_db" {
		t.Errorf("expected default db name nasa_db, got %s", cfg.DB.DBName)
	}
	if cfg.NASA.Timeout != 30*time.Second {
		t.Errorf("expected 30s feed timeout, got %v", cfg.NASA.Timeout)
	}
	if cfg.NASA.CacheTTL != 0 {
		t.Errorf("expected feed cache disabled by default, got %v", cfg.NASA.CacheTTL)
	}
	if cfg.Redis.Enabled {
		t.Error("expected redis disabled by default")
	}
	if cfg.Auth.AccessTTL != time.Hour {
		t.Errorf("expected 60m access token lifetime, got %v", cfg.Auth.AccessTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("NASA_TIMEOUT", "10s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")

	cfg := Load()

	if cfg.App.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.App.Port)
	}
	if !cfg.App.Debug {
		t.Error("expected debug mode")
	}
	if cfg.NASA.Timeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.NASA.Timeout)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("expected redis db 3, got %d", cfg.Redis.DB)
	}
	// Invalid numbers fall back to the default
	if cfg.RateLimit.Burst != 20 {
		t.Errorf("expected burst fallback 20, got %d", cfg.RateLimit.Burst)
	}
}

func TestJWTSecret(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		debug      string
		wantSecret string
		wantErr    error
	}{
		{name: "unset in production", secret: "", debug: "false", wantSecret: "", wantErr: ErrMissingJWTSecret},
		{name: "unset in debug", secret: "", debug: "true", wantSecret: debugJWTSecret},
		{name: "explicit secret", secret: "s3cr3t", debug: "false", wantSecret: "s3cr3t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("DEBUG", tt.debug)

			cfg := Load()

			if cfg.Auth.Secret != tt.wantSecret {
				t.Errorf("expected secret %q, got %q", tt.wantSecret, cfg.Auth.Secret)
			}
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected validate error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
