package config

import (
	"os"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/waxlog")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("expected development, got %q", cfg.AppEnv)
	}
	if cfg.AppPort != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.AppPort)
	}
	if cfg.SessionTTL != 168*time.Hour {
		t.Errorf("expected 7 day session TTL, got %v", cfg.SessionTTL)
	}
	if cfg.SessionTouchAfter != 24*time.Hour {
		t.Errorf("expected 24h touch window, got %v", cfg.SessionTouchAfter)
	}
	if cfg.SessionCookieName != "wax_session" {
		t.Errorf("unexpected cookie name %q", cfg.SessionCookieName)
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("default env should be development")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	// t.Setenv registered the restore; drop the variable for this test.
	os.Unsetenv("REDIS_URL")

	if _, err := Load(); err == nil {
		t.Error("expected an error for missing REDIS_URL")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("expected production mode")
	}
	if cfg.AppPort != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.AppPort)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.SessionTTL)
	}
}
