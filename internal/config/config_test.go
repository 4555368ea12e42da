package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/caloria_test")
	t.Setenv("JWT_SECRET", "test-secret-0123456789abcdef")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.JWT.AccessTTL != 15*time.Minute {
		t.Errorf("Expected default access TTL 15m, got %v", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 7*24*time.Hour {
		t.Errorf("Expected default refresh TTL 168h, got %v", cfg.JWT.RefreshTTL)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("Expected default OpenAI model gpt-4o-mini, got %s", cfg.OpenAI.Model)
	}
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret-0123456789abcdef")

	if _, err := Load(); err == nil {
		t.Error("Expected error for missing DATABASE_URL")
	}
}

func TestLoadShortJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/caloria_test")
	t.Setenv("JWT_SECRET", "short")

	if _, err := Load(); err == nil {
		t.Error("Expected error for short JWT secret")
	}
}

func TestLoadRefreshTTLMustExceedAccessTTL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/caloria_test")
	t.Setenv("JWT_SECRET", "test-secret-0123456789abcdef")
	t.Setenv("JWT_ACCESS_TTL", "1h")
	t.Setenv("JWT_REFRESH_TTL", "30m")

	if _, err := Load(); err == nil {
		t.Error("Expected error when refresh TTL does not exceed access TTL")
	}
}

func TestGetEnvDurationInvalid(t *testing.T) {
	t.Setenv("SOME_TTL", "not-a-duration")

	if d := getEnvDuration("SOME_TTL", time.Minute); d != time.Minute {
		t.Errorf("Expected fallback to default, got %v", d)
	}
}
