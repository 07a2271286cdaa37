package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTAlgorithm != "HS256" {
		t.Fatalf("expected HS256, got %s", cfg.JWTAlgorithm)
	}
	if cfg.JWTExpiration != 15*time.Minute {
		t.Fatalf("expected 15m expiration, got %s", cfg.JWTExpiration)
	}
	if cfg.LoginRateLimit != 0 {
		t.Fatalf("expected login limiter disabled, got %d", cfg.LoginRateLimit)
	}
	if !cfg.MigrateOnStart {
		t.Fatalf("expected migrations on start by default")
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %s", cfg.Address())
	}
}

func TestLoadJWTSettings(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_ALGORITHM", "hs512")
	t.Setenv("JWT_EXPIRATION", "3600")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTAlgorithm != "HS512" {
		t.Fatalf("expected HS512, got %s", cfg.JWTAlgorithm)
	}
	if cfg.JWTExpiration != time.Hour {
		t.Fatalf("expected 1h expiration, got %s", cfg.JWTExpiration)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoadRejectsBadExpiration(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRATION", "soon")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric JWT_EXPIRATION")
	}
}

func TestLoadRequiresInfraOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected DATABASE_URL to be required in production")
	}
}
