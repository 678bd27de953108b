package config

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is missing")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MONGO_URI", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("PORT", "")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("TOKEN_TTL_HOURS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected port %q", cfg.Port)
	}
	if cfg.DBName != "campushub" {
		t.Fatalf("unexpected db name %q", cfg.DBName)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected ttl %v", cfg.TokenTTL)
	}
	if cfg.UploadDir != "uploads" {
		t.Fatalf("unexpected upload dir %q", cfg.UploadDir)
	}
}

func TestLoadConfigTokenTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_TTL_HOURS", "2")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Fatalf("unexpected ttl %v", cfg.TokenTTL)
	}

	t.Setenv("TOKEN_TTL_HOURS", "zero")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for invalid TOKEN_TTL_HOURS")
	}
}
