package config

import (
	"log/slog"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.QRSize != 256 {
		t.Errorf("QRSize = %d, want 256", cfg.QRSize)
	}
	if !cfg.SeedDemo {
		t.Error("SeedDemo should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SEED_DEMO", "false")
	t.Setenv("SESSION_USER_ID", "user-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.SeedDemo {
		t.Error("SeedDemo should be false")
	}
	if cfg.SessionUserID != "user-1" {
		t.Errorf("SessionUserID = %q", cfg.SessionUserID)
	}
}
