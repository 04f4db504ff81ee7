package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
api:
  baseUrl: "https://quiz.example.com"
  timeout: "20s"
socket:
  url: "wss://quiz.example.com/socket"
quiz:
  cacheTtl: "5m"
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://quiz.example.com" {
		t.Fatalf("baseUrl = %q", cfg.API.BaseURL)
	}
	if cfg.Socket.URL != "wss://quiz.example.com/socket" {
		t.Fatalf("socket url = %q", cfg.Socket.URL)
	}
	if got := Duration(cfg.Quiz.CacheTTL, time.Minute); got != 5*time.Minute {
		t.Fatalf("cache ttl = %v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing config must not error, got %v", err)
	}
	if cfg.API.BaseURL != "" {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestDurationFallback(t *testing.T) {
	if got := Duration("", time.Minute); got != time.Minute {
		t.Fatalf("empty: %v", got)
	}
	if got := Duration("garbage", time.Minute); got != time.Minute {
		t.Fatalf("invalid: %v", got)
	}
	if got := Duration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("valid: %v", got)
	}
}
