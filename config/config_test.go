package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "http://127.0.0.1:8000" {
		t.Fatalf("BaseURL = %q, want the local development default", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("Timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.Store.Path == "" {
		t.Fatalf("Store.Path empty")
	}
}

func TestEnvOverridesBaseURL(t *testing.T) {
	t.Setenv("BLOG_API_BASE_URL", "https://blog.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "https://blog.example.com" {
		t.Fatalf("BaseURL = %q, want the env override", cfg.API.BaseURL)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api:\n  base_url: http://10.0.0.5:9000\n  timeout: 3s\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "http://10.0.0.5:9000" {
		t.Fatalf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Fatalf("Timeout = %v, want 3s", cfg.API.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("Load() error = nil for a missing explicit config file")
	}
}
