package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[session]
root_name = "home"

[terminal]
color = false

[log]
level = "debug"

[server]
listen_addr = "127.0.0.1:9000"
max_sessions = 5
idle_timeout_minutes = 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Session.RootName != "home" {
		t.Errorf("Expected root name home, got %q", cfg.Session.RootName)
	}
	if cfg.Terminal.Color {
		t.Error("Expected color disabled")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected debug level, got %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Missing keys should keep defaults, got format %q", cfg.Log.Format)
	}
	if cfg.Server.ListenAddr != "127.0.0.1:9000" || cfg.Server.MaxSessions != 5 {
		t.Errorf("Unexpected server config: %+v", cfg.Server)
	}
	if cfg.Server.IdleTimeout() != 2*time.Minute {
		t.Errorf("Expected 2m idle timeout, got %v", cfg.Server.IdleTimeout())
	}
	if !cfg.Server.Metrics {
		t.Error("Metrics should default to enabled")
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Session.RootName != "root" {
		t.Errorf("Expected default root name, got %q", cfg.Session.RootName)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, "[session\nroot_name = ")
	if _, err := Load(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Expected error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty root", func(c *Config) { c.Session.RootName = "" }, "must not be empty"},
		{"slash in root", func(c *Config) { c.Session.RootName = "a/b" }, "must not contain"},
		{"space in root", func(c *Config) { c.Session.RootName = "my root" }, "must not contain"},
		{"zero sessions", func(c *Config) { c.Server.MaxSessions = 0 }, "max_sessions"},
		{"zero idle timeout", func(c *Config) { c.Server.IdleTimeoutMinutes = 0 }, "idle_timeout_minutes"},
	}

	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		err := cfg.Validate()
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.wantErr, err)
		}
	}
}
