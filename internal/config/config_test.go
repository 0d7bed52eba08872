package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: "9090"
  moves_per_second: 10
redis:
  addr: localhost:6379
  ttl: 30m
questions:
  ttl: 5m
crossword:
  grid_size: 12
  max_attempts: 4
  numeric_hints: true
gemini:
  project: demo
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Server.MovesPerSecond != 10 {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.TTL != "30m" {
		t.Fatalf("unexpected redis config %+v", cfg.Redis)
	}
	if cfg.Crossword.GridSize != 12 || cfg.Crossword.MaxAttempts != 4 || !cfg.Crossword.NumericHints {
		t.Fatalf("unexpected crossword config %+v", cfg.Crossword)
	}
	if cfg.Gemini.Project != "demo" || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected gemini/log config %+v %+v", cfg.Gemini, cfg.Log)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
[server]
port = "7070"

[postgres]
url = "postgres://localhost/crossword"

[crossword]
grid_size = 20
max_xp = 40

[gemini]
region = "us-central1"
model = "gemini-2.5-pro"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "7070" || cfg.Postgres.URL != "postgres://localhost/crossword" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Crossword.GridSize != 20 || cfg.Crossword.MaxXP != 40 {
		t.Fatalf("unexpected crossword config %+v", cfg.Crossword)
	}
	if cfg.Gemini.Region != "us-central1" || cfg.Gemini.Model != "gemini-2.5-pro" {
		t.Fatalf("unexpected gemini config %+v", cfg.Gemini)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "bad.toml", "[server\nport=")); err == nil {
		t.Fatalf("expected error for malformed toml")
	}
	if _, err := Load(writeFile(t, "bad.yaml", "server: [")); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for garbage, got %v", got)
	}
}
