package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if errWrite := os.WriteFile(path, []byte(content), 0600); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: "file:app.db"
jwt:
  secret: "s3cret"
sifu:
  engine_url: "http://localhost:9000"
`)
	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Server.Port != 8317 {
		t.Fatalf("default port = %d, want 8317", cfg.Server.Port)
	}
	if cfg.JWT.ExpiryHours != 24 {
		t.Fatalf("default expiry = %d, want 24", cfg.JWT.ExpiryHours)
	}
	if cfg.JWT.AdminSecret != "s3cret" {
		t.Fatal("admin secret should fall back to the user secret")
	}
	if cfg.Sifu.EngineTimeoutSeconds != 30 || cfg.Sifu.EngineMaxRetries != 2 {
		t.Fatalf("engine defaults = %d/%d, want 30/2", cfg.Sifu.EngineTimeoutSeconds, cfg.Sifu.EngineMaxRetries)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("default log level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: "file:app.db"
jwt:
  secret: "from-file"
sifu:
  engine_url: "http://localhost:9000"
`)
	t.Setenv("DATABASE_DSN", "postgres://env-host/app")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Database.DSN != "postgres://env-host/app" {
		t.Fatalf("dsn = %q, want env override", cfg.Database.DSN)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Fatalf("secret = %q, want env override", cfg.JWT.Secret)
	}
}

func TestLoadMissingFileEnvOnly(t *testing.T) {
	t.Setenv("DATABASE_DSN", "file:env-only.db")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SIFU_ENGINE_URL", "http://localhost:9000")

	cfg, errLoad := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Database.DSN != "file:env-only.db" {
		t.Fatalf("dsn = %q", cfg.Database.DSN)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing dsn", "jwt:\n  secret: s\nsifu:\n  engine_url: http://x\n"},
		{"missing secret", "database:\n  dsn: file:a.db\nsifu:\n  engine_url: http://x\n"},
		{"missing engine url", "database:\n  dsn: file:a.db\njwt:\n  secret: s\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DATABASE_DSN", "")
			t.Setenv("JWT_SECRET", "")
			t.Setenv("SIFU_ENGINE_URL", "")
			path := writeConfig(t, tc.content)
			if _, errLoad := Load(path); errLoad == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}
