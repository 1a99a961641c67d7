package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vsinha/itam/pkg/apperrors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.Database.Driver != "memory" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "itam.yaml", `
http:
  addr: ":9090"
  read_timeout: 5s
database:
  driver: postgres
  dsn: postgres://itam@localhost/itam
logging:
  level: debug
auth:
  users:
    - name: alice
      token: secret-a
      modes: [dc, back_office]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("Expected addr :9090, got %s", cfg.HTTP.Addr)
	}
	if cfg.HTTP.ReadTimeout != 5*time.Second {
		t.Errorf("Expected 5s read timeout, got %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.HTTP.WriteTimeout != 30*time.Second {
		t.Errorf("Expected default write timeout to survive, got %s", cfg.HTTP.WriteTimeout)
	}
	if cfg.Database.Driver != "postgres" || cfg.Logging.Level != "debug" {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if len(cfg.Auth.Users) != 1 || len(cfg.Auth.Users[0].Modes) != 2 {
		t.Errorf("Expected one user with two modes, got %+v", cfg.Auth.Users)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "itam.toml", `
[http]
addr = ":7070"

[attachments]
backend = "s3"
bucket = "itam-attachments"
region = "eu-central-1"

[[auth.users]]
name = "bob"
token = "secret-b"
modes = ["dc"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Errorf("Expected addr :7070, got %s", cfg.HTTP.Addr)
	}
	if cfg.Attachments.Backend != "s3" || cfg.Attachments.Bucket != "itam-attachments" {
		t.Errorf("Unexpected attachments config %+v", cfg.Attachments)
	}
	if len(cfg.Auth.Users) != 1 || cfg.Auth.Users[0].Name != "bob" {
		t.Errorf("Unexpected users %+v", cfg.Auth.Users)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ITAM_HTTP_ADDR", ":6060")
	t.Setenv("ITAM_DB_MAX_CONNS", "25")
	t.Setenv("ITAM_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTP.Addr != ":6060" || cfg.Database.MaxConns != 25 || cfg.Logging.Level != "warn" {
		t.Errorf("Expected env overrides to apply, got %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unknown extension", "itam.ini", "x=1", "unsupported config format"},
		{"postgres without dsn", "a.yaml", "database:\n  driver: postgres\n", "database dsn is required"},
		{"unknown driver", "b.yaml", "database:\n  driver: sqlite\n", "unknown database driver"},
		{"s3 without bucket", "c.yaml", "attachments:\n  backend: s3\n", "attachments bucket is required"},
		{"bad mode", "d.yaml", "auth:\n  users:\n    - {name: a, token: t, modes: [warehouse]}\n", "unknown mode"},
		{"duplicate token", "e.yaml", "auth:\n  users:\n    - {name: a, token: t}\n    - {name: b, token: t}\n", "duplicate token"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.file, tc.content))
			if err == nil {
				t.Fatal("Expected error, got none")
			}
			if apperrors.CodeOf(err) != apperrors.CodeConfig {
				t.Errorf("Expected config error code, got %v", apperrors.CodeOf(err))
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}
