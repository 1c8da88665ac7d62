package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Shubham-NM01/doc-uploader/internal/config"
)

const baseTOML = `
version = "1.2.0"

[server]
port = 9000

[database]
name = "docs"
user = "docs"

[storage]
base_path = "/var/lib/docs"
max_upload_size = "10MB"

[api.rate_limit]
requests_per_second = 2.0
burst = 4

[annotation]
scale_factor = 2.0
max_requests = 20

[previews]
workers = 1
max_age = "12h"
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDir_Base(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.BaseConfigFile, baseTOML)
	t.Setenv(config.EnvServiceEnv, "")

	cfg, err := config.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}

	if cfg.Version != "1.2.0" {
		t.Errorf("Version = %q", cfg.Version)
	}
	if cfg.Server.Addr() != "0.0.0.0:9000" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Storage.MaxUploadSizeBytes() != 10_000_000 {
		t.Errorf("MaxUploadSizeBytes() = %d", cfg.Storage.MaxUploadSizeBytes())
	}
	if cfg.Annotation.ScaleFactor != 2.0 || cfg.Annotation.MaxRequests != 20 {
		t.Errorf("Annotation = %+v", cfg.Annotation)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("API.BasePath = %q", cfg.API.BasePath)
	}
	if cfg.API.RateLimit.RequestsPerSecond != 2.0 || cfg.API.RateLimit.Burst != 4 {
		t.Errorf("RateLimit = %+v", cfg.API.RateLimit)
	}
	if cfg.Previews.MaxAgeDuration() != 12*time.Hour || cfg.Previews.PruneIntervalDuration() != time.Hour {
		t.Errorf("Previews = %+v", cfg.Previews)
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("ShutdownTimeoutDuration() = %v", cfg.ShutdownTimeoutDuration())
	}
}

func TestLoadDir_Overlay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.BaseConfigFile, baseTOML)
	writeFile(t, dir, "config.prod.toml", `
[server]
host = "127.0.0.1"

[annotation]
scale_factor = 1.0
`)
	t.Setenv(config.EnvServiceEnv, "prod")

	cfg, err := config.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}

	if cfg.Env() != "prod" {
		t.Errorf("Env() = %q", cfg.Env())
	}
	if cfg.Server.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want overlay host with base port", cfg.Server.Addr())
	}
	if cfg.Annotation.ScaleFactor != 1.0 || cfg.Annotation.MaxRequests != 20 {
		t.Errorf("Annotation = %+v", cfg.Annotation)
	}
}

func TestLoadDir_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.BaseConfigFile, baseTOML)
	t.Setenv(config.EnvServiceEnv, "")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DATABASE_HOST", "db")
	t.Setenv("STORAGE_BASE_PATH", "/tmp/blobs")
	t.Setenv("ANNOTATION_SCALE_FACTOR", "1.25")
	t.Setenv("API_RATE_LIMIT_BURST", "9")
	t.Setenv("PREVIEWS_FORMAT", "jpg")
	t.Setenv("LOGGING_LEVEL", "debug")

	cfg, err := config.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}

	if cfg.Server.Port != 7070 || cfg.Database.Host != "db" || cfg.Storage.BasePath != "/tmp/blobs" {
		t.Errorf("env overrides not applied: server=%+v db=%s storage=%s", cfg.Server, cfg.Database.Host, cfg.Storage.BasePath)
	}
	if cfg.Annotation.ScaleFactor != 1.25 {
		t.Errorf("ScaleFactor = %v", cfg.Annotation.ScaleFactor)
	}
	if cfg.API.RateLimit.Burst != 9 || cfg.Previews.Format != "jpg" {
		t.Errorf("RateLimit = %+v, Previews = %+v", cfg.API.RateLimit, cfg.Previews)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadDir_MissingBaseUsesEnv(t *testing.T) {
	t.Setenv(config.EnvServiceEnv, "")
	t.Setenv("DATABASE_NAME", "docs")
	t.Setenv("DATABASE_USER", "docs")

	cfg, err := config.LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Annotation.ScaleFactor != 1.5 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadDir_Errors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"malformed toml", "[server\nport = 1"},
		{"missing database name", "[database]\nuser = \"u\""},
		{"bad shutdown timeout", "shutdown_timeout = \"soon\"\n[database]\nname = \"n\"\nuser = \"u\""},
		{"bad preview format", "[database]\nname = \"n\"\nuser = \"u\"\n[previews]\nformat = \"gif\""},
		{"bad scale factor", "[database]\nname = \"n\"\nuser = \"u\"\n[annotation]\nscale_factor = -1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, config.BaseConfigFile, tt.toml)
			t.Setenv(config.EnvServiceEnv, "")

			if _, err := config.LoadDir(dir); err == nil {
				t.Error("LoadDir() succeeded, want error")
			}
		})
	}
}

func TestServerConfig(t *testing.T) {
	base := &config.ServerConfig{Host: "localhost", Port: 8080, ReadTimeout: "30s", WriteTimeout: "30s", ShutdownTimeout: "30s"}
	base.Merge(&config.ServerConfig{Port: 9090, WriteTimeout: "60s"})

	if base.Host != "localhost" || base.Port != 9090 || base.WriteTimeout != "60s" || base.ReadTimeout != "30s" {
		t.Errorf("Merge() = %+v", base)
	}
	if base.WriteTimeoutDuration() != time.Minute || base.ReadTimeoutDuration() != 30*time.Second {
		t.Error("duration getters mismatch")
	}

	for _, port := range []int{-1, 65536} {
		cfg := &config.ServerConfig{Port: port}
		if err := cfg.Finalize(); err == nil {
			t.Errorf("Finalize() with port %d succeeded", port)
		}
	}
}
