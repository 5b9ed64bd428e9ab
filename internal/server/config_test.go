package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/peso-dashboard/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.MaxOverlays != constants.DefaultMaxOverlays {
		t.Fatalf("expected default max overlays, got %d", cfg.MaxOverlays)
	}
	if cfg.ReadTimeoutDuration() != constants.DefaultReadTimeout {
		t.Fatalf("expected default read timeout, got %s", cfg.ReadTimeoutDuration())
	}
	if cfg.Watch {
		t.Fatal("expected watching to be off by default")
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
watch: true
maxOverlays: 4
readTimeout: 30s
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if !cfg.Watch {
		t.Fatal("expected watch override")
	}
	if cfg.MaxOverlays != 4 {
		t.Fatalf("expected max overlays override, got %d", cfg.MaxOverlays)
	}
	if cfg.ReadTimeoutDuration() != 30*time.Second {
		t.Fatalf("expected read timeout override, got %s", cfg.ReadTimeoutDuration())
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected logging format console, got %s", cfg.Logging.Format)
	}
	if cfg.Logging.OutputFile != "/tmp/server.log" {
		t.Fatalf("expected logging outputFile /tmp/server.log, got %s", cfg.Logging.OutputFile)
	}
}

func TestLoadConfigInvalidYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	if err := os.WriteFile(path, []byte("maxOverlays: many"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid YAML but got nil")
	}
}

func TestLoadConfigInvalidTimeout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	if err := os.WriteFile(path, []byte("readTimeout: soon"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid duration but got nil")
	}
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")
	if err := os.WriteFile(path, []byte("address: 127.0.0.1:9000\nmaxOverlays: 4\n"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	t.Setenv("PESO_ADDRESS", ":9090")
	t.Setenv("PESO_REFRESH_SCHEDULE", "@daily")
	t.Setenv("PESO_INVALIDATE_BURST", "10")
	t.Setenv("PESO_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != ":9090" {
		t.Fatalf("expected environment to win over file, got %q", cfg.Address)
	}
	if cfg.MaxOverlays != 4 {
		t.Fatalf("expected file value to survive, got %d", cfg.MaxOverlays)
	}
	if cfg.RefreshSchedule != "@daily" {
		t.Fatalf("expected refresh schedule from environment, got %q", cfg.RefreshSchedule)
	}
	if cfg.InvalidateBurst != 10 {
		t.Fatalf("expected invalidate burst 10, got %d", cfg.InvalidateBurst)
	}
	if cfg.InvalidateRate != constants.DefaultInvalidateRate {
		t.Fatalf("expected default invalidate rate, got %v", cfg.InvalidateRate)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected logging level from environment, got %q", cfg.Logging.Level)
	}
}

func TestLoadConfigInvalidEnvironment(t *testing.T) {
	t.Setenv("PESO_MAX_OVERLAYS", "lots")

	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for a non-numeric environment override but got nil")
	}
}

func TestLoadConfigRefreshSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{name: "standard fields", schedule: "0 6 * * 1-5"},
		{name: "descriptor", schedule: "@every 1h"},
		{name: "too few fields", schedule: "0 6 *", wantErr: true},
		{name: "garbage", schedule: "whenever", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "server-config.yaml")
			if err := os.WriteFile(path, []byte("refreshSchedule: \""+tt.schedule+"\"\n"), 0600); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}

			cfg, err := LoadConfig(path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for schedule %q but got nil", tt.schedule)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if cfg.RefreshSchedule != tt.schedule {
				t.Fatalf("expected schedule %q, got %q", tt.schedule, cfg.RefreshSchedule)
			}
		})
	}
}
