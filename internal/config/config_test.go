package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"WEB_HOST", "WEB_PORT", "DB_PATH", "WEBCNC_PASSWORD", "SWITCH_CONNECTION_RETRIES", "SWITCH_CONNECTION_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	cfg := Load()
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Fatalf("addr = %s", cfg.Addr())
	}
	if cfg.DBPath != "./webcnc.db" || cfg.Password != "admin" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Retries != 3 || cfg.Timeout != 3*time.Second {
		t.Fatalf("retries %d timeout %v", cfg.Retries, cfg.Timeout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("log level = %v", cfg.LogLevel)
	}
	if len(cfg.Warnings) != 0 {
		t.Fatalf("warnings = %v", cfg.Warnings)
	}
}

func TestLoadBounds(t *testing.T) {
	t.Chdir(t.TempDir())
	tests := []struct {
		retries, timeout string
		wantRetries      int
		wantTimeout      time.Duration
		warnings         int
	}{
		{"5", "250", 5, 250 * time.Millisecond, 0},
		{"100", "1000000", 100, 1000 * time.Second, 0},
		{"0", "0", 3, 3 * time.Second, 2},
		{"101", "1000001", 3, 3 * time.Second, 2},
		{"three", "-5", 3, 3 * time.Second, 2},
	}
	for _, tt := range tests {
		t.Run(tt.retries+"/"+tt.timeout, func(t *testing.T) {
			t.Setenv("SWITCH_CONNECTION_RETRIES", tt.retries)
			t.Setenv("SWITCH_CONNECTION_TIMEOUT", tt.timeout)
			cfg := Load()
			if cfg.Retries != tt.wantRetries || cfg.Timeout != tt.wantTimeout {
				t.Fatalf("retries %d timeout %v", cfg.Retries, cfg.Timeout)
			}
			if len(cfg.Warnings) != tt.warnings {
				t.Fatalf("warnings = %v", cfg.Warnings)
			}
		})
	}
}

func TestRefreshScheduleCanBeDisabled(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REFRESH_SCHEDULE", "")
	if cfg := Load(); cfg.RefreshSchedule != "" {
		t.Fatalf("schedule = %q, want disabled", cfg.RefreshSchedule)
	}
	t.Setenv("REFRESH_SCHEDULE", "@every 1m")
	if cfg := Load(); cfg.RefreshSchedule != "@every 1m" {
		t.Fatalf("schedule = %q", cfg.RefreshSchedule)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for raw, want := range tests {
		if got := parseLogLevel(raw); got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}
