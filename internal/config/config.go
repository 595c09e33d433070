package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = "8080"
	defaultDBPath          = "./webcnc.db"
	defaultPassword        = "admin"
	defaultRetries         = 3
	defaultTimeoutMillis   = 3000
	defaultRefreshSchedule = "@every 10m"

	maxRetries       = 100
	maxTimeoutMillis = 1_000_000
)

// Config stores runtime settings loaded from the environment.
type Config struct {
	Host            string
	Port            string
	DBPath          string
	Password        string
	Retries         int
	Timeout         time.Duration
	RefreshSchedule string
	LogLevel        slog.Level
	// Warnings lists settings that were rejected and replaced by defaults.
	Warnings []string
}

// Load reads .env if present and builds Config from environment variables.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Host:            getEnv("WEB_HOST", defaultHost),
		Port:            getEnv("WEB_PORT", defaultPort),
		DBPath:          getEnv("DB_PATH", defaultDBPath),
		Password:        getEnv("WEBCNC_PASSWORD", defaultPassword),
		RefreshSchedule: defaultRefreshSchedule,
		LogLevel:        parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}
	if raw, ok := os.LookupEnv("REFRESH_SCHEDULE"); ok {
		cfg.RefreshSchedule = strings.TrimSpace(raw)
	}
	cfg.Retries = cfg.intInRange("SWITCH_CONNECTION_RETRIES", defaultRetries, 1, maxRetries)
	millis := cfg.intInRange("SWITCH_CONNECTION_TIMEOUT", defaultTimeoutMillis, 1, maxTimeoutMillis)
	cfg.Timeout = time.Duration(millis) * time.Millisecond
	return cfg
}

// Addr is the listen address of the web server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// getEnv fetches environment variable or returns fallback
func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (c *Config) intInRange(key string, fallback, lo, hi int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		c.Warnings = append(c.Warnings, fmt.Sprintf("%s=%q is not a number between %d and %d, using %d", key, raw, lo, hi, fallback))
		return fallback
	}
	return v
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
