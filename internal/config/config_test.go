package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"DB_PATH",
		"SERVER_PORT",
		"LOG_LEVEL",
		"PUBLIC_BASE_URL",
		"CLIENT_URL",
		"SENTRY_DSN",
		"ENV",
		"SHUTDOWN_GRACE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != defaultDBPath {
		t.Errorf("expected default DB path %q, got %q", defaultDBPath, cfg.DBPath)
	}

	if cfg.ServerPort != defaultServerPort {
		t.Errorf("expected default server port %d, got %d", defaultServerPort, cfg.ServerPort)
	}

	if cfg.LogLevel != defaultLogLevel {
		t.Errorf("expected default log level %q, got %q", defaultLogLevel, cfg.LogLevel)
	}

	if cfg.PublicBaseURL != defaultPublicBaseURL {
		t.Errorf("expected default base URL %q, got %q", defaultPublicBaseURL, cfg.PublicBaseURL)
	}

	if cfg.Environment != defaultEnvironment {
		t.Errorf("expected default environment %q, got %q", defaultEnvironment, cfg.Environment)
	}

	if cfg.ShutdownGrace != defaultShutdownGrace {
		t.Errorf("expected shutdown grace %s, got %s", defaultShutdownGrace, cfg.ShutdownGrace)
	}

	if cfg.SentryDSN != "" {
		t.Errorf("expected empty Sentry DSN, got %q", cfg.SentryDSN)
	}
}

func TestLoadWithExplicitValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "/tmp/pagedrop.db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PUBLIC_BASE_URL", "https://pages.example.com/")
	t.Setenv("SENTRY_DSN", "dsn")
	t.Setenv("ENV", "production")
	t.Setenv("SHUTDOWN_GRACE", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != "/tmp/pagedrop.db" {
		t.Errorf("expected DB path %q, got %q", "/tmp/pagedrop.db", cfg.DBPath)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("expected server port 9090, got %d", cfg.ServerPort)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}

	if cfg.PublicBaseURL != "https://pages.example.com" {
		t.Errorf("expected trailing slash to be stripped, got %q", cfg.PublicBaseURL)
	}

	if cfg.SentryDSN != "dsn" {
		t.Errorf("expected Sentry DSN dsn, got %q", cfg.SentryDSN)
	}

	if cfg.Environment != "production" {
		t.Errorf("expected environment production, got %q", cfg.Environment)
	}

	if cfg.ShutdownGrace != 3*time.Second {
		t.Errorf("expected shutdown grace 3s, got %s", cfg.ShutdownGrace)
	}
}

func TestLoadFallsBackToClientURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLIENT_URL", "http://localhost:3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.PublicBaseURL != "http://localhost:3000" {
		t.Fatalf("expected CLIENT_URL fallback, got %q", cfg.PublicBaseURL)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "invalid")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for invalid port, got nil")
	}

	if !strings.Contains(err.Error(), "invalid SERVER_PORT value") {
		t.Fatalf("expected error to mention invalid SERVER_PORT value, got %v", err)
	}
}

func TestLoadRejectsRelativeBaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("PUBLIC_BASE_URL", "pages.example.com")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for base URL without scheme, got nil")
	}

	if !strings.Contains(err.Error(), "parsing PUBLIC_BASE_URL") {
		t.Fatalf("expected error to mention PUBLIC_BASE_URL, got %v", err)
	}
}

func TestLoadInvalidShutdownGrace(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHUTDOWN_GRACE", "soon")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid shutdown grace, got nil")
	}
}
