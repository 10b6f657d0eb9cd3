package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the Pagedrop server.
type Config struct {
	DBPath        string
	ServerPort    int
	LogLevel      string
	PublicBaseURL string
	SentryDSN     string
	Environment   string
	ShutdownGrace time.Duration
}

const (
	defaultDBPath        = "./data/pagedrop.db"
	defaultServerPort    = 8080
	defaultLogLevel      = "info"
	defaultPublicBaseURL = "http://localhost:8080"
	defaultEnvironment   = "development"
	defaultShutdownGrace = 10 * time.Second
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:      getEnv("DB_PATH", defaultDBPath),
		LogLevel:    getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Environment: getEnv("ENV", defaultEnvironment),
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	if port <= 0 || port > 65535 {
		return nil, eris.Errorf("SERVER_PORT out of range: %d", port)
	}
	cfg.ServerPort = port

	baseURL, err := parseBaseURL(getEnv("PUBLIC_BASE_URL", getEnv("CLIENT_URL", defaultPublicBaseURL)))
	if err != nil {
		return nil, eris.Wrap(err, "parsing PUBLIC_BASE_URL")
	}
	cfg.PublicBaseURL = baseURL

	cfg.ShutdownGrace = defaultShutdownGrace
	if raw := os.Getenv("SHUTDOWN_GRACE"); raw != "" {
		grace, err := time.ParseDuration(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid SHUTDOWN_GRACE value: %s", raw)
		}
		cfg.ShutdownGrace = grace
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseBaseURL validates the externally visible origin and strips any trailing slash
// so that generated links never contain "//".
func parseBaseURL(raw string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", eris.Wrap(err, "decoding URL")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", eris.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", eris.New("host is required")
	}

	return trimmed, nil
}
