package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger("")
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}

	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", logger.GetLevel())
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	if _, err := NewLogger("chatty"); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}

func TestNewLoggerWritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewLoggerWithOutput(" DEBUG ", &buf)
	if err != nil {
		t.Fatalf("NewLoggerWithOutput returned error: %v", err)
	}

	logger.WithField("public_slug", "abc").Debug("page viewed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "page viewed" {
		t.Fatalf("expected msg field, got %v", entry["msg"])
	}
	if entry["public_slug"] != "abc" {
		t.Fatalf("expected public_slug field, got %v", entry["public_slug"])
	}
}

func TestInitSentryDisabledWithoutDSN(t *testing.T) {
	t.Parallel()

	hub, flush, err := InitSentry(Discard(), SentrySettings{})
	if err != nil {
		t.Fatalf("InitSentry returned error: %v", err)
	}
	if hub != nil {
		t.Fatalf("expected nil hub when DSN is empty")
	}
	flush()
}
