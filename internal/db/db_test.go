package db

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T, opts Options) *gorm.DB {
	t.Helper()

	database, err := Open(opts)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := Close(database); closeErr != nil {
			t.Errorf("closing database failed: %v", closeErr)
		}
	})

	return database
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(Options{Path: "   "}); err == nil {
		t.Fatalf("expected error when no path supplied")
	}
}

func TestOpenAppliesPragmasWithDefaultTimeout(t *testing.T) {
	t.Parallel()

	database := openTestDB(t, Options{Path: filepath.Join(t.TempDir(), "pagedrop.db")})

	var foreignKeys int
	if err := database.Raw("PRAGMA foreign_keys;").Scan(&foreignKeys).Error; err != nil {
		t.Fatalf("querying foreign_keys pragma failed: %v", err)
	}
	if foreignKeys != 1 {
		t.Fatalf("expected foreign keys pragma to be enabled, got %d", foreignKeys)
	}

	var journalMode string
	if err := database.Raw("PRAGMA journal_mode;").Scan(&journalMode).Error; err != nil {
		t.Fatalf("querying journal_mode pragma failed: %v", err)
	}
	if !strings.EqualFold(strings.TrimSpace(journalMode), "wal") {
		t.Fatalf("expected journal mode WAL, got %q", journalMode)
	}

	var busyTimeout int
	if err := database.Raw("PRAGMA busy_timeout;").Scan(&busyTimeout).Error; err != nil {
		t.Fatalf("querying busy_timeout pragma failed: %v", err)
	}
	if expected := int(defaultBusyTimeout / time.Millisecond); busyTimeout != expected {
		t.Fatalf("expected busy timeout %d, got %d", expected, busyTimeout)
	}
}

func TestOpenCreatesMissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "data", "pagedrop.db")
	openTestDB(t, Options{Path: path})
}

func TestOpenHonoursConnectionLimits(t *testing.T) {
	t.Parallel()

	opts := Options{
		Path:         filepath.Join(t.TempDir(), "limits.db"),
		BusyTimeout:  1500 * time.Millisecond,
		MaxOpenConns: 7,
		MaxIdleConns: 3,
	}
	database := openTestDB(t, opts)

	sqlDB, err := SQLDB(database)
	if err != nil {
		t.Fatalf("SQLDB returned error: %v", err)
	}

	if stats := sqlDB.Stats(); stats.MaxOpenConnections != opts.MaxOpenConns {
		t.Fatalf("expected MaxOpenConns %d, got %d", opts.MaxOpenConns, stats.MaxOpenConnections)
	}
}

func TestIsUniqueViolationDetectsDuplicateInsert(t *testing.T) {
	t.Parallel()

	database := openTestDB(t, Options{Path: filepath.Join(t.TempDir(), "unique.db")})

	if err := database.Exec("CREATE TABLE tokens (value TEXT NOT NULL UNIQUE)").Error; err != nil {
		t.Fatalf("creating table failed: %v", err)
	}
	if err := database.Exec("INSERT INTO tokens (value) VALUES (?)", "abc").Error; err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err := database.Exec("INSERT INTO tokens (value) VALUES (?)", "abc").Error
	if err == nil {
		t.Fatalf("expected duplicate insert to fail")
	}
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestIsUniqueViolationIgnoresOtherErrors(t *testing.T) {
	t.Parallel()

	if IsUniqueViolation(nil) {
		t.Fatalf("nil must not be a unique violation")
	}
	if IsUniqueViolation(errors.New("disk I/O error")) {
		t.Fatalf("unrelated error reported as unique violation")
	}
}

func TestSQLDBWithNilDatabase(t *testing.T) {
	t.Parallel()

	if _, err := SQLDB(nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}
