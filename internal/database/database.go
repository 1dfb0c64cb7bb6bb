package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

var (
	// ErrConnectionFailure is returned when the catalog cannot be opened or reached.
	ErrConnectionFailure = errors.New("catalog connection failure")
	// ErrConstraintViolation is returned when an insert would duplicate a unique filepath.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
)

// Database is the catalog store. It holds a single connection for the
// lifetime of a run.
type Database struct {
	db     *sql.DB
	dbPath string
	tables []TableDef
}

// New opens the SQLite catalog at dbPath. The parent directory must exist.
// Schema is not touched; call EnsureSchema.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Database path: %s", dbPath)

	if err := checkDatabaseDir(dbPath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailure, err)
	}

	// busy_timeout helps prevent "database is locked" errors from external readers
	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrConnectionFailure, err)
	}

	d, err := FromDB(ctx, db)
	if err != nil {
		return nil, err
	}
	d.dbPath = dbPath

	logging.Info("Database opened at %s", dbPath)
	return d, nil
}

// FromDB wraps an already opened handle, verifying it is reachable. The
// handle is closed if the ping fails.
func FromDB(ctx context.Context, db *sql.DB) (*Database, error) {
	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailure, err)
	}

	// One handle, one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Database{
		db:     db,
		tables: DefaultTables(),
	}, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Path returns the database file path, or "" for wrapped handles.
func (d *Database) Path() string {
	return d.dbPath
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

// checkDatabaseDir verifies the catalog's parent directory exists and is a directory.
func checkDatabaseDir(dbPath string) error {
	dir := filepath.Dir(dbPath)

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat database directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("database directory %s is not a directory", dir)
	}

	logging.Debug("Database directory: %s (mode: %v)", dir, info.Mode())

	if dbInfo, err := os.Stat(dbPath); err == nil {
		logging.Debug("Database file exists: %s (size: %d bytes)", dbPath, dbInfo.Size())
		if dbInfo.Mode().Perm()&0o200 == 0 {
			logging.Warn("Database file is read-only! Mode: %v", dbInfo.Mode())
		}
	}

	return nil
}
