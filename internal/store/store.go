package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - product_inventory table
const currentSchemaVersion = 1

// ErrNewerSchema is returned by Open when the database was written by a
// newer schema version than this build understands.
var ErrNewerSchema = errors.New("database schema is newer than supported")

// Store provides durable storage for the product catalog.
type Store struct {
	path string
	db   *sql.DB // writable, single connection

	mu     sync.Mutex
	reader *sql.DB // read-only, opened on first read
	closed bool
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically.
//
// This function is idempotent - safe to call on every process start.
func Open(path string) (*Store, error) {
	// Open database (creates file if doesn't exist)
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{path: path, db: db}, nil
}

// Close closes both database handles.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.reader != nil && s.reader != s.db {
		if err := s.reader.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.reader = nil
	s.closed = true
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Path returns the path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Version returns the schema version recorded in the database.
func (s *Store) Version(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

// readable returns the read-only handle, opening it on first use.
func (s *Store) readable() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reader != nil {
		return s.reader, nil
	}
	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}
	if isMemory(s.path) {
		s.reader = s.db
		return s.reader, nil
	}

	// The pool is not capped; per-connection pragmas travel in the DSN.
	reader, err := sql.Open(driverName, readOnlyDSN(s.path))
	if err != nil {
		return nil, fmt.Errorf("failed to open read-only database: %w", err)
	}
	if err := reader.Ping(); err != nil {
		reader.Close()
		return nil, fmt.Errorf("failed to connect to read-only database: %w", err)
	}
	reader.SetMaxIdleConns(2)

	s.reader = reader
	return s.reader, nil
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory") || strings.HasPrefix(path, "file::memory:")
}

// readOnlyDSN opens path read-only with a busy timeout and query_only set
// on every connection.
func readOnlyDSN(path string) string {
	const params = "mode=ro&_busy_timeout=5000&_query_only=true"
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates the table if it doesn't exist and stamps the version.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("%w: found %d, supported %d", ErrNewerSchema, version, currentSchemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	// No upgrade steps exist yet; version 0 is a fresh file.
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}

	return nil
}
