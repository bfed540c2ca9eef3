package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

// identityIndexSchema is applied apart from the table schema. Tables that
// predate it may hold duplicate identities and must stay readable until
// they are deduplicated.
//
//go:embed schema/identity_index.sql
var identityIndexSchema string

// SQLite is a record store kept in a local SQLite file.
type SQLite struct {
	DB *sql.DB
}

// OpenSQLite creates or opens a SQLite database at the given path,
// applies pragmas and the table schema, and returns the store handle.
// The identity index is not created here; see EnsureIdentityIndex.
// Calling it repeatedly on the same file is safe.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLite{DB: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// EnsureIdentityIndex creates the unique index over record identities.
// It fails while the table holds duplicates.
func (s *SQLite) EnsureIdentityIndex(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, identityIndexSchema); err != nil {
		return fmt.Errorf("failed to create identity index: %w", err)
	}
	return nil
}

// Ping checks that the database file is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("sqlite database is not open")
	}
	return s.DB.PingContext(ctx)
}

// Close closes the database handle. Safe to call more than once.
func (s *SQLite) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}
