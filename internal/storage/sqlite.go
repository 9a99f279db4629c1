package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLite is a durable backend over a single SQLite file.
// Uses WAL mode for concurrent read access.
type SQLite struct {
	db *sql.DB
}

var _ Storage = (*SQLite)(nil)

// OpenSQLite creates or opens a SQLite database at the given path and
// applies pragmas and schema. Idempotent - safe to call multiple times.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

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

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Store saves content under its derived id. Re-storing existing content
// is a no-op.
func (s *SQLite) Store(ctx context.Context, content string) (string, error) {
	id := ContentID(content)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contents (id, content) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, content)
	if err != nil {
		return "", fmt.Errorf("store content: %w", err)
	}
	return id, nil
}

// Retrieve returns the content stored under id.
func (s *SQLite) Retrieve(ctx context.Context, id string) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM contents WHERE id = ?`, id).Scan(&content)
	if err == sql.ErrNoRows {
		return "", notFound(id)
	}
	if err != nil {
		return "", fmt.Errorf("retrieve content: %w", err)
	}
	return content, nil
}

// Exists reports whether content is stored under id.
func (s *SQLite) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM contents WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check content: %w", err)
	}
	return true, nil
}

// Pin marks id as retained.
func (s *SQLite) Pin(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pins (id) VALUES (?)
		ON CONFLICT(id) DO NOTHING
	`, id)
	if err != nil {
		return fmt.Errorf("pin content: %w", err)
	}
	return nil
}

// Unpin removes id from the retention set.
func (s *SQLite) Unpin(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pins WHERE id = ?`, id); err != nil {
		return fmt.Errorf("unpin content: %w", err)
	}
	return nil
}

// Pinned reports whether id is currently pinned.
func (s *SQLite) Pinned(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM pins WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check pin: %w", err)
	}
	return true, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
