// Package history keeps the shell's command history in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one line entered at the prompt.
type Entry struct {
	ID        int64
	Line      string
	Namespace string // Namespace path the line was entered in
	OK        bool   // Whether the line ran without error
	At        time.Time
}

// Store is the history database handle.
type Store struct {
	db    *sql.DB
	limit int
}

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	line       TEXT NOT NULL,
	namespace  TEXT NOT NULL DEFAULT '',
	ok         INTEGER NOT NULL DEFAULT 1,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at);
`

// Open opens or creates the history database at path, keeping at most
// limit entries. A limit of zero keeps everything.
func Open(path string, limit int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return initialize(db, limit)
}

// OpenInMemory opens an in-memory history (for testing).
func OpenInMemory(limit int) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	return initialize(db, limit)
}

func initialize(db *sql.DB, limit int) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}
	return &Store{db: db, limit: limit}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records an entry and drops the oldest ones beyond the limit.
func (s *Store) Add(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO history (line, namespace, ok, created_at) VALUES (?, ?, ?, ?)`,
		e.Line, e.Namespace, e.OK, e.At.UnixNano()); err != nil {
		return fmt.Errorf("failed to add history entry: %w", err)
	}
	if s.limit > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY id DESC LIMIT ?)`,
			s.limit); err != nil {
			return fmt.Errorf("failed to trim history: %w", err)
		}
	}
	return tx.Commit()
}

// Recent returns up to n of the latest entries, oldest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, line, namespace, ok, created_at FROM
			(SELECT * FROM history ORDER BY id DESC LIMIT ?)
		ORDER BY id ASC`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return scanRows(rows, scanEntry)
}

// Search returns up to n of the latest entries whose line starts with
// prefix, newest first.
func (s *Store) Search(ctx context.Context, prefix string, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, line, namespace, ok, created_at FROM history
		WHERE substr(line, 1, length(?)) = ?
		ORDER BY id DESC LIMIT ?`, prefix, prefix, n)
	if err != nil {
		return nil, fmt.Errorf("failed to search history: %w", err)
	}
	return scanRows(rows, scanEntry)
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	var at int64
	if err := rows.Scan(&e.ID, &e.Line, &e.Namespace, &e.OK, &at); err != nil {
		return Entry{}, err
	}
	e.At = time.Unix(0, at)
	return e, nil
}

// scanRows scans all rows into a slice using the provided scanner.
func scanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
