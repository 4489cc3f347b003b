package rnfi

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

const contactTable = "contact_messages"

var contactColumns = []string{"id", "first_name", "last_name", "email", "message", "remote_ip", "created_at"}

// ContactStore wraps a SQLite database holding contact form submissions.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and creates the schema.
func NewContactStore(path string) (*ContactStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the CLI read the inbox while the server writes to it.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := newContactStore(db)
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func newContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

// Close closes the underlying database connection.
func (s *ContactStore) Close() error {
	return s.db.Close()
}

func (s *ContactStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS contact_messages (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL,
    message TEXT NOT NULL,
    remote_ip TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS contact_messages_created_at ON contact_messages (created_at);
`)
	return err
}

// Save inserts m.
func (s *ContactStore) Save(ctx context.Context, m ContactMessage) error {
	query, args, err := sq.Insert(contactTable).
		Columns(contactColumns...).
		Values(m.ID, m.FirstName, m.LastName, m.Email, m.Message, m.RemoteIP, m.CreatedAt.UTC().Format(time.RFC3339Nano)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save contact message: %w", err)
	}
	return nil
}

// List returns up to limit messages, newest first. A limit of zero or less
// returns every message.
func (s *ContactStore) List(ctx context.Context, limit int) ([]ContactMessage, error) {
	b := sq.Select(contactColumns...).From(contactTable).OrderBy("created_at DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContactMessage
	for rows.Next() {
		var m ContactMessage
		var created string
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Message, &m.RemoteIP, &created); err != nil {
			return nil, err
		}
		m.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("message %s: created_at: %w", m.ID, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Count returns the number of stored messages.
func (s *ContactStore) Count(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From(contactTable).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
