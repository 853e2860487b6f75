package mailbox

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jllopis/agora/pkg/errors"
)

// SQLite implements Mailbox on a shared SQLite database. Each instance
// is scoped to one owner; several agents can share the same db handle.
type SQLite struct {
	db    *sql.DB
	owner string
}

// NewSQLite creates a SQLite-backed mailbox for owner and ensures schema.
func NewSQLite(db *sql.DB, owner string) (*SQLite, error) {
	if db == nil {
		return nil, errors.New(errors.CodeMailbox, "db is nil", nil)
	}
	if owner == "" {
		return nil, errors.New(errors.CodeMailbox, "owner is empty", nil)
	}
	if err := ensureMailboxSchema(db); err != nil {
		return nil, errors.New(errors.CodeMailbox, "ensure schema", err)
	}
	return &SQLite{db: db, owner: owner}, nil
}

// Append adds an entry to the end of the inbox.
func (s *SQLite) Append(ctx context.Context, entry string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mailbox_entries (owner, content, created_at) VALUES (?, ?, ?)
	`, s.owner, entry, time.Now().UTC())
	if err != nil {
		return errors.New(errors.CodeMailbox, "append entry", err).
			WithContext("owner", s.owner)
	}
	return nil
}

// Entries returns all entries for the owner in arrival order.
func (s *SQLite) Entries(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT content FROM mailbox_entries
		WHERE owner = ?
		ORDER BY created_at ASC, rowid ASC
	`, s.owner)
	if err != nil {
		return nil, errors.New(errors.CodeMailbox, "list entries", err).
			WithContext("owner", s.owner)
	}
	defer rows.Close()

	var entries []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, errors.New(errors.CodeMailbox, "scan entry", err)
		}
		entries = append(entries, content)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.CodeMailbox, "iterate entries", err)
	}
	return entries, nil
}

// Len returns the number of entries for the owner.
func (s *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM mailbox_entries WHERE owner = ?
	`, s.owner).Scan(&n)
	if err != nil {
		return 0, errors.New(errors.CodeMailbox, "count entries", err).
			WithContext("owner", s.owner)
	}
	return n, nil
}

// Clear removes all entries for the owner.
func (s *SQLite) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM mailbox_entries WHERE owner = ?
	`, s.owner)
	if err != nil {
		return errors.New(errors.CodeMailbox, "clear entries", err).
			WithContext("owner", s.owner)
	}
	return nil
}

func ensureMailboxSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS mailbox_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_mailbox_owner ON mailbox_entries(owner);
	`)
	return err
}
