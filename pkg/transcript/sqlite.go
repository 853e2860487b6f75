package transcript

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jllopis/agora/pkg/errors"
)

// SQLite implements Recorder on a SQLite database. The default DSN in
// configuration is ":memory:", so nothing is persisted unless the
// operator points it at a file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-backed recorder and ensures schema.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	if db == nil {
		return nil, errors.New(errors.CodeInternal, "db is nil", nil)
	}
	if err := ensureTranscriptSchema(db); err != nil {
		return nil, errors.New(errors.CodeInternal, "ensure transcript schema", err)
	}
	return &SQLite{db: db}, nil
}

// Record appends an exchange.
func (s *SQLite) Record(ctx context.Context, entry Entry) error {
	entry = normalize(entry)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transcript_entries (id, run_id, agent, role, kind, prompt, response, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.RunID, entry.Agent, entry.Role, entry.Kind, entry.Prompt, entry.Response,
		entry.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return errors.New(errors.CodeInternal, "record exchange", err).
			WithContext("agent", entry.Agent)
	}
	return nil
}

// List returns matching exchanges, oldest first.
func (s *SQLite) List(ctx context.Context, filter Filter) ([]Entry, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.RunID != "" {
		conds = append(conds, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.Agent != "" {
		conds = append(conds, "agent = ?")
		args = append(args, filter.Agent)
	}
	if filter.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, filter.Kind)
	}

	query := "SELECT id, run_id, agent, role, kind, prompt, response, created_at FROM transcript_entries"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	// rowid reflects insertion order, which is what "oldest first"
	// means for an append-only log.
	query += " ORDER BY rowid ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.New(errors.CodeInternal, "list exchanges", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Agent, &entry.Role, &entry.Kind,
			&entry.Prompt, &entry.Response, &createdAt); err != nil {
			return nil, errors.New(errors.CodeInternal, "scan exchange", err)
		}
		if ts, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
			entry.CreatedAt = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.CodeInternal, "iterate exchanges", err)
	}
	return entries, nil
}

func ensureTranscriptSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS transcript_entries (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL DEFAULT '',
			agent TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL DEFAULT '',
			prompt TEXT NOT NULL,
			response TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_transcript_run ON transcript_entries(run_id);
		CREATE INDEX IF NOT EXISTS idx_transcript_agent ON transcript_entries(agent);
	`)
	return err
}

var _ Recorder = (*SQLite)(nil)
