package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Session is one shell run.
type Session struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	Address      string    `json:"address,omitempty"`
	ShellVersion string    `json:"shell_version"`
}

// Cell is one executed query.
type Cell struct {
	ID          string `json:"id"`
	SessionID   string `json:"session_id"`
	Seq         int64  `json:"seq"`
	Query       string `json:"query"`
	QueryType   string `json:"query_type,omitempty"`
	Database    string `json:"database,omitempty"`
	Transaction string `json:"transaction,omitempty"`
	Answers     int    `json:"answers"`
	Error       string `json:"error,omitempty"`
}

// StartSession records a session. Recording the same ID twice is a no-op.
func (s *Store) StartSession(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, started_at, address, shell_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sess.ID,
		sess.StartedAt.UTC().Format(time.RFC3339Nano),
		sess.Address,
		sess.ShellVersion,
	)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	return nil
}

// RecordCell appends a cell to its session and returns the cell with its
// ID filled in. Uses ON CONFLICT DO NOTHING for idempotency.
//
// Note: The session referenced by SessionID must exist (foreign key constraint).
func (s *Store) RecordCell(ctx context.Context, c Cell) (Cell, error) {
	c.ID = CellID(c.SessionID, c.Seq, c.Query)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cells
		(id, session_id, seq, query, query_type, database_name, transaction_type, answer_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		c.ID,
		c.SessionID,
		c.Seq,
		c.Query,
		c.QueryType,
		c.Database,
		c.Transaction,
		c.Answers,
		c.Error,
	)
	if err != nil {
		return Cell{}, fmt.Errorf("record cell: %w", err)
	}
	return c, nil
}

// LastSeq returns the highest seq recorded for a session, or 0.
func (s *Store) LastSeq(ctx context.Context, sessionID string) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(seq) FROM cells WHERE session_id = ?`, sessionID,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}

// Sessions returns all sessions, oldest first.
//
// Returns an empty slice (not nil) if there are none.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, address, shell_version
		FROM sessions
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var (
			sess    Session
			started string
		)
		if err := rows.Scan(&sess.ID, &started, &sess.Address, &sess.ShellVersion); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("session %s: bad started_at: %w", sess.ID, err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// CellFilter narrows Cells. Zero fields match everything.
type CellFilter struct {
	SessionID string
	QueryType string
}

// Cells returns recorded cells in deterministic order:
// ORDER BY session_id, seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) Cells(ctx context.Context, f CellFilter) ([]Cell, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, seq, query, query_type, database_name, transaction_type, answer_count, error
		FROM cells
		WHERE (? = '' OR session_id = ?)
		  AND (? = '' OR query_type = ?)
		ORDER BY session_id COLLATE BINARY ASC, seq ASC, id COLLATE BINARY ASC
	`, f.SessionID, f.SessionID, f.QueryType, f.QueryType)
	if err != nil {
		return nil, fmt.Errorf("query cells: %w", err)
	}
	defer rows.Close()

	cells := []Cell{}
	for rows.Next() {
		var c Cell
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Seq, &c.Query, &c.QueryType,
			&c.Database, &c.Transaction, &c.Answers, &c.Error); err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cells: %w", err)
	}
	return cells, nil
}
