package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteJournal implements SessionJournal using SQLite
type SQLiteJournal struct {
	db   *sql.DB
	path string
}

// NewSQLiteJournal creates a new SQLite journal instance
func NewSQLiteJournal(config SQLiteConfig) (*SQLiteJournal, error) {
	if config.Path != ":memory:" {
		dir := filepath.Dir(config.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	journal := &SQLiteJournal{
		db:   db,
		path: config.Path,
	}

	if err := journal.setup(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return journal, nil
}

// setup applies connection pragmas and creates the journal tables
func (s *SQLiteJournal) setup() error {
	pragmas := `
	PRAGMA journal_mode = WAL;
	PRAGMA busy_timeout = 5000;
	PRAGMA foreign_keys = ON;
	`
	if _, err := s.db.Exec(pragmas); err != nil {
		return err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		source_name TEXT NOT NULL,
		source_width INTEGER NOT NULL,
		source_height INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME,
		event_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		state_data TEXT NOT NULL, -- JSON serialized state snapshot
		sequence_number INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_events_session_id ON events(session_id);
	CREATE INDEX IF NOT EXISTS idx_events_sequence ON events(session_id, sequence_number);
	`

	_, err := s.db.Exec(schema)
	return err
}

// BeginSession registers a new session
func (s *SQLiteJournal) BeginSession(ctx context.Context, session SessionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, source_name, source_width, source_height, started_at, ended_at, event_count)
		VALUES (?, ?, ?, ?, ?, NULL, 0)
	`, session.ID, session.SourceName, session.SourceWidth, session.SourceHeight, session.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// EndSession marks a session as finished
func (s *SQLiteJournal) EndSession(ctx context.Context, sessionID string, endedAt time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET ended_at = ? WHERE id = ?", endedAt, sessionID)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// AppendEvent appends one event to a session's journal
func (s *SQLiteJournal) AppendEvent(ctx context.Context, event EventRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stateJSON, err := json.Marshal(event.State)
	if err != nil {
		return fmt.Errorf("failed to marshal event state: %w", err)
	}

	var sequence int
	err = tx.QueryRowContext(ctx,
		"SELECT event_count FROM sessions WHERE id = ?", event.SessionID).Scan(&sequence)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, event.SessionID)
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (id, session_id, kind, state_data, sequence_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.ID, event.SessionID, event.Kind, string(stateJSON), sequence, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE sessions SET event_count = event_count + 1 WHERE id = ?", event.SessionID)
	if err != nil {
		return fmt.Errorf("failed to update event count: %w", err)
	}

	return tx.Commit()
}

// LoadEvents returns a session's events in append order
func (s *SQLiteJournal) LoadEvents(ctx context.Context, sessionID string, limit, offset int) ([]EventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, kind, state_data, created_at
		FROM events
		WHERE session_id = ?
		ORDER BY sequence_number ASC
		LIMIT ? OFFSET ?
	`, sessionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []EventRecord
	for rows.Next() {
		var event EventRecord
		var stateJSON string
		if err := rows.Scan(&event.ID, &event.SessionID, &event.Kind, &stateJSON, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		if err := json.Unmarshal([]byte(stateJSON), &event.State); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event state: %w", err)
		}

		events = append(events, event)
	}

	return events, rows.Err()
}

// ListSessions returns session records, most recently started first
func (s *SQLiteJournal) ListSessions(ctx context.Context, limit, offset int) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_name, source_width, source_height, started_at, ended_at, event_count
		FROM sessions
		ORDER BY started_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []SessionRecord
	for rows.Next() {
		var session SessionRecord
		var endedAt sql.NullTime

		err := rows.Scan(
			&session.ID, &session.SourceName, &session.SourceWidth, &session.SourceHeight,
			&session.StartedAt, &endedAt, &session.EventCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		if endedAt.Valid {
			t := endedAt.Time
			session.EndedAt = &t
		}

		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// DeleteSession removes a session and its events
func (s *SQLiteJournal) DeleteSession(ctx context.Context, sessionID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteJournal) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Health checks if the database is reachable and functional
func (s *SQLiteJournal) Health(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	var result int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query test failed: %w", err)
	}

	return nil
}
