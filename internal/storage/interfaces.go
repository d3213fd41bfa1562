package storage

import (
	"context"
	"errors"
	"time"

	zoom "github.com/capture-tools/zoomd/internal/zoom"
)

// ErrSessionNotFound is returned when a session id does not exist
var ErrSessionNotFound = errors.New("session not found")

// SessionJournal defines the interface for persistent session journaling.
// A session spans one engine run against one capture source; events record
// every state machine transition within it.
type SessionJournal interface {
	// BeginSession registers a new session
	BeginSession(ctx context.Context, session SessionRecord) error

	// EndSession marks a session as finished
	EndSession(ctx context.Context, sessionID string, endedAt time.Time) error

	// AppendEvent appends one event to a session's journal
	AppendEvent(ctx context.Context, event EventRecord) error

	// LoadEvents returns a session's events in append order
	LoadEvents(ctx context.Context, sessionID string, limit, offset int) ([]EventRecord, error)

	// ListSessions returns session records, most recently started first
	ListSessions(ctx context.Context, limit, offset int) ([]SessionRecord, error)

	// DeleteSession removes a session and its events
	DeleteSession(ctx context.Context, sessionID string) error

	// Close closes the journal
	Close() error

	// Health checks if the journal is healthy and reachable
	Health(ctx context.Context) error
}

// SessionRecord describes one engine run
type SessionRecord struct {
	ID           string     `json:"id"`
	SourceName   string     `json:"source_name"`
	SourceWidth  int        `json:"source_width"`
	SourceHeight int        `json:"source_height"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	EventCount   int        `json:"event_count"`
}

// EventRecord is one journaled state machine transition
type EventRecord struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Kind      string         `json:"kind"`
	State     zoom.StateInfo `json:"state"`
	CreatedAt time.Time      `json:"created_at"`
}

// JournalConfig contains configuration for journal backends
type JournalConfig struct {
	// Type specifies the journal backend type (sqlite, memory)
	Type string `json:"type" yaml:"type"`

	// SQLite specific configuration
	SQLite SQLiteConfig `json:"sqlite,omitempty" yaml:"sqlite,omitempty"`
}

// SQLiteConfig contains SQLite-specific configuration
type SQLiteConfig struct {
	Path string `json:"path" yaml:"path"`
}
