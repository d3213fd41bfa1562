package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryJournal implements SessionJournal using in-memory storage.
// This allows session history features to work without persistent storage.
type MemoryJournal struct {
	sessions map[string]*sessionData
	mutex    sync.RWMutex
}

type sessionData struct {
	record SessionRecord
	events []EventRecord
}

// NewMemoryJournal creates a new in-memory journal instance
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		sessions: make(map[string]*sessionData),
	}
}

// BeginSession registers a new session
func (m *MemoryJournal) BeginSession(ctx context.Context, session SessionRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.sessions[session.ID]; exists {
		return fmt.Errorf("session already exists: %s", session.ID)
	}

	session.EventCount = 0
	m.sessions[session.ID] = &sessionData{record: session}
	return nil
}

// EndSession marks a session as finished
func (m *MemoryJournal) EndSession(ctx context.Context, sessionID string, endedAt time.Time) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	data, exists := m.sessions[sessionID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	t := endedAt
	data.record.EndedAt = &t
	return nil
}

// AppendEvent appends one event to a session's journal
func (m *MemoryJournal) AppendEvent(ctx context.Context, event EventRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	data, exists := m.sessions[event.SessionID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, event.SessionID)
	}

	data.events = append(data.events, event)
	data.record.EventCount = len(data.events)
	return nil
}

// LoadEvents returns a session's events in append order
func (m *MemoryJournal) LoadEvents(ctx context.Context, sessionID string, limit, offset int) ([]EventRecord, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	data, exists := m.sessions[sessionID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	if offset >= len(data.events) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(data.events) {
		end = len(data.events)
	}

	out := make([]EventRecord, end-offset)
	copy(out, data.events[offset:end])
	return out, nil
}

// ListSessions returns session records, most recently started first
func (m *MemoryJournal) ListSessions(ctx context.Context, limit, offset int) ([]SessionRecord, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	records := make([]SessionRecord, 0, len(m.sessions))
	for _, data := range m.sessions {
		records = append(records, data.record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})

	if offset >= len(records) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(records) {
		end = len(records)
	}
	return records[offset:end], nil
}

// DeleteSession removes a session and its events
func (m *MemoryJournal) DeleteSession(ctx context.Context, sessionID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.sessions[sessionID]; !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	delete(m.sessions, sessionID)
	return nil
}

// Close is a no-op for in-memory storage
func (m *MemoryJournal) Close() error {
	return nil
}

// Health always succeeds for in-memory storage
func (m *MemoryJournal) Health(ctx context.Context) error {
	return nil
}
