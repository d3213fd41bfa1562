package storage

import (
	"fmt"
)

// NewJournal creates a new journal instance based on the provided configuration
func NewJournal(config JournalConfig) (SessionJournal, error) {
	switch config.Type {
	case "sqlite":
		return NewSQLiteJournal(config.SQLite)
	case "memory", "":
		return NewMemoryJournal(), nil
	default:
		return nil, fmt.Errorf("unsupported journal type: %s", config.Type)
	}
}
