package display

import (
	"sync"

	logger "github.com/capture-tools/zoomd/internal/logger"
)

// Registry holds the set of known displays. Records are replaced wholesale
// on upsert, never mutated in place, so concurrent readers always see a
// consistent record.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*DisplayRecord
}

// NewRegistry creates an empty display registry
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]*DisplayRecord),
	}
}

// Upsert replaces or inserts a record by id. Nil records and records with
// degenerate geometry are rejected so a previously valid record stays in
// effect.
func (r *Registry) Upsert(rec *DisplayRecord) error {
	if rec == nil {
		return ErrDegenerateGeometry
	}
	if rec.LogicalSize.IsDegenerate() || rec.PixelSize.IsDegenerate() || rec.Scale.X <= 0 || rec.Scale.Y <= 0 {
		logger.Warn("rejecting display record with degenerate geometry",
			"display_id", rec.ID,
			"logical", rec.LogicalSize, "pixel", rec.PixelSize, "scale", rec.Scale)
		return ErrDegenerateGeometry
	}

	r.mu.Lock()
	r.records[rec.ID] = rec
	r.mu.Unlock()
	return nil
}

// Get returns the record with the given id, or nil if unknown
func (r *Registry) Get(id string) *DisplayRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records[id]
}

// FindContaining returns the display whose logical bounds contain the
// point. When displays overlap (mirrored or duplicated layouts) the
// smallest-area match wins.
func (r *Registry) FindContaining(p Point) *DisplayRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *DisplayRecord
	for _, rec := range r.records {
		if !rec.Contains(p) {
			continue
		}
		if best == nil || rec.LogicalArea() < best.LogicalArea() {
			best = rec
		}
	}
	return best
}

// Primary returns the primary display, or any display if none is marked
// primary, or nil when the registry is empty
func (r *Registry) Primary() *DisplayRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var fallback *DisplayRecord
	for _, rec := range r.records {
		if rec.Primary {
			return rec
		}
		if fallback == nil {
			fallback = rec
		}
	}
	return fallback
}

// All returns a snapshot of every known record
func (r *Registry) All() []*DisplayRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*DisplayRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out
}

// Len returns the number of known displays
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
