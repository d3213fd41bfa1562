package display

import (
	"fmt"

	logger "github.com/capture-tools/zoomd/internal/logger"
)

// OriginConvention declares where a cursor producer's origin sits and which
// way its Y axis grows
type OriginConvention int

const (
	// TopLeftDown is the normalized convention: origin top-left, Y grows down
	TopLeftDown OriginConvention = iota
	// BottomLeftUp is the Quartz-style convention: origin bottom-left, Y grows up
	BottomLeftUp
)

// String returns the string representation of an origin convention
func (c OriginConvention) String() string {
	switch c {
	case TopLeftDown:
		return "top-left-down"
	case BottomLeftUp:
		return "bottom-left-up"
	default:
		return "unknown"
	}
}

// Mapper converts raw cursor positions into capture-source pixel
// coordinates. It is not safe for concurrent use; each capture source's
// tick loop owns one mapper.
type Mapper struct {
	reg      *Registry
	activeID string
	last     *DisplayRecord
}

// NewMapper creates a mapper backed by the given registry
func NewMapper(reg *Registry) *Mapper {
	return &Mapper{reg: reg}
}

// SetActiveDisplay pins mapping to a specific display id. An empty id
// restores point-containment auto-detection.
func (m *Mapper) SetActiveDisplay(id string) {
	m.activeID = id
}

// Map resolves a raw cursor position into pixel coordinates relative to
// the display that contains it.
//
// The transformation order is fixed: origin normalization against the
// primary display, global-to-local offset subtraction, scale application,
// then clamping into the display's pixel bounds. When no display contains
// the point the last successfully mapped display is reused; mapping only
// fails when no display has ever resolved.
func (m *Mapper) Map(rawX, rawY float64, conv OriginConvention) (MappedPoint, error) {
	x, y := rawX, rawY

	if conv == BottomLeftUp {
		primary := m.reg.Primary()
		if primary == nil {
			return MappedPoint{}, fmt.Errorf("cannot normalize origin: %w", ErrDisplayNotFound)
		}
		// Flip into top-left-down space using the primary display's
		// logical height (pixel height divided by scale).
		y = primary.PixelSize.Height/primary.Scale.Y - rawY
	}

	rec := m.resolve(Point{X: x, Y: y})
	if rec == nil {
		return MappedPoint{}, fmt.Errorf("cursor at (%g, %g): %w", x, y, ErrDisplayNotFound)
	}
	m.last = rec

	localX := x - rec.Origin.X
	localY := y - rec.Origin.Y

	px := localX * rec.Scale.X
	py := localY * rec.Scale.Y

	mp := MappedPoint{DisplayID: rec.ID, PX: px, PY: py}

	if px < 0 {
		mp.PX = 0
		mp.Clamped = true
	} else if px > rec.PixelSize.Width {
		mp.PX = rec.PixelSize.Width
		mp.Clamped = true
	}
	if py < 0 {
		mp.PY = 0
		mp.Clamped = true
	} else if py > rec.PixelSize.Height {
		mp.PY = rec.PixelSize.Height
		mp.Clamped = true
	}

	return mp, nil
}

func (m *Mapper) resolve(p Point) *DisplayRecord {
	if m.activeID != "" {
		if rec := m.reg.Get(m.activeID); rec != nil {
			return rec
		}
	}

	if rec := m.reg.FindContaining(p); rec != nil {
		return rec
	}

	// Point fell in a gap between monitors or the registry is stale.
	// Reuse the last display that mapped successfully rather than failing
	// the tick.
	if m.last != nil {
		logger.Debug("cursor outside all displays, reusing last display",
			"x", p.X, "y", p.Y, "display_id", m.last.ID)
		return m.last
	}

	return m.reg.Primary()
}
