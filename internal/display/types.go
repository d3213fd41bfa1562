// Package display models physical displays and the coordinate spaces they
// live in: logical points as reported by display enumeration, physical
// pixels as produced by a capture source, and the per-display scale that
// converts between them. It classifies reported geometry, keeps a registry
// of known displays and maps raw cursor positions into capture-source
// pixel coordinates.
package display

import "errors"

var (
	// ErrDegenerateGeometry indicates a zero or negative display size
	ErrDegenerateGeometry = errors.New("degenerate display geometry")

	// ErrDisplayNotFound indicates no known display contains a point
	ErrDisplayNotFound = errors.New("no display contains point")
)

// Point is a position in a top-left-origin, downward-Y coordinate space
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair; the unit depends on context (points or pixels)
type Size struct {
	Width  float64
	Height float64
}

// IsDegenerate reports whether either dimension is zero or negative
func (s Size) IsDegenerate() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Scale is a per-axis multiplier converting logical points to physical pixels
type Scale struct {
	X float64
	Y float64
}

// Uniform returns a scale with the same factor on both axes
func Uniform(s float64) Scale {
	return Scale{X: s, Y: s}
}

// Region represents a rectangular area in source pixel space, as consumed
// by a crop filter
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// MappedPoint is a cursor position resolved into a specific display's
// capture-source pixel space
type MappedPoint struct {
	DisplayID string
	PX        float64
	PY        float64
	// Clamped is set when the point fell outside the display bounds and
	// was clipped back in
	Clamped bool
}
