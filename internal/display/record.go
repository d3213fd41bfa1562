package display

import "fmt"

// DisplayRecord describes one physical display paired with its capture
// source. Records are immutable after construction; any geometry or scale
// change produces a new record that replaces the old one wholesale, so a
// concurrently running tick never observes a half-updated display.
type DisplayRecord struct {
	ID          string
	Name        string
	Origin      Point // top-left corner in global logical coordinates
	LogicalSize Size
	PixelSize   Size
	Scale       Scale
	Class       Classification
	Primary     bool
}

// NewRecord classifies the reported geometry and builds an immutable
// display record. reported comes from display enumeration, sourcePixels
// from the capture source (zero size when unavailable) and
// backingScaleHint from the OS (0 when absent).
func NewRecord(id, name string, origin Point, reported, sourcePixels Size, backingScaleHint float64, primary bool) (*DisplayRecord, error) {
	if reported.IsDegenerate() {
		return nil, fmt.Errorf("display %s reported %gx%g: %w", id, reported.Width, reported.Height, ErrDegenerateGeometry)
	}

	result := Classify(reported, sourcePixels, backingScaleHint)

	rec := &DisplayRecord{
		ID:      id,
		Name:    name,
		Origin:  origin,
		Scale:   result.Scale,
		Class:   result.Class,
		Primary: primary,
	}

	switch result.Class {
	case ClassPixels:
		rec.PixelSize = reported
		rec.LogicalSize = Size{
			Width:  reported.Width / result.Scale.X,
			Height: reported.Height / result.Scale.Y,
		}
	default:
		rec.LogicalSize = reported
		if sourcePixels.IsDegenerate() {
			rec.PixelSize = Size{
				Width:  reported.Width * result.Scale.X,
				Height: reported.Height * result.Scale.Y,
			}
		} else {
			rec.PixelSize = sourcePixels
		}
	}

	return rec, nil
}

// NewOverrideRecord builds a record with an explicitly configured scale,
// bypassing classification entirely
func NewOverrideRecord(id, name string, origin Point, reported Size, scale Scale, primary bool) (*DisplayRecord, error) {
	if reported.IsDegenerate() {
		return nil, fmt.Errorf("display %s reported %gx%g: %w", id, reported.Width, reported.Height, ErrDegenerateGeometry)
	}
	if scale.X <= 0 || scale.Y <= 0 {
		return nil, fmt.Errorf("display %s override scale %gx%g: %w", id, scale.X, scale.Y, ErrDegenerateGeometry)
	}

	return &DisplayRecord{
		ID:          id,
		Name:        name,
		Origin:      origin,
		LogicalSize: reported,
		PixelSize: Size{
			Width:  reported.Width * scale.X,
			Height: reported.Height * scale.Y,
		},
		Scale:   scale,
		Class:   ClassOverride,
		Primary: primary,
	}, nil
}

// Contains reports whether a global logical point falls within the
// display's [origin, origin+logicalSize) rectangle. Lower bounds are
// inclusive, upper bounds exclusive.
func (r *DisplayRecord) Contains(p Point) bool {
	return p.X >= r.Origin.X && p.X < r.Origin.X+r.LogicalSize.Width &&
		p.Y >= r.Origin.Y && p.Y < r.Origin.Y+r.LogicalSize.Height
}

// LogicalArea returns the display's area in logical units
func (r *DisplayRecord) LogicalArea() float64 {
	return r.LogicalSize.Width * r.LogicalSize.Height
}
