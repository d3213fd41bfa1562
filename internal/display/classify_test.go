package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRetinaWithHint(t *testing.T) {
	// The canonical Retina case: enumeration reports points, the capture
	// source produces 2x pixels, the OS confirms with a backing scale.
	result := Classify(
		Size{Width: 2560, Height: 1440},
		Size{Width: 5120, Height: 2880},
		2.0,
	)

	assert.Equal(t, ClassPoints, result.Class)
	assert.Equal(t, 2.0, result.Scale.X)
	assert.Equal(t, 2.0, result.Scale.Y)
}

func TestClassifyExactScaleRecovery(t *testing.T) {
	// For any exact pixel = logical * s relationship the classifier must
	// recover s.
	scales := []float64{1.5, 2.0, 2.5, 3.0}
	logical := Size{Width: 1920, Height: 1080}

	for _, s := range scales {
		pixels := Size{Width: logical.Width * s, Height: logical.Height * s}
		result := Classify(logical, pixels, s)
		assert.Equal(t, s, result.Scale.X, "scale %g", s)
		assert.Equal(t, s, result.Scale.Y, "scale %g", s)
	}
}

func TestClassifyAlreadyPixels(t *testing.T) {
	result := Classify(
		Size{Width: 1920, Height: 1080},
		Size{Width: 1920, Height: 1080},
		0,
	)

	assert.Equal(t, ClassPixels, result.Class)
	assert.Equal(t, 1.0, result.Scale.X)
}

func TestClassifyPixelsWithHint(t *testing.T) {
	// Reported size matches the source exactly, but the OS says the
	// display is scaled: the report was already in pixels.
	result := Classify(
		Size{Width: 5120, Height: 2880},
		Size{Width: 5120, Height: 2880},
		2.0,
	)

	assert.Equal(t, ClassPixels, result.Class)
	assert.Equal(t, 2.0, result.Scale.X)
}

func TestClassifyDerivedWithoutHint(t *testing.T) {
	// No hint, ratio clearly not 1: nearest-0.5 rounding recovers the
	// scale.
	result := Classify(
		Size{Width: 2560, Height: 1440},
		Size{Width: 5120, Height: 2880},
		0,
	)

	assert.Equal(t, ClassDerived, result.Class)
	assert.Equal(t, 2.0, result.Scale.X)
	assert.Equal(t, 2.0, result.Scale.Y)
}

func TestClassifyDerivedRoundsNoisyRatio(t *testing.T) {
	// Slightly off dimensions (rounding in the capture pipeline) still
	// resolve to the nearest half-step scale.
	result := Classify(
		Size{Width: 1512, Height: 982},
		Size{Width: 3024, Height: 1890},
		0,
	)

	assert.Equal(t, ClassDerived, result.Class)
	assert.Equal(t, 2.0, result.Scale.X)
	assert.Equal(t, 2.0, result.Scale.Y)
}

func TestClassifyHintMismatchFallsThrough(t *testing.T) {
	// Hint says 2 but the observed ratio is 1.5: the hint loses.
	result := Classify(
		Size{Width: 1920, Height: 1080},
		Size{Width: 2880, Height: 1620},
		2.0,
	)

	assert.Equal(t, ClassDerived, result.Class)
	assert.Equal(t, 1.5, result.Scale.X)
}

func TestClassifyNoSourceNoHint(t *testing.T) {
	// Nothing known: assume logical points with no hidden scaling.
	result := Classify(Size{Width: 1920, Height: 1080}, Size{}, 0)

	assert.Equal(t, ClassPoints, result.Class)
	assert.Equal(t, 1.0, result.Scale.X)
}

func TestClassifyNoSourceWithHint(t *testing.T) {
	result := Classify(Size{Width: 2560, Height: 1440}, Size{}, 2.0)

	assert.Equal(t, ClassPoints, result.Class)
	assert.Equal(t, 2.0, result.Scale.X)
}

func TestClassifyDegenerateReportedSize(t *testing.T) {
	// A zero reported size must not leak an infinite ratio out of the
	// division; fall back to the hint or scale 1.
	result := Classify(Size{}, Size{Width: 1920, Height: 1080}, 0)
	assert.Equal(t, ClassPoints, result.Class)
	assert.Equal(t, 1.0, result.Scale.X)

	result = Classify(Size{Width: -1, Height: 1440}, Size{Width: 5120, Height: 2880}, 2.0)
	assert.Equal(t, ClassPoints, result.Class)
	assert.Equal(t, 2.0, result.Scale.X)
}

func TestNewRecordPointsDerivesPixelSize(t *testing.T) {
	rec, err := NewRecord("d1", "Main", Point{}, Size{Width: 2560, Height: 1440}, Size{Width: 5120, Height: 2880}, 2.0, true)
	require.NoError(t, err)

	assert.Equal(t, ClassPoints, rec.Class)
	assert.Equal(t, 2560.0, rec.LogicalSize.Width)
	assert.Equal(t, 5120.0, rec.PixelSize.Width)
	assert.Equal(t, 2.0, rec.Scale.X)
}

func TestNewRecordPixelsDerivesLogicalSize(t *testing.T) {
	rec, err := NewRecord("d1", "Main", Point{}, Size{Width: 5120, Height: 2880}, Size{Width: 5120, Height: 2880}, 2.0, true)
	require.NoError(t, err)

	assert.Equal(t, ClassPixels, rec.Class)
	assert.Equal(t, 2560.0, rec.LogicalSize.Width)
	assert.Equal(t, 1440.0, rec.LogicalSize.Height)
	assert.Equal(t, 5120.0, rec.PixelSize.Width)
}

func TestNewRecordRejectsDegenerateGeometry(t *testing.T) {
	_, err := NewRecord("d1", "Broken", Point{}, Size{Width: 0, Height: 1080}, Size{}, 0, false)
	require.ErrorIs(t, err, ErrDegenerateGeometry)

	_, err = NewRecord("d1", "Broken", Point{}, Size{Width: 1920, Height: -1}, Size{}, 0, false)
	require.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestNewOverrideRecordBypassesClassification(t *testing.T) {
	rec, err := NewOverrideRecord("d1", "Main", Point{}, Size{Width: 1920, Height: 1080}, Scale{X: 1.5, Y: 1.5}, true)
	require.NoError(t, err)

	assert.Equal(t, ClassOverride, rec.Class)
	assert.Equal(t, 2880.0, rec.PixelSize.Width)
	assert.Equal(t, 1620.0, rec.PixelSize.Height)
}

func TestNewOverrideRecordRejectsBadScale(t *testing.T) {
	_, err := NewOverrideRecord("d1", "Main", Point{}, Size{Width: 1920, Height: 1080}, Scale{X: 0, Y: 1}, false)
	require.ErrorIs(t, err, ErrDegenerateGeometry)
}
