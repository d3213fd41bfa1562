package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retinaRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.Upsert(mustRecord(t, "retina", Point{}, Size{Width: 2560, Height: 1440}, 2.0, true)))
	return reg
}

func TestMapBottomLeftUpFlip(t *testing.T) {
	// Single 2560x1440 logical display at scale 2. A raw bottom-left-up
	// position (1280, 720) is the exact screen center and must land at
	// pixel (2560, 1440).
	m := NewMapper(retinaRegistry(t))

	mp, err := m.Map(1280, 720, BottomLeftUp)
	require.NoError(t, err)

	assert.Equal(t, "retina", mp.DisplayID)
	assert.Equal(t, 2560.0, mp.PX)
	assert.Equal(t, 1440.0, mp.PY)
	assert.False(t, mp.Clamped)
}

func TestMapTopLeftDownScale(t *testing.T) {
	m := NewMapper(retinaRegistry(t))

	mp, err := m.Map(100, 50, TopLeftDown)
	require.NoError(t, err)

	assert.Equal(t, 200.0, mp.PX)
	assert.Equal(t, 100.0, mp.PY)
	assert.False(t, mp.Clamped)
}

func TestMapGlobalOffsetSecondary(t *testing.T) {
	reg := retinaRegistry(t)
	require.NoError(t, reg.Upsert(mustRecord(t, "side", Point{X: 2560, Y: 200}, Size{Width: 1920, Height: 1080}, 1.0, false)))
	m := NewMapper(reg)

	mp, err := m.Map(2660, 300, TopLeftDown)
	require.NoError(t, err)

	assert.Equal(t, "side", mp.DisplayID)
	assert.Equal(t, 100.0, mp.PX)
	assert.Equal(t, 100.0, mp.PY)
}

func TestMapClampsOutOfBounds(t *testing.T) {
	reg := retinaRegistry(t)
	m := NewMapper(reg)
	m.SetActiveDisplay("retina")

	mp, err := m.Map(-10, 3000, TopLeftDown)
	require.NoError(t, err)

	assert.Equal(t, 0.0, mp.PX)
	assert.Equal(t, 1440.0*2, mp.PY)
	assert.True(t, mp.Clamped)
}

func TestMapBoundaryPixelNotClamped(t *testing.T) {
	m := NewMapper(retinaRegistry(t))
	m.SetActiveDisplay("retina")

	mp, err := m.Map(2560, 1440, TopLeftDown)
	require.NoError(t, err)

	assert.Equal(t, 5120.0, mp.PX)
	assert.Equal(t, 2880.0, mp.PY)
	assert.False(t, mp.Clamped)
}

func TestMapActiveDisplayPin(t *testing.T) {
	reg := retinaRegistry(t)
	require.NoError(t, reg.Upsert(mustRecord(t, "side", Point{X: 2560}, Size{Width: 1920, Height: 1080}, 1.0, false)))
	m := NewMapper(reg)
	m.SetActiveDisplay("side")

	// The raw point sits on the retina display, but the pin wins: it maps
	// relative to "side" and clamps left.
	mp, err := m.Map(100, 100, TopLeftDown)
	require.NoError(t, err)

	assert.Equal(t, "side", mp.DisplayID)
	assert.Equal(t, 0.0, mp.PX)
	assert.True(t, mp.Clamped)
}

func TestMapReusesLastDisplayInGaps(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Upsert(mustRecord(t, "left", Point{}, Size{Width: 1920, Height: 1080}, 1.0, true)))
	require.NoError(t, reg.Upsert(mustRecord(t, "right", Point{X: 2000}, Size{Width: 1920, Height: 1080}, 1.0, false)))
	m := NewMapper(reg)

	_, err := m.Map(2100, 100, TopLeftDown)
	require.NoError(t, err)

	// (1950, 100) falls in the 80-unit gap between the monitors; mapping
	// sticks with the right display and clamps.
	mp, err := m.Map(1950, 100, TopLeftDown)
	require.NoError(t, err)

	assert.Equal(t, "right", mp.DisplayID)
	assert.Equal(t, 0.0, mp.PX)
	assert.True(t, mp.Clamped)
}

func TestMapEmptyRegistryFails(t *testing.T) {
	m := NewMapper(NewRegistry())

	_, err := m.Map(100, 100, TopLeftDown)
	assert.ErrorIs(t, err, ErrDisplayNotFound)

	_, err = m.Map(100, 100, BottomLeftUp)
	assert.ErrorIs(t, err, ErrDisplayNotFound)
}

func TestMapRoundTripCenter(t *testing.T) {
	// Mapping the logical center of any display must yield the pixel
	// center.
	cases := []struct {
		logical Size
		scale   float64
	}{
		{Size{Width: 1920, Height: 1080}, 1.0},
		{Size{Width: 2560, Height: 1440}, 2.0},
		{Size{Width: 3440, Height: 1440}, 1.5},
	}

	for _, tc := range cases {
		reg := NewRegistry()
		require.NoError(t, reg.Upsert(mustRecord(t, "d", Point{}, tc.logical, tc.scale, true)))
		m := NewMapper(reg)

		mp, err := m.Map(tc.logical.Width/2, tc.logical.Height/2, TopLeftDown)
		require.NoError(t, err)
		assert.InDelta(t, tc.logical.Width*tc.scale/2, mp.PX, 1e-9)
		assert.InDelta(t, tc.logical.Height*tc.scale/2, mp.PY, 1e-9)
	}
}
