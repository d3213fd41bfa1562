package display

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnumerator struct {
	displays []EnumeratedDisplay
}

func (f *fakeEnumerator) Enumerate(ctx context.Context) ([]EnumeratedDisplay, error) {
	return f.displays, nil
}

func TestPopulateRegistersAndClassifies(t *testing.T) {
	enum := &fakeEnumerator{displays: []EnumeratedDisplay{
		{
			ID:               "0",
			Name:             "Built-in",
			ReportedSize:     Size{Width: 2560, Height: 1440},
			BackingScaleHint: 2.0,
			Primary:          true,
		},
	}}
	registry := NewRegistry()

	require.NoError(t, registry.Populate(context.Background(), enum, nil, nil))
	require.Equal(t, 1, registry.Len())

	rec := registry.Get("0")
	require.NotNil(t, rec)
	assert.Equal(t, ClassPoints, rec.Class)
	assert.Equal(t, 5120.0, rec.PixelSize.Width)
}

func TestPopulateAppliesOverrides(t *testing.T) {
	enum := &fakeEnumerator{displays: []EnumeratedDisplay{
		{ID: "0", Name: "Main", ReportedSize: Size{Width: 1920, Height: 1080}, Primary: true},
	}}
	registry := NewRegistry()

	overrides := map[string]Override{"0": {ScaleX: 1.5, ScaleY: 1.5}}
	require.NoError(t, registry.Populate(context.Background(), enum, nil, overrides))

	rec := registry.Get("0")
	require.NotNil(t, rec)
	assert.Equal(t, ClassOverride, rec.Class)
	assert.Equal(t, 2880.0, rec.PixelSize.Width)
}

func TestPopulateSkipsDegenerateDisplays(t *testing.T) {
	enum := &fakeEnumerator{displays: []EnumeratedDisplay{
		{ID: "0", Name: "Good", ReportedSize: Size{Width: 1920, Height: 1080}, Primary: true},
		{ID: "1", Name: "Broken", ReportedSize: Size{Width: 0, Height: 1080}},
	}}
	registry := NewRegistry()

	require.NoError(t, registry.Populate(context.Background(), enum, nil, nil))
	assert.Equal(t, 1, registry.Len())
	assert.Nil(t, registry.Get("1"))
}

func TestPopulatePicksUpLayoutChanges(t *testing.T) {
	// Re-enumeration after a display is attached or a resolution changes
	// must fold the new layout into the registry.
	enum := &fakeEnumerator{displays: []EnumeratedDisplay{
		{ID: "0", Name: "Main", ReportedSize: Size{Width: 1920, Height: 1080}, Primary: true},
	}}
	registry := NewRegistry()
	require.NoError(t, registry.Populate(context.Background(), enum, nil, nil))
	require.Equal(t, 1, registry.Len())

	enum.displays = []EnumeratedDisplay{
		{ID: "0", Name: "Main", ReportedSize: Size{Width: 2560, Height: 1440}, Primary: true},
		{ID: "1", Name: "External", Origin: Point{X: 2560}, ReportedSize: Size{Width: 1920, Height: 1080}},
	}
	require.NoError(t, registry.Populate(context.Background(), enum, nil, nil))

	assert.Equal(t, 2, registry.Len())
	main := registry.Get("0")
	require.NotNil(t, main)
	assert.Equal(t, 2560.0, main.LogicalSize.Width, "resolution change replaces the record")
	external := registry.Get("1")
	require.NotNil(t, external)
	assert.Equal(t, 2560.0, external.Origin.X)
}
