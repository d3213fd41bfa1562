package display

import (
	"context"

	logger "github.com/capture-tools/zoomd/internal/logger"
)

// EnumeratedDisplay is one raw record produced by a display enumerator
// before classification
type EnumeratedDisplay struct {
	ID               string
	Name             string
	Origin           Point
	ReportedSize     Size
	BackingScaleHint float64
	Primary          bool
}

// Enumerator lists the displays known to the OS. Implementations exist per
// display server; it is invoked at startup and again on display-change
// notifications.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]EnumeratedDisplay, error)
}

// Override carries manually configured display properties that bypass
// classification
type Override struct {
	ScaleX float64
	ScaleY float64
}

// SourceSizeFunc reports the capture-source pixel size for a display id,
// returning a zero size when no source covers that display
type SourceSizeFunc func(id string) Size

// Populate enumerates displays, classifies each against its capture
// source's pixel size and upserts the results. Displays with degenerate
// geometry are skipped, keeping any prior record in effect.
func (r *Registry) Populate(ctx context.Context, enum Enumerator, sourceSize SourceSizeFunc, overrides map[string]Override) error {
	listed, err := enum.Enumerate(ctx)
	if err != nil {
		return err
	}

	for _, d := range listed {
		var pixels Size
		if sourceSize != nil {
			pixels = sourceSize(d.ID)
		}

		var rec *DisplayRecord
		var buildErr error
		if ov, ok := overrides[d.ID]; ok {
			rec, buildErr = NewOverrideRecord(d.ID, d.Name, d.Origin, d.ReportedSize, Scale{X: ov.ScaleX, Y: ov.ScaleY}, d.Primary)
		} else {
			rec, buildErr = NewRecord(d.ID, d.Name, d.Origin, d.ReportedSize, pixels, d.BackingScaleHint, d.Primary)
		}
		if buildErr != nil {
			logger.Warn("skipping display with invalid geometry", "display_id", d.ID, "error", buildErr)
			continue
		}

		if err := r.Upsert(rec); err != nil {
			logger.Warn("failed to register display", "display_id", d.ID, "error", err)
			continue
		}

		logger.Debug("registered display",
			"display_id", rec.ID,
			"name", rec.Name,
			"classification", rec.Class.String(),
			"logical", rec.LogicalSize,
			"pixel", rec.PixelSize,
			"scale_x", rec.Scale.X,
			"scale_y", rec.Scale.Y)
	}

	return nil
}
