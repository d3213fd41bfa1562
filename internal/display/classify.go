package display

import (
	"math"

	logger "github.com/capture-tools/zoomd/internal/logger"
)

// Classification tags how a display's reported size should be interpreted
type Classification int

const (
	// ClassPoints means the reported size is in logical points and must be
	// scaled up to reach capture-source pixels
	ClassPoints Classification = iota
	// ClassPixels means the reported size is already in physical pixels
	ClassPixels
	// ClassDerived means neither interpretation matched cleanly and the
	// scale was recovered by rounding the observed ratio
	ClassDerived
	// ClassOverride means a manually configured scale bypassed detection
	ClassOverride
)

// String returns the string representation of a classification
func (c Classification) String() string {
	switch c {
	case ClassPoints:
		return "points"
	case ClassPixels:
		return "pixels"
	case ClassDerived:
		return "derived"
	case ClassOverride:
		return "override"
	default:
		return "unknown"
	}
}

// ClassifyResult is the outcome of geometry classification
type ClassifyResult struct {
	Class Classification
	Scale Scale
}

// ratioTolerance is the relative tolerance used when matching the observed
// pixel/logical ratio against the backing scale hint or against 1.0
const ratioTolerance = 0.05

// Classify decides whether a display's reported size is in logical points
// or physical pixels and returns the effective per-axis scale.
//
// reported is the size from display enumeration, sourcePixels the size the
// capture source produces for that display, and backingScaleHint an
// optional OS-reported scale (0 when absent). When the source size is
// unavailable the hint alone decides; when both are absent the reported
// size is taken as logical points with scale 1.
func Classify(reported, sourcePixels Size, backingScaleHint float64) ClassifyResult {
	hintUsable := backingScaleHint > 1

	if reported.IsDegenerate() {
		if hintUsable {
			return ClassifyResult{Class: ClassPoints, Scale: Uniform(backingScaleHint)}
		}
		return ClassifyResult{Class: ClassPoints, Scale: Uniform(1)}
	}

	if sourcePixels.IsDegenerate() {
		if hintUsable {
			return ClassifyResult{Class: ClassPoints, Scale: Uniform(backingScaleHint)}
		}
		return ClassifyResult{Class: ClassPoints, Scale: Uniform(1)}
	}

	rx := sourcePixels.Width / reported.Width
	ry := sourcePixels.Height / reported.Height
	ratio := (rx + ry) / 2

	if hintUsable && withinRelative(ratio, backingScaleHint, ratioTolerance) {
		return ClassifyResult{Class: ClassPoints, Scale: Uniform(backingScaleHint)}
	}

	if withinRelative(ratio, 1, ratioTolerance) {
		if hintUsable {
			// Reported size is already pixels; the hint still describes
			// the logical-to-pixel relationship of the display.
			return ClassifyResult{Class: ClassPixels, Scale: Uniform(backingScaleHint)}
		}
		return ClassifyResult{Class: ClassPixels, Scale: Uniform(1)}
	}

	// Neither interpretation matched: recover the scale per axis by
	// rounding the observed ratio to the nearest 0.5.
	sx := roundHalf(rx)
	sy := roundHalf(ry)
	if sx <= 0 {
		sx = 1
	}
	if sy <= 0 {
		sy = 1
	}

	logger.Debug("display geometry ambiguous, derived scale from ratio",
		"ratio_x", rx, "ratio_y", ry, "scale_x", sx, "scale_y", sy,
		"backing_scale_hint", backingScaleHint)

	return ClassifyResult{Class: ClassDerived, Scale: Scale{X: sx, Y: sy}}
}

func withinRelative(value, reference, tolerance float64) bool {
	if reference == 0 {
		return false
	}
	return math.Abs(value-reference)/reference <= tolerance
}

func roundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}
