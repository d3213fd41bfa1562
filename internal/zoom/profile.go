// Package zoom implements the zoom/follow state machine that turns mapped
// cursor positions into an animated crop rectangle over a capture source.
package zoom

import (
	"errors"
	"fmt"

	"github.com/capture-tools/zoomd/internal/easing"
)

// ErrUnknownProfile indicates a SetProfile command referenced a profile
// name that is not configured
var ErrUnknownProfile = errors.New("unknown zoom profile")

// Profile is an immutable snapshot of zoom behavior settings. Exactly one
// profile is active at a time; switching profiles swaps the whole value.
type Profile struct {
	Name string
	// ZoomFactor divides the source size to produce the zoomed extent
	ZoomFactor float64
	// ZoomSpeed is animation progress per second for zoom in/out legs
	ZoomSpeed float64
	// FollowSpeed is interpolation progress per second for cursor tracking
	FollowSpeed float64
	// FollowBorder is the dead-zone radius in source pixels around the
	// current center; cursor movement inside it does not re-center
	FollowBorder float64
	// Easing names the easing function applied to animation progress
	Easing string
	// AutoFollow enables cursor following as soon as zoom-in completes
	AutoFollow bool
	// FollowOutsideBounds keeps following even when the cursor has been
	// clamped back into the display bounds
	FollowOutsideBounds bool
}

// DefaultProfile returns the built-in standard profile
func DefaultProfile() Profile {
	return Profile{
		Name:         "standard",
		ZoomFactor:   2.0,
		ZoomSpeed:    3.0,
		FollowSpeed:  6.0,
		FollowBorder: 8,
		Easing:       "ease_in_out",
		AutoFollow:   true,
	}
}

// Validate checks that a profile's settings are usable
func (p Profile) Validate() error {
	if p.ZoomFactor <= 0 {
		return fmt.Errorf("profile %q: zoom_factor must be positive, got %g", p.Name, p.ZoomFactor)
	}
	if p.ZoomSpeed <= 0 {
		return fmt.Errorf("profile %q: zoom_speed must be positive, got %g", p.Name, p.ZoomSpeed)
	}
	if p.FollowSpeed <= 0 {
		return fmt.Errorf("profile %q: follow_speed must be positive, got %g", p.Name, p.FollowSpeed)
	}
	if p.FollowBorder < 0 {
		return fmt.Errorf("profile %q: follow_border must not be negative, got %g", p.Name, p.FollowBorder)
	}
	if p.Easing != "" && !easing.Known(p.Easing) {
		return fmt.Errorf("profile %q: unknown easing %q", p.Name, p.Easing)
	}
	return nil
}
