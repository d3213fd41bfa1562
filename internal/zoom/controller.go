package zoom

import (
	"fmt"
	"math"

	display "github.com/capture-tools/zoomd/internal/display"
	easing "github.com/capture-tools/zoomd/internal/easing"
	logger "github.com/capture-tools/zoomd/internal/logger"
)

// Mode is the state of the zoom state machine
type Mode int

const (
	// ModeIdle renders the full frame, no zoom active
	ModeIdle Mode = iota
	// ModeZoomingIn animates from full frame toward the zoomed extent
	ModeZoomingIn
	// ModeZoomed holds the zoomed extent, following or frozen
	ModeZoomed
	// ModeZoomingOut animates back to the full frame
	ModeZoomingOut
)

// String returns the string representation of a mode
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeZoomingIn:
		return "zooming_in"
	case ModeZoomed:
		return "zoomed"
	case ModeZoomingOut:
		return "zooming_out"
	default:
		return "unknown"
	}
}

// settleEpsilon is the center distance in pixels below which following is
// considered settled and the hysteresis lock re-engages
const settleEpsilon = 0.5

// Controller drives the zoom/follow state machine for one capture source.
// It is owned by that source's tick loop and must not be advanced from two
// call sites; commands arriving asynchronously are applied at tick
// boundaries via Apply.
type Controller struct {
	profiles map[string]Profile
	profile  Profile
	ease     easing.Func

	source display.Size // capture source pixel bounds

	mode          Mode
	followEnabled bool

	currentCenter display.Point
	currentExtent display.Size

	// leg snapshot for eased zoom in/out interpolation
	startCenter display.Point
	startExtent display.Size
	progress    float64

	// frozenCenter is the target captured at zoom-in start, used while
	// following is disabled
	frozenCenter display.Point

	override *display.Point

	// centerLocked holds the crop steady until the cursor leaves the
	// follow border around the current center
	centerLocked bool
}

// NewController creates a controller over a capture source of the given
// pixel size. profiles maps profile names to settings; defaultName selects
// the initially active profile and must resolve.
func NewController(source display.Size, profiles map[string]Profile, defaultName string) (*Controller, error) {
	if source.IsDegenerate() {
		return nil, fmt.Errorf("capture source size %gx%g: %w", source.Width, source.Height, display.ErrDegenerateGeometry)
	}

	if profiles == nil {
		profiles = map[string]Profile{}
	}
	if len(profiles) == 0 {
		def := DefaultProfile()
		profiles[def.Name] = def
		if defaultName == "" {
			defaultName = def.Name
		}
	}

	active, ok := profiles[defaultName]
	if !ok {
		return nil, fmt.Errorf("default profile %q: %w", defaultName, ErrUnknownProfile)
	}
	// Every profile is validated up front; SetProfile can then activate any
	// map entry without re-checking.
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	c := &Controller{
		profiles: profiles,
		profile:  active,
		ease:     easing.ByName(active.Easing),
		source:   source,
	}
	c.resetToFullFrame()
	return c, nil
}

// Mode returns the current state machine mode
func (c *Controller) Mode() Mode {
	return c.mode
}

// Following reports whether cursor following is enabled
func (c *Controller) Following() bool {
	return c.followEnabled
}

// Profile returns the active profile snapshot
func (c *Controller) Profile() Profile {
	return c.profile
}

// Override returns the manual override point, or nil when targeting
// follows the live cursor
func (c *Controller) Override() *display.Point {
	if c.override == nil {
		return nil
	}
	p := *c.override
	return &p
}

// SourceSize returns the capture source pixel bounds
func (c *Controller) SourceSize() display.Size {
	return c.source
}

// SetSourceSize replaces the capture source bounds, resetting the crop to
// the full frame. Degenerate sizes are rejected and the previous geometry
// stays in effect.
func (c *Controller) SetSourceSize(source display.Size) error {
	if source.IsDegenerate() {
		return fmt.Errorf("capture source size %gx%g: %w", source.Width, source.Height, display.ErrDegenerateGeometry)
	}
	c.source = source
	c.resetToFullFrame()
	return nil
}

// Reset returns the controller to idle with a full-frame crop
func (c *Controller) Reset() {
	c.resetToFullFrame()
}

// resetToFullFrame returns to an idle full-frame crop. The follow
// preference is left alone; toggle_follow is independent of mode and
// survives a zoom cycle.
func (c *Controller) resetToFullFrame() {
	c.mode = ModeIdle
	c.progress = 0
	c.centerLocked = false
	c.currentCenter = display.Point{X: c.source.Width / 2, Y: c.source.Height / 2}
	c.currentExtent = c.source
	c.startCenter = c.currentCenter
	c.startExtent = c.currentExtent
	c.frozenCenter = c.currentCenter
}

// Apply executes one command against the state machine. mapped is the most
// recently mapped cursor position, used to capture the initial target when
// zooming in. Commands must be applied between ticks, in arrival order.
func (c *Controller) Apply(cmd Command, mapped display.MappedPoint) error {
	switch cmd.Type {
	case CmdToggleZoom:
		c.toggleZoom(mapped)
	case CmdToggleFollow:
		c.followEnabled = !c.followEnabled
		logger.Debug("follow toggled", "enabled", c.followEnabled, "mode", c.mode.String())
	case CmdSetProfile:
		next, ok := c.profiles[cmd.Profile]
		if !ok {
			return fmt.Errorf("%q: %w", cmd.Profile, ErrUnknownProfile)
		}
		// Swap the snapshot only; mode and the current rectangle are
		// untouched so the switch causes no visible jump.
		c.profile = next
		c.ease = easing.ByName(next.Easing)
		logger.Debug("profile activated", "profile", next.Name)
	case CmdSetMouseOverride:
		p := display.Point{X: cmd.X, Y: cmd.Y}
		c.override = &p
	case CmdClearMouseOverride:
		c.override = nil
	default:
		return fmt.Errorf("unknown command type %d", cmd.Type)
	}
	return nil
}

func (c *Controller) toggleZoom(mapped display.MappedPoint) {
	switch c.mode {
	case ModeIdle:
		point := display.Point{X: mapped.PX, Y: mapped.PY}
		if c.override != nil {
			point = *c.override
		}
		c.frozenCenter = point
		c.beginLeg(ModeZoomingIn)
	case ModeZoomingIn, ModeZoomed:
		c.beginLeg(ModeZoomingOut)
	case ModeZoomingOut:
		// Ignored; the zoom-out leg completes first.
	}
}

// beginLeg snapshots the current rectangle as the interpolation start and
// resets progress
func (c *Controller) beginLeg(mode Mode) {
	c.mode = mode
	c.progress = 0
	c.startCenter = c.currentCenter
	c.startExtent = c.currentExtent
	c.centerLocked = false
	logger.Debug("zoom state changed", "mode", mode.String())
}

// Advance steps the animation by dt seconds using the given mapped cursor
// position and returns the crop rectangle for this tick. haveMapped is
// false when no cursor sample could be mapped this tick; targeting then
// falls back to the override or frozen point.
//
// Advance(0, ...) never changes the current rectangle.
func (c *Controller) Advance(dt float64, mapped display.MappedPoint, haveMapped bool) display.Region {
	if dt <= 0 {
		return c.cropRegion()
	}

	switch c.mode {
	case ModeIdle:
		// Full frame; nothing animates.
	case ModeZoomingIn, ModeZoomingOut:
		c.advanceLeg(dt, mapped, haveMapped)
	case ModeZoomed:
		c.advanceZoomed(dt, mapped, haveMapped)
	}

	return c.cropRegion()
}

// zoomedExtent returns the extent the active profile zooms to. A factor
// that would exceed the source clamps to a full-frame no-op.
func (c *Controller) zoomedExtent() display.Size {
	factor := c.profile.ZoomFactor
	if factor < 1 {
		factor = 1
	}
	return display.Size{
		Width:  c.source.Width / factor,
		Height: c.source.Height / factor,
	}
}

// targetPoint resolves the targeting precedence: manual override, then the
// live cursor while it may steer, then the frozen zoom-in point
func (c *Controller) targetPoint(mapped display.MappedPoint, haveMapped bool) display.Point {
	if c.override != nil {
		return *c.override
	}
	live := haveMapped && (c.mode == ModeZoomingIn || (c.mode == ModeZoomed && c.followEnabled))
	if live && !c.profile.FollowOutsideBounds && mapped.Clamped {
		live = false
	}
	if live {
		return display.Point{X: mapped.PX, Y: mapped.PY}
	}
	return c.frozenCenter
}

func (c *Controller) advanceLeg(dt float64, mapped display.MappedPoint, haveMapped bool) {
	c.progress = easing.Clamp(c.progress+dt*c.profile.ZoomSpeed, 0, 1)
	e := c.ease(c.progress)

	var targetCenter display.Point
	var targetExtent display.Size
	if c.mode == ModeZoomingIn {
		targetExtent = c.zoomedExtent()
		targetCenter = clampCenter(c.targetPoint(mapped, haveMapped), targetExtent, c.source)
	} else {
		targetExtent = c.source
		targetCenter = display.Point{X: c.source.Width / 2, Y: c.source.Height / 2}
	}

	c.currentCenter = display.Point{
		X: easing.Lerp(c.startCenter.X, targetCenter.X, e),
		Y: easing.Lerp(c.startCenter.Y, targetCenter.Y, e),
	}
	c.currentExtent = display.Size{
		Width:  easing.Lerp(c.startExtent.Width, targetExtent.Width, e),
		Height: easing.Lerp(c.startExtent.Height, targetExtent.Height, e),
	}

	if c.progress >= 1 {
		c.currentCenter = targetCenter
		c.currentExtent = targetExtent
		if c.mode == ModeZoomingIn {
			c.mode = ModeZoomed
			c.frozenCenter = targetCenter
			if c.profile.AutoFollow {
				c.followEnabled = true
			}
			c.centerLocked = true
			logger.Debug("zoom state changed", "mode", c.mode.String(), "following", c.followEnabled)
		} else {
			c.resetToFullFrame()
			logger.Debug("zoom state changed", "mode", c.mode.String())
		}
	}
}

func (c *Controller) advanceZoomed(dt float64, mapped display.MappedPoint, haveMapped bool) {
	// Extent eases toward the active profile's zoom target so a profile
	// switch animates instead of jumping.
	target := c.zoomedExtent()
	extentStep := easing.Clamp(dt*c.profile.ZoomSpeed, 0, 1)
	c.currentExtent = display.Size{
		Width:  easing.Lerp(c.currentExtent.Width, target.Width, extentStep),
		Height: easing.Lerp(c.currentExtent.Height, target.Height, extentStep),
	}

	desired := c.targetPoint(mapped, haveMapped)
	tracking := c.override != nil || (c.followEnabled && haveMapped)
	if !tracking {
		return
	}

	// Follow-border hysteresis applies to the live cursor only; a manual
	// override always re-centers.
	if c.override == nil && c.profile.FollowBorder > 0 {
		dx := math.Abs(mapped.PX - c.currentCenter.X)
		dy := math.Abs(mapped.PY - c.currentCenter.Y)
		if c.centerLocked {
			if dx <= c.profile.FollowBorder && dy <= c.profile.FollowBorder {
				return
			}
			c.centerLocked = false
		}
	}

	targetCenter := clampCenter(desired, c.currentExtent, c.source)
	step := easing.Clamp(dt*c.profile.FollowSpeed, 0, 1)
	c.currentCenter = display.Point{
		X: easing.Lerp(c.currentCenter.X, targetCenter.X, step),
		Y: easing.Lerp(c.currentCenter.Y, targetCenter.Y, step),
	}

	if math.Abs(c.currentCenter.X-targetCenter.X) <= settleEpsilon &&
		math.Abs(c.currentCenter.Y-targetCenter.Y) <= settleEpsilon {
		c.currentCenter = targetCenter
		c.centerLocked = true
	}
}

// clampCenter keeps a crop of the given extent centered on p fully inside
// the source bounds
func clampCenter(p display.Point, extent, source display.Size) display.Point {
	halfW := extent.Width / 2
	halfH := extent.Height / 2
	return display.Point{
		X: easing.Clamp(p.X, halfW, source.Width-halfW),
		Y: easing.Clamp(p.Y, halfH, source.Height-halfH),
	}
}

// cropRegion converts the current center and extent into an integer crop
// rectangle clamped into the source's pixel bounds. Overshoot easings may
// push the interpolated values outside transiently; the emitted rectangle
// is always valid.
func (c *Controller) cropRegion() display.Region {
	w := easing.Clamp(c.currentExtent.Width, 1, c.source.Width)
	h := easing.Clamp(c.currentExtent.Height, 1, c.source.Height)
	x := easing.Clamp(c.currentCenter.X-w/2, 0, c.source.Width-w)
	y := easing.Clamp(c.currentCenter.Y-h/2, 0, c.source.Height-h)
	return display.Region{
		X:      int(math.Round(x)),
		Y:      int(math.Round(y)),
		Width:  int(math.Round(w)),
		Height: int(math.Round(h)),
	}
}

// StateInfo is a snapshot of the controller for diagnostics and remote
// state broadcasts
type StateInfo struct {
	Mode       string  `json:"mode"`
	Following  bool    `json:"following"`
	Progress   float64 `json:"progress"`
	Profile    string  `json:"profile"`
	ZoomFactor float64 `json:"zoom_factor"`
	Locked     bool    `json:"locked"`
	CropX      int     `json:"crop_x"`
	CropY      int     `json:"crop_y"`
	CropWidth  int     `json:"crop_width"`
	CropHeight int     `json:"crop_height"`
}

// State returns a snapshot of the current machine state
func (c *Controller) State() StateInfo {
	crop := c.cropRegion()
	return StateInfo{
		Mode:       c.mode.String(),
		Following:  c.followEnabled,
		Progress:   c.progress,
		Profile:    c.profile.Name,
		ZoomFactor: c.profile.ZoomFactor,
		Locked:     c.centerLocked,
		CropX:      crop.X,
		CropY:      crop.Y,
		CropWidth:  crop.Width,
		CropHeight: crop.Height,
	}
}
