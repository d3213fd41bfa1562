// Package engine runs the per-source tick loop: drain commands, sample the
// cursor, map it, advance the state machine and hand the crop rectangle to
// the host.
package engine

import (
	"context"
	"fmt"
	"time"

	uuid "github.com/google/uuid"

	display "github.com/capture-tools/zoomd/internal/display"
	logger "github.com/capture-tools/zoomd/internal/logger"
	storage "github.com/capture-tools/zoomd/internal/storage"
	tracker "github.com/capture-tools/zoomd/internal/tracker"
	zoom "github.com/capture-tools/zoomd/internal/zoom"
)

// SourceProvider exposes the capture source the engine crops
type SourceProvider interface {
	// Name identifies the source for logs and the journal
	Name() string
	// PixelSize returns the source's current pixel dimensions
	PixelSize(ctx context.Context) (display.Size, error)
}

// CropSink receives crop rectangles. Implementations apply them to the
// capture host (an OBS filter, a compositor, a test recorder).
type CropSink interface {
	ApplyCrop(ctx context.Context, crop display.Region) error
}

// Options wires an engine's collaborators. Source, Sampler, Sink, Mapper,
// Queue and Controller are required; Journal and OnState are optional.
type Options struct {
	Source     SourceProvider
	Sampler    tracker.Sampler
	Sink       CropSink
	Mapper     *display.Mapper
	Queue      *zoom.Queue
	Controller *zoom.Controller

	// Interval is the tick period; zero defaults to 16ms (~60Hz)
	Interval time.Duration

	// Journal, when set, records commands and mode transitions
	Journal storage.SessionJournal

	// OnState, when set, is invoked after every state machine transition
	OnState func(zoom.StateInfo)
}

// Engine owns the tick loop for one capture source. All state machine
// access happens on the loop goroutine.
type Engine struct {
	opts      Options
	sessionID string

	lastCrop display.Region
	haveCrop bool
	lastMode zoom.Mode
}

// New validates the options and creates an engine
func New(opts Options) (*Engine, error) {
	if opts.Source == nil || opts.Sampler == nil || opts.Sink == nil ||
		opts.Mapper == nil || opts.Queue == nil || opts.Controller == nil {
		return nil, fmt.Errorf("engine requires source, sampler, sink, mapper, queue and controller")
	}
	if opts.Interval <= 0 {
		opts.Interval = 16 * time.Millisecond
	}
	return &Engine{opts: opts}, nil
}

// Run executes the tick loop until the context is cancelled
func (e *Engine) Run(ctx context.Context) error {
	e.beginSession(ctx)
	defer e.endSession()

	ticker := time.NewTicker(e.opts.Interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			logger.Info("engine stopped", "source", e.opts.Source.Name())
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			e.tick(ctx, dt)
		}
	}
}

// tick runs one engine step. It never fails: every error downgrades to a
// degraded-but-running tick.
func (e *Engine) tick(ctx context.Context, dt float64) {
	e.syncSourceSize(ctx)

	mapped, haveMapped := e.sampleCursor(ctx)

	for _, cmd := range e.opts.Queue.Drain() {
		if err := e.opts.Controller.Apply(cmd, mapped); err != nil {
			logger.Warn("command rejected", "type", cmd.Type.String(), "error", err)
			continue
		}
		e.recordEvent(ctx, cmd.Type.String())
	}

	crop := e.opts.Controller.Advance(dt, mapped, haveMapped)

	if mode := e.opts.Controller.Mode(); mode != e.lastMode {
		e.lastMode = mode
		e.recordEvent(ctx, "enter_"+mode.String())
		e.notifyState()
	}

	if !e.haveCrop || crop != e.lastCrop {
		if err := e.opts.Sink.ApplyCrop(ctx, crop); err != nil {
			logger.Warn("failed to apply crop", "source", e.opts.Source.Name(), "error", err)
			return
		}
		e.lastCrop = crop
		e.haveCrop = true
	}
}

// syncSourceSize picks up capture source resizes; a changed size resets
// the controller to a full-frame crop over the new geometry
func (e *Engine) syncSourceSize(ctx context.Context) {
	size, err := e.opts.Source.PixelSize(ctx)
	if err != nil {
		logger.Debug("source size unavailable", "source", e.opts.Source.Name(), "error", err)
		return
	}
	if size == e.opts.Controller.SourceSize() {
		return
	}

	if err := e.opts.Controller.SetSourceSize(size); err != nil {
		logger.Warn("rejecting source resize", "source", e.opts.Source.Name(), "error", err)
		return
	}
	logger.Info("capture source resized",
		"source", e.opts.Source.Name(),
		"width", size.Width, "height", size.Height)
	e.notifyState()
}

func (e *Engine) sampleCursor(ctx context.Context) (display.MappedPoint, bool) {
	sample, err := e.opts.Sampler.Sample(ctx)
	if err != nil {
		logger.Debug("cursor sample failed", "error", err)
		return display.MappedPoint{}, false
	}

	mapped, err := e.opts.Mapper.Map(sample.RawX, sample.RawY, sample.Convention)
	if err != nil {
		logger.Debug("cursor mapping failed", "error", err)
		return display.MappedPoint{}, false
	}
	return mapped, true
}

func (e *Engine) notifyState() {
	if e.opts.OnState != nil {
		e.opts.OnState(e.opts.Controller.State())
	}
}

func (e *Engine) beginSession(ctx context.Context) {
	if e.opts.Journal == nil {
		return
	}

	e.sessionID = uuid.New().String()
	size := e.opts.Controller.SourceSize()
	err := e.opts.Journal.BeginSession(ctx, storage.SessionRecord{
		ID:           e.sessionID,
		SourceName:   e.opts.Source.Name(),
		SourceWidth:  int(size.Width),
		SourceHeight: int(size.Height),
		StartedAt:    time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("failed to begin journal session", "error", err)
		e.sessionID = ""
	}
}

func (e *Engine) endSession() {
	if e.opts.Journal == nil || e.sessionID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.opts.Journal.EndSession(ctx, e.sessionID, time.Now().UTC()); err != nil {
		logger.Warn("failed to end journal session", "error", err)
	}
}

func (e *Engine) recordEvent(ctx context.Context, kind string) {
	if e.opts.Journal == nil || e.sessionID == "" {
		return
	}

	err := e.opts.Journal.AppendEvent(ctx, storage.EventRecord{
		ID:        uuid.New().String(),
		SessionID: e.sessionID,
		Kind:      kind,
		State:     e.opts.Controller.State(),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("failed to journal event", "kind", kind, "error", err)
	}
}
