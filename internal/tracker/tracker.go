// Package tracker supplies instantaneous cursor readings in the producing
// OS's native coordinate space. Samples are ephemeral snapshots handed to
// the tick loop by value.
package tracker

import (
	"context"
	"time"

	display "github.com/capture-tools/zoomd/internal/display"
)

// CursorSample is one raw cursor reading. RawX/RawY are in the producer's
// native space; Convention declares that space's origin and Y direction.
type CursorSample struct {
	RawX       float64
	RawY       float64
	Timestamp  time.Time
	Convention display.OriginConvention
}

// Sampler produces cursor samples on demand, once per tick. Sample must
// not block beyond a short OS-call latency.
type Sampler interface {
	Sample(ctx context.Context) (CursorSample, error)
	Close() error
}

// cursorClient is the platform surface both display backends expose
type cursorClient interface {
	CursorPosition() (x, y int, err error)
	Close() error
}

type nativeSampler struct {
	client     cursorClient
	convention display.OriginConvention
}

func (s *nativeSampler) Sample(ctx context.Context) (CursorSample, error) {
	x, y, err := s.client.CursorPosition()
	if err != nil {
		return CursorSample{}, err
	}
	return CursorSample{
		RawX:       float64(x),
		RawY:       float64(y),
		Timestamp:  time.Now(),
		Convention: s.convention,
	}, nil
}

func (s *nativeSampler) Close() error {
	return s.client.Close()
}

// Static is a fixed-position sampler for tests and headless runs
type Static struct {
	X          float64
	Y          float64
	Convention display.OriginConvention
}

// Sample returns the configured position
func (s *Static) Sample(ctx context.Context) (CursorSample, error) {
	return CursorSample{
		RawX:       s.X,
		RawY:       s.Y,
		Timestamp:  time.Now(),
		Convention: s.Convention,
	}, nil
}

// Close releases the sampler
func (s *Static) Close() error {
	return nil
}
