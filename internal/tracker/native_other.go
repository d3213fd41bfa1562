//go:build !darwin

package tracker

import (
	display "github.com/capture-tools/zoomd/internal/display"
	x11 "github.com/capture-tools/zoomd/internal/display/x11"
)

// NewNativeSampler creates the cursor sampler for the current platform.
// X11 pointer positions are root-window coordinates: top-left origin,
// Y down.
func NewNativeSampler(displayName string) (Sampler, error) {
	client, err := x11.NewClient(displayName)
	if err != nil {
		return nil, err
	}
	return &nativeSampler{
		client:     client,
		convention: display.TopLeftDown,
	}, nil
}
