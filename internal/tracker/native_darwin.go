//go:build darwin

package tracker

import (
	display "github.com/capture-tools/zoomd/internal/display"
	macos "github.com/capture-tools/zoomd/internal/display/macos"
)

// NewNativeSampler creates the cursor sampler for the current platform.
// On macOS cursor positions come from Quartz in top-left-down point
// coordinates.
func NewNativeSampler(displayName string) (Sampler, error) {
	client, err := macos.NewClient()
	if err != nil {
		return nil, err
	}
	return &nativeSampler{
		client:     client,
		convention: display.TopLeftDown,
	}, nil
}
