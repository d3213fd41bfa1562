//go:build darwin

// Package macos enumerates displays and queries the cursor through Quartz
// via robotgo. Display frames are reported in points with the backing
// scale factor as the classification hint.
package macos

import (
	"context"
	"fmt"

	robotgo "github.com/go-vgo/robotgo"

	display "github.com/capture-tools/zoomd/internal/display"
)

// Client provides display enumeration and cursor queries on macOS
type Client struct{}

// NewClient creates a macOS display client
func NewClient() (*Client, error) {
	return &Client{}, nil
}

// Close releases the client
func (c *Client) Close() error {
	return nil
}

// CursorPosition returns the cursor position in global coordinates
// (CGEvent space: top-left origin, Y down, in points)
func (c *Client) CursorPosition() (x, y int, err error) {
	x, y = robotgo.Location()
	return x, y, nil
}

// Enumerate lists the attached displays. Frames come back in points; the
// backing scale factor is passed through as the classification hint so
// Retina displays resolve to a 2x (or fractional) pixel scale.
func (c *Client) Enumerate(ctx context.Context) ([]display.EnumeratedDisplay, error) {
	num := robotgo.DisplaysNum()
	if num <= 0 {
		return nil, fmt.Errorf("no displays reported by Quartz")
	}

	out := make([]display.EnumeratedDisplay, 0, num)
	for i := 0; i < num; i++ {
		x, y, w, h := robotgo.GetDisplayBounds(i)
		out = append(out, display.EnumeratedDisplay{
			ID:   fmt.Sprintf("%d", i),
			Name: fmt.Sprintf("Display %d", i+1),
			Origin: display.Point{
				X: float64(x),
				Y: float64(y),
			},
			ReportedSize: display.Size{
				Width:  float64(w),
				Height: float64(h),
			},
			BackingScaleHint: robotgo.ScaleF(i),
			Primary:          i == 0,
		})
	}
	return out, nil
}

var _ display.Enumerator = (*Client)(nil)
