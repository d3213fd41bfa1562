//go:build !darwin

package macos

import (
	"context"
	"fmt"

	display "github.com/capture-tools/zoomd/internal/display"
)

// Client is a stub implementation for non-macOS platforms
type Client struct{}

// NewClient fails on non-macOS platforms
func NewClient() (*Client, error) {
	return nil, fmt.Errorf("macOS platform not available on this system")
}

// Close releases the client
func (c *Client) Close() error {
	return nil
}

// CursorPosition is unavailable on non-macOS platforms
func (c *Client) CursorPosition() (x, y int, err error) {
	return 0, 0, fmt.Errorf("macOS platform not available on this system")
}

// Enumerate is unavailable on non-macOS platforms
func (c *Client) Enumerate(ctx context.Context) ([]display.EnumeratedDisplay, error) {
	return nil, fmt.Errorf("macOS platform not available on this system")
}

var _ display.Enumerator = (*Client)(nil)
