//go:build darwin

package cmd

import (
	display "github.com/capture-tools/zoomd/internal/display"
	macos "github.com/capture-tools/zoomd/internal/display/macos"
)

// newNativeEnumerator returns the display enumerator for the current
// platform
func newNativeEnumerator() (display.Enumerator, func() error, error) {
	client, err := macos.NewClient()
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}
