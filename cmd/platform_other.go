//go:build !darwin

package cmd

import (
	display "github.com/capture-tools/zoomd/internal/display"
	x11 "github.com/capture-tools/zoomd/internal/display/x11"
)

// newNativeEnumerator returns the display enumerator for the current
// platform
func newNativeEnumerator() (display.Enumerator, func() error, error) {
	client, err := x11.NewClient("")
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}
