package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "display-capture", cfg.Source.Name)
	assert.Equal(t, 16, cfg.Engine.TickIntervalMs)
	assert.Equal(t, "standard", cfg.DefaultProfile)
	require.Contains(t, cfg.Profiles, "standard")
	assert.Equal(t, 2.0, cfg.Profiles["standard"].ZoomFactor)
	assert.True(t, cfg.Profiles["standard"].AutoFollow)
	assert.True(t, cfg.WebSocket.Enabled)
	assert.False(t, cfg.UDP.Enabled)
	assert.Equal(t, "memory", cfg.Journal.Type)

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
source:
  name: projector
  width: 3840
  height: 2160
default_profile: inspect
profiles:
  inspect:
    zoom_factor: 4.0
    zoom_speed: 5.0
    follow_speed: 10.0
    easing: linear
display_overrides:
  hdmi-1:
    scale_x: 1.5
    scale_y: 1.5
websocket:
  enabled: false
udp:
  enabled: true
  port: 9999
journal:
  type: sqlite
  path: /tmp/journal.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "projector", cfg.Source.Name)
	assert.Equal(t, 3840, cfg.Source.Width)
	assert.Equal(t, "inspect", cfg.DefaultProfile)
	assert.Equal(t, 4.0, cfg.Profiles["inspect"].ZoomFactor)
	assert.Equal(t, 1.5, cfg.DisplayOverrides["hdmi-1"].ScaleX)
	assert.False(t, cfg.WebSocket.Enabled)
	assert.True(t, cfg.UDP.Enabled)
	assert.Equal(t, 9999, cfg.UDP.Port)
	assert.Equal(t, "sqlite", cfg.Journal.Type)

	// Untouched sections keep their defaults.
	assert.Equal(t, 16, cfg.Engine.TickIntervalMs)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	badYAML := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badYAML, []byte("source: [unclosed"), 0644))
	_, err := LoadConfig(badYAML)
	assert.Error(t, err)

	badProfile := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(badProfile, []byte("default_profile: ghost\n"), 0644))
	_, err = LoadConfig(badProfile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_profile")

	badOverride := filepath.Join(dir, "override.yaml")
	require.NoError(t, os.WriteFile(badOverride, []byte("display_overrides:\n  x:\n    scale_x: 0\n    scale_y: 1\n"), 0644))
	_, err = LoadConfig(badOverride)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scale must be positive")
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Source.Name = "window-capture"
	cfg.UDP.Enabled = true
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
