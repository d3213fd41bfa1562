package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/capture-tools/zoomd/internal/logger"
	"gopkg.in/yaml.v3"
)

// Config represents the zoomd configuration
type Config struct {
	Source           SourceConfig               `yaml:"source"`
	Engine           EngineConfig               `yaml:"engine"`
	DefaultProfile   string                     `yaml:"default_profile"`
	Profiles         map[string]ProfileConfig   `yaml:"profiles"`
	DisplayOverrides map[string]DisplayOverride `yaml:"display_overrides"`
	WebSocket        WebSocketConfig            `yaml:"websocket"`
	UDP              UDPConfig                  `yaml:"udp"`
	Journal          JournalConfig              `yaml:"journal"`
}

// SourceConfig identifies the capture source being cropped
type SourceConfig struct {
	Name string `yaml:"name"`
	// Width/Height override the detected source pixel size; zero means
	// take the size from the primary display
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Display pins mapping to one display id instead of auto-detection
	Display string `yaml:"display"`
}

// EngineConfig contains tick loop settings
type EngineConfig struct {
	// TickIntervalMs is the tick period in milliseconds
	TickIntervalMs int `yaml:"tick_interval_ms"`
	// QueueSize bounds the pending command queue
	QueueSize int `yaml:"queue_size"`
}

// ProfileConfig contains one named zoom profile
type ProfileConfig struct {
	ZoomFactor          float64 `yaml:"zoom_factor"`
	ZoomSpeed           float64 `yaml:"zoom_speed"`
	FollowSpeed         float64 `yaml:"follow_speed"`
	FollowBorder        float64 `yaml:"follow_border"`
	Easing              string  `yaml:"easing"`
	AutoFollow          bool    `yaml:"auto_follow"`
	FollowOutsideBounds bool    `yaml:"follow_outside_bounds"`
}

// DisplayOverride contains a manually configured display scale that
// bypasses classification
type DisplayOverride struct {
	ScaleX float64 `yaml:"scale_x"`
	ScaleY float64 `yaml:"scale_y"`
}

// WebSocketConfig contains remote control server settings
type WebSocketConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// UDPConfig contains the legacy UDP override listener settings
type UDPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// JournalConfig contains session journal settings
type JournalConfig struct {
	// Type selects the journal backend (memory, sqlite)
	Type string `yaml:"type"`
	// Path is the sqlite database path
	Path string `yaml:"path"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Name: "display-capture",
		},
		Engine: EngineConfig{
			TickIntervalMs: 16,
			QueueSize:      64,
		},
		DefaultProfile: "standard",
		Profiles: map[string]ProfileConfig{
			"standard": {
				ZoomFactor:   2.0,
				ZoomSpeed:    3.0,
				FollowSpeed:  6.0,
				FollowBorder: 8,
				Easing:       "ease_in_out",
				AutoFollow:   true,
			},
			"presentation": {
				ZoomFactor:   3.0,
				ZoomSpeed:    2.0,
				FollowSpeed:  4.0,
				FollowBorder: 24,
				Easing:       "ease_out_back",
				AutoFollow:   true,
			},
			"inspect": {
				ZoomFactor:          4.0,
				ZoomSpeed:           5.0,
				FollowSpeed:         10.0,
				FollowBorder:        0,
				Easing:              "linear",
				AutoFollow:          false,
				FollowOutsideBounds: true,
			},
		},
		DisplayOverrides: map[string]DisplayOverride{},
		WebSocket: WebSocketConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8764,
		},
		UDP: UDPConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    12345,
		},
		Journal: JournalConfig{
			Type: "memory",
			Path: ".zoomd/journal.db",
		},
	}
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = getDefaultConfigPath()
		logger.Debug("Using default config path", "path", configPath)
	} else {
		logger.Debug("Using custom config path", "path", configPath)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Debug("Config file not found, using default configuration", "path", configPath)
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		logger.Error("Failed to read config file", "path", configPath, "error", err)
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		logger.Error("Failed to parse config file", "path", configPath, "error", err)
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Successfully loaded config", "path", configPath, "source", config.Source.Name)
	return config, nil
}

// Validate checks cross-field consistency the YAML schema cannot express
func (c *Config) Validate() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("at least one profile is required")
	}
	if _, ok := c.Profiles[c.DefaultProfile]; !ok {
		return fmt.Errorf("default_profile %q is not defined in profiles", c.DefaultProfile)
	}
	for id, ov := range c.DisplayOverrides {
		if ov.ScaleX <= 0 || ov.ScaleY <= 0 {
			return fmt.Errorf("display_overrides[%s]: scale must be positive", id)
		}
	}
	if c.Engine.TickIntervalMs < 0 {
		return fmt.Errorf("engine.tick_interval_ms must not be negative")
	}
	return nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	if configPath == "" {
		configPath = getDefaultConfigPath()
		logger.Debug("Using default config path for save", "path", configPath)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("Failed to create config directory", "dir", dir, "error", err)
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	defer func() {
		if err := encoder.Close(); err != nil {
			logger.Error("Failed to close YAML encoder", "error", err)
		}
	}()

	if err := encoder.Encode(c); err != nil {
		logger.Error("Failed to marshal config", "error", err)
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0644); err != nil {
		logger.Error("Failed to write config file", "path", configPath, "error", err)
		return fmt.Errorf("failed to write config file: %w", err)
	}

	logger.Debug("Successfully saved config", "path", configPath)
	return nil
}

func getDefaultConfigPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return ".zoomd/config.yaml"
	}
	return filepath.Join(wd, ".zoomd/config.yaml")
}
