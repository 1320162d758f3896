// Package config provides the TOML configuration layer: schema, XDG
// paths, loading with environment overrides, and hot reload.
package config

import "time"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Config is the complete application configuration.
type Config struct {
	Layout  LayoutConfig  `mapstructure:"layout" toml:"layout"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging"`
	Storage StorageConfig `mapstructure:"storage" toml:"storage"`
}

// LayoutConfig holds the layout engine tunables.
type LayoutConfig struct {
	DefaultPanel string `mapstructure:"default_panel" toml:"default_panel"`
	LayoutName   string `mapstructure:"layout_name" toml:"layout_name"`

	MinPanePx        float64 `mapstructure:"min_pane_px" toml:"min_pane_px"`
	EdgeBandFraction float64 `mapstructure:"edge_band_fraction" toml:"edge_band_fraction"`
	SnapThresholdPx  float64 `mapstructure:"snap_threshold_px" toml:"snap_threshold_px"`
	CascadeOffsetPx  float64 `mapstructure:"cascade_offset_px" toml:"cascade_offset_px"`
	MinWindowWidth   float64 `mapstructure:"min_window_width" toml:"min_window_width"`
	MinWindowHeight  float64 `mapstructure:"min_window_height" toml:"min_window_height"`

	SnapshotDebounceMs int `mapstructure:"snapshot_debounce_ms" toml:"snapshot_debounce_ms"`
}

// SnapshotDebounce returns the debounce interval as a duration.
func (c LayoutConfig) SnapshotDebounce() time.Duration {
	return time.Duration(c.SnapshotDebounceMs) * time.Millisecond
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path" toml:"database_path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Layout: LayoutConfig{
			DefaultPanel:       "canvas",
			LayoutName:         "default",
			MinPanePx:          10,
			EdgeBandFraction:   0.25,
			SnapThresholdPx:    16,
			CascadeOffsetPx:    24,
			MinWindowWidth:     150,
			MinWindowHeight:    100,
			SnapshotDebounceMs: 500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{},
	}
}

// normalizeConfig clamps out-of-range values back to the defaults rather
// than failing: a hand-edited config file never prevents startup.
func normalizeConfig(config *Config) {
	defaults := DefaultConfig()

	if config.Layout.DefaultPanel == "" {
		config.Layout.DefaultPanel = defaults.Layout.DefaultPanel
	}
	if config.Layout.LayoutName == "" {
		config.Layout.LayoutName = defaults.Layout.LayoutName
	}
	if config.Layout.MinPanePx <= 0 {
		config.Layout.MinPanePx = defaults.Layout.MinPanePx
	}
	if config.Layout.EdgeBandFraction <= 0 || config.Layout.EdgeBandFraction >= 0.5 {
		config.Layout.EdgeBandFraction = defaults.Layout.EdgeBandFraction
	}
	if config.Layout.SnapThresholdPx <= 0 {
		config.Layout.SnapThresholdPx = defaults.Layout.SnapThresholdPx
	}
	if config.Layout.CascadeOffsetPx <= 0 {
		config.Layout.CascadeOffsetPx = defaults.Layout.CascadeOffsetPx
	}
	if config.Layout.MinWindowWidth <= 0 {
		config.Layout.MinWindowWidth = defaults.Layout.MinWindowWidth
	}
	if config.Layout.MinWindowHeight <= 0 {
		config.Layout.MinWindowHeight = defaults.Layout.MinWindowHeight
	}
	if config.Layout.SnapshotDebounceMs <= 0 {
		config.Layout.SnapshotDebounceMs = defaults.Layout.SnapshotDebounceMs
	}

	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		config.Logging.Level = defaults.Logging.Level
	}
	switch config.Logging.Format {
	case "json", "console":
	default:
		config.Logging.Format = defaults.Logging.Format
	}
}
