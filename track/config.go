package track

import (
	"github.com/hazyhaar/revue/track/internal/config"
)

// Config is the top-level revue configuration. Re-exported from internal.
type Config = config.Config

// AppConfig identifies the application page to instrument.
type AppConfig = config.AppConfig

// BrowserConfig controls how revue reaches Chromium.
type BrowserConfig = config.BrowserConfig

// OverlayConfig tunes the highlight animation.
type OverlayConfig = config.OverlayConfig

// HTTPConfig controls the debug API listener.
type HTTPConfig = config.HTTPConfig

// SinkConfig defines an output backend.
type SinkConfig = config.SinkConfig

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}
