// Package config handles revue configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/revue/report"
)

// Config is the top-level revue configuration.
type Config struct {
	App     AppConfig           `yaml:"app"`
	Browser BrowserConfig       `yaml:"browser"`
	Options report.OptionsPatch `yaml:"options"` // merged over report.DefaultOptions
	Overlay OverlayConfig       `yaml:"overlay"`
	HTTP    HTTPConfig          `yaml:"http"`
	Sinks   []SinkConfig        `yaml:"sinks"`
}

// AppConfig identifies the application page to instrument.
type AppConfig struct {
	ID  string `yaml:"id"`
	URL string `yaml:"url"`
}

// BrowserConfig controls how revue reaches Chromium.
type BrowserConfig struct {
	// Remote is the WebSocket URL of an already-running Chromium (the usual
	// mode: attach to the developer's browser). Empty = launch a local one.
	Remote string `yaml:"remote"`

	// Headless launches Chromium without a window. Default false: revue is
	// a visual debugging tool, the developer normally watches the page.
	Headless bool `yaml:"headless"`
}

// OverlayConfig tunes the highlight animation.
type OverlayConfig struct {
	FadeDuration  time.Duration `yaml:"fade_duration"`  // default 500ms
	AutoClear     time.Duration `yaml:"auto_clear"`     // default 50ms
	FrameInterval time.Duration `yaml:"frame_interval"` // default 16ms
}

// HTTPConfig controls the debug API listener.
type HTTPConfig struct {
	Addr string `yaml:"addr"` // default ":7333"
}

// SinkConfig defines an output backend.
type SinkConfig struct {
	Type string `yaml:"type"` // stdout | webhook
	URL  string `yaml:"url"`  // for webhook
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Overlay.FadeDuration <= 0 {
		c.Overlay.FadeDuration = 500 * time.Millisecond
	}
	if c.Overlay.AutoClear <= 0 {
		c.Overlay.AutoClear = 50 * time.Millisecond
	}
	if c.Overlay.FrameInterval <= 0 {
		c.Overlay.FrameInterval = 16 * time.Millisecond
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":7333"
	}
}
