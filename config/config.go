package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/go-homedir"
)

// FileName is the config file looked up in the user config directory.
const FileName = "mosaic.json"

// Config holds runtime configuration for the pipeline and the window.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Pipeline
	QueueSize       int  `json:"queue_size"`
	DecodeCacheSize int  `json:"decode_cache_size"`
	JPEGQuality     int  `json:"jpeg_quality"`
	WatchSource     bool `json:"watch_source"`

	// Window
	TickMS         int     `json:"tick_ms"`
	WindowWidth    int     `json:"window_width"`
	WindowHeight   int     `json:"window_height"`
	OverlayColor   string  `json:"overlay_color"`
	OverlayOpacity float64 `json:"overlay_opacity"`
	DarkMode       bool    `json:"dark_mode"`

	// Debug loggers
	StatsIntervalSeconds int `json:"stats_interval_seconds"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:                false,
		QueueSize:            3,
		DecodeCacheSize:      4,
		JPEGQuality:          95,
		WatchSource:          true,
		TickMS:               30,
		WindowWidth:          1600,
		WindowHeight:         900,
		OverlayColor:         "#ff00ff",
		OverlayOpacity:       0.8,
		StatsIntervalSeconds: 5,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.QueueSize < 1 {
		c.QueueSize = d.QueueSize
	}
	if c.DecodeCacheSize < 0 {
		c.DecodeCacheSize = 0
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		c.JPEGQuality = d.JPEGQuality
	}
	if c.TickMS < 5 {
		c.TickMS = d.TickMS
	}
	if c.WindowWidth < 200 {
		c.WindowWidth = d.WindowWidth
	}
	if c.WindowHeight < 150 {
		c.WindowHeight = d.WindowHeight
	}
	if _, err := colorful.Hex(c.OverlayColor); err != nil {
		c.OverlayColor = d.OverlayColor
	}
	if c.OverlayOpacity <= 0 || c.OverlayOpacity > 1 {
		c.OverlayOpacity = d.OverlayOpacity
	}
	if c.StatsIntervalSeconds < 1 {
		c.StatsIntervalSeconds = d.StatsIntervalSeconds
	}
	return nil
}

// DefaultPath returns mosaic.json inside the user config directory, or in the
// working directory when there is none.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(dir, FileName)
}

// Load attempts to read configuration from the given JSON file path. A leading ~
// is expanded. If the file does not exist it returns DefaultConfig(). On JSON
// error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	resolved, err := homedir.Expand(path)
	if err != nil {
		return cfg, err
	}
	f, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format, creating the
// parent directory if needed.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	resolved, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return err
	}
	f, err := os.Create(resolved)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
