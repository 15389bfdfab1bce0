package lens

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure from [Config.Validate].
var ErrInvalidConfig = errors.New("lens: invalid config")

// Storage drivers understood by [StorageConfig].
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Versioned storage keys. Bump the suffix when the stored shape changes so
// older blobs are detected and discarded.
const (
	DefaultGeometryKey  = "lens-panel-geometry-v2"
	DefaultCollapsedKey = "lens-panel-collapsed-v1"
)

// Config is the top-level configuration, usually loaded from lens.yaml.
type Config struct {
	Panel   PanelConfig   `yaml:"panel"`
	Storage StorageConfig `yaml:"storage"`
	Debug   bool          `yaml:"debug"`
}

// PanelConfig holds the geometry policy of the inspector panel. Distances
// are in pixels, durations in seconds.
type PanelConfig struct {
	// SafeArea is the margin kept between the panel and every viewport edge.
	SafeArea float64 `yaml:"safe_area"`
	// MinWidth and MinHeight bound the expanded size from below.
	MinWidth  float64 `yaml:"min_width"`
	MinHeight float64 `yaml:"min_height"`
	// InitialHeight is the expanded height used when nothing is persisted.
	InitialHeight float64 `yaml:"initial_height"`
	// CollapseThreshold is the fraction of panel area outside the viewport
	// that collapses the panel mid-drag.
	CollapseThreshold float64 `yaml:"collapse_threshold"`
	// ClickThreshold is the minimum pointer travel for a drag to move the
	// panel to a new corner.
	ClickThreshold float64 `yaml:"click_threshold"`
	// ExpandThreshold is the outward travel that expands a collapsed panel.
	ExpandThreshold float64 `yaml:"expand_threshold"`
	// DragDeadZone is the pointer travel before a press becomes a drag.
	DragDeadZone float64 `yaml:"drag_dead_zone"`
	// SnapDuration is the length of the corner-snap animation.
	SnapDuration float64 `yaml:"snap_duration"`
	// PinnedHeight is the height of the status strip at the top of the
	// panel. When the strip is entirely off-screen the panel collapses.
	// Zero disables the check.
	PinnedHeight float64 `yaml:"pinned_height"`
	// CollapsedHorizontal and CollapsedVertical are the affordance sizes
	// of a collapsed panel for each orientation.
	CollapsedHorizontal Size `yaml:"collapsed_horizontal"`
	CollapsedVertical   Size `yaml:"collapsed_vertical"`
}

// StorageConfig selects the persistence adapter.
type StorageConfig struct {
	Driver       string `yaml:"driver"`
	Path         string `yaml:"path"`
	GeometryKey  string `yaml:"geometry_key"`
	CollapsedKey string `yaml:"collapsed_key"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Panel: DefaultPanelConfig(),
		Storage: StorageConfig{
			Driver:       StorageMemory,
			Path:         "lens.db",
			GeometryKey:  DefaultGeometryKey,
			CollapsedKey: DefaultCollapsedKey,
		},
	}
}

// DefaultPanelConfig returns the built-in panel geometry policy.
func DefaultPanelConfig() PanelConfig {
	return PanelConfig{
		SafeArea:            24,
		MinWidth:            550,
		MinHeight:           350,
		InitialHeight:       400,
		CollapseThreshold:   0.35,
		ClickThreshold:      60,
		ExpandThreshold:     50,
		DragDeadZone:        4,
		SnapDuration:        0.3,
		PinnedHeight:        36,
		CollapsedHorizontal: Size{Width: 20, Height: 48},
		CollapsedVertical:   Size{Width: 48, Height: 20},
	}
}

// ParseConfig decodes YAML on top of [DefaultConfig] and validates it.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML file at path. A missing file yields
// the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// Validate checks the configuration for values the geometry code cannot use.
func (c Config) Validate() error {
	if err := c.Panel.Validate(); err != nil {
		return err
	}
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: storage.path is required for the sqlite driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Storage.GeometryKey == "" || c.Storage.CollapsedKey == "" {
		return fmt.Errorf("%w: storage keys must not be empty", ErrInvalidConfig)
	}
	if c.Storage.GeometryKey == c.Storage.CollapsedKey {
		return fmt.Errorf("%w: storage keys must differ", ErrInvalidConfig)
	}
	return nil
}

// Validate checks the panel policy.
func (p PanelConfig) Validate() error {
	switch {
	case p.SafeArea < 0:
		return fmt.Errorf("%w: panel.safe_area must be >= 0", ErrInvalidConfig)
	case p.MinWidth <= 0 || p.MinHeight <= 0:
		return fmt.Errorf("%w: panel minimum size must be positive", ErrInvalidConfig)
	case p.InitialHeight < p.MinHeight:
		return fmt.Errorf("%w: panel.initial_height below panel.min_height", ErrInvalidConfig)
	case p.CollapseThreshold <= 0 || p.CollapseThreshold > 1:
		return fmt.Errorf("%w: panel.collapse_threshold must be in (0, 1]", ErrInvalidConfig)
	case p.ClickThreshold < 0 || p.ExpandThreshold < 0 || p.DragDeadZone < 0:
		return fmt.Errorf("%w: panel thresholds must be >= 0", ErrInvalidConfig)
	case p.SnapDuration < 0:
		return fmt.Errorf("%w: panel.snap_duration must be >= 0", ErrInvalidConfig)
	case p.PinnedHeight < 0:
		return fmt.Errorf("%w: panel.pinned_height must be >= 0", ErrInvalidConfig)
	case p.CollapsedHorizontal.Width <= 0 || p.CollapsedHorizontal.Height <= 0 ||
		p.CollapsedVertical.Width <= 0 || p.CollapsedVertical.Height <= 0:
		return fmt.Errorf("%w: collapsed sizes must be positive", ErrInvalidConfig)
	}
	return nil
}
