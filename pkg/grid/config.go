package grid

import (
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kazin-kharizma/element-call/pkg/errors"
)

// Product constants. These are the defaults loaded into Config and match the
// shipped visual design; deployments can override them via a TOML file.
const (
	// DefaultGap is the nominal spacing between tiles in pixels.
	DefaultGap = 8.0

	// DefaultSpotlightShare is the fraction of the primary axis given to the
	// spotlight tile when spectators are present.
	DefaultSpotlightShare = 4.0 / 5.0

	// DefaultTileAspect is the target width/height ratio for grid tiles.
	DefaultTileAspect = 16.0 / 9.0

	// DefaultRemovalGrace is how long a departed tile is retained so the
	// renderer can play its exit animation before the tile is purged.
	DefaultRemovalGrace = 250 * time.Millisecond

	// DefaultDoubleTapWindow is the maximum delay between two taps on the
	// same tile for them to count as a focus-toggling double tap.
	DefaultDoubleTapWindow = 500 * time.Millisecond
)

// Config carries the tunable geometry and timing constants of the grid
// engine. The zero value is not usable; start from [DefaultConfig].
type Config struct {
	// Gap is the inter-tile spacing in pixels.
	Gap float64 `toml:"gap"`

	// SpotlightShare is the primary-axis fraction of the spotlight tile.
	SpotlightShare float64 `toml:"spotlight_share"`

	// PiP tile dimensions by viewport orientation.
	PiPPortraitWidth   float64 `toml:"pip_portrait_width"`
	PiPPortraitHeight  float64 `toml:"pip_portrait_height"`
	PiPLandscapeWidth  float64 `toml:"pip_landscape_width"`
	PiPLandscapeHeight float64 `toml:"pip_landscape_height"`

	// PiP inset from the remote tile's edges by viewport orientation.
	PiPPortraitGap  float64 `toml:"pip_portrait_gap"`
	PiPLandscapeGap float64 `toml:"pip_landscape_gap"`

	// RemovalGraceMS is the exit-animation grace period in milliseconds.
	RemovalGraceMS int `toml:"removal_grace_ms"`

	// DoubleTapWindowMS is the double-tap detection window in milliseconds.
	DoubleTapWindowMS int `toml:"double_tap_window_ms"`
}

// DefaultConfig returns the product-default configuration.
func DefaultConfig() Config {
	return Config{
		Gap:                DefaultGap,
		SpotlightShare:     DefaultSpotlightShare,
		PiPPortraitWidth:   114,
		PiPPortraitHeight:  163,
		PiPLandscapeWidth:  230,
		PiPLandscapeHeight: 155,
		PiPPortraitGap:     12,
		PiPLandscapeGap:    24,
		RemovalGraceMS:     int(DefaultRemovalGrace / time.Millisecond),
		DoubleTapWindowMS:  int(DefaultDoubleTapWindow / time.Millisecond),
	}
}

// RemovalGrace returns the removal grace period as a duration.
func (c Config) RemovalGrace() time.Duration {
	return time.Duration(c.RemovalGraceMS) * time.Millisecond
}

// DoubleTapWindow returns the double-tap window as a duration.
func (c Config) DoubleTapWindow() time.Duration {
	return time.Duration(c.DoubleTapWindowMS) * time.Millisecond
}

// Validate checks the configuration for impossible geometry.
func (c Config) Validate() error {
	if c.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "gap must be non-negative, got %v", c.Gap)
	}
	if c.SpotlightShare <= 0 || c.SpotlightShare >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "spotlight share must be in (0,1), got %v", c.SpotlightShare)
	}
	if c.PiPPortraitWidth <= 0 || c.PiPPortraitHeight <= 0 ||
		c.PiPLandscapeWidth <= 0 || c.PiPLandscapeHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "pip dimensions must be positive")
	}
	if c.RemovalGraceMS < 0 || c.DoubleTapWindowMS < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timing windows must be non-negative")
	}
	return nil
}

// LoadConfig reads a TOML configuration file and merges it over the defaults.
// Keys absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
