package annotate

import (
	"fmt"
	"math"
	"os"
	"strconv"
)

// DefaultScaleFactor is the zoom used by the signing viewer when none is configured.
const DefaultScaleFactor = 1.5

// Config contains annotation engine settings.
type Config struct {
	// ScaleFactor is the zoom multiplier the producing viewer rendered pages at.
	// It must match the viewer or placements drift.
	ScaleFactor float64 `toml:"scale_factor"`

	// MaxRequests caps the number of placements accepted in one call.
	// Zero means unlimited.
	MaxRequests int `toml:"max_requests"`
}

// Env maps environment variable names for annotation configuration.
type Env struct {
	ScaleFactor string
	MaxRequests string
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.ScaleFactor != 0 {
		c.ScaleFactor = overlay.ScaleFactor
	}
	if overlay.MaxRequests != 0 {
		c.MaxRequests = overlay.MaxRequests
	}
}

func (c *Config) loadDefaults() {
	if c.ScaleFactor == 0 {
		c.ScaleFactor = DefaultScaleFactor
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ScaleFactor != "" {
		if v := os.Getenv(env.ScaleFactor); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.ScaleFactor = f
			}
		}
	}
	if env.MaxRequests != "" {
		if v := os.Getenv(env.MaxRequests); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxRequests = n
			}
		}
	}
}

func (c *Config) validate() error {
	if !validScale(c.ScaleFactor) {
		return fmt.Errorf("scale_factor must be a positive finite number")
	}
	if c.MaxRequests < 0 {
		return fmt.Errorf("max_requests cannot be negative")
	}
	return nil
}

func validScale(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
