package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"
)

const (
	EnvPreviewsWorkers       = "PREVIEWS_WORKERS"
	EnvPreviewsFormat        = "PREVIEWS_FORMAT"
	EnvPreviewsMaxAge        = "PREVIEWS_MAX_AGE"
	EnvPreviewsPruneInterval = "PREVIEWS_PRUNE_INTERVAL"
)

// PreviewsConfig controls page preview rendering and retention.
type PreviewsConfig struct {
	// Workers bounds concurrent page renders. Capped at NumCPU.
	Workers int `toml:"workers"`

	// Format is the default image format: "png" or "jpg".
	Format string `toml:"format"`

	// MaxAge is how long a rendered preview is kept. Zero disables pruning.
	MaxAge string `toml:"max_age"`

	PruneInterval string `toml:"prune_interval"`
}

func (c *PreviewsConfig) MaxAgeDuration() time.Duration {
	d, _ := time.ParseDuration(c.MaxAge)
	return d
}

func (c *PreviewsConfig) PruneIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PruneInterval)
	return d
}

func (c *PreviewsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *PreviewsConfig) Merge(overlay *PreviewsConfig) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	if overlay.MaxAge != "" {
		c.MaxAge = overlay.MaxAge
	}
	if overlay.PruneInterval != "" {
		c.PruneInterval = overlay.PruneInterval
	}
}

func (c *PreviewsConfig) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Format == "" {
		c.Format = "png"
	}
	if c.MaxAge == "" {
		c.MaxAge = "24h"
	}
	if c.PruneInterval == "" {
		c.PruneInterval = "1h"
	}
}

func (c *PreviewsConfig) loadEnv() {
	if v := os.Getenv(EnvPreviewsWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvPreviewsFormat); v != "" {
		c.Format = v
	}
	if v := os.Getenv(EnvPreviewsMaxAge); v != "" {
		c.MaxAge = v
	}
	if v := os.Getenv(EnvPreviewsPruneInterval); v != "" {
		c.PruneInterval = v
	}
}

func (c *PreviewsConfig) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if n := runtime.NumCPU(); c.Workers > n {
		c.Workers = n
	}
	if c.Format != "png" && c.Format != "jpg" {
		return fmt.Errorf("unsupported format %q", c.Format)
	}
	if _, err := time.ParseDuration(c.MaxAge); err != nil {
		return fmt.Errorf("invalid max_age: %w", err)
	}
	d, err := time.ParseDuration(c.PruneInterval)
	if err != nil {
		return fmt.Errorf("invalid prune_interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("prune_interval must be positive")
	}
	return nil
}
