package middleware

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// CORSConfig controls cross-origin request handling.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv maps environment variable names for CORS configuration.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials string
	MaxAge           string
}

// Finalize applies defaults and environment overrides.
func (c *CORSConfig) Finalize(env *CORSEnv) error {
	c.loadDefaults()
	if env != nil {
		return c.loadEnv(env)
	}
	return nil
}

// Merge applies non-zero values from the overlay configuration.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.Origins != nil {
		c.Origins = overlay.Origins
	}
	if overlay.AllowedMethods != nil {
		c.AllowedMethods = overlay.AllowedMethods
	}
	if overlay.AllowedHeaders != nil {
		c.AllowedHeaders = overlay.AllowedHeaders
	}
	if overlay.AllowCredentials {
		c.AllowCredentials = true
	}
	if overlay.MaxAge > 0 {
		c.MaxAge = overlay.MaxAge
	}
}

func (c *CORSConfig) loadDefaults() {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}
}

func (c *CORSConfig) loadEnv(env *CORSEnv) error {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			enabled, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", env.Enabled, err)
			}
			c.Enabled = enabled
		}
	}
	if env.Origins != "" {
		if v := os.Getenv(env.Origins); v != "" {
			c.Origins = splitList(v)
		}
	}
	if env.AllowedMethods != "" {
		if v := os.Getenv(env.AllowedMethods); v != "" {
			c.AllowedMethods = splitList(v)
		}
	}
	if env.AllowedHeaders != "" {
		if v := os.Getenv(env.AllowedHeaders); v != "" {
			c.AllowedHeaders = splitList(v)
		}
	}
	if env.AllowCredentials != "" {
		if v := os.Getenv(env.AllowCredentials); v != "" {
			creds, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", env.AllowCredentials, err)
			}
			c.AllowCredentials = creds
		}
	}
	if env.MaxAge != "" {
		if v := os.Getenv(env.MaxAge); v != "" {
			age, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", env.MaxAge, err)
			}
			c.MaxAge = age
		}
	}
	return nil
}

// RateLimitConfig configures the token bucket applied to rate limited routes.
// A zero RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// RateLimitEnv maps environment variable names for rate limit configuration.
type RateLimitEnv struct {
	RequestsPerSecond string
	Burst             string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *RateLimitConfig) Finalize(env *RateLimitEnv) error {
	if c.Burst <= 0 {
		c.Burst = 5
	}
	if env != nil {
		if env.RequestsPerSecond != "" {
			if v := os.Getenv(env.RequestsPerSecond); v != "" {
				rps, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return fmt.Errorf("invalid %s: %w", env.RequestsPerSecond, err)
				}
				c.RequestsPerSecond = rps
			}
		}
		if env.Burst != "" {
			if v := os.Getenv(env.Burst); v != "" {
				burst, err := strconv.Atoi(v)
				if err != nil {
					return fmt.Errorf("invalid %s: %w", env.Burst, err)
				}
				c.Burst = burst
			}
		}
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must be >= 0")
	}
	if c.Burst <= 0 {
		return fmt.Errorf("burst must be > 0")
	}
	return nil
}

// Merge applies non-zero values from the overlay configuration.
func (c *RateLimitConfig) Merge(overlay *RateLimitConfig) {
	if overlay.RequestsPerSecond > 0 {
		c.RequestsPerSecond = overlay.RequestsPerSecond
	}
	if overlay.Burst > 0 {
		c.Burst = overlay.Burst
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
