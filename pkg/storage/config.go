package storage

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/docker/go-units"
)

// Default key layout for uploaded and rendered blobs.
const (
	DefaultDocumentsPrefix = "documents"
	DefaultPreviewsPrefix  = "previews"
)

// Config contains blob storage configuration.
type Config struct {
	// BasePath is the root directory for filesystem storage.
	// Default: ".data/blobs"
	BasePath string `toml:"base_path"`

	// MaxUploadSize bounds a single document upload, in human units ("100MB").
	MaxUploadSize    string `toml:"max_upload_size"`
	maxUploadSizeVal int64

	// DocumentsPrefix is the top-level key segment for uploaded and signed PDFs.
	DocumentsPrefix string `toml:"documents_prefix"`

	// PreviewsPrefix is the top-level key segment for rendered page previews.
	// The preview janitor sweeps everything beneath it, so it must not
	// overlap DocumentsPrefix.
	PreviewsPrefix string `toml:"previews_prefix"`
}

// Env maps environment variable names for storage configuration.
type Env struct {
	BasePath        string
	MaxUploadSize   string
	DocumentsPrefix string
	PreviewsPrefix  string
}

// MaxUploadSizeBytes returns the parsed upload limit. It is set by Finalize.
func (c *Config) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if size, err := units.FromHumanSize(overlay.MaxUploadSize); err == nil {
		c.MaxUploadSize = overlay.MaxUploadSize
		c.maxUploadSizeVal = size
	}
	if overlay.DocumentsPrefix != "" {
		c.DocumentsPrefix = overlay.DocumentsPrefix
	}
	if overlay.PreviewsPrefix != "" {
		c.PreviewsPrefix = overlay.PreviewsPrefix
	}
}

func (c *Config) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = ".data/blobs"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "100MB"
	}
	if c.DocumentsPrefix == "" {
		c.DocumentsPrefix = DefaultDocumentsPrefix
	}
	if c.PreviewsPrefix == "" {
		c.PreviewsPrefix = DefaultPreviewsPrefix
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	set(env.BasePath, &c.BasePath)
	set(env.MaxUploadSize, &c.MaxUploadSize)
	set(env.DocumentsPrefix, &c.DocumentsPrefix)
	set(env.PreviewsPrefix, &c.PreviewsPrefix)
}

func (c *Config) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}

	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadSizeVal = size

	docs, err := cleanPrefix("documents_prefix", c.DocumentsPrefix)
	if err != nil {
		return err
	}
	previews, err := cleanPrefix("previews_prefix", c.PreviewsPrefix)
	if err != nil {
		return err
	}
	if docs == previews || strings.HasPrefix(docs, previews+"/") || strings.HasPrefix(previews, docs+"/") {
		return fmt.Errorf("documents_prefix %q and previews_prefix %q overlap", docs, previews)
	}
	c.DocumentsPrefix, c.PreviewsPrefix = docs, previews

	return nil
}

// cleanPrefix normalizes a key prefix to a relative slash path without
// leading or trailing separators.
func cleanPrefix(field, prefix string) (string, error) {
	p := strings.Trim(prefix, "/")
	if p == "" {
		return "", fmt.Errorf("%s required", field)
	}
	if strings.Contains(p, `\`) {
		return "", fmt.Errorf("%s %q must use forward slashes", field, prefix)
	}
	if clean := path.Clean(p); clean != p || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%s %q is not a clean relative path", field, prefix)
	}
	return p, nil
}
