package previews

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/google/uuid"
)

// Preview is one rendered page of a stored document.
type Preview struct {
	ID         uuid.UUID            `json:"id"`
	DocumentID uuid.UUID            `json:"document_id"`
	PageNumber int                  `json:"page_number"`
	Format     document.ImageFormat `json:"format"`
	DPI        int                  `json:"dpi"`
	StorageKey string               `json:"storage_key"`
	SizeBytes  int64                `json:"size_bytes"`
	CreatedAt  time.Time            `json:"created_at"`
}

// Defaults supplies the render options a request leaves unset.
type Defaults struct {
	Format document.ImageFormat
	DPI    int
}

// ViewerDPI is the render resolution at which one preview pixel equals one
// viewer-space unit for the given scale factor.
func ViewerDPI(scaleFactor float64) int {
	return int(math.Round(72 * scaleFactor))
}

// RenderOptions selects the pages and output of a render call.
type RenderOptions struct {
	Pages  string               `json:"pages"`
	Format document.ImageFormat `json:"format"`
	DPI    int                  `json:"dpi"`
	Force  bool                 `json:"force"`
}

// Validate fills unset fields from d and checks ranges.
func (o *RenderOptions) Validate(d Defaults) error {
	if o.Format == "" {
		o.Format = d.Format
	}
	format, err := ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	o.Format = format

	if o.DPI == 0 {
		o.DPI = d.DPI
	}
	if o.DPI < 36 || o.DPI > 600 {
		return fmt.Errorf("%w: dpi must be between 36 and 600", ErrInvalidOption)
	}

	return nil
}

// ImageConfig converts the options to a renderer configuration.
func (o RenderOptions) ImageConfig() config.ImageConfig {
	cfg := config.ImageConfig{
		Format:  string(o.Format),
		DPI:     o.DPI,
		Options: map[string]any{"background": "white"},
	}
	if o.Format == document.JPEG {
		cfg.Quality = 90
	}
	return cfg
}

// ParseFormat accepts png, jpg and jpeg in any case. Empty means png.
func ParseFormat(s string) (document.ImageFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return document.PNG, nil
	case "jpg", "jpeg":
		return document.JPEG, nil
	default:
		return "", fmt.Errorf("%w: format must be 'png' or 'jpg'", ErrInvalidOption)
	}
}

// ContentType returns the MIME type for a preview format.
func ContentType(f document.ImageFormat) string {
	if f == document.JPEG {
		return "image/jpeg"
	}
	return "image/png"
}
