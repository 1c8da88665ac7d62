// Package previews renders stored PDF pages to images sized for the signing
// viewer and prunes renders once they age out.
package previews

import (
	"errors"
	"net/http"

	"github.com/Shubham-NM01/doc-uploader/internal/documents"
)

var (
	ErrNotFound          = errors.New("preview not found")
	ErrDuplicate         = errors.New("preview already exists")
	ErrUnsupportedFormat = errors.New("document format is not supported for rendering")
	ErrInvalidPageRange  = errors.New("invalid page range")
	ErrPageOutOfRange    = errors.New("page number out of range")
	ErrInvalidOption     = errors.New("invalid render option")
	ErrRenderFailed      = errors.New("render failed")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, documents.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrInvalidPageRange),
		errors.Is(err, ErrPageOutOfRange),
		errors.Is(err, ErrInvalidOption):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
