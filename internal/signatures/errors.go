package signatures

import (
	"errors"
	"net/http"

	"github.com/Shubham-NM01/doc-uploader/internal/documents"
	"github.com/Shubham-NM01/doc-uploader/pkg/annotate"
)

var (
	ErrNotFound    = errors.New("signing not found")
	ErrEmptyBatch  = errors.New("no signatures provided")
	ErrTooMany     = errors.New("too many signatures in one request")
	ErrNotPDF      = errors.New("document is not a pdf")
	ErrInvalidBody = errors.New("invalid request body")
)

// MapHTTPStatus converts signing errors to HTTP status codes. A document
// that fails to load is reported as unprocessable; a failure to write the
// annotated result is a server error.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, documents.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyBatch), errors.Is(err, ErrTooMany), errors.Is(err, ErrNotPDF), errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, annotate.ErrLoad):
		return http.StatusUnprocessableEntity
	case errors.Is(err, annotate.ErrSerialize):
		return http.StatusInternalServerError
	default:
		return documents.MapHTTPStatus(err)
	}
}
