// Package annotate places bitmap signatures onto existing PDF documents.
// It maps rectangles reported by a zoomed, top-left-origin viewer into PDF
// user space, embeds the decoded images as XObjects on the resolved pages,
// and serializes the annotated document exactly once.
package annotate

import "errors"

// Errors returned by the annotation engine.
var (
	// ErrLoad indicates the input bytes are not a readable PDF document.
	// It is fatal to the whole Annotate call.
	ErrLoad = errors.New("annotate: document could not be loaded")

	// ErrDecode indicates a request's image data could not be decoded.
	// The request is skipped; the remaining requests are still applied.
	ErrDecode = errors.New("annotate: image data could not be decoded")

	// ErrPageRange indicates a request references a page the document does not have.
	// The request is skipped; the remaining requests are still applied.
	ErrPageRange = errors.New("annotate: page number out of range")

	// ErrSerialize indicates the annotated document could not be written.
	// It is fatal to the whole Annotate call.
	ErrSerialize = errors.New("annotate: document could not be serialized")
)
