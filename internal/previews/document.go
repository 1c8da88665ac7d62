package previews

import (
	"fmt"
	"io"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"
)

// Rasterizer renders pages of one opened document. A Rasterizer is owned by
// a single worker and is not safe for concurrent use.
type Rasterizer interface {
	RenderPage(pageNum int) ([]byte, error)
	io.Closer
}

// Opener opens a stored document for rendering with the given options.
type Opener func(path, contentType string, opts RenderOptions) (Rasterizer, error)

// IsSupported reports whether documents of contentType can be rendered.
func IsSupported(contentType string) bool {
	return document.IsSupported(contentType)
}

type rasterizer struct {
	doc      document.Document
	renderer image.Renderer
}

// OpenDocument is the Opener backed by document-context and ImageMagick.
func OpenDocument(path, contentType string, opts RenderOptions) (Rasterizer, error) {
	if !IsSupported(contentType) {
		return nil, ErrUnsupportedFormat
	}

	doc, err := document.Open(path, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	renderer, err := image.NewImageMagickRenderer(opts.ImageConfig())
	if err != nil {
		doc.Close()
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	return &rasterizer{doc: doc, renderer: renderer}, nil
}

func (r *rasterizer) RenderPage(pageNum int) ([]byte, error) {
	page, err := r.doc.ExtractPage(pageNum)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", ErrRenderFailed, pageNum, err)
	}

	data, err := page.ToImage(r.renderer, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", ErrRenderFailed, pageNum, err)
	}
	return data, nil
}

func (r *rasterizer) Close() error {
	return r.doc.Close()
}
