package annotate

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Skip records a request that was not applied and why.
type Skip struct {
	Index      int
	PageNumber int
	Err        error
}

// Result is the outcome of a successful Annotate call.
type Result struct {
	Data    []byte
	Applied int
	Skipped []Skip
}

// PageInfo describes one page of a loaded document.
type PageInfo struct {
	Number int     `json:"number"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Images int     `json:"images"`
}

// Engine applies signature requests to PDF documents.
// An Engine holds no per-document state and may be shared across goroutines;
// each Annotate call loads its own document model.
type Engine struct {
	scale  float64
	logger *slog.Logger
}

// New creates an engine from a finalized configuration.
func New(cfg *Config, logger *slog.Logger) (*Engine, error) {
	if !validScale(cfg.ScaleFactor) {
		return nil, fmt.Errorf("scale_factor must be a positive finite number")
	}

	return &Engine{
		scale:  cfg.ScaleFactor,
		logger: logger.With("system", "annotate"),
	}, nil
}

// ScaleFactor returns the viewer zoom the engine maps coordinates from.
func (e *Engine) ScaleFactor() float64 {
	return e.scale
}

// Annotate draws every applicable request onto a copy of the document and
// returns the serialized result.
//
// Requests are processed in order. A request naming a page outside the
// document or carrying undecodable image data is skipped and reported in
// Result.Skipped. Load and serialization failures abort the call with no output.
func (e *Engine) Annotate(document []byte, requests []Request) (*Result, error) {
	ctx, err := load(document)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	for i, req := range requests {
		if err := e.apply(ctx, req); err != nil {
			e.logger.Warn(
				"annotation skipped",
				"index", i,
				"page_number", req.PageNumber,
				"error", err,
			)
			result.Skipped = append(result.Skipped, Skip{
				Index:      i,
				PageNumber: req.PageNumber,
				Err:        err,
			})
			continue
		}
		result.Applied++
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}

	result.Data = buf.Bytes()

	e.logger.Debug(
		"document annotated",
		"pages", ctx.PageCount,
		"applied", result.Applied,
		"skipped", len(result.Skipped),
	)

	return result, nil
}

// Map resolves the document-space rectangle a request would be drawn at on a
// page of the given height.
func (e *Engine) Map(pageHeight float64, req Request) Rect {
	return MapToDocumentSpace(pageHeight, req.X, req.Y, req.Width, req.Height, e.scale)
}

func (e *Engine) apply(ctx *model.Context, req Request) error {
	if req.PageNumber < 1 || req.PageNumber > ctx.PageCount {
		return fmt.Errorf("%w: page %d of %d", ErrPageRange, req.PageNumber, ctx.PageCount)
	}

	page, err := openPage(ctx, req.PageNumber)
	if err != nil {
		return err
	}

	rect := e.Map(page.height, req)

	img, err := DecodeImage(req.ImageData)
	if err != nil {
		return err
	}

	name, err := page.embed(img)
	if err != nil {
		return err
	}

	return page.draw(name, rect)
}

// Pages loads a document and describes each page: its MediaBox size and the
// number of image XObjects it references.
func Pages(document []byte) ([]PageInfo, error) {
	ctx, err := load(document)
	if err != nil {
		return nil, err
	}

	pages := make([]PageInfo, 0, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		p, err := openPage(ctx, pageNr)
		if err != nil {
			return nil, err
		}
		pages = append(pages, PageInfo{
			Number: pageNr,
			Width:  p.width,
			Height: p.height,
			Images: p.countImages(),
		})
	}

	return pages, nil
}

// PageCount loads a document and returns its number of pages.
func PageCount(document []byte) (int, error) {
	ctx, err := load(document)
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}

func load(document []byte) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(document), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	return ctx, nil
}
