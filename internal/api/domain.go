package api

import (
	"fmt"

	"github.com/Shubham-NM01/doc-uploader/internal/config"
	"github.com/Shubham-NM01/doc-uploader/internal/documents"
	"github.com/Shubham-NM01/doc-uploader/internal/previews"
	"github.com/Shubham-NM01/doc-uploader/internal/signatures"
	"github.com/Shubham-NM01/doc-uploader/pkg/annotate"
	"github.com/Shubham-NM01/doc-uploader/pkg/lifecycle"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents  documents.System
	Signatures signatures.System
	Previews   previews.System
	Janitor    *previews.Janitor
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	db := runtime.Database.Connection()

	engine, err := annotate.New(&cfg.Annotation, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("annotation engine: %w", err)
	}

	format, err := previews.ParseFormat(cfg.Previews.Format)
	if err != nil {
		return nil, err
	}

	documentsSys := documents.New(db, runtime.Storage, cfg.Storage.DocumentsPrefix, runtime.Logger, runtime.Pagination)

	signaturesSys := signatures.New(
		documentsSys,
		engine,
		signatures.NewRecorder(db, runtime.Pagination),
		cfg.Annotation.MaxRequests,
		runtime.Logger,
	)

	previewsSys := previews.New(
		documentsSys,
		db,
		runtime.Storage,
		previews.Config{
			Workers:   cfg.Previews.Workers,
			KeyPrefix: cfg.Storage.PreviewsPrefix,
			Defaults: previews.Defaults{
				Format: format,
				DPI:    previews.ViewerDPI(engine.ScaleFactor()),
			},
		},
		runtime.Logger,
		runtime.Pagination,
	)

	janitor := previews.NewJanitor(
		previewsSys,
		cfg.Previews.MaxAgeDuration(),
		cfg.Previews.PruneIntervalDuration(),
		runtime.Logger,
	)

	return &Domain{
		Documents:  documentsSys,
		Signatures: signaturesSys,
		Previews:   previewsSys,
		Janitor:    janitor,
	}, nil
}

// Start launches background domain work.
func (d *Domain) Start(lc *lifecycle.Coordinator) error {
	return d.Janitor.Start(lc)
}
