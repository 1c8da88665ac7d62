package api

import (
	"net/http"

	"github.com/Shubham-NM01/doc-uploader/internal/config"
	"github.com/Shubham-NM01/doc-uploader/internal/documents"
	"github.com/Shubham-NM01/doc-uploader/internal/previews"
	"github.com/Shubham-NM01/doc-uploader/internal/signatures"
	"github.com/Shubham-NM01/doc-uploader/pkg/openapi"
	"github.com/Shubham-NM01/doc-uploader/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	maxBody := cfg.Storage.MaxUploadSizeBytes()

	documentsHandler := documents.NewHandler(domain.Documents, runtime.Logger, runtime.Pagination, maxBody)
	signaturesHandler := signatures.NewHandler(domain.Signatures, runtime.Logger, runtime.Pagination, &cfg.API.RateLimit, maxBody)
	previewsHandler := previews.NewHandler(domain.Previews, runtime.Logger, runtime.Pagination)

	routes.Register(
		mux,
		cfg.API.BasePath,
		spec,
		documentsHandler.Routes(),
		signaturesHandler.Routes(),
		previewsHandler.Routes(),
	)
}
