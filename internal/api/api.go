// Package api assembles the JSON API module: domain systems, their routes,
// the generated OpenAPI document, and the module middleware.
package api

import (
	"net/http"

	"github.com/Shubham-NM01/doc-uploader/internal/config"
	"github.com/Shubham-NM01/doc-uploader/pkg/middleware"
	"github.com/Shubham-NM01/doc-uploader/pkg/module"
	"github.com/Shubham-NM01/doc-uploader/pkg/openapi"
)

func NewModule(cfg *config.Config, runtime *Runtime, domain *Domain) (*module.Module, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.Domain)

	mux := http.NewServeMux()
	registerRoutes(mux, spec, runtime, domain, cfg)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.TrimSlash())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
