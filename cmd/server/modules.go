package main

import (
	"net/http"

	"github.com/Shubham-NM01/doc-uploader/internal/api"
	"github.com/Shubham-NM01/doc-uploader/internal/config"
	"github.com/Shubham-NM01/doc-uploader/pkg/lifecycle"
	"github.com/Shubham-NM01/doc-uploader/pkg/middleware"
	"github.com/Shubham-NM01/doc-uploader/pkg/module"
	"github.com/Shubham-NM01/doc-uploader/web/app"
	"github.com/Shubham-NM01/doc-uploader/web/scalar"
)

// Modules holds the mounted top-level modules.
type Modules struct {
	API    *module.Module
	App    *module.Module
	Scalar *module.Module
}

func NewModules(cfg *config.Config, runtime *api.Runtime, domain *api.Domain) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, runtime, domain)
	if err != nil {
		return nil, err
	}

	appModule, err := app.NewModule(app.Config{
		BasePath:   "/app",
		APIBase:    cfg.API.BasePath,
		Documents:  domain.Documents,
		Previews:   domain.Previews,
		Pagination: cfg.API.Pagination,
		Logger:     runtime.Logger,
	})
	if err != nil {
		return nil, err
	}
	appModule.Use(middleware.Logger(runtime.Logger))

	scalarModule, err := scalar.NewModule("/scalar", cfg.API.OpenAPI.Title, cfg.API.BasePath+"/openapi.json")
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:    apiModule,
		App:    appModule,
		Scalar: scalarModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.App)
	router.Mount(m.Scalar)
}

// buildRouter creates the root router with the probe endpoints. The root
// path redirects to the document browser.
func buildRouter(ready lifecycle.ReadinessChecker) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/app/", http.StatusFound)
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !ready.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	return router
}
