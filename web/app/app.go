// Package app provides the server-rendered document browser.
package app

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/docker/go-units"
	"github.com/google/uuid"

	"github.com/Shubham-NM01/doc-uploader/internal/documents"
	"github.com/Shubham-NM01/doc-uploader/internal/previews"
	"github.com/Shubham-NM01/doc-uploader/pkg/module"
	"github.com/Shubham-NM01/doc-uploader/pkg/pagination"
	"github.com/Shubham-NM01/doc-uploader/pkg/web"
)

//go:embed server/layouts/*
var layoutFS embed.FS

//go:embed server/views/*
var viewFS embed.FS

const layout = "app.html"

var (
	documentsView = web.ViewDef{Route: "/{$}", Template: "documents.html", Title: "Documents"}
	documentView  = web.ViewDef{Route: "/documents/{id}", Template: "document.html", Title: "Document"}
	notFoundView  = web.ViewDef{Template: "404.html", Title: "Not Found"}
	errorView     = web.ViewDef{Template: "error.html", Title: "Error"}
)

var funcs = template.FuncMap{
	"bytes": func(n int64) string { return units.HumanSize(float64(n)) },
	"date":  func(t time.Time) string { return t.Local().Format("2006-01-02 15:04") },
	"add":   func(a, b int) int { return a + b },
	"sub":   func(a, b int) int { return a - b },
}

// Config wires the app to the domain systems it reads from.
type Config struct {
	BasePath   string
	APIBase    string
	Documents  documents.System
	Previews   previews.System
	Pagination pagination.Config
	Logger     *slog.Logger
}

type handler struct {
	ts     *web.TemplateSet
	cfg    Config
	logger *slog.Logger
}

// NewModule creates the app module configured for cfg.BasePath.
func NewModule(cfg Config) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		layoutFS,
		viewFS,
		"server/layouts/*.html",
		"server/views",
		cfg.BasePath,
		[]web.ViewDef{documentsView, documentView, notFoundView, errorView},
		funcs,
	)
	if err != nil {
		return nil, err
	}

	h := &handler{ts: ts, cfg: cfg, logger: cfg.Logger.With("handler", "app")}
	return module.New(cfg.BasePath, h.router()), nil
}

func (h *handler) router() http.Handler {
	r := web.NewRouter()
	r.SetFallback(h.ts.ErrorHandler(layout, notFoundView, http.StatusNotFound))
	r.HandleFunc("GET "+documentsView.Route, h.documents)
	r.HandleFunc("GET "+documentView.Route, h.document)
	return r
}

type documentsData struct {
	Search string
	Result *pagination.PageResult[documents.Document]
}

func (h *handler) documents(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.cfg.Pagination)
	filters := documents.FiltersFromQuery(r.URL.Query())

	result, err := h.cfg.Documents.List(r.Context(), page, filters)
	if err != nil {
		h.fail(w, err)
		return
	}

	data := documentsData{Result: result}
	if page.Search != nil {
		data.Search = *page.Search
	}
	h.render(w, documentsView, data)
}

type documentData struct {
	APIBase  string
	Document *documents.Document
	Previews []previews.Preview
}

func (h *handler) document(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.ts.RenderStatus(w, layout, notFoundView, http.StatusNotFound, nil)
		return
	}

	doc, err := h.cfg.Documents.Find(r.Context(), id)
	if errors.Is(err, documents.ErrNotFound) {
		h.ts.RenderStatus(w, layout, notFoundView, http.StatusNotFound, nil)
		return
	}
	if err != nil {
		h.fail(w, err)
		return
	}

	pv, err := h.cfg.Previews.List(
		r.Context(),
		pagination.PageRequest{Page: 1, PageSize: h.cfg.Pagination.MaxPageSize},
		previews.Filters{DocumentID: &doc.ID},
	)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.render(w, web.ViewDef{Template: documentView.Template, Title: doc.Name}, documentData{
		APIBase:  h.cfg.APIBase,
		Document: doc,
		Previews: pv.Data,
	})
}

func (h *handler) render(w http.ResponseWriter, view web.ViewDef, data any) {
	if err := h.ts.Render(w, layout, view, data); err != nil {
		h.logger.Error("render failed", "template", view.Template, "error", err)
	}
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("page failed", "error", err)
	h.ts.RenderStatus(w, layout, errorView, http.StatusInternalServerError, nil)
}
