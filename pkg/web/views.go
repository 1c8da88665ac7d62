// Package web provides infrastructure for serving server-rendered pages with
// Go templates. Templates are parsed once at startup so a broken template
// fails the process before it starts serving.
package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// ViewDef declares a view: its route, template file, and title.
type ViewDef struct {
	Route    string
	Template string
	Title    string
}

// ViewData is passed to every template. BasePath enables portable URLs
// via {{ .BasePath }}.
type ViewData struct {
	Title    string
	BasePath string
	Data     any
}

// TemplateSet holds one pre-parsed template tree per view.
type TemplateSet struct {
	views    map[string]*template.Template
	basePath string
}

// NewTemplateSet parses the layouts matched by layoutGlob and clones them for
// each view found in viewSubdir. funcs are available to every template.
func NewTemplateSet(layoutFS, viewFS fs.FS, layoutGlob, viewSubdir, basePath string, views []ViewDef, funcs template.FuncMap) (*TemplateSet, error) {
	layouts, err := template.New("").Funcs(funcs).ParseFS(layoutFS, layoutGlob)
	if err != nil {
		return nil, err
	}

	viewSub, err := fs.Sub(viewFS, viewSubdir)
	if err != nil {
		return nil, err
	}

	parsed := make(map[string]*template.Template, len(views))
	for _, v := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(viewSub, v.Template); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", v.Template, err)
		}
		parsed[v.Template] = t
	}

	return &TemplateSet{
		views:    parsed,
		basePath: basePath,
	}, nil
}

func (ts *TemplateSet) BasePath() string {
	return ts.basePath
}

// Render executes layout for the view's template with data.
func (ts *TemplateSet) Render(w http.ResponseWriter, layout string, view ViewDef, data any) error {
	t, ok := ts.views[view.Template]
	if !ok {
		return fmt.Errorf("template not found: %s", view.Template)
	}

	vd := ViewData{
		Title:    view.Title,
		BasePath: ts.basePath,
		Data:     data,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.ExecuteTemplate(w, layout, vd)
}

// RenderStatus writes status before rendering. Render failures fall back to
// the plain status text.
func (ts *TemplateSet) RenderStatus(w http.ResponseWriter, layout string, view ViewDef, status int, data any) {
	t, ok := ts.views[view.Template]
	if !ok {
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	t.ExecuteTemplate(w, layout, ViewData{
		Title:    view.Title,
		BasePath: ts.basePath,
		Data:     data,
	})
}

// ErrorHandler returns a handler that renders view with the given status.
func (ts *TemplateSet) ErrorHandler(layout string, view ViewDef, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts.RenderStatus(w, layout, view, status, nil)
	}
}
