package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Shubham-NM01/doc-uploader/internal/documents"
	"github.com/Shubham-NM01/doc-uploader/internal/previews"
	"github.com/Shubham-NM01/doc-uploader/pkg/module"
	"github.com/Shubham-NM01/doc-uploader/pkg/pagination"
	"github.com/Shubham-NM01/doc-uploader/web/app"
)

type fakeDocs struct {
	documents.System
	docs    []documents.Document
	listErr error
}

func (f *fakeDocs) List(ctx context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	r := pagination.NewPageResult(f.docs, len(f.docs), 1, 20)
	return &r, nil
}

func (f *fakeDocs) Find(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	for i := range f.docs {
		if f.docs[i].ID == id {
			return &f.docs[i], nil
		}
	}
	return nil, documents.ErrNotFound
}

type fakePreviews struct {
	previews.System
	items []previews.Preview
}

func (f *fakePreviews) List(ctx context.Context, page pagination.PageRequest, filters previews.Filters) (*pagination.PageResult[previews.Preview], error) {
	var out []previews.Preview
	for _, p := range f.items {
		if filters.DocumentID == nil || p.DocumentID == *filters.DocumentID {
			out = append(out, p)
		}
	}
	r := pagination.NewPageResult(out, len(out), 1, 20)
	return &r, nil
}

func newApp(t *testing.T, docs *fakeDocs, pv *fakePreviews) *module.Module {
	t.Helper()

	m, err := app.NewModule(app.Config{
		BasePath:   "/app",
		APIBase:    "/api",
		Documents:  docs,
		Previews:   pv,
		Pagination: pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	return m
}

func get(m *module.Module, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	m.Serve(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestDocumentsPage(t *testing.T) {
	pages := 3
	docs := &fakeDocs{docs: []documents.Document{
		{ID: uuid.New(), Name: "Lease <draft>", ContentType: "application/pdf", SizeBytes: 2048, PageCount: &pages, CreatedAt: time.Now()},
	}}
	m := newApp(t, docs, &fakePreviews{})

	w := get(m, "/app/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		"Lease &lt;draft&gt;",
		"/app/documents/" + docs.docs[0].ID.String(),
		"2.048kB",
		"Page 1 of 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestDocumentsPage_Empty(t *testing.T) {
	w := get(newApp(t, &fakeDocs{}, &fakePreviews{}), "/app/")
	if !strings.Contains(w.Body.String(), "No documents uploaded yet.") {
		t.Errorf("empty state not rendered: %s", w.Body.String())
	}
}

func TestDocumentsPage_ListError(t *testing.T) {
	w := get(newApp(t, &fakeDocs{listErr: errors.New("db down")}, &fakePreviews{}), "/app/")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "db down") {
		t.Error("internal error leaked into page")
	}
}

func TestDocumentPage(t *testing.T) {
	src := uuid.New()
	doc := documents.Document{ID: uuid.New(), Name: "Lease (signed)", Filename: "signed-lease.pdf", ContentType: "application/pdf", SourceID: &src}
	pv := previews.Preview{ID: uuid.New(), DocumentID: doc.ID, PageNumber: 2, DPI: 108}
	other := previews.Preview{ID: uuid.New(), DocumentID: uuid.New(), PageNumber: 1}

	m := newApp(t, &fakeDocs{docs: []documents.Document{doc}}, &fakePreviews{items: []previews.Preview{pv, other}})

	w := get(m, "/app/documents/"+doc.ID.String())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		"<title>Lease (signed) · Document Uploader</title>",
		"/api/documents/" + doc.ID.String() + "/data",
		"/api/previews/" + pv.ID.String() + "/data",
		"Page 2 · 108 dpi",
		"/app/documents/" + src.String(),
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, other.ID.String()) {
		t.Error("preview of another document rendered")
	}
}

func TestNotFound(t *testing.T) {
	m := newApp(t, &fakeDocs{}, &fakePreviews{})

	for _, path := range []string{
		"/app/documents/" + uuid.NewString(),
		"/app/documents/not-a-uuid",
		"/app/missing",
	} {
		t.Run(path, func(t *testing.T) {
			w := get(m, path)
			if w.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", w.Code)
			}
			if !strings.Contains(w.Body.String(), "Not Found") {
				t.Error("404 page not rendered")
			}
		})
	}
}
