package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Shubham-NM01/doc-uploader/internal/documents"
	"github.com/Shubham-NM01/doc-uploader/pkg/annotate/annotatetest"
	"github.com/Shubham-NM01/doc-uploader/pkg/pagination"
	"github.com/Shubham-NM01/doc-uploader/pkg/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeSystem struct {
	docs    map[uuid.UUID]*documents.Document
	data    map[uuid.UUID][]byte
	created *documents.CreateCommand
}

func newFakeSystem() *fakeSystem {
	return &fakeSystem{
		docs: map[uuid.UUID]*documents.Document{},
		data: map[uuid.UUID][]byte{},
	}
}

func (f *fakeSystem) add(name, contentType string, data []byte) *documents.Document {
	id := uuid.New()
	doc := &documents.Document{ID: id, Name: name, Filename: name, ContentType: contentType, SizeBytes: int64(len(data))}
	f.docs[id] = doc
	f.data[id] = data
	return doc
}

func (f *fakeSystem) List(ctx context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error) {
	var out []documents.Document
	for _, d := range f.docs {
		out = append(out, *d)
	}
	r := pagination.NewPageResult(out, len(out), 1, 20)
	return &r, nil
}

func (f *fakeSystem) Find(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	if d, ok := f.docs[id]; ok {
		return d, nil
	}
	return nil, documents.ErrNotFound
}

func (f *fakeSystem) Data(ctx context.Context, id uuid.UUID) (*documents.Document, []byte, error) {
	d, err := f.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return d, f.data[id], nil
}

func (f *fakeSystem) Create(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
	f.created = &cmd
	doc := f.add(cmd.Name, cmd.ContentType, cmd.Data)
	doc.PageCount = cmd.PageCount
	return doc, nil
}

func (f *fakeSystem) Update(ctx context.Context, id uuid.UUID, cmd documents.UpdateCommand) (*documents.Document, error) {
	d, err := f.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Name = cmd.Name
	return d, nil
}

func (f *fakeSystem) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.docs[id]; !ok {
		return documents.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

func newMux(sys documents.System, maxUpload int64) *http.ServeMux {
	h := documents.NewHandler(sys, testLogger(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, maxUpload)
	mux := http.NewServeMux()
	for _, r := range h.Routes().Routes {
		mux.HandleFunc(r.Method+" /documents"+r.Pattern, r.Handler)
	}
	return mux
}

func multipartBody(t *testing.T, field, filename string, data []byte, name string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		fw.Write(data)
	}
	if name != "" {
		mw.WriteField("name", name)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUpload_PDF(t *testing.T) {
	sys := newFakeSystem()
	mux := newMux(sys, 1<<20)

	body, ct := multipartBody(t, "file", "contract.pdf", annotatetest.LetterPDF(3), "")
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if sys.created == nil {
		t.Fatal("Create() not called")
	}
	if sys.created.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q", sys.created.ContentType)
	}
	if sys.created.PageCount == nil || *sys.created.PageCount != 3 {
		t.Errorf("PageCount = %v, want 3", sys.created.PageCount)
	}
	if sys.created.Name != "contract.pdf" {
		t.Errorf("Name = %q, want filename default", sys.created.Name)
	}
}

func TestUpload_Errors(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		data       []byte
		maxUpload  int64
		wantStatus int
	}{
		{"no file field", "", nil, 1 << 20, http.StatusBadRequest},
		{"wrong field", "upload", []byte("x"), 1 << 20, http.StatusBadRequest},
		{"empty file", "file", []byte{}, 1 << 20, http.StatusBadRequest},
		{"too large", "file", bytes.Repeat([]byte("a"), 2048), 1024, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newMux(newFakeSystem(), tt.maxUpload)

			body, ct := multipartBody(t, tt.field, "a.txt", tt.data, "label")
			req := httptest.NewRequest(http.MethodPost, "/documents", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestData(t *testing.T) {
	sys := newFakeSystem()
	pdf := annotatetest.LetterPDF(1)
	doc := sys.add("signed contract.pdf", "application/pdf", pdf)
	mux := newMux(sys, 1<<20)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/"+doc.ID.String()+"/data", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "inline") || !strings.Contains(cd, "signed contract.pdf") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.Equal(w.Body.Bytes(), pdf) {
		t.Error("body does not match stored bytes")
	}
}

func TestHandler_StatusMapping(t *testing.T) {
	sys := newFakeSystem()
	doc := sys.add("a.pdf", "application/pdf", []byte("%PDF"))
	mux := newMux(sys, 1<<20)
	missing := uuid.New().String()

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"GET", "/documents", "", http.StatusOK},
		{"GET", "/documents/" + doc.ID.String(), "", http.StatusOK},
		{"GET", "/documents/" + missing, "", http.StatusNotFound},
		{"GET", "/documents/not-a-uuid", "", http.StatusBadRequest},
		{"GET", "/documents/" + missing + "/data", "", http.StatusNotFound},
		{"POST", "/documents/search", `{"page":1,"sort":"-name"}`, http.StatusOK},
		{"POST", "/documents/search", `{`, http.StatusBadRequest},
		{"PUT", "/documents/" + doc.ID.String(), `{"name":"renamed"}`, http.StatusOK},
		{"PUT", "/documents/" + missing, `{"name":"renamed"}`, http.StatusNotFound},
		{"DELETE", "/documents/" + missing, "", http.StatusNotFound},
		{"DELETE", "/documents/" + doc.ID.String(), "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Code >= 400 {
				var body map[string]string
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" {
					t.Errorf("error body = %q", w.Body.String())
				}
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{documents.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("retrieve: %w", storage.ErrNotFound), http.StatusNotFound},
		{documents.ErrDuplicate, http.StatusConflict},
		{documents.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{documents.ErrNoFile, http.StatusBadRequest},
		{documents.ErrInvalidName, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := documents.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStoredName(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	tests := []struct {
		filename string
		want     string
	}{
		{"contract.pdf", "1700000000123-contract.pdf"},
		{"my contract.pdf", "1700000000123-my_contract.pdf"},
		{"../../etc/passwd", "1700000000123-passwd"},
		{`C:\Users\me\scan?.pdf`, "1700000000123-scan_.pdf"},
		{"", "1700000000123-file"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := documents.StoredName(at, tt.filename); got != tt.want {
				t.Errorf("StoredName() = %q, want %q", got, tt.want)
			}
		})
	}

	id := uuid.MustParse("2f1c8b0e-5d7a-4e21-9a3b-0c6d1e2f3a4b")
	keys := []struct {
		prefix string
		want   string
	}{
		{storage.DefaultDocumentsPrefix, "documents/2f1c8b0e-5d7a-4e21-9a3b-0c6d1e2f3a4b/1-a.pdf"},
		{"tenants/acme/docs", "tenants/acme/docs/2f1c8b0e-5d7a-4e21-9a3b-0c6d1e2f3a4b/1-a.pdf"},
	}
	for _, k := range keys {
		if got := documents.StorageKey(k.prefix, id, "1-a.pdf"); got != k.want {
			t.Errorf("StorageKey(%q) = %q, want %q", k.prefix, got, k.want)
		}
	}
}

func TestFiltersFromQuery(t *testing.T) {
	src := uuid.New()
	f := documents.FiltersFromQuery(url.Values{
		"name":      {"contract"},
		"source_id": {src.String()},
	})

	if f.Name == nil || *f.Name != "contract" {
		t.Errorf("Name = %v", f.Name)
	}
	if f.ContentType != nil {
		t.Errorf("ContentType = %v, want nil", f.ContentType)
	}
	if f.SourceID == nil || *f.SourceID != src {
		t.Errorf("SourceID = %v", f.SourceID)
	}

	if f := documents.FiltersFromQuery(url.Values{"source_id": {"bad"}}); f.SourceID != nil {
		t.Error("malformed source_id should be ignored")
	}
}
