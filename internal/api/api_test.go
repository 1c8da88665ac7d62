package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Shubham-NM01/doc-uploader/internal/api"
	"github.com/Shubham-NM01/doc-uploader/internal/config"
	"github.com/Shubham-NM01/doc-uploader/internal/infrastructure"
	"github.com/Shubham-NM01/doc-uploader/pkg/lifecycle"
	"github.com/Shubham-NM01/doc-uploader/pkg/module"
)

// newModule assembles the API without starting infrastructure; requests that
// fail validation never reach the database.
func newModule(t *testing.T) (*module.Module, *api.Domain) {
	t.Helper()

	dir := t.TempDir()
	toml := `
version = "0.3.0"

[database]
name = "docs"
user = "docs"

[storage]
base_path = "` + filepath.ToSlash(filepath.Join(dir, "blobs")) + `"

[logging]
level = "error"
`
	if err := os.WriteFile(filepath.Join(dir, config.BaseConfigFile), []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvServiceEnv, "")

	cfg, err := config.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error: %v", err)
	}

	runtime := api.NewRuntime(cfg, infra)
	domain, err := api.NewDomain(cfg, runtime)
	if err != nil {
		t.Fatalf("NewDomain() error: %v", err)
	}

	m, err := api.NewModule(cfg, runtime, domain)
	if err != nil {
		t.Fatalf("NewModule() error: %v", err)
	}
	return m, domain
}

func TestNewModule_OpenAPI(t *testing.T) {
	m, _ := newModule(t)

	if m.Prefix() != "/api" {
		t.Errorf("Prefix() = %q, want /api", m.Prefix())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil)
	w := httptest.NewRecorder()
	m.Serve(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var doc struct {
		Info  struct{ Version string }    `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode spec: %v", err)
	}
	if doc.Info.Version != "0.3.0" {
		t.Errorf("info.version = %q", doc.Info.Version)
	}

	want := map[string]string{
		"/api/documents":                    "post",
		"/api/documents/{id}/data":          "get",
		"/api/signatures/{documentId}":      "post",
		"/api/signatures":                   "get",
		"/api/previews/{documentId}/render": "post",
		"/api/previews/{id}/data":           "get",
	}
	for path, method := range want {
		item, ok := doc.Paths[path]
		if !ok {
			t.Errorf("spec missing path %s", path)
			continue
		}
		if _, ok := item[method]; !ok {
			t.Errorf("spec path %s missing %s", path, method)
		}
	}
}

func TestNewModule_RoutesWithoutDatabase(t *testing.T) {
	m, _ := newModule(t)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"invalid document id", http.MethodGet, "/api/documents/not-a-uuid", http.StatusBadRequest},
		{"invalid signing target", http.MethodPost, "/api/signatures/not-a-uuid", http.StatusBadRequest},
		{"invalid preview id", http.MethodGet, "/api/previews/not-a-uuid/data", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/widgets", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			m.Serve(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, w.Code, tt.want)
			}
		})
	}
}

func TestDomain_Start(t *testing.T) {
	_, domain := newModule(t)

	lc := lifecycle.New()
	if err := domain.Start(lc); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if domain.Janitor == nil {
		t.Error("janitor not created")
	}
	if domain.Previews.Defaults().DPI != 108 {
		t.Errorf("default preview DPI = %d, want 108 (72 * 1.5)", domain.Previews.Defaults().DPI)
	}
}
