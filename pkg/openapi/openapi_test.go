package openapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Shubham-NM01/doc-uploader/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Docs", "0.1.0")
	spec.SetDescription("desc")
	spec.AddServer("/api")

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if result["openapi"] != "3.1.0" {
		t.Errorf("openapi = %v", result["openapi"])
	}
	info := result["info"].(map[string]any)
	if info["title"] != "Docs" || info["version"] != "0.1.0" || info["description"] != "desc" {
		t.Errorf("info = %v", info)
	}
	servers := result["servers"].([]any)
	if len(servers) != 1 || servers[0].(map[string]any)["url"] != "/api" {
		t.Errorf("servers = %v", servers)
	}
}

func TestNewComponents(t *testing.T) {
	c := openapi.NewComponents()

	if _, ok := c.Schemas["PageRequest"]; !ok {
		t.Error("missing PageRequest schema")
	}
	for _, name := range []string{"BadRequest", "NotFound", "Conflict", "TooManyRequests"} {
		if _, ok := c.Responses[name]; !ok {
			t.Errorf("missing %s response", name)
		}
	}

	c.AddSchemas(map[string]*openapi.Schema{"Document": {Type: "object"}})
	c.AddResponses(map[string]*openapi.Response{"Gone": {Description: "gone"}})

	if _, ok := c.Schemas["Document"]; !ok {
		t.Error("AddSchemas() did not add Document")
	}
	if _, ok := c.Schemas["PageRequest"]; !ok {
		t.Error("AddSchemas() dropped PageRequest")
	}
	if _, ok := c.Responses["Gone"]; !ok {
		t.Error("AddResponses() did not add Gone")
	}
}

func TestServeSpec(t *testing.T) {
	w := httptest.NewRecorder()
	openapi.ServeSpec([]byte(`{"openapi":"3.1.0"}`))(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	resp := w.Result()
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"openapi":"3.1.0"}` {
		t.Errorf("body = %q", body)
	}
}

func TestHelpers(t *testing.T) {
	if ref := openapi.SchemaRef("Document").Ref; ref != "#/components/schemas/Document" {
		t.Errorf("SchemaRef() = %q", ref)
	}
	if ref := openapi.ResponseRef("NotFound").Ref; ref != "#/components/responses/NotFound" {
		t.Errorf("ResponseRef() = %q", ref)
	}

	p := openapi.PathParam("id", "Document ID")
	if p.In != "path" || !p.Required || p.Schema.Format != "uuid" {
		t.Errorf("PathParam() = %+v", p)
	}

	q := openapi.QueryParam("page", "integer", "Page", false)
	if q.In != "query" || q.Required || q.Schema.Type != "integer" {
		t.Errorf("QueryParam() = %+v", q)
	}
}

func TestConfig_Finalize(t *testing.T) {
	t.Setenv("TEST_OPENAPI_TITLE", "Custom")

	cfg := &openapi.Config{}
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.Title != "Custom" || cfg.Description == "" {
		t.Errorf("Finalize() = %+v", cfg)
	}
}
