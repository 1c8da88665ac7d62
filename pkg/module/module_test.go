package module_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Shubham-NM01/doc-uploader/pkg/module"
)

func echoPath() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path))
	})
}

func TestNew_InvalidPrefix(t *testing.T) {
	for _, prefix := range []string{"", "api", "/api/v1"} {
		t.Run(prefix, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%q) did not panic", prefix)
				}
			}()
			module.New(prefix, echoPath())
		})
	}
}

func TestModule_Use(t *testing.T) {
	m := module.New("/api", echoPath())
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Middleware", "applied")
			next.ServeHTTP(w, r)
		})
	})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Header().Get("X-Middleware") != "applied" {
		t.Error("middleware was not applied")
	}
	if m.Prefix() != "/api" {
		t.Errorf("Prefix() = %q", m.Prefix())
	}
}

func TestRouter(t *testing.T) {
	r := module.NewRouter()
	r.HandleNative("GET /healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("healthy"))
	})
	r.Mount(module.New("/api", echoPath()))
	r.Mount(module.New("/app", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("app"))
	})))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"native", "/healthz", http.StatusOK, "healthy"},
		{"strips prefix", "/api/documents/123", http.StatusOK, "/documents/123"},
		{"strips trailing slash", "/api/documents/", http.StatusOK, "/documents"},
		{"module root", "/api/", http.StatusOK, "/"},
		{"second module", "/app/documents", http.StatusOK, "app"},
		{"prefix lookalike", "/apis", http.StatusNotFound, ""},
		{"unmatched", "/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.wantBody {
					t.Errorf("body = %q, want %q", body, tt.wantBody)
				}
			}
		})
	}
}
