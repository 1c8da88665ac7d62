package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Shubham-NM01/doc-uploader/pkg/middleware"
)

func TestCORS(t *testing.T) {
	allowed := &middleware.CORSConfig{
		Enabled:          true,
		Origins:          []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	}

	tests := []struct {
		name        string
		cfg         *middleware.CORSConfig
		method      string
		origin      string
		wantOrigin  string
		wantMethods string
		wantStatus  int
	}{
		{
			name:       "disabled",
			cfg:        &middleware.CORSConfig{Origins: []string{"http://localhost:3000"}},
			method:     http.MethodGet,
			origin:     "http://localhost:3000",
			wantStatus: http.StatusOK,
		},
		{
			name:       "no origins",
			cfg:        &middleware.CORSConfig{Enabled: true},
			method:     http.MethodGet,
			origin:     "http://localhost:3000",
			wantStatus: http.StatusOK,
		},
		{
			name:        "allowed origin",
			cfg:         allowed,
			method:      http.MethodGet,
			origin:      "http://localhost:3000",
			wantOrigin:  "http://localhost:3000",
			wantMethods: "GET, POST",
			wantStatus:  http.StatusOK,
		},
		{
			name:       "disallowed origin",
			cfg:        allowed,
			method:     http.MethodGet,
			origin:     "http://evil.example",
			wantStatus: http.StatusOK,
		},
		{
			name:        "preflight",
			cfg:         allowed,
			method:      http.MethodOptions,
			origin:      "http://localhost:3000",
			wantOrigin:  "http://localhost:3000",
			wantMethods: "GET, POST",
			wantStatus:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := middleware.CORS(tt.cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := w.Header().Get("Access-Control-Allow-Methods"); got != tt.wantMethods {
				t.Errorf("Allow-Methods = %q, want %q", got, tt.wantMethods)
			}
			if tt.method == http.MethodOptions && tt.wantOrigin != "" && called {
				t.Error("preflight should not reach the handler")
			}
		})
	}
}

func TestCORSConfig_Finalize_Defaults(t *testing.T) {
	cfg := &middleware.CORSConfig{}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if len(cfg.AllowedMethods) == 0 || len(cfg.AllowedHeaders) == 0 || cfg.MaxAge <= 0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestCORSConfig_Finalize_EnvOverrides(t *testing.T) {
	t.Setenv("TEST_CORS_ENABLED", "true")
	t.Setenv("TEST_CORS_ORIGINS", "http://localhost:3000, http://localhost:8080")
	t.Setenv("TEST_CORS_METHODS", "GET, POST")
	t.Setenv("TEST_CORS_MAX_AGE", "7200")

	cfg := &middleware.CORSConfig{}
	env := &middleware.CORSEnv{
		Enabled:        "TEST_CORS_ENABLED",
		Origins:        "TEST_CORS_ORIGINS",
		AllowedMethods: "TEST_CORS_METHODS",
		MaxAge:         "TEST_CORS_MAX_AGE",
	}

	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if !cfg.Enabled {
		t.Error("Enabled should be true from env")
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "http://localhost:8080" {
		t.Errorf("Origins = %v", cfg.Origins)
	}
	if len(cfg.AllowedMethods) != 2 {
		t.Errorf("AllowedMethods = %v", cfg.AllowedMethods)
	}
	if cfg.MaxAge != 7200 {
		t.Errorf("MaxAge = %d, want 7200", cfg.MaxAge)
	}
}

func TestCORSConfig_Finalize_InvalidEnv(t *testing.T) {
	t.Setenv("TEST_CORS_MAX_AGE", "forever")

	cfg := &middleware.CORSConfig{}
	if err := cfg.Finalize(&middleware.CORSEnv{MaxAge: "TEST_CORS_MAX_AGE"}); err == nil {
		t.Error("Finalize() succeeded, want error")
	}
}

func TestCORSConfig_Merge(t *testing.T) {
	base := middleware.CORSConfig{
		Origins:        []string{"http://a.com"},
		AllowedMethods: []string{"GET", "POST"},
	}

	base.Merge(&middleware.CORSConfig{})
	if len(base.Origins) != 1 || len(base.AllowedMethods) != 2 || base.Enabled {
		t.Errorf("empty overlay changed base: %+v", base)
	}

	base.Merge(&middleware.CORSConfig{Enabled: true, Origins: []string{"http://b.com", "http://c.com"}})
	if !base.Enabled || len(base.Origins) != 2 {
		t.Errorf("overlay not applied: %+v", base)
	}
}
