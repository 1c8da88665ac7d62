// Package module mounts independently built HTTP handlers under single-level
// path prefixes with their own middleware stacks.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Shubham-NM01/doc-uploader/pkg/middleware"
)

// Module is an HTTP handler mounted under a single-level prefix such as "/api".
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a module. It panics when prefix is not of the form "/name".
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

func (m *Module) Prefix() string {
	return m.prefix
}

// Handler returns the router wrapped in the module's middleware.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.router)
}

func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// Serve strips the module prefix from the request path and dispatches it.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}

	r2 := req.Clone(req.Context())
	r2.URL.Path = path
	r2.URL.RawPath = ""

	m.Handler().ServeHTTP(w, r2)
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %q", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix must be a single level: %q", prefix)
	}
	return nil
}
