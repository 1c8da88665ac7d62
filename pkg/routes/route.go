// Package routes declares HTTP routes in groups and registers them on a mux
// while publishing their operations to an OpenAPI document.
package routes

import (
	"net/http"

	"github.com/Shubham-NM01/doc-uploader/pkg/openapi"
)

// Route binds a method and pattern, relative to its group prefix, to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
