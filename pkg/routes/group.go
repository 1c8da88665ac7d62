package routes

import (
	"net/http"

	"github.com/Shubham-NM01/doc-uploader/pkg/openapi"
)

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
	Schemas     map[string]*openapi.Schema
}

// AddToSpec publishes the group's documented operations under basePath.
// Operations without explicit tags inherit the group's tags.
func (g *Group) AddToSpec(basePath string, spec *openapi.Spec) {
	g.addToSpec(basePath, spec)
}

func (g *Group) addToSpec(parentPrefix string, spec *openapi.Spec) {
	prefix := parentPrefix + g.Prefix

	if len(g.Schemas) > 0 && spec.Components != nil {
		spec.Components.AddSchemas(g.Schemas)
	}

	for _, r := range g.Routes {
		if r.OpenAPI == nil {
			continue
		}

		op := r.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = g.Tags
		}

		path := prefix + r.Pattern
		item, ok := spec.Paths[path]
		if !ok {
			item = &openapi.PathItem{}
			spec.Paths[path] = item
		}

		switch r.Method {
		case http.MethodGet:
			item.Get = op
		case http.MethodPost:
			item.Post = op
		case http.MethodPut:
			item.Put = op
		case http.MethodDelete:
			item.Delete = op
		}
	}

	for i := range g.Children {
		g.Children[i].addToSpec(prefix, spec)
	}
}

func (g *Group) register(mux *http.ServeMux, parentPrefix string) {
	prefix := parentPrefix + g.Prefix
	for _, r := range g.Routes {
		mux.HandleFunc(r.Method+" "+prefix+r.Pattern, r.Handler)
	}
	for i := range g.Children {
		g.Children[i].register(mux, prefix)
	}
}

// Register mounts every group's handlers on mux and adds their operations to
// spec under basePath.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) {
	for i := range groups {
		groups[i].register(mux, "")
		groups[i].AddToSpec(basePath, spec)
	}
}
