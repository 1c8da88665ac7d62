package previews

import "github.com/Shubham-NM01/doc-uploader/pkg/openapi"

type spec struct {
	List   *openapi.Operation
	Find   *openapi.Operation
	Data   *openapi.Operation
	Render *openapi.Operation
	Delete *openapi.Operation
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List previews",
		Description: "List rendered page previews with pagination and filters",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Items per page", false),
			openapi.QueryParam("document_id", "string", "Filter by document", false),
			openapi.QueryParam("format", "string", "Filter by image format (png, jpg)", false),
			openapi.QueryParam("page_number", "integer", "Filter by page number", false),
			openapi.QueryParam("dpi", "integer", "Filter by render DPI", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields; prefix with - for descending", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Previews list", "PreviewPageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find preview",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Preview ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Preview details", "Preview"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Data: &openapi.Operation{
		Summary: "Preview image",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Preview ID"),
		},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Rendered page image",
				Content: map[string]*openapi.MediaType{
					"image/png":  {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
					"image/jpeg": {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
				},
			},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Render: &openapi.Operation{
		Summary: "Render previews",
		Description: "Render document pages to images. The default DPI matches the annotation " +
			"scale factor so preview pixels are viewer-space coordinates.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("documentId", "Document ID"),
		},
		RequestBody: openapi.RequestBodyJSON("RenderOptions", false),
		Responses: map[int]*openapi.Response{
			201: {
				Description: "Rendered previews",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Preview")}},
				},
			},
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary: "Delete preview",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Preview ID"),
		},
		Responses: map[int]*openapi.Response{
			204: {Description: "Preview deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Preview": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"document_id": {Type: "string", Format: "uuid"},
				"page_number": {Type: "integer"},
				"format":      {Type: "string", Enum: []string{"png", "jpg"}},
				"dpi":         {Type: "integer"},
				"storage_key": {Type: "string"},
				"size_bytes":  {Type: "integer", Format: "int64"},
				"created_at":  {Type: "string", Format: "date-time"},
			},
		},
		"RenderOptions": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"pages":  {Type: "string", Description: "Page expression: 1, 1-5, 1,3,5, -3, 5-", Example: "1-3"},
				"format": {Type: "string", Enum: []string{"png", "jpg"}},
				"dpi":    {Type: "integer", Description: "Render resolution, 36-600"},
				"force":  {Type: "boolean", Description: "Re-render pages that already have previews"},
			},
		},
		"PreviewPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Preview")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
