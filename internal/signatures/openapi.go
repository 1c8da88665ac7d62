package signatures

import "github.com/Shubham-NM01/doc-uploader/pkg/openapi"

type spec struct {
	Apply *openapi.Operation
	List  *openapi.Operation
	Find  *openapi.Operation
}

var Spec = spec{
	Apply: &openapi.Operation{
		Summary: "Sign document",
		Description: "Draw signature images onto a stored PDF and store the result as a new document. " +
			"Coordinates are viewer pixels at the configured scale factor with a top-left origin. " +
			"Placements on missing pages or with undecodable images are skipped and reported.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("documentId", "Source document ID"),
		},
		RequestBody: openapi.RequestBodyJSON("ApplySignaturesCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Signed document created", "SigningOutcome"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			422: {Description: "Source document could not be loaded as a PDF"},
			429: openapi.ResponseRef("TooManyRequests"),
		},
	},
	List: &openapi.Operation{
		Summary:     "List signings",
		Description: "List signing records with pagination",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Items per page", false),
			openapi.QueryParam("source_document_id", "string", "Filter by source document", false),
			openapi.QueryParam("output_document_id", "string", "Filter by output document", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Signings list", "SigningPageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary: "Find signing",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Signing ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Signing details", "Signing"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"SignatureRequest": {
			Type:     "object",
			Required: []string{"page_number", "image_data"},
			Properties: map[string]*openapi.Schema{
				"page_number": {Type: "integer", Description: "1-based page index"},
				"x":           {Type: "number", Description: "Left edge in viewer pixels"},
				"y":           {Type: "number", Description: "Top edge in viewer pixels"},
				"width":       {Type: "number", Description: "Width in viewer pixels"},
				"height":      {Type: "number", Description: "Height in viewer pixels"},
				"image_data":  {Type: "string", Description: "PNG or JPEG as a data URI or bare base64"},
			},
		},
		"ApplySignaturesCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"signatures": {Type: "array", Items: openapi.SchemaRef("SignatureRequest")},
			},
		},
		"Signing": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                 {Type: "string", Format: "uuid"},
				"source_document_id": {Type: "string", Format: "uuid"},
				"output_document_id": {Type: "string", Format: "uuid"},
				"applied":            {Type: "integer"},
				"skipped":            {Type: "integer"},
				"created_at":         {Type: "string", Format: "date-time"},
			},
		},
		"SigningSkip": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"index":       {Type: "integer"},
				"page_number": {Type: "integer"},
				"reason":      {Type: "string", Enum: []string{"page_out_of_range", "invalid_image"}},
			},
		},
		"SigningOutcome": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"document": openapi.SchemaRef("Document"),
				"signing":  openapi.SchemaRef("Signing"),
				"applied":  {Type: "integer"},
				"skipped":  {Type: "integer"},
				"skips":    {Type: "array", Items: openapi.SchemaRef("SigningSkip")},
			},
		},
		"SigningPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Signing")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
