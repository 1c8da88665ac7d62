package openapi

var errorSchema = &Schema{
	Type: "object",
	Properties: map[string]*Schema{
		"error": {Type: "string"},
	},
}

// NewComponents returns the schemas and responses shared by every API group.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "1-based page number", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Free-text search"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields, prefix with - for descending", Example: "-createdAt"},
				},
			},
			"Error": errorSchema,
		},
		Responses: map[string]*Response{
			"BadRequest":      errorResponse("Invalid request"),
			"NotFound":        errorResponse("Resource not found"),
			"Conflict":        errorResponse("Resource conflict"),
			"TooManyRequests": errorResponse("Rate limit exceeded"),
		},
	}
}

// AddSchemas merges schemas into the component set.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	for name, s := range schemas {
		c.Schemas[name] = s
	}
}

// AddResponses merges responses into the component set.
func (c *Components) AddResponses(responses map[string]*Response) {
	for name, r := range responses {
		c.Responses[name] = r
	}
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}
