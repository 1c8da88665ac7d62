package documents

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/Shubham-NM01/doc-uploader/pkg/query"
	"github.com/Shubham-NM01/doc-uploader/pkg/repository"
)

var projection = query.NewProjectionMap("public", "documents", "d").
	Project("id", "Id").
	Project("name", "Name").
	Project("filename", "Filename").
	Project("stored_name", "StoredName").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("source_id", "SourceId").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

const returning = `RETURNING id, name, filename, stored_name, content_type, size_bytes, page_count, storage_key, source_id, created_at, updated_at`

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Name,
		&d.Filename,
		&d.StoredName,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.SourceID,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

// Filters contains optional criteria for filtering document queries.
type Filters struct {
	Name        *string
	ContentType *string
	SourceID    *uuid.UUID
}

// FiltersFromQuery extracts document filters from URL query parameters.
// A malformed source_id is ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	if s := values.Get("source_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			f.SourceID = &id
		}
	}

	return f
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereContains("ContentType", f.ContentType).
		WhereEquals("SourceId", f.SourceID)
}
