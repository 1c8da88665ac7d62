package previews

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/google/uuid"

	"github.com/Shubham-NM01/doc-uploader/pkg/query"
	"github.com/Shubham-NM01/doc-uploader/pkg/repository"
)

var projection = query.NewProjectionMap("public", "previews", "p").
	Project("id", "Id").
	Project("document_id", "DocumentId").
	Project("page_number", "PageNumber").
	Project("format", "Format").
	Project("dpi", "Dpi").
	Project("storage_key", "StorageKey").
	Project("size_bytes", "SizeBytes").
	Project("created_at", "CreatedAt")

// Previews list in page order by default so a document's pages read top to bottom.
var defaultSort = []query.SortField{
	{Field: "DocumentId"},
	{Field: "PageNumber"},
}

func scanPreview(s repository.Scanner) (Preview, error) {
	var p Preview
	err := s.Scan(
		&p.ID,
		&p.DocumentID,
		&p.PageNumber,
		&p.Format,
		&p.DPI,
		&p.StorageKey,
		&p.SizeBytes,
		&p.CreatedAt,
	)
	return p, err
}

// Filters narrows preview listings.
type Filters struct {
	DocumentID *uuid.UUID
	Format     *document.ImageFormat
	PageNumber *int
	DPI        *int
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("document_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.DocumentID = &id
		}
	}
	if v := values.Get("format"); v != "" {
		if format, err := ParseFormat(v); err == nil {
			f.Format = &format
		}
	}
	if v := values.Get("page_number"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.PageNumber = &n
		}
	}
	if v := values.Get("dpi"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.DPI = &n
		}
	}

	return f
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DocumentId", f.DocumentID).
		WhereEquals("Format", f.Format).
		WhereEquals("PageNumber", f.PageNumber).
		WhereEquals("Dpi", f.DPI)
}
