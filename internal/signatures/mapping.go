package signatures

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/Shubham-NM01/doc-uploader/pkg/query"
	"github.com/Shubham-NM01/doc-uploader/pkg/repository"
)

var projection = query.NewProjectionMap("public", "signings", "s").
	Project("id", "Id").
	Project("source_document_id", "SourceDocumentId").
	Project("output_document_id", "OutputDocumentId").
	Project("applied", "Applied").
	Project("skipped", "Skipped").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

func scanSigning(s repository.Scanner) (Signing, error) {
	var sg Signing
	err := s.Scan(
		&sg.ID,
		&sg.SourceDocumentID,
		&sg.OutputDocumentID,
		&sg.Applied,
		&sg.Skipped,
		&sg.CreatedAt,
	)
	return sg, err
}

// Filters narrows signing listings.
type Filters struct {
	SourceDocumentID *uuid.UUID
	OutputDocumentID *uuid.UUID
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if v := values.Get("source_document_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.SourceDocumentID = &id
		}
	}
	if v := values.Get("output_document_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.OutputDocumentID = &id
		}
	}
	return f
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SourceDocumentId", f.SourceDocumentID).
		WhereEquals("OutputDocumentId", f.OutputDocumentID)
}
