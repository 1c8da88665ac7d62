// Package documents provides document upload, storage, and management functionality.
// It supports PDF metadata extraction and integrates with blob storage for file persistence.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document represents a stored document with metadata.
type Document struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Filename    string     `json:"filename"`
	StoredName  string     `json:"stored_name"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	PageCount   *int       `json:"page_count,omitempty"`
	StorageKey  string     `json:"storage_key"`
	SourceID    *uuid.UUID `json:"source_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsPDF reports whether the document was stored as a PDF.
func (d *Document) IsPDF() bool {
	return d.ContentType == "application/pdf"
}

// CreateCommand contains the data required to create a new document.
// Data holds the raw file bytes to be stored. SourceID links a derived
// document, such as a signed copy, to the document it was produced from.
type CreateCommand struct {
	Name        string
	Filename    string
	ContentType string
	PageCount   *int
	SourceID    *uuid.UUID
	Data        []byte
}

// UpdateCommand contains the fields that can be modified on an existing document.
// Only the display name can be changed; the stored file is immutable.
type UpdateCommand struct {
	Name string `json:"name"`
}
