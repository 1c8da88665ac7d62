// Package signatures applies signature images to stored PDF documents and
// keeps an audit record of every successful signing.
package signatures

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Shubham-NM01/doc-uploader/internal/documents"
	"github.com/Shubham-NM01/doc-uploader/pkg/annotate"
)

// Signing records one annotate call that produced a new document.
type Signing struct {
	ID               uuid.UUID `json:"id"`
	SourceDocumentID uuid.UUID `json:"source_document_id"`
	OutputDocumentID uuid.UUID `json:"output_document_id"`
	Applied          int       `json:"applied"`
	Skipped          int       `json:"skipped"`
	CreatedAt        time.Time `json:"created_at"`
}

// ApplyCommand carries the placements for one signing. It decodes from
// either {"signatures": [...]} or a bare JSON array of placements.
type ApplyCommand struct {
	Signatures []annotate.Request `json:"signatures"`
}

func (c *ApplyCommand) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &c.Signatures)
	}

	var wrapper struct {
		Signatures []annotate.Request `json:"signatures"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return err
	}
	c.Signatures = wrapper.Signatures
	return nil
}

// SkipInfo reports a placement that was not applied.
type SkipInfo struct {
	Index      int    `json:"index"`
	PageNumber int    `json:"page_number"`
	Reason     string `json:"reason"`
}

// Outcome is the result of a successful Apply.
type Outcome struct {
	Document *documents.Document `json:"document"`
	Signing  *Signing            `json:"signing"`
	Applied  int                 `json:"applied"`
	Skipped  int                 `json:"skipped"`
	Skips    []SkipInfo          `json:"skips"`
}

func newSkipInfos(skips []annotate.Skip) []SkipInfo {
	out := make([]SkipInfo, 0, len(skips))
	for _, s := range skips {
		out = append(out, SkipInfo{
			Index:      s.Index,
			PageNumber: s.PageNumber,
			Reason:     skipReason(s.Err),
		})
	}
	return out
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, annotate.ErrPageRange):
		return "page_out_of_range"
	case errors.Is(err, annotate.ErrDecode):
		return "invalid_image"
	default:
		return err.Error()
	}
}
