package signatures

import (
	"context"

	"github.com/google/uuid"

	"github.com/Shubham-NM01/doc-uploader/pkg/pagination"
)

// System signs stored documents and lists past signings.
type System interface {
	Apply(ctx context.Context, documentID uuid.UUID, cmd ApplyCommand) (*Outcome, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Signing], error)
	Find(ctx context.Context, id uuid.UUID) (*Signing, error)
}
