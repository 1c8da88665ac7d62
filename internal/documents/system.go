package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/Shubham-NM01/doc-uploader/pkg/pagination"
)

// System defines the document management operations.
// Implementations handle blob storage and database persistence.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)
	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Data(ctx context.Context, id uuid.UUID) (*Document, []byte, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
