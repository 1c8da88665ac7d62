package previews

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Shubham-NM01/doc-uploader/pkg/pagination"
)

// System defines preview rendering and retention operations.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Preview], error)
	Find(ctx context.Context, id uuid.UUID) (*Preview, error)

	// Data returns the rendered image bytes and their content type.
	Data(ctx context.Context, id uuid.UUID) ([]byte, string, error)

	// Render produces one preview per selected page, reusing existing
	// renders with the same format and DPI unless opts.Force is set.
	Render(ctx context.Context, documentID uuid.UUID, opts RenderOptions) ([]Preview, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// Prune removes previews created before cutoff and returns how many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int, error)

	// Defaults reports the options applied to requests that omit them.
	Defaults() Defaults
}
