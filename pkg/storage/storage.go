// Package storage provides blob storage for uploaded and generated files.
// Keys are slash-separated relative paths such as "documents/<id>/<name>".
package storage

import (
	"context"
	"time"

	"github.com/Shubham-NM01/doc-uploader/pkg/lifecycle"
)

// Object describes a stored blob.
type Object struct {
	Key        string
	Size       int64
	ModifiedAt time.Time
}

// System defines blob storage operations.
type System interface {
	// Store saves data at key, overwriting any existing blob. Writes are atomic.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the blob at key or ErrNotFound.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob at key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Validate reports whether key exists.
	Validate(ctx context.Context, key string) (bool, error)

	// List returns every blob whose key starts with prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Path resolves key to a location on the local filesystem.
	Path(ctx context.Context, key string) (string, error)

	// Start registers lifecycle hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}
