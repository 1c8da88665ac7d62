package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shubham-NM01/doc-uploader/pkg/pagination"
	"github.com/Shubham-NM01/doc-uploader/pkg/query"
	"github.com/Shubham-NM01/doc-uploader/pkg/repository"
	"github.com/Shubham-NM01/doc-uploader/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	keyPrefix  string
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// New creates a document repository with database and blob storage integration.
// Files are stored beneath keyPrefix; an empty prefix uses storage.DefaultDocumentsPrefix.
func New(db *sql.DB, store storage.System, keyPrefix string, logger *slog.Logger, pagination pagination.Config) System {
	if keyPrefix == "" {
		keyPrefix = storage.DefaultDocumentsPrefix
	}
	return &repo{
		db:         db,
		storage:    store,
		keyPrefix:  keyPrefix,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
		now:        time.Now,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle("Id", id)

	doc, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &doc, nil
}

func (r *repo) Data(ctx context.Context, id uuid.UUID) (*Document, []byte, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := r.storage.Retrieve(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve %s: %w", doc.StorageKey, err)
	}
	return doc, data, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrNoFile
	}

	id := uuid.New()
	storedName := StoredName(r.now(), cmd.Filename)
	storageKey := StorageKey(r.keyPrefix, id, storedName)

	if err := r.storage.Store(ctx, storageKey, cmd.Data); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	q := `INSERT INTO documents(id, name, filename, stored_name, content_type, size_bytes, page_count, storage_key, source_id)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		` + returning

	doc, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			id, cmd.Name, cmd.Filename, storedName, cmd.ContentType, int64(len(cmd.Data)), cmd.PageCount, storageKey, cmd.SourceID,
		}, scanDocument)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, storageKey); delErr != nil {
			r.logger.Error("cleanup failed after db error", "storage_key", storageKey, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", doc.ID, "name", doc.Name, "storage_key", storageKey)
	return &doc, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Document, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, ErrInvalidName
	}

	q := `UPDATE documents SET name = $1, updated_at = NOW()
		WHERE id = $2
		` + returning

	doc, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.Name, id}, scanDocument)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document updated", "id", doc.ID, "name", doc.Name)
	return &doc, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	q := `DELETE FROM documents WHERE id = $1`
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.storage.Delete(ctx, doc.StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Error("storage cleanup failed", "storage_key", doc.StorageKey, "error", err)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

// StoredName derives the on-disk name for an upload: the upload time in
// unix milliseconds, a dash, then the sanitized original filename.
func StoredName(at time.Time, filename string) string {
	return fmt.Sprintf("%d-%s", at.UnixMilli(), SanitizeFilename(filename))
}

// StorageKey returns the blob key for a document's stored file:
// <prefix>/<document id>/<stored name>.
func StorageKey(prefix string, id uuid.UUID, storedName string) string {
	return fmt.Sprintf("%s/%s/%s", prefix, id.String(), storedName)
}

// SanitizeFilename reduces name to its base and replaces characters that are
// unsafe in file names.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
