package previews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/google/uuid"

	"github.com/Shubham-NM01/doc-uploader/internal/documents"
	"github.com/Shubham-NM01/doc-uploader/pkg/pagination"
	"github.com/Shubham-NM01/doc-uploader/pkg/query"
	"github.com/Shubham-NM01/doc-uploader/pkg/repository"
	"github.com/Shubham-NM01/doc-uploader/pkg/storage"
)

// Config sets the worker bound, blob key prefix and request defaults for a
// preview system. An empty KeyPrefix uses storage.DefaultPreviewsPrefix.
type Config struct {
	Workers   int
	KeyPrefix string
	Defaults  Defaults
}

// Option customizes a preview system.
type Option func(*repo)

// WithOpener replaces the document opener used by render workers.
func WithOpener(open Opener) Option {
	return func(r *repo) {
		r.open = open
	}
}

type repo struct {
	db         *sql.DB
	documents  documents.System
	storage    storage.System
	cfg        Config
	open       Opener
	logger     *slog.Logger
	pagination pagination.Config
}

func New(
	docs documents.System,
	db *sql.DB,
	store storage.System,
	cfg Config,
	logger *slog.Logger,
	pagination pagination.Config,
	opts ...Option,
) System {
	if cfg.Workers < 1 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = storage.DefaultPreviewsPrefix
	}

	r := &repo{
		db:         db,
		documents:  docs,
		storage:    store,
		cfg:        cfg,
		open:       OpenDocument,
		logger:     logger.With("system", "previews"),
		pagination: pagination,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *repo) Defaults() Defaults {
	return r.cfg.Defaults
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Preview], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort...)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count previews: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPreview)
	if err != nil {
		return nil, fmt.Errorf("query previews: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Preview, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Id", id)
	p, err := repository.QueryOne(ctx, r.db, q, args, scanPreview)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Data(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	p, err := r.Find(ctx, id)
	if err != nil {
		return nil, "", err
	}

	data, err := r.storage.Retrieve(ctx, p.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: blob missing for %s", ErrNotFound, id)
		}
		return nil, "", fmt.Errorf("retrieve preview: %w", err)
	}

	return data, ContentType(p.Format), nil
}

func (r *repo) Render(ctx context.Context, documentID uuid.UUID, opts RenderOptions) ([]Preview, error) {
	if err := opts.Validate(r.cfg.Defaults); err != nil {
		return nil, err
	}

	doc, err := r.documents.Find(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !IsSupported(doc.ContentType) {
		return nil, ErrUnsupportedFormat
	}
	if doc.PageCount == nil || *doc.PageCount < 1 {
		return nil, fmt.Errorf("%w: document has no pages to render", ErrRenderFailed)
	}

	expr := opts.Pages
	if expr == "" {
		expr = fmt.Sprintf("1-%d", *doc.PageCount)
	}
	pages, err := ParsePageRange(expr, *doc.PageCount)
	if err != nil {
		return nil, err
	}

	path, err := r.storage.Path(ctx, doc.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	open := func() (Rasterizer, error) {
		return r.open(path, doc.ContentType, opts)
	}
	render := func(ctx context.Context, rast Rasterizer, pageNum int) (*Preview, error) {
		return r.renderPage(ctx, documentID, rast, pageNum, opts)
	}

	previews, err := runWorkers(ctx, r.cfg.Workers, pages, open, render)
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"previews rendered",
		"document", documentID,
		"pages", len(previews),
		"format", opts.Format,
		"dpi", opts.DPI,
	)
	return previews, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, `DELETE FROM previews WHERE id = $1`, id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.storage.Delete(ctx, p.StorageKey); err != nil {
		r.logger.Warn("failed to delete preview blob", "key", p.StorageKey, "error", err)
	}
	return nil
}

func (r *repo) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	keys, err := repository.QueryMany(
		ctx, r.db,
		`DELETE FROM previews WHERE created_at < $1 RETURNING storage_key`,
		[]any{cutoff},
		scanKey,
	)
	if err != nil {
		return 0, fmt.Errorf("prune previews: %w", err)
	}

	for _, key := range keys {
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Warn("failed to delete preview blob", "key", key, "error", err)
		}
	}

	orphans, err := r.sweepOrphans(ctx, cutoff)
	if err != nil {
		return len(keys), err
	}

	return len(keys) + orphans, nil
}

// sweepOrphans removes preview blobs with no matching row, such as those left
// behind when a document delete cascades over its preview rows.
func (r *repo) sweepOrphans(ctx context.Context, cutoff time.Time) (int, error) {
	objects, err := r.storage.List(ctx, r.cfg.KeyPrefix+"/")
	if err != nil {
		return 0, fmt.Errorf("list preview blobs: %w", err)
	}

	removed := 0
	for _, obj := range objects {
		if !obj.ModifiedAt.Before(cutoff) {
			continue
		}

		var exists bool
		err := r.db.QueryRowContext(
			ctx,
			`SELECT EXISTS(SELECT 1 FROM previews WHERE storage_key = $1)`,
			obj.Key,
		).Scan(&exists)
		if err != nil {
			return removed, fmt.Errorf("check preview blob: %w", err)
		}
		if exists {
			continue
		}

		if err := r.storage.Delete(ctx, obj.Key); err != nil {
			r.logger.Warn("failed to delete orphaned preview blob", "key", obj.Key, "error", err)
			continue
		}
		removed++
	}

	return removed, nil
}

func (r *repo) renderPage(ctx context.Context, documentID uuid.UUID, rast Rasterizer, pageNum int, opts RenderOptions) (*Preview, error) {
	existing, err := r.findExisting(ctx, documentID, pageNum, opts)
	if err != nil {
		return nil, err
	}
	if existing != nil && !opts.Force {
		return existing, nil
	}

	data, err := rast.RenderPage(pageNum)
	if err != nil {
		return nil, err
	}

	key := BlobKey(r.cfg.KeyPrefix, documentID, pageNum, uuid.New(), opts.Format)
	if err := r.storage.Store(ctx, key, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	if existing != nil {
		p, err := r.replace(ctx, existing.ID, key, int64(len(data)))
		if err != nil {
			r.storage.Delete(ctx, key)
			return nil, err
		}
		if err := r.storage.Delete(ctx, existing.StorageKey); err != nil {
			r.logger.Warn("failed to delete replaced preview blob", "key", existing.StorageKey, "error", err)
		}
		return p, nil
	}

	p, err := r.insert(ctx, Preview{
		ID:         uuid.New(),
		DocumentID: documentID,
		PageNumber: pageNum,
		Format:     opts.Format,
		DPI:        opts.DPI,
		StorageKey: key,
		SizeBytes:  int64(len(data)),
	})
	if err != nil {
		r.storage.Delete(ctx, key)
		if errors.Is(err, ErrDuplicate) {
			// A concurrent render stored the same page first.
			return r.findExisting(ctx, documentID, pageNum, opts)
		}
		return nil, err
	}
	return p, nil
}

func (r *repo) findExisting(ctx context.Context, documentID uuid.UUID, pageNum int, opts RenderOptions) (*Preview, error) {
	q, args := query.NewBuilder(projection).
		WhereEquals("DocumentId", documentID).
		WhereEquals("PageNumber", pageNum).
		WhereEquals("Format", opts.Format).
		WhereEquals("Dpi", opts.DPI).
		Build()

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPreview)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) insert(ctx context.Context, p Preview) (*Preview, error) {
	q := `INSERT INTO previews(id, document_id, page_number, format, dpi, storage_key, size_bytes)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + returning

	out, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Preview, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			p.ID, p.DocumentID, p.PageNumber, p.Format, p.DPI, p.StorageKey, p.SizeBytes,
		}, scanPreview)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &out, nil
}

func (r *repo) replace(ctx context.Context, id uuid.UUID, key string, size int64) (*Preview, error) {
	q := `UPDATE previews SET storage_key = $1, size_bytes = $2, created_at = NOW()
		WHERE id = $3
		RETURNING ` + returning

	out, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Preview, error) {
		return repository.QueryOne(ctx, tx, q, []any{key, size, id}, scanPreview)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &out, nil
}

const returning = `id, document_id, page_number, format, dpi, storage_key, size_bytes, created_at`

func scanKey(s repository.Scanner) (string, error) {
	var key string
	err := s.Scan(&key)
	return key, err
}

type renderTask struct {
	pageNum int
	result  *Preview
	err     error
}

// runWorkers renders pages on up to workers goroutines, each owning its own
// Rasterizer. Results are returned in page order. The first error cancels
// the remaining work.
func runWorkers(
	ctx context.Context,
	workers int,
	pages []int,
	open func() (Rasterizer, error),
	render func(ctx context.Context, rast Rasterizer, pageNum int) (*Preview, error),
) ([]Preview, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers = max(min(workers, len(pages)), 1)
	tasks := make(chan int, len(pages))
	results := make(chan renderTask, len(pages))

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			rast, err := open()
			if err != nil {
				for pageNum := range tasks {
					results <- renderTask{pageNum: pageNum, err: err}
				}
				return
			}
			defer rast.Close()

			for pageNum := range tasks {
				if err := ctx.Err(); err != nil {
					results <- renderTask{pageNum: pageNum, err: err}
					continue
				}
				p, err := render(ctx, rast, pageNum)
				results <- renderTask{pageNum: pageNum, result: p, err: err}
			}
		})
	}

	for _, pageNum := range pages {
		tasks <- pageNum
	}
	close(tasks)

	go func() {
		wg.Wait()
		close(results)
	}()

	byPage := make(map[int]*Preview, len(pages))
	var firstErr error
	for task := range results {
		if task.err != nil {
			if firstErr == nil {
				firstErr = task.err
				cancel()
			}
			continue
		}
		byPage[task.pageNum] = task.result
	}
	if firstErr != nil {
		return nil, firstErr
	}

	out := make([]Preview, 0, len(pages))
	for _, pageNum := range pages {
		if p, ok := byPage[pageNum]; ok && p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

// BlobKey returns the storage key for one rendered page:
// <prefix>/<document id>/<page>-<preview id>.<format>.
func BlobKey(prefix string, documentID uuid.UUID, pageNum int, id uuid.UUID, format document.ImageFormat) string {
	return fmt.Sprintf("%s/%s/%d-%s.%s", prefix, documentID, pageNum, id, format)
}
