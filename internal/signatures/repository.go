package signatures

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Shubham-NM01/doc-uploader/internal/documents"
	"github.com/Shubham-NM01/doc-uploader/pkg/annotate"
	"github.com/Shubham-NM01/doc-uploader/pkg/pagination"
	"github.com/Shubham-NM01/doc-uploader/pkg/query"
	"github.com/Shubham-NM01/doc-uploader/pkg/repository"
)

// Recorder persists signing records. The database-backed implementation is
// used in production; tests substitute an in-memory one.
type Recorder interface {
	Record(ctx context.Context, s Signing) (*Signing, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Signing], error)
	Find(ctx context.Context, id uuid.UUID) (*Signing, error)
}

type system struct {
	docs        documents.System
	engine      *annotate.Engine
	recorder    Recorder
	maxRequests int
	logger      *slog.Logger
}

// New creates the signing system. maxRequests of zero means unlimited.
func New(docs documents.System, engine *annotate.Engine, recorder Recorder, maxRequests int, logger *slog.Logger) System {
	return &system{
		docs:        docs,
		engine:      engine,
		recorder:    recorder,
		maxRequests: maxRequests,
		logger:      logger.With("system", "signatures"),
	}
}

func (s *system) Apply(ctx context.Context, documentID uuid.UUID, cmd ApplyCommand) (*Outcome, error) {
	if len(cmd.Signatures) == 0 {
		return nil, ErrEmptyBatch
	}
	if s.maxRequests > 0 && len(cmd.Signatures) > s.maxRequests {
		return nil, fmt.Errorf("%w: %d exceeds limit of %d", ErrTooMany, len(cmd.Signatures), s.maxRequests)
	}

	source, data, err := s.docs.Data(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !source.IsPDF() {
		return nil, ErrNotPDF
	}

	result, err := s.engine.Annotate(data, cmd.Signatures)
	if err != nil {
		return nil, err
	}

	pageCount := source.PageCount
	if n, err := annotate.PageCount(result.Data); err == nil {
		pageCount = &n
	} else {
		s.logger.Warn("page count unavailable for signed output", "source", source.ID, "error", err)
	}
	sourceID := source.ID
	output, err := s.docs.Create(ctx, documents.CreateCommand{
		Name:        source.Name + " (signed)",
		Filename:    "signed-" + source.Filename,
		ContentType: source.ContentType,
		PageCount:   pageCount,
		SourceID:    &sourceID,
		Data:        result.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("store signed document: %w", err)
	}

	signing, err := s.recorder.Record(ctx, Signing{
		ID:               uuid.New(),
		SourceDocumentID: source.ID,
		OutputDocumentID: output.ID,
		Applied:          result.Applied,
		Skipped:          len(result.Skipped),
	})
	if err != nil {
		if delErr := s.docs.Delete(ctx, output.ID); delErr != nil {
			s.logger.Error("cleanup failed after record error", "output", output.ID, "error", delErr)
		}
		return nil, fmt.Errorf("record signing: %w", err)
	}

	s.logger.Info(
		"document signed",
		"source", source.ID,
		"output", output.ID,
		"applied", result.Applied,
		"skipped", len(result.Skipped),
	)

	return &Outcome{
		Document: output,
		Signing:  signing,
		Applied:  result.Applied,
		Skipped:  len(result.Skipped),
		Skips:    newSkipInfos(result.Skipped),
	}, nil
}

func (s *system) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Signing], error) {
	return s.recorder.List(ctx, page, filters)
}

func (s *system) Find(ctx context.Context, id uuid.UUID) (*Signing, error) {
	return s.recorder.Find(ctx, id)
}

type repo struct {
	db         *sql.DB
	pagination pagination.Config
}

// NewRecorder creates the Postgres-backed signing recorder.
func NewRecorder(db *sql.DB, pagination pagination.Config) Recorder {
	return &repo{db: db, pagination: pagination}
}

func (r *repo) Record(ctx context.Context, sg Signing) (*Signing, error) {
	q := `INSERT INTO signings(id, source_document_id, output_document_id, applied, skipped)
		VALUES($1, $2, $3, $4, $5)
		RETURNING id, source_document_id, output_document_id, applied, skipped, created_at`

	out, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Signing, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			sg.ID, sg.SourceDocumentID, sg.OutputDocumentID, sg.Applied, sg.Skipped,
		}, scanSigning)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return &out, nil
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Signing], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count signings: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSigning)
	if err != nil {
		return nil, fmt.Errorf("query signings: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Signing, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Id", id)

	sg, err := repository.QueryOne(ctx, r.db, q, args, scanSigning)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return &sg, nil
}
