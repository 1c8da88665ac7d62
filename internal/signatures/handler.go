package signatures

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/Shubham-NM01/doc-uploader/pkg/handlers"
	"github.com/Shubham-NM01/doc-uploader/pkg/middleware"
	"github.com/Shubham-NM01/doc-uploader/pkg/pagination"
	"github.com/Shubham-NM01/doc-uploader/pkg/routes"
)

// Handler provides HTTP endpoints for signing documents.
type Handler struct {
	sys         System
	logger      *slog.Logger
	pagination  pagination.Config
	rateLimit   *middleware.RateLimitConfig
	maxBodySize int64
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, rateLimit *middleware.RateLimitConfig, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "signatures"),
		pagination:  pagination,
		rateLimit:   rateLimit,
		maxBodySize: maxBodySize,
	}
}

func (h *Handler) Routes() routes.Group {
	apply := middleware.RateLimit(h.rateLimit)(http.HandlerFunc(h.Apply))

	return routes.Group{
		Prefix:      "/signatures",
		Tags:        []string{"Signatures"},
		Description: "Apply signature images to stored PDF documents",
		Schemas:     Spec.Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "POST", Pattern: "/{documentId}", Handler: apply.ServeHTTP, OpenAPI: Spec.Apply},
		},
	}
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(r.PathValue("documentId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var cmd ApplyCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}

	outcome, err := h.sys.Apply(r.Context(), documentID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, outcome)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	signing, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, signing)
}
