package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Resource is the service surface a REST resource handler drives. Entity
// services satisfy it by embedding the generic pipeline; wrapper methods on
// the embedding struct take precedence, so per-entity scoping stays in force.
type Resource[T crud.Record, C any, U any] interface {
	Entity() string
	Create(ctx context.Context, actor shared.Actor, in C) (*T, error)
	Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*T, error)
	List(ctx context.Context, actor shared.Actor, q crud.ListQuery) ([]T, shared.Pagination, error)
	Search(ctx context.Context, actor shared.Actor, q crud.SearchQuery) ([]T, shared.Pagination, error)
	Count(ctx context.Context, actor shared.Actor, filter crud.Filter) (int, error)
	Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in U) (*T, error)
	SoftDelete(ctx context.Context, actor shared.Actor, id uuid.UUID) (*T, error)
	HardDelete(ctx context.Context, actor shared.Actor, id uuid.UUID) error
	Restore(ctx context.Context, actor shared.Actor, id uuid.UUID) (*T, error)
}

// VisibilityResource extends Resource for entities carrying a public/private
// state.
type VisibilityResource[T crud.Record, C any, U any] interface {
	Resource[T, C, U]
	SetVisibility(ctx context.Context, actor shared.Actor, id uuid.UUID, v crud.Visibility) (*T, error)
}

// FilterFunc extracts entity-specific list filters from query parameters.
type FilterFunc func(r *http.Request) crud.Filter

// ResourceHandler mounts the uniform REST surface of one entity.
type ResourceHandler[T crud.Record, C any, U any] struct {
	svc        Resource[T, C, U]
	visibility VisibilityResource[T, C, U]
	filter     FilterFunc
}

// ResourceOption customizes a ResourceHandler.
type ResourceOption[T crud.Record, C any, U any] func(*ResourceHandler[T, C, U])

// WithFilter registers the query-parameter filter extractor for listings.
func WithFilter[T crud.Record, C any, U any](f FilterFunc) ResourceOption[T, C, U] {
	return func(h *ResourceHandler[T, C, U]) { h.filter = f }
}

// WithVisibility enables the visibility patch endpoint.
func WithVisibility[T crud.Record, C any, U any](svc VisibilityResource[T, C, U]) ResourceOption[T, C, U] {
	return func(h *ResourceHandler[T, C, U]) { h.visibility = svc }
}

// NewResource builds the handler for one entity service.
func NewResource[T crud.Record, C any, U any](svc Resource[T, C, U], opts ...ResourceOption[T, C, U]) *ResourceHandler[T, C, U] {
	h := &ResourceHandler[T, C, U]{svc: svc}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type listResponse[T any] struct {
	Items      []T               `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

type countResponse struct {
	Total int `json:"total"`
}

// Routes mounts the REST endpoints on the router.
func (h *ResourceHandler[T, C, U]) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/search", h.search)
	r.Get("/count", h.count)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.softDelete)
	r.Post("/{id}/restore", h.restore)
	r.Delete("/{id}/purge", h.hardDelete)
	if h.visibility != nil {
		r.Patch("/{id}/visibility", h.setVisibility)
	}
}

func (h *ResourceHandler[T, C, U]) create(w http.ResponseWriter, r *http.Request) {
	var in C
	if err := DecodeJSON(r, &in); err != nil {
		Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body", string(crud.CodeValidation))
		return
	}
	rec, err := h.svc.Create(r.Context(), shared.ActorFromContext(r.Context()), in)
	if err != nil {
		RespondError(w, err)
		return
	}
	JSON(w, http.StatusCreated, rec)
}

func (h *ResourceHandler[T, C, U]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.Get(r.Context(), shared.ActorFromContext(r.Context()), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	JSON(w, http.StatusOK, rec)
}

func (h *ResourceHandler[T, C, U]) list(w http.ResponseWriter, r *http.Request) {
	q := crud.ListQuery{PageRequest: PageRequest(r), Filter: h.listFilter(r)}
	items, pagination, err := h.svc.List(r.Context(), shared.ActorFromContext(r.Context()), q)
	if err != nil {
		RespondError(w, err)
		return
	}
	JSON(w, http.StatusOK, listResponse[T]{Items: items, Pagination: pagination})
}

func (h *ResourceHandler[T, C, U]) search(w http.ResponseWriter, r *http.Request) {
	q := crud.SearchQuery{
		PageRequest: PageRequest(r),
		Query:       r.URL.Query().Get("q"),
		Filter:      h.listFilter(r),
	}
	items, pagination, err := h.svc.Search(r.Context(), shared.ActorFromContext(r.Context()), q)
	if err != nil {
		RespondError(w, err)
		return
	}
	JSON(w, http.StatusOK, listResponse[T]{Items: items, Pagination: pagination})
}

func (h *ResourceHandler[T, C, U]) count(w http.ResponseWriter, r *http.Request) {
	total, err := h.svc.Count(r.Context(), shared.ActorFromContext(r.Context()), h.listFilter(r))
	if err != nil {
		RespondError(w, err)
		return
	}
	JSON(w, http.StatusOK, countResponse{Total: total})
}

func (h *ResourceHandler[T, C, U]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in U
	if err := DecodeJSON(r, &in); err != nil {
		Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body", string(crud.CodeValidation))
		return
	}
	rec, err := h.svc.Update(r.Context(), shared.ActorFromContext(r.Context()), id, in)
	if err != nil {
		RespondError(w, err)
		return
	}
	JSON(w, http.StatusOK, rec)
}

func (h *ResourceHandler[T, C, U]) softDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.SoftDelete(r.Context(), shared.ActorFromContext(r.Context()), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	JSON(w, http.StatusOK, rec)
}

func (h *ResourceHandler[T, C, U]) restore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.Restore(r.Context(), shared.ActorFromContext(r.Context()), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	JSON(w, http.StatusOK, rec)
}

func (h *ResourceHandler[T, C, U]) hardDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.HardDelete(r.Context(), shared.ActorFromContext(r.Context()), id); err != nil {
		RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type visibilityRequest struct {
	Visibility crud.Visibility `json:"visibility"`
}

func (h *ResourceHandler[T, C, U]) setVisibility(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req visibilityRequest
	if err := DecodeJSON(r, &req); err != nil {
		Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body", string(crud.CodeValidation))
		return
	}
	rec, err := h.visibility.SetVisibility(r.Context(), shared.ActorFromContext(r.Context()), id, req.Visibility)
	if err != nil {
		RespondError(w, err)
		return
	}
	JSON(w, http.StatusOK, rec)
}

func (h *ResourceHandler[T, C, U]) listFilter(r *http.Request) crud.Filter {
	if h.filter == nil {
		return nil
	}
	return h.filter(r)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Problem(w, http.StatusBadRequest, "Bad Request", "id must be a valid UUID", string(crud.CodeValidation))
		return uuid.Nil, false
	}
	return id, true
}

// PageRequest extracts the paging window from query parameters.
func PageRequest(r *http.Request) shared.PageRequest {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	perPage, _ := strconv.Atoi(query.Get("per_page"))
	return shared.PageRequest{Page: page, PerPage: perPage}
}
