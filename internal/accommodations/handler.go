package accommodations

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/platform/httpx"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Handler exposes the accommodations REST surface.
type Handler struct {
	resource *httpx.ResourceHandler[Accommodation, CreateInput, UpdateInput]
	service  *Service
}

// NewHandler builds the accommodations handler.
func NewHandler(service *Service) *Handler {
	resource := httpx.NewResource[Accommodation, CreateInput, UpdateInput](service,
		httpx.WithVisibility[Accommodation, CreateInput, UpdateInput](service),
		httpx.WithFilter[Accommodation, CreateInput, UpdateInput](listFilter),
	)
	return &Handler{resource: resource, service: service}
}

// Routes mounts the accommodation endpoints.
func (h *Handler) Routes(r chi.Router) {
	h.resource.Routes(r)
	r.Get("/mine", h.listOwn)
}

func (h *Handler) listOwn(w http.ResponseWriter, r *http.Request) {
	q := crud.ListQuery{PageRequest: httpx.PageRequest(r), Filter: listFilter(r)}
	items, pagination, err := h.service.ListOwn(r.Context(), shared.ActorFromContext(r.Context()), q)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "pagination": pagination})
}

func listFilter(r *http.Request) crud.Filter {
	filter := crud.Filter{}
	query := r.URL.Query()
	if dest := query.Get("destination_id"); dest != "" {
		if id, err := uuid.Parse(dest); err == nil {
			filter["destination_id"] = id
		}
	}
	if typ := query.Get("type"); typ != "" {
		filter["type"] = typ
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}
