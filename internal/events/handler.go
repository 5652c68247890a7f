package events

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/platform/httpx"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Handler exposes the events REST surface.
type Handler struct {
	resource *httpx.ResourceHandler[Event, CreateInput, UpdateInput]
	service  *Service
}

// NewHandler builds the events handler.
func NewHandler(service *Service) *Handler {
	resource := httpx.NewResource[Event, CreateInput, UpdateInput](service,
		httpx.WithVisibility[Event, CreateInput, UpdateInput](service),
		httpx.WithFilter[Event, CreateInput, UpdateInput](listFilter),
	)
	return &Handler{resource: resource, service: service}
}

// Routes mounts the event endpoints.
func (h *Handler) Routes(r chi.Router) {
	h.resource.Routes(r)
	r.Get("/slug/{slug}", h.getBySlug)
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetBySlug(r.Context(), shared.ActorFromContext(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func listFilter(r *http.Request) crud.Filter {
	filter := crud.Filter{}
	query := r.URL.Query()
	if dest := query.Get("destination_id"); dest != "" {
		if id, err := uuid.Parse(dest); err == nil {
			filter["destination_id"] = id
		}
	}
	if category := query.Get("category"); category != "" {
		filter["category"] = category
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}
