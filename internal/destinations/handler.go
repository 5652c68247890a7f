package destinations

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/platform/httpx"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Handler exposes the destinations REST surface.
type Handler struct {
	resource *httpx.ResourceHandler[Destination, CreateInput, UpdateInput]
	service  *Service
}

// NewHandler builds the destinations handler.
func NewHandler(service *Service) *Handler {
	resource := httpx.NewResource[Destination, CreateInput, UpdateInput](service,
		httpx.WithVisibility[Destination, CreateInput, UpdateInput](service),
		httpx.WithFilter[Destination, CreateInput, UpdateInput](listFilter),
	)
	return &Handler{resource: resource, service: service}
}

// Routes mounts the destination endpoints.
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
	if country := query.Get("country"); country != "" {
		filter["country"] = country
	}
	if query.Get("featured") == "true" {
		filter["featured"] = true
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}
