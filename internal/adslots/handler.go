package adslots

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/platform/httpx"
)

// Handler exposes the ad slots REST surface.
type Handler struct {
	resource *httpx.ResourceHandler[AdSlot, CreateInput, UpdateInput]
}

// NewHandler builds the ad slots handler.
func NewHandler(service *Service) *Handler {
	return &Handler{resource: httpx.NewResource[AdSlot, CreateInput, UpdateInput](service,
		httpx.WithFilter[AdSlot, CreateInput, UpdateInput](listFilter),
	)}
}

// Routes mounts the ad slot endpoints.
func (h *Handler) Routes(r chi.Router) {
	h.resource.Routes(r)
}

func listFilter(r *http.Request) crud.Filter {
	filter := crud.Filter{}
	query := r.URL.Query()
	if placement := query.Get("placement"); placement != "" {
		filter["placement"] = placement
	}
	if client := query.Get("client_id"); client != "" {
		if id, err := uuid.Parse(client); err == nil {
			filter["client_id"] = id
		}
	}
	if query.Get("active") == "true" {
		filter["active"] = true
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}
