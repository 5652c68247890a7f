package subscriptions

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/platform/httpx"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Handler exposes the subscriptions REST surface.
type Handler struct {
	resource *httpx.ResourceHandler[Subscription, CreateInput, UpdateInput]
	service  *Service
}

// NewHandler builds the subscriptions handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		resource: httpx.NewResource[Subscription, CreateInput, UpdateInput](service,
			httpx.WithFilter[Subscription, CreateInput, UpdateInput](listFilter),
		),
		service: service,
	}
}

// Routes mounts the subscription endpoints.
func (h *Handler) Routes(r chi.Router) {
	h.resource.Routes(r)
	r.Post("/{id}/cancel", h.cancel)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "id must be a valid UUID", string(crud.CodeValidation))
		return
	}
	rec, err := h.service.Cancel(r.Context(), shared.ActorFromContext(r.Context()), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func listFilter(r *http.Request) crud.Filter {
	filter := crud.Filter{}
	query := r.URL.Query()
	if client := query.Get("client_id"); client != "" {
		if id, err := uuid.Parse(client); err == nil {
			filter["client_id"] = id
		}
	}
	if plan := query.Get("plan"); plan != "" {
		filter["plan"] = plan
	}
	if status := query.Get("status"); status != "" {
		filter["status"] = status
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}
