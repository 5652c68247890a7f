package clients

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/platform/httpx"
)

// Handler exposes the clients and access rights REST surface.
type Handler struct {
	clients *httpx.ResourceHandler[Client, CreateInput, UpdateInput]
	grants  *httpx.ResourceHandler[AccessRight, AccessRightCreateInput, AccessRightUpdateInput]
}

// NewHandler builds the clients handler.
func NewHandler(clients *Service, grants *AccessRightService) *Handler {
	return &Handler{
		clients: httpx.NewResource[Client, CreateInput, UpdateInput](clients,
			httpx.WithFilter[Client, CreateInput, UpdateInput](clientFilter),
		),
		grants: httpx.NewResource[AccessRight, AccessRightCreateInput, AccessRightUpdateInput](grants,
			httpx.WithFilter[AccessRight, AccessRightCreateInput, AccessRightUpdateInput](grantFilter),
		),
	}
}

// Routes mounts the client endpoints.
func (h *Handler) Routes(r chi.Router) {
	h.clients.Routes(r)
}

// AccessRightRoutes mounts the access right endpoints.
func (h *Handler) AccessRightRoutes(r chi.Router) {
	h.grants.Routes(r)
}

func clientFilter(r *http.Request) crud.Filter {
	filter := crud.Filter{}
	if country := r.URL.Query().Get("country"); country != "" {
		filter["country"] = country
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}

func grantFilter(r *http.Request) crud.Filter {
	filter := crud.Filter{}
	query := r.URL.Query()
	if client := query.Get("client_id"); client != "" {
		if id, err := uuid.Parse(client); err == nil {
			filter["client_id"] = id
		}
	}
	if user := query.Get("user_id"); user != "" {
		if id, err := uuid.Parse(user); err == nil {
			filter["user_id"] = id
		}
	}
	if scope := query.Get("scope"); scope != "" {
		filter["scope"] = scope
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}
