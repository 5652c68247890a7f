package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/platform/httpx"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Handler exposes the users REST surface.
type Handler struct {
	resource *httpx.ResourceHandler[User, CreateInput, UpdateInput]
	service  *Service
}

// NewHandler builds the users handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		resource: httpx.NewResource[User, CreateInput, UpdateInput](service,
			httpx.WithFilter[User, CreateInput, UpdateInput](listFilter),
		),
		service: service,
	}
}

// Routes mounts the user endpoints.
func (h *Handler) Routes(r chi.Router) {
	h.resource.Routes(r)
	r.Get("/me", h.me)
	r.Put("/{id}/password", h.changePassword)
	r.Put("/{id}/role", h.setRole)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	rec, err := h.service.Get(r.Context(), actor, actor.ID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "id must be a valid UUID", string(crud.CodeValidation))
		return
	}
	var req passwordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body", string(crud.CodeValidation))
		return
	}
	if err := h.service.ChangePassword(r.Context(), shared.ActorFromContext(r.Context()), id, req.Password); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type roleRequest struct {
	Role shared.Role `json:"role"`
}

func (h *Handler) setRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "id must be a valid UUID", string(crud.CodeValidation))
		return
	}
	var req roleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body", string(crud.CodeValidation))
		return
	}
	rec, err := h.service.SetRole(r.Context(), shared.ActorFromContext(r.Context()), id, req.Role)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func listFilter(r *http.Request) crud.Filter {
	filter := crud.Filter{}
	query := r.URL.Query()
	if role := query.Get("role"); role != "" {
		filter["role"] = role
	}
	if query.Get("active") == "true" {
		filter["active"] = true
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}
