package posts

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/platform/httpx"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Handler exposes the posts and post sponsors REST surface.
type Handler struct {
	posts    *httpx.ResourceHandler[Post, CreateInput, UpdateInput]
	sponsors *httpx.ResourceHandler[PostSponsor, SponsorCreateInput, SponsorUpdateInput]
	service  *Service
}

// NewHandler builds the posts handler.
func NewHandler(service *Service, sponsors *SponsorService) *Handler {
	return &Handler{
		posts: httpx.NewResource[Post, CreateInput, UpdateInput](service,
			httpx.WithVisibility[Post, CreateInput, UpdateInput](service),
			httpx.WithFilter[Post, CreateInput, UpdateInput](postFilter),
		),
		sponsors: httpx.NewResource[PostSponsor, SponsorCreateInput, SponsorUpdateInput](sponsors,
			httpx.WithFilter[PostSponsor, SponsorCreateInput, SponsorUpdateInput](sponsorFilter),
		),
		service: service,
	}
}

// Routes mounts the post endpoints.
func (h *Handler) Routes(r chi.Router) {
	h.posts.Routes(r)
	r.Get("/slug/{slug}", h.getBySlug)
}

// SponsorRoutes mounts the post sponsor endpoints.
func (h *Handler) SponsorRoutes(r chi.Router) {
	h.sponsors.Routes(r)
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetBySlug(r.Context(), shared.ActorFromContext(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func postFilter(r *http.Request) crud.Filter {
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

func sponsorFilter(r *http.Request) crud.Filter {
	filter := crud.Filter{}
	query := r.URL.Query()
	if post := query.Get("post_id"); post != "" {
		if id, err := uuid.Parse(post); err == nil {
			filter["post_id"] = id
		}
	}
	if client := query.Get("client_id"); client != "" {
		if id, err := uuid.Parse(client); err == nil {
			filter["client_id"] = id
		}
	}
	if len(filter) == 0 {
		return nil
	}
	return filter
}
