package app

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qazuor/hospeda-sub009/internal/accommodations"
	"github.com/qazuor/hospeda-sub009/internal/adslots"
	"github.com/qazuor/hospeda-sub009/internal/auth"
	"github.com/qazuor/hospeda-sub009/internal/clients"
	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/destinations"
	"github.com/qazuor/hospeda-sub009/internal/events"
	"github.com/qazuor/hospeda-sub009/internal/platform/httpx"
	"github.com/qazuor/hospeda-sub009/internal/posts"
	"github.com/qazuor/hospeda-sub009/internal/shared"
	"github.com/qazuor/hospeda-sub009/internal/subscriptions"
	"github.com/qazuor/hospeda-sub009/internal/users"
)

// Router assembles the HTTP surface: middleware stack, health and metrics
// endpoints and the versioned API.
func (a *App) Router() chi.Router {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  a.Logger,
		Config:  a.Config,
		Actors:  a.Auth,
		Metrics: a.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", a.handleHealth)
	r.Method(http.MethodGet, "/metrics", a.Metrics.Handler())

	authHandler := auth.NewHandler(a.Auth, a.Logger)

	r.Route("/api/v1", func(api chi.Router) {
		authHandler.Routes(api)

		api.Route("/destinations", destinations.NewHandler(a.Destinations).Routes)
		api.Route("/accommodations", accommodations.NewHandler(a.Accommodations).Routes)
		api.Route("/events", events.NewHandler(a.Events).Routes)

		postsHandler := posts.NewHandler(a.Posts, a.PostSponsors)
		api.Route("/posts", postsHandler.Routes)
		api.Route("/post-sponsors", postsHandler.SponsorRoutes)

		api.Route("/ad-slots", adslots.NewHandler(a.AdSlots).Routes)
		api.Route("/subscriptions", subscriptions.NewHandler(a.Subscriptions).Routes)

		clientsHandler := clients.NewHandler(a.Clients, a.AccessRights)
		api.Route("/clients", clientsHandler.Routes)
		api.Route("/client-access-rights", clientsHandler.AccessRightRoutes)

		api.Route("/users", users.NewHandler(a.Users).Routes)

		api.Get("/public/home", a.handleHome)
	})
	return r
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.Pool.Ping(r.Context()); err != nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Service Unavailable", "database unreachable", string(crud.CodeInternal))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type homePayload struct {
	Destinations []destinations.Destination `json:"destinations"`
	Events       []events.Event             `json:"events"`
}

// handleHome serves the cached public landing payload: featured destinations
// plus the first page of public events. Concurrent misses collapse into one
// load.
func (a *App) handleHome(w http.ResponseWriter, r *http.Request) {
	var payload homePayload
	err := a.Content.FetchJSON(r.Context(), "home", "v1", &payload, func(ctx context.Context) (any, error) {
		guest := shared.Guest()
		featured, _, err := a.Destinations.List(ctx, guest, crud.ListQuery{
			PageRequest: shared.PageRequest{PerPage: 6},
			Filter:      crud.Filter{"featured": true},
		})
		if err != nil {
			return nil, err
		}
		upcoming, _, err := a.Events.List(ctx, guest, crud.ListQuery{
			PageRequest: shared.PageRequest{PerPage: 6},
		})
		if err != nil {
			return nil, err
		}
		return homePayload{Destinations: featured, Events: upcoming}, nil
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payload)
}
