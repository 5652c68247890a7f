// Package app wires configuration, infrastructure and entity services into
// the HTTP application.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/qazuor/hospeda-sub009/internal/accommodations"
	"github.com/qazuor/hospeda-sub009/internal/adslots"
	"github.com/qazuor/hospeda-sub009/internal/auth"
	"github.com/qazuor/hospeda-sub009/internal/clients"
	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/destinations"
	"github.com/qazuor/hospeda-sub009/internal/events"
	"github.com/qazuor/hospeda-sub009/internal/observability"
	"github.com/qazuor/hospeda-sub009/internal/platform/cache"
	"github.com/qazuor/hospeda-sub009/internal/platform/db"
	"github.com/qazuor/hospeda-sub009/internal/posts"
	"github.com/qazuor/hospeda-sub009/internal/shared"
	"github.com/qazuor/hospeda-sub009/internal/subscriptions"
	"github.com/qazuor/hospeda-sub009/internal/users"
	"github.com/qazuor/hospeda-sub009/jobs"
)

// App aggregates the wired application.
type App struct {
	Config  *Config
	Logger  *slog.Logger
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	Metrics *observability.Metrics
	Content *cache.Content
	Queue   *jobs.Client
	Audit   *shared.AuditLogger

	Auth   *auth.Service
	Tokens *auth.TokenStore

	Destinations   *destinations.Service
	Accommodations *accommodations.Service
	Events         *events.Service
	Posts          *posts.Service
	PostSponsors   *posts.SponsorService
	AdSlots        *adslots.Service
	Subscriptions  *subscriptions.Service
	Clients        *clients.Service
	AccessRights   *clients.AccessRightService
	Users          *users.Service
}

// New connects infrastructure and builds every entity service.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (*App, error) {
	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return nil, err
	}
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		pool.Close()
		return nil, err
	}

	metrics := observability.NewMetrics()
	content := cache.NewContent(redisClient, cfg.CacheTTL)
	queue := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	audit := shared.NewAuditLogger(pool)

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Pool:    pool,
		Redis:   redisClient,
		Metrics: metrics,
		Content: content,
		Queue:   queue,
		Audit:   audit,
	}
	a.buildServices()

	tokens := auth.NewTokenStore(redisClient, cfg.TokenTTL)
	a.Tokens = tokens
	a.Auth = auth.NewService(a.Users, tokens)
	return a, nil
}

func (a *App) buildServices() {
	validate := validator.New(validator.WithRequiredStructEnabled())
	opts := crud.Options{
		Logger:  a.Logger,
		Audit:   a.Audit,
		Observe: a.Metrics.ObserveCrud,
		Now:     time.Now,
	}

	a.Destinations = destinations.NewService(destinations.NewModel(a.Pool), validate,
		CacheBumpHook[destinations.Destination]("destination", a.Content, a.Queue, a.Logger), opts)
	a.Accommodations = accommodations.NewService(accommodations.NewModel(a.Pool), validate,
		CacheBumpHook[accommodations.Accommodation]("accommodation", a.Content, a.Queue, a.Logger), opts)
	a.Events = events.NewService(events.NewModel(a.Pool), validate,
		CacheBumpHook[events.Event]("event", a.Content, a.Queue, a.Logger), opts)
	a.Posts = posts.NewService(posts.NewPostModel(a.Pool), validate,
		CacheBumpHook[posts.Post]("post", a.Content, a.Queue, a.Logger), opts)
	a.PostSponsors = posts.NewSponsorService(posts.NewSponsorModel(a.Pool), validate, opts)
	a.AdSlots = adslots.NewService(adslots.NewModel(a.Pool), validate, opts)
	a.Subscriptions = subscriptions.NewService(subscriptions.NewModel(a.Pool), validate, opts)
	a.Clients = clients.NewService(clients.NewClientModel(a.Pool), validate, opts)
	a.AccessRights = clients.NewAccessRightService(clients.NewAccessRightModel(a.Pool), validate, opts)
	a.Users = users.NewService(users.NewModel(a.Pool), validate, a.welcomeEmailHook(), opts)
}

// welcomeEmailHook greets freshly registered accounts. Enqueue failures are
// logged, not surfaced: registration already succeeded.
func (a *App) welcomeEmailHook() crud.AfterHook[users.User] {
	return func(ctx context.Context, _ shared.Actor, op crud.Operation, rec *users.User) error {
		if op != crud.OpCreate || a.Queue == nil {
			return nil
		}
		payload := jobs.WelcomeEmailPayload{To: rec.Email, Name: rec.DisplayName}
		if _, err := a.Queue.EnqueueWelcomeEmail(ctx, payload); err != nil {
			a.Logger.Warn("enqueue welcome email", slog.Any("error", err))
		}
		return nil
	}
}

// Close releases infrastructure connections.
func (a *App) Close() {
	if a.Queue != nil {
		_ = a.Queue.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}
