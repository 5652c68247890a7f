package destinations

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

const entity = "destination"

var (
	createRule     = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermDestinationCreate, Action: "create destinations"}
	updateRule     = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermDestinationUpdate, Action: "update destinations"}
	deleteRule     = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermDestinationSoftDelete, Action: "delete destinations"}
	restoreRule    = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermDestinationRestore, Action: "restore destinations"}
	privateRule    = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermDestinationViewPrivate, Action: "view private destinations"}
	visibilityRule = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermDestinationUpdateVisibility, Action: "change destination visibility"}
	purgeRule      = crud.Rule{MinRole: shared.RoleSuperAdmin, Action: "hard delete destinations"}
)

// Service exposes destination operations. Listings are public but scoped to
// public records unless the actor may view private content.
type Service struct {
	*crud.Service[Destination, CreateInput, UpdateInput]
	model crud.Model[Destination]
}

// NewService wires the destination pipeline.
func NewService(model crud.Model[Destination], validate *validator.Validate, after crud.AfterHook[Destination], opts crud.Options) *Service {
	s := &Service{model: model}
	s.Service = crud.NewService(crud.Config[Destination, CreateInput, UpdateInput]{
		Entity:    entity,
		Model:     model,
		Validate:  validate,
		NewRecord: newRecord,
		PatchOf:   patchOf,
		Perms: crud.Permissions[Destination]{
			Create: func(actor shared.Actor, _ *Destination) error {
				return crud.Authorize(actor, createRule)
			},
			View: func(actor shared.Actor, rec *Destination) error {
				if rec.Visibility == crud.VisibilityPublic {
					return nil
				}
				return crud.Authorize(actor, privateRule)
			},
			List:   allowAll,
			Search: allowAll,
			Count:  allowAll,
			Update: func(actor shared.Actor, _ *Destination) error {
				return crud.Authorize(actor, updateRule)
			},
			SoftDelete: func(actor shared.Actor, _ *Destination) error {
				return crud.Authorize(actor, deleteRule)
			},
			HardDelete: func(actor shared.Actor, _ *Destination) error {
				return crud.Authorize(actor, purgeRule)
			},
			Restore: func(actor shared.Actor, _ *Destination) error {
				return crud.Authorize(actor, restoreRule)
			},
			UpdateVisibility: func(actor shared.Actor, _ *Destination) error {
				return crud.Authorize(actor, visibilityRule)
			},
		},
		BeforeCreate: s.ensureSlug,
		Logger:       opts.Logger,
		Audit:        opts.Audit,
		Now:          opts.Now,
		Observe:      opts.Observe,
		After:        after,
	})
	return s
}

func allowAll(shared.Actor, *Destination) error { return nil }

// ensureSlug derives the slug from the name when the caller did not provide
// one, then resolves collisions deterministically.
func (s *Service) ensureSlug(ctx context.Context, _ shared.Actor, rec *Destination) error {
	base := rec.Slug
	if base == "" {
		base = shared.Slugify(rec.Name)
	}
	slug, err := crud.UniqueSlug(ctx, s.model, base, rec.ID)
	if err != nil {
		return err
	}
	rec.Slug = slug
	return nil
}

// List scopes the filter to public records for actors without private access.
func (s *Service) List(ctx context.Context, actor shared.Actor, q crud.ListQuery) ([]Destination, shared.Pagination, error) {
	q.Filter = scopeToPublic(actor, q.Filter)
	return s.Service.List(ctx, actor, q)
}

// Search scopes the filter to public records for actors without private
// access.
func (s *Service) Search(ctx context.Context, actor shared.Actor, q crud.SearchQuery) ([]Destination, shared.Pagination, error) {
	q.Filter = scopeToPublic(actor, q.Filter)
	return s.Service.Search(ctx, actor, q)
}

// Count scopes the filter to public records for actors without private
// access.
func (s *Service) Count(ctx context.Context, actor shared.Actor, filter crud.Filter) (int, error) {
	return s.Service.Count(ctx, actor, scopeToPublic(actor, filter))
}

// GetBySlug resolves one live destination by slug, honoring the view guard.
func (s *Service) GetBySlug(ctx context.Context, actor shared.Actor, slug string) (*Destination, error) {
	rec, err := s.model.FindOne(ctx, crud.Filter{"slug": slug})
	if err != nil {
		return nil, crud.NotFoundf("destination %s not found", slug)
	}
	return s.Get(ctx, actor, rec.ID)
}

func scopeToPublic(actor shared.Actor, filter crud.Filter) crud.Filter {
	if crud.Authorize(actor, privateRule) == nil {
		return filter
	}
	scoped := crud.Filter{"visibility": crud.VisibilityPublic}
	for k, v := range filter {
		if k != "visibility" {
			scoped[k] = v
		}
	}
	return scoped
}
