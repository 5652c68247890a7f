package accommodations

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

const entity = "accommodation"

// Hosts manage their own listings; admins and grant holders manage any.
var (
	createRule     = crud.Rule{MinRole: shared.RoleHost, Permission: shared.PermAccommodationCreate, Action: "create accommodations"}
	updateRule     = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermAccommodationUpdate, Action: "update accommodations"}
	deleteRule     = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermAccommodationSoftDelete, Action: "delete accommodations"}
	restoreRule    = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermAccommodationRestore, Action: "restore accommodations"}
	privateRule    = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermAccommodationViewPrivate, Action: "view private accommodations"}
	visibilityRule = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermAccommodationUpdateVisibility, Action: "change accommodation visibility"}
	purgeRule      = crud.Rule{MinRole: shared.RoleSuperAdmin, Action: "hard delete accommodations"}
)

// Service exposes accommodation operations with owner-aware guards.
type Service struct {
	*crud.Service[Accommodation, CreateInput, UpdateInput]
	model crud.Model[Accommodation]
}

// NewService wires the accommodation pipeline.
func NewService(model crud.Model[Accommodation], validate *validator.Validate, after crud.AfterHook[Accommodation], opts crud.Options) *Service {
	s := &Service{model: model}
	s.Service = crud.NewService(crud.Config[Accommodation, CreateInput, UpdateInput]{
		Entity:    entity,
		Model:     model,
		Validate:  validate,
		NewRecord: newRecord,
		PatchOf:   patchOf,
		Perms: crud.Permissions[Accommodation]{
			Create: func(actor shared.Actor, _ *Accommodation) error {
				return crud.Authorize(actor, createRule)
			},
			View: func(actor shared.Actor, rec *Accommodation) error {
				if rec.Visibility == crud.VisibilityPublic {
					return nil
				}
				return crud.AuthorizeOwner(actor, rec.OwnerID, privateRule)
			},
			List:   allowAll,
			Search: allowAll,
			Count:  allowAll,
			Update: func(actor shared.Actor, rec *Accommodation) error {
				return crud.AuthorizeOwner(actor, rec.OwnerID, updateRule)
			},
			SoftDelete: func(actor shared.Actor, rec *Accommodation) error {
				return crud.AuthorizeOwner(actor, rec.OwnerID, deleteRule)
			},
			HardDelete: func(actor shared.Actor, _ *Accommodation) error {
				return crud.Authorize(actor, purgeRule)
			},
			Restore: func(actor shared.Actor, rec *Accommodation) error {
				return crud.AuthorizeOwner(actor, rec.OwnerID, restoreRule)
			},
			UpdateVisibility: func(actor shared.Actor, rec *Accommodation) error {
				return crud.AuthorizeOwner(actor, rec.OwnerID, visibilityRule)
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

func allowAll(shared.Actor, *Accommodation) error { return nil }

func (s *Service) ensureSlug(ctx context.Context, _ shared.Actor, rec *Accommodation) error {
	base := rec.Slug
	if base == "" {
		base = shared.Slugify(rec.Type, rec.Name)
	}
	slug, err := crud.UniqueSlug(ctx, s.model, base, rec.ID)
	if err != nil {
		return err
	}
	rec.Slug = slug
	return nil
}

// List scopes results to public records unless the actor may view private
// listings; hosts additionally see their own private listings via ListOwn.
func (s *Service) List(ctx context.Context, actor shared.Actor, q crud.ListQuery) ([]Accommodation, shared.Pagination, error) {
	q.Filter = scopeToPublic(actor, q.Filter)
	return s.Service.List(ctx, actor, q)
}

// Search scopes results to public records for unprivileged actors.
func (s *Service) Search(ctx context.Context, actor shared.Actor, q crud.SearchQuery) ([]Accommodation, shared.Pagination, error) {
	q.Filter = scopeToPublic(actor, q.Filter)
	return s.Service.Search(ctx, actor, q)
}

// Count scopes the count to public records for unprivileged actors.
func (s *Service) Count(ctx context.Context, actor shared.Actor, filter crud.Filter) (int, error) {
	return s.Service.Count(ctx, actor, scopeToPublic(actor, filter))
}

// ListOwn returns the acting host's own listings regardless of visibility.
func (s *Service) ListOwn(ctx context.Context, actor shared.Actor, q crud.ListQuery) ([]Accommodation, shared.Pagination, error) {
	if err := crud.Authorize(actor, crud.Rule{MinRole: shared.RoleHost, Permission: shared.PermAccommodationViewPrivate, Action: "list own accommodations"}); err != nil {
		return nil, shared.Pagination{}, err
	}
	scoped := crud.Filter{"owner_id": actor.ID}
	for k, v := range q.Filter {
		if k != "owner_id" {
			scoped[k] = v
		}
	}
	q.Filter = scoped
	return s.Service.List(ctx, actor, q)
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
