package events

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

const entity = "event"

var (
	createRule     = crud.Rule{MinRole: shared.RoleEditor, Permission: shared.PermEventCreate, Action: "create events"}
	updateRule     = crud.Rule{MinRole: shared.RoleEditor, Permission: shared.PermEventUpdate, Action: "update events"}
	deleteRule     = crud.Rule{MinRole: shared.RoleEditor, Permission: shared.PermEventSoftDelete, Action: "delete events"}
	restoreRule    = crud.Rule{MinRole: shared.RoleEditor, Permission: shared.PermEventRestore, Action: "restore events"}
	privateRule    = crud.Rule{MinRole: shared.RoleEditor, Permission: shared.PermEventViewPrivate, Action: "view private events"}
	visibilityRule = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermEventUpdateVisibility, Action: "change event visibility"}
	purgeRule      = crud.Rule{MinRole: shared.RoleSuperAdmin, Action: "hard delete events"}
)

// Service exposes event operations. The slug is derived from category, name
// and start date on create, and recomputed on update only when one of those
// fields changes.
type Service struct {
	*crud.Service[Event, CreateInput, UpdateInput]
	model crud.Model[Event]
}

// NewService wires the event pipeline.
func NewService(model crud.Model[Event], validate *validator.Validate, after crud.AfterHook[Event], opts crud.Options) *Service {
	s := &Service{model: model}
	s.Service = crud.NewService(crud.Config[Event, CreateInput, UpdateInput]{
		Entity:    entity,
		Model:     model,
		Validate:  validate,
		NewRecord: newRecord,
		PatchOf:   patchOf,
		Perms: crud.Permissions[Event]{
			Create: func(actor shared.Actor, _ *Event) error {
				return crud.Authorize(actor, createRule)
			},
			View: func(actor shared.Actor, rec *Event) error {
				if rec.Visibility == crud.VisibilityPublic {
					return nil
				}
				return crud.Authorize(actor, privateRule)
			},
			List:   allowAll,
			Search: allowAll,
			Count:  allowAll,
			Update: func(actor shared.Actor, _ *Event) error {
				return crud.Authorize(actor, updateRule)
			},
			SoftDelete: func(actor shared.Actor, _ *Event) error {
				return crud.Authorize(actor, deleteRule)
			},
			HardDelete: func(actor shared.Actor, _ *Event) error {
				return crud.Authorize(actor, purgeRule)
			},
			Restore: func(actor shared.Actor, _ *Event) error {
				return crud.Authorize(actor, restoreRule)
			},
			UpdateVisibility: func(actor shared.Actor, _ *Event) error {
				return crud.Authorize(actor, visibilityRule)
			},
		},
		BeforeCreate: s.deriveSlug,
		BeforeUpdate: s.recomputeSlug,
		Logger:       opts.Logger,
		Audit:        opts.Audit,
		Now:          opts.Now,
		Observe:      opts.Observe,
		After:        after,
	})
	return s
}

func allowAll(shared.Actor, *Event) error { return nil }

// slugBase joins category, name and start date into the deterministic slug
// source, e.g. "music-jazz-festival-2026-03-14".
func slugBase(category, name string, startsAt time.Time) string {
	return shared.Slugify(category, name, startsAt.UTC().Format("2006-01-02"))
}

func (s *Service) deriveSlug(ctx context.Context, _ shared.Actor, rec *Event) error {
	slug, err := crud.UniqueSlug(ctx, s.model, slugBase(rec.Category, rec.Name, rec.StartsAt), rec.ID)
	if err != nil {
		return err
	}
	rec.Slug = slug
	return nil
}

// recomputeSlug re-derives the slug only when a slug source field is part of
// the patch; untouched source fields keep the stored value.
func (s *Service) recomputeSlug(ctx context.Context, _ shared.Actor, existing *Event, patch crud.Filter) (crud.Filter, error) {
	_, nameChanged := patch["name"]
	_, categoryChanged := patch["category"]
	_, startChanged := patch["starts_at"]
	if !nameChanged && !categoryChanged && !startChanged {
		return patch, nil
	}
	name := existing.Name
	if v, ok := patch["name"].(string); ok {
		name = v
	}
	category := existing.Category
	if v, ok := patch["category"].(string); ok {
		category = v
	}
	startsAt := existing.StartsAt
	if v, ok := patch["starts_at"].(time.Time); ok {
		startsAt = v
	}
	slug, err := crud.UniqueSlug(ctx, s.model, slugBase(category, name, startsAt), existing.ID)
	if err != nil {
		return nil, err
	}
	patch["slug"] = slug
	return patch, nil
}

// List scopes results to public events for unprivileged actors.
func (s *Service) List(ctx context.Context, actor shared.Actor, q crud.ListQuery) ([]Event, shared.Pagination, error) {
	q.Filter = scopeToPublic(actor, q.Filter)
	return s.Service.List(ctx, actor, q)
}

// Search scopes results to public events for unprivileged actors.
func (s *Service) Search(ctx context.Context, actor shared.Actor, q crud.SearchQuery) ([]Event, shared.Pagination, error) {
	q.Filter = scopeToPublic(actor, q.Filter)
	return s.Service.Search(ctx, actor, q)
}

// Count scopes the count to public events for unprivileged actors.
func (s *Service) Count(ctx context.Context, actor shared.Actor, filter crud.Filter) (int, error) {
	return s.Service.Count(ctx, actor, scopeToPublic(actor, filter))
}

// GetBySlug resolves one live event by slug, honoring the view guard.
func (s *Service) GetBySlug(ctx context.Context, actor shared.Actor, slug string) (*Event, error) {
	rec, err := s.model.FindOne(ctx, crud.Filter{"slug": slug})
	if err != nil {
		return nil, crud.NotFoundf("event %s not found", slug)
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
