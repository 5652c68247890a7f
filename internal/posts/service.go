package posts

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

var (
	postCreateRule     = crud.Rule{MinRole: shared.RoleEditor, Permission: shared.PermPostCreate, Action: "create posts"}
	postUpdateRule     = crud.Rule{MinRole: shared.RoleEditor, Permission: shared.PermPostUpdate, Action: "update posts"}
	postDeleteRule     = crud.Rule{MinRole: shared.RoleEditor, Permission: shared.PermPostSoftDelete, Action: "delete posts"}
	postRestoreRule    = crud.Rule{MinRole: shared.RoleEditor, Permission: shared.PermPostRestore, Action: "restore posts"}
	postPrivateRule    = crud.Rule{MinRole: shared.RoleEditor, Permission: shared.PermPostViewPrivate, Action: "view private posts"}
	postVisibilityRule = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermPostUpdateVisibility, Action: "change post visibility"}
	postPurgeRule      = crud.Rule{MinRole: shared.RoleSuperAdmin, Action: "hard delete posts"}
)

// Service exposes post operations.
type Service struct {
	*crud.Service[Post, CreateInput, UpdateInput]
	model crud.Model[Post]
}

// NewService wires the post pipeline.
func NewService(model crud.Model[Post], validate *validator.Validate, after crud.AfterHook[Post], opts crud.Options) *Service {
	s := &Service{model: model}
	s.Service = crud.NewService(crud.Config[Post, CreateInput, UpdateInput]{
		Entity:    "post",
		Model:     model,
		Validate:  validate,
		NewRecord: newPost,
		PatchOf:   postPatch,
		Perms: crud.Permissions[Post]{
			Create: func(actor shared.Actor, _ *Post) error {
				return crud.Authorize(actor, postCreateRule)
			},
			View: func(actor shared.Actor, rec *Post) error {
				if rec.Visibility == crud.VisibilityPublic {
					return nil
				}
				return crud.Authorize(actor, postPrivateRule)
			},
			List:   func(shared.Actor, *Post) error { return nil },
			Search: func(shared.Actor, *Post) error { return nil },
			Count:  func(shared.Actor, *Post) error { return nil },
			Update: func(actor shared.Actor, _ *Post) error {
				return crud.Authorize(actor, postUpdateRule)
			},
			SoftDelete: func(actor shared.Actor, _ *Post) error {
				return crud.Authorize(actor, postDeleteRule)
			},
			HardDelete: func(actor shared.Actor, _ *Post) error {
				return crud.Authorize(actor, postPurgeRule)
			},
			Restore: func(actor shared.Actor, _ *Post) error {
				return crud.Authorize(actor, postRestoreRule)
			},
			UpdateVisibility: func(actor shared.Actor, _ *Post) error {
				return crud.Authorize(actor, postVisibilityRule)
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

func (s *Service) ensureSlug(ctx context.Context, _ shared.Actor, rec *Post) error {
	slug, err := crud.UniqueSlug(ctx, s.model, shared.Slugify(rec.Category, rec.Title), rec.ID)
	if err != nil {
		return err
	}
	rec.Slug = slug
	return nil
}

// List scopes results to public posts for unprivileged actors.
func (s *Service) List(ctx context.Context, actor shared.Actor, q crud.ListQuery) ([]Post, shared.Pagination, error) {
	q.Filter = scopeToPublic(actor, q.Filter)
	return s.Service.List(ctx, actor, q)
}

// Search scopes results to public posts for unprivileged actors.
func (s *Service) Search(ctx context.Context, actor shared.Actor, q crud.SearchQuery) ([]Post, shared.Pagination, error) {
	q.Filter = scopeToPublic(actor, q.Filter)
	return s.Service.Search(ctx, actor, q)
}

// Count scopes the count to public posts for unprivileged actors.
func (s *Service) Count(ctx context.Context, actor shared.Actor, filter crud.Filter) (int, error) {
	return s.Service.Count(ctx, actor, scopeToPublic(actor, filter))
}

// GetBySlug resolves one live post by slug, honoring the view guard.
func (s *Service) GetBySlug(ctx context.Context, actor shared.Actor, slug string) (*Post, error) {
	rec, err := s.model.FindOne(ctx, crud.Filter{"slug": slug})
	if err != nil {
		return nil, crud.NotFoundf("post %s not found", slug)
	}
	return s.Get(ctx, actor, rec.ID)
}

func scopeToPublic(actor shared.Actor, filter crud.Filter) crud.Filter {
	if crud.Authorize(actor, postPrivateRule) == nil {
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

var (
	sponsorCreateRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermPostSponsorCreate, Action: "create post sponsors"}
	sponsorUpdateRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermPostSponsorUpdate, Action: "update post sponsors"}
	sponsorDeleteRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermPostSponsorSoftDelete, Action: "delete post sponsors"}
	sponsorRestoreRule = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermPostSponsorRestore, Action: "restore post sponsors"}
	sponsorViewRule    = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermPostSponsorView, Action: "view post sponsors"}
	sponsorPurgeRule   = crud.Rule{MinRole: shared.RoleSuperAdmin, Action: "hard delete post sponsors"}
)

// SponsorService exposes post sponsor operations. Sponsorships carry
// commercial terms, so every operation is admin-gated.
type SponsorService struct {
	*crud.Service[PostSponsor, SponsorCreateInput, SponsorUpdateInput]
}

// NewSponsorService wires the post sponsor pipeline.
func NewSponsorService(model crud.Model[PostSponsor], validate *validator.Validate, opts crud.Options) *SponsorService {
	sponsorView := func(actor shared.Actor, _ *PostSponsor) error {
		return crud.Authorize(actor, sponsorViewRule)
	}
	return &SponsorService{Service: crud.NewService(crud.Config[PostSponsor, SponsorCreateInput, SponsorUpdateInput]{
		Entity:    "post_sponsor",
		Model:     model,
		Validate:  validate,
		NewRecord: newSponsor,
		PatchOf:   sponsorPatch,
		Perms: crud.Permissions[PostSponsor]{
			Create: func(actor shared.Actor, _ *PostSponsor) error {
				return crud.Authorize(actor, sponsorCreateRule)
			},
			View:   sponsorView,
			List:   sponsorView,
			Search: sponsorView,
			Count:  sponsorView,
			Update: func(actor shared.Actor, _ *PostSponsor) error {
				return crud.Authorize(actor, sponsorUpdateRule)
			},
			SoftDelete: func(actor shared.Actor, _ *PostSponsor) error {
				return crud.Authorize(actor, sponsorDeleteRule)
			},
			HardDelete: func(actor shared.Actor, _ *PostSponsor) error {
				return crud.Authorize(actor, sponsorPurgeRule)
			},
			Restore: func(actor shared.Actor, _ *PostSponsor) error {
				return crud.Authorize(actor, sponsorRestoreRule)
			},
		},
		Logger:  opts.Logger,
		Audit:   opts.Audit,
		Now:     opts.Now,
		Observe: opts.Observe,
	})}
}
