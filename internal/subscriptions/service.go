package subscriptions

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

var (
	createRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermSubscriptionCreate, Action: "create subscriptions"}
	updateRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermSubscriptionUpdate, Action: "update subscriptions"}
	deleteRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermSubscriptionSoftDelete, Action: "delete subscriptions"}
	restoreRule = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermSubscriptionRestore, Action: "restore subscriptions"}
	viewRule    = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermSubscriptionView, Action: "view subscriptions"}
	purgeRule   = crud.Rule{MinRole: shared.RoleSuperAdmin, Action: "hard delete subscriptions"}
)

// Service exposes subscription operations. Billing data is admin-only across
// the board.
type Service struct {
	*crud.Service[Subscription, CreateInput, UpdateInput]
	model crud.Model[Subscription]
	now   func() time.Time
}

// NewService wires the subscription pipeline.
func NewService(model crud.Model[Subscription], validate *validator.Validate, opts crud.Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Service{model: model, now: now}
	view := func(actor shared.Actor, _ *Subscription) error {
		return crud.Authorize(actor, viewRule)
	}
	s.Service = crud.NewService(crud.Config[Subscription, CreateInput, UpdateInput]{
		Entity:    "subscription",
		Model:     model,
		Validate:  validate,
		NewRecord: newRecord,
		PatchOf:   patchOf,
		Perms: crud.Permissions[Subscription]{
			Create: func(actor shared.Actor, _ *Subscription) error {
				return crud.Authorize(actor, createRule)
			},
			View:   view,
			List:   view,
			Search: view,
			Count:  view,
			Update: func(actor shared.Actor, _ *Subscription) error {
				return crud.Authorize(actor, updateRule)
			},
			SoftDelete: func(actor shared.Actor, _ *Subscription) error {
				return crud.Authorize(actor, deleteRule)
			},
			HardDelete: func(actor shared.Actor, _ *Subscription) error {
				return crud.Authorize(actor, purgeRule)
			},
			Restore: func(actor shared.Actor, _ *Subscription) error {
				return crud.Authorize(actor, restoreRule)
			},
		},
		Logger:  opts.Logger,
		Audit:   opts.Audit,
		Now:     opts.Now,
		Observe: opts.Observe,
	})
	return s
}

// Cancel marks a subscription canceled without deleting it, so billing
// history survives.
func (s *Service) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*Subscription, error) {
	rec, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := crud.Authorize(actor, updateRule); err != nil {
		return nil, err
	}
	if rec.Status == "CANCELED" {
		return nil, crud.Validationf("subscription %s is already canceled", id)
	}
	now := s.now()
	canceled, err := s.model.Update(ctx, id, crud.Filter{
		"status":        "CANCELED",
		"canceled_at":   now,
		"updated_at":    now,
		"updated_by_id": actor.ID,
	})
	if err != nil {
		return nil, crud.Internalf(err, "cancel subscription %s", id)
	}
	return canceled, nil
}
