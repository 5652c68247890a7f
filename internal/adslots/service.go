package adslots

import (
	"github.com/go-playground/validator/v10"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

var (
	createRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermAdSlotCreate, Action: "create ad slots"}
	updateRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermAdSlotUpdate, Action: "update ad slots"}
	deleteRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermAdSlotSoftDelete, Action: "delete ad slots"}
	restoreRule = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermAdSlotRestore, Action: "restore ad slots"}
	viewRule    = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermAdSlotView, Action: "view ad slots"}
	purgeRule   = crud.Rule{MinRole: shared.RoleSuperAdmin, Action: "hard delete ad slots"}
)

// Service exposes ad slot operations. The inventory carries commercial
// terms, so the whole surface is admin-gated.
type Service struct {
	*crud.Service[AdSlot, CreateInput, UpdateInput]
}

// NewService wires the ad slot pipeline.
func NewService(model crud.Model[AdSlot], validate *validator.Validate, opts crud.Options) *Service {
	view := func(actor shared.Actor, _ *AdSlot) error {
		return crud.Authorize(actor, viewRule)
	}
	return &Service{Service: crud.NewService(crud.Config[AdSlot, CreateInput, UpdateInput]{
		Entity:    "ad_slot",
		Model:     model,
		Validate:  validate,
		NewRecord: newRecord,
		PatchOf:   patchOf,
		Perms: crud.Permissions[AdSlot]{
			Create: func(actor shared.Actor, _ *AdSlot) error {
				return crud.Authorize(actor, createRule)
			},
			View:   view,
			List:   view,
			Search: view,
			Count:  view,
			Update: func(actor shared.Actor, _ *AdSlot) error {
				return crud.Authorize(actor, updateRule)
			},
			SoftDelete: func(actor shared.Actor, _ *AdSlot) error {
				return crud.Authorize(actor, deleteRule)
			},
			HardDelete: func(actor shared.Actor, _ *AdSlot) error {
				return crud.Authorize(actor, purgeRule)
			},
			Restore: func(actor shared.Actor, _ *AdSlot) error {
				return crud.Authorize(actor, restoreRule)
			},
		},
		Logger:  opts.Logger,
		Audit:   opts.Audit,
		Now:     opts.Now,
		Observe: opts.Observe,
	})}
}
