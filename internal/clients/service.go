package clients

import (
	"github.com/go-playground/validator/v10"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

var (
	createRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermClientCreate, Action: "create clients"}
	updateRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermClientUpdate, Action: "update clients"}
	deleteRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermClientSoftDelete, Action: "delete clients"}
	restoreRule = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermClientRestore, Action: "restore clients"}
	viewRule    = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermClientView, Action: "view clients"}
	purgeRule   = crud.Rule{MinRole: shared.RoleSuperAdmin, Action: "hard delete clients"}
)

// Service exposes client account operations, admin-gated throughout.
type Service struct {
	*crud.Service[Client, CreateInput, UpdateInput]
}

// NewService wires the client pipeline.
func NewService(model crud.Model[Client], validate *validator.Validate, opts crud.Options) *Service {
	view := func(actor shared.Actor, _ *Client) error {
		return crud.Authorize(actor, viewRule)
	}
	return &Service{Service: crud.NewService(crud.Config[Client, CreateInput, UpdateInput]{
		Entity:    "client",
		Model:     model,
		Validate:  validate,
		NewRecord: newClient,
		PatchOf:   clientPatch,
		Perms: crud.Permissions[Client]{
			Create: func(actor shared.Actor, _ *Client) error {
				return crud.Authorize(actor, createRule)
			},
			View:   view,
			List:   view,
			Search: view,
			Count:  view,
			Update: func(actor shared.Actor, _ *Client) error {
				return crud.Authorize(actor, updateRule)
			},
			SoftDelete: func(actor shared.Actor, _ *Client) error {
				return crud.Authorize(actor, deleteRule)
			},
			HardDelete: func(actor shared.Actor, _ *Client) error {
				return crud.Authorize(actor, purgeRule)
			},
			Restore: func(actor shared.Actor, _ *Client) error {
				return crud.Authorize(actor, restoreRule)
			},
		},
		Logger:  opts.Logger,
		Audit:   opts.Audit,
		Now:     opts.Now,
		Observe: opts.Observe,
	})}
}

var (
	grantCreateRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermClientAccessRightCreate, Action: "grant client access"}
	grantUpdateRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermClientAccessRightUpdate, Action: "update client access"}
	grantDeleteRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermClientAccessRightSoftDelete, Action: "revoke client access"}
	grantRestoreRule = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermClientAccessRightRestore, Action: "restore client access"}
	grantViewRule    = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermClientAccessRightView, Action: "view client access"}
	grantPurgeRule   = crud.Rule{MinRole: shared.RoleSuperAdmin, Action: "hard delete client access"}
)

// AccessRightService exposes access right operations. Users may view grants
// issued to themselves; everything else is admin-gated.
type AccessRightService struct {
	*crud.Service[AccessRight, AccessRightCreateInput, AccessRightUpdateInput]
}

// NewAccessRightService wires the access right pipeline.
func NewAccessRightService(model crud.Model[AccessRight], validate *validator.Validate, opts crud.Options) *AccessRightService {
	view := func(actor shared.Actor, rec *AccessRight) error {
		if rec != nil {
			return crud.AuthorizeOwner(actor, rec.UserID, grantViewRule)
		}
		return crud.Authorize(actor, grantViewRule)
	}
	return &AccessRightService{Service: crud.NewService(crud.Config[AccessRight, AccessRightCreateInput, AccessRightUpdateInput]{
		Entity:    "client_access_right",
		Model:     model,
		Validate:  validate,
		NewRecord: newAccessRight,
		PatchOf:   accessRightPatch,
		Perms: crud.Permissions[AccessRight]{
			Create: func(actor shared.Actor, _ *AccessRight) error {
				return crud.Authorize(actor, grantCreateRule)
			},
			View:   view,
			List:   view,
			Search: view,
			Count:  view,
			Update: func(actor shared.Actor, _ *AccessRight) error {
				return crud.Authorize(actor, grantUpdateRule)
			},
			SoftDelete: func(actor shared.Actor, _ *AccessRight) error {
				return crud.Authorize(actor, grantDeleteRule)
			},
			HardDelete: func(actor shared.Actor, _ *AccessRight) error {
				return crud.Authorize(actor, grantPurgeRule)
			},
			Restore: func(actor shared.Actor, _ *AccessRight) error {
				return crud.Authorize(actor, grantRestoreRule)
			},
		},
		Logger:  opts.Logger,
		Audit:   opts.Audit,
		Now:     opts.Now,
		Observe: opts.Observe,
	})}
}
