package users

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/qazuor/hospeda-sub009/internal/auth"
	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

var (
	createRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermUserCreate, Action: "create users"}
	updateRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermUserUpdate, Action: "update users"}
	deleteRule  = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermUserSoftDelete, Action: "delete users"}
	restoreRule = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermUserRestore, Action: "restore users"}
	viewRule    = crud.Rule{MinRole: shared.RoleAdmin, Permission: shared.PermUserView, Action: "view users"}
	purgeRule   = crud.Rule{MinRole: shared.RoleSuperAdmin, Action: "hard delete users"}
)

// Service exposes account operations. Users may view and rename themselves;
// account administration needs the admin tier or the matching grant.
type Service struct {
	*crud.Service[User, CreateInput, UpdateInput]
	model crud.Model[User]
	now   func() time.Time
}

// NewService wires the user pipeline.
func NewService(model crud.Model[User], validate *validator.Validate, after crud.AfterHook[User], opts crud.Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Service{model: model, now: now}
	s.Service = crud.NewService(crud.Config[User, CreateInput, UpdateInput]{
		Entity:    "user",
		Model:     model,
		Validate:  validate,
		NewRecord: newRecord,
		PatchOf:   patchOf,
		Perms: crud.Permissions[User]{
			Create: func(actor shared.Actor, _ *User) error {
				return crud.Authorize(actor, createRule)
			},
			View: func(actor shared.Actor, rec *User) error {
				return crud.AuthorizeOwner(actor, rec.ID, viewRule)
			},
			List: func(actor shared.Actor, _ *User) error {
				return crud.Authorize(actor, viewRule)
			},
			Search: func(actor shared.Actor, _ *User) error {
				return crud.Authorize(actor, viewRule)
			},
			Count: func(actor shared.Actor, _ *User) error {
				return crud.Authorize(actor, viewRule)
			},
			Update: func(actor shared.Actor, rec *User) error {
				return crud.AuthorizeOwner(actor, rec.ID, updateRule)
			},
			SoftDelete: func(actor shared.Actor, _ *User) error {
				return crud.Authorize(actor, deleteRule)
			},
			HardDelete: func(actor shared.Actor, _ *User) error {
				return crud.Authorize(actor, purgeRule)
			},
			Restore: func(actor shared.Actor, _ *User) error {
				return crud.Authorize(actor, restoreRule)
			},
		},
		Logger:  opts.Logger,
		Audit:   opts.Audit,
		Now:     opts.Now,
		Observe: opts.Observe,
		After:   after,
	})
	return s
}

// newRecord hashes the password before anything touches storage.
func newRecord(actor shared.Actor, now time.Time, in CreateInput) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, crud.Internalf(err, "hash password")
	}
	role := in.Role
	if role == "" {
		role = shared.RoleUser
	}
	return User{
		Lifecycle:    crud.NewLifecycle(actor, now),
		Email:        in.Email,
		PasswordHash: string(hash),
		DisplayName:  in.DisplayName,
		Role:         role,
		Permissions:  in.Permissions,
		Active:       true,
	}, nil
}

// ChangePassword rehashes and stores a new password. Users change their own;
// admins may reset anyone's.
func (s *Service) ChangePassword(ctx context.Context, actor shared.Actor, id uuid.UUID, password string) error {
	if len(password) < 8 || len(password) > 72 {
		return crud.Validationf("password must be between 8 and 72 characters")
	}
	rec, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := crud.AuthorizeOwner(actor, rec.ID, updateRule); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return crud.Internalf(err, "hash password")
	}
	now := s.now()
	if _, err := s.model.Update(ctx, id, crud.Filter{
		"password_hash": string(hash),
		"updated_at":    now,
		"updated_by_id": actor.ID,
	}); err != nil {
		return crud.Internalf(err, "store password for user %s", id)
	}
	return nil
}

// SetRole moves the account to another tier. Role changes are reserved for
// admins outright; grants do not extend this far.
func (s *Service) SetRole(ctx context.Context, actor shared.Actor, id uuid.UUID, role shared.Role) (*User, error) {
	if !role.Valid() || role == shared.RoleGuest {
		return nil, crud.Validationf("role %s is not assignable", role)
	}
	rec, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := crud.Authorize(actor, crud.Rule{MinRole: shared.RoleAdmin, Action: "change user roles"}); err != nil {
		return nil, err
	}
	if role == shared.RoleSuperAdmin && !actor.AtLeast(shared.RoleSuperAdmin) {
		return nil, crud.Forbiddenf("Only super admins can promote to super admin")
	}
	now := s.now()
	updated, err := s.model.Update(ctx, rec.ID, crud.Filter{
		"role":          role,
		"updated_at":    now,
		"updated_by_id": actor.ID,
	})
	if err != nil {
		return nil, crud.Internalf(err, "set role for user %s", id)
	}
	return updated, nil
}

// CredentialsByEmail satisfies the authentication credential source.
func (s *Service) CredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	rec, err := s.model.FindOne(ctx, crud.Filter{"email": email})
	if err != nil {
		if errors.Is(err, crud.ErrRecordNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	return &auth.Credentials{
		ID:           rec.ID,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		Role:         rec.Role,
		Permissions:  rec.Permissions,
		Active:       rec.Active,
	}, nil
}
