// Package users manages platform accounts, their roles and grants.
package users

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// User is a platform account. The password hash never leaves the service
// boundary.
type User struct {
	crud.Lifecycle
	Email        string      `json:"email" db:"email"`
	PasswordHash string      `json:"-" db:"password_hash"`
	DisplayName  string      `json:"display_name" db:"display_name"`
	Role         shared.Role `json:"role" db:"role"`
	Permissions  []string    `json:"permissions" db:"permissions"`
	Active       bool        `json:"active" db:"active"`
}

// CreateInput is the payload accepted when registering a user.
type CreateInput struct {
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required,min=8,max=72"`
	DisplayName string      `json:"display_name" validate:"required,min=2,max=120"`
	Role        shared.Role `json:"role" validate:"omitempty,oneof=SUPER_ADMIN ADMIN EDITOR HOST USER"`
	Permissions []string    `json:"permissions" validate:"omitempty,dive,min=3"`
}

// UpdateInput is the partial payload accepted when patching a user. Password
// and role changes go through dedicated operations.
type UpdateInput struct {
	DisplayName *string   `json:"display_name" validate:"omitempty,min=2,max=120"`
	Permissions *[]string `json:"permissions" validate:"omitempty,dive,min=3"`
	Active      *bool     `json:"active"`
}

func patchOf(in UpdateInput) crud.Filter {
	patch := crud.Filter{}
	if in.DisplayName != nil {
		patch["display_name"] = *in.DisplayName
	}
	if in.Permissions != nil {
		patch["permissions"] = *in.Permissions
	}
	if in.Active != nil {
		patch["active"] = *in.Active
	}
	return patch
}

var columns = []string{
	"id", "created_at", "created_by_id", "updated_at", "updated_by_id",
	"deleted_at", "deleted_by_id",
	"email", "password_hash", "display_name", "role", "permissions", "active",
}

func values(u *User) crud.Filter {
	return crud.Filter{
		"id":            u.ID,
		"created_at":    u.CreatedAt,
		"created_by_id": u.CreatedByID,
		"updated_at":    u.UpdatedAt,
		"updated_by_id": u.UpdatedByID,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"display_name":  u.DisplayName,
		"role":          u.Role,
		"permissions":   u.Permissions,
		"active":        u.Active,
	}
}

// NewModel builds the Postgres persistence model for users.
func NewModel(pool *pgxpool.Pool) *crud.PgModel[User] {
	return crud.NewPgModel(pool, crud.PgConfig[User]{
		Table:         "users",
		Columns:       columns,
		SearchColumns: []string{"email", "display_name"},
		Values:        values,
	})
}
