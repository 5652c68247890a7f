// Package clients manages commercial client accounts and their access
// rights.
package clients

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Client is a commercial account buying subscriptions or ad slots.
type Client struct {
	crud.Lifecycle
	Name         string `json:"name" db:"name"`
	LegalName    string `json:"legal_name" db:"legal_name"`
	TaxID        string `json:"tax_id" db:"tax_id"`
	ContactEmail string `json:"contact_email" db:"contact_email"`
	ContactPhone string `json:"contact_phone" db:"contact_phone"`
	Country      string `json:"country" db:"country"`
}

// CreateInput is the payload accepted when creating a client.
type CreateInput struct {
	Name         string `json:"name" validate:"required,min=2,max=160"`
	LegalName    string `json:"legal_name" validate:"required,min=2,max=200"`
	TaxID        string `json:"tax_id" validate:"required,min=5,max=40"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,e164"`
	Country      string `json:"country" validate:"required,iso3166_1_alpha2"`
}

// UpdateInput is the partial payload accepted when patching a client.
type UpdateInput struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=160"`
	LegalName    *string `json:"legal_name" validate:"omitempty,min=2,max=200"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone" validate:"omitempty,e164"`
	Country      *string `json:"country" validate:"omitempty,iso3166_1_alpha2"`
}

func newClient(actor shared.Actor, now time.Time, in CreateInput) (Client, error) {
	return Client{
		Lifecycle:    crud.NewLifecycle(actor, now),
		Name:         in.Name,
		LegalName:    in.LegalName,
		TaxID:        in.TaxID,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
		Country:      in.Country,
	}, nil
}

func clientPatch(in UpdateInput) crud.Filter {
	patch := crud.Filter{}
	if in.Name != nil {
		patch["name"] = *in.Name
	}
	if in.LegalName != nil {
		patch["legal_name"] = *in.LegalName
	}
	if in.ContactEmail != nil {
		patch["contact_email"] = *in.ContactEmail
	}
	if in.ContactPhone != nil {
		patch["contact_phone"] = *in.ContactPhone
	}
	if in.Country != nil {
		patch["country"] = *in.Country
	}
	return patch
}

var clientColumns = []string{
	"id", "created_at", "created_by_id", "updated_at", "updated_by_id",
	"deleted_at", "deleted_by_id",
	"name", "legal_name", "tax_id", "contact_email", "contact_phone", "country",
}

func clientValues(c *Client) crud.Filter {
	return crud.Filter{
		"id":            c.ID,
		"created_at":    c.CreatedAt,
		"created_by_id": c.CreatedByID,
		"updated_at":    c.UpdatedAt,
		"updated_by_id": c.UpdatedByID,
		"name":          c.Name,
		"legal_name":    c.LegalName,
		"tax_id":        c.TaxID,
		"contact_email": c.ContactEmail,
		"contact_phone": c.ContactPhone,
		"country":       c.Country,
	}
}

// NewClientModel builds the Postgres persistence model for clients.
func NewClientModel(pool *pgxpool.Pool) *crud.PgModel[Client] {
	return crud.NewPgModel(pool, crud.PgConfig[Client]{
		Table:         "clients",
		Columns:       clientColumns,
		SearchColumns: []string{"name", "legal_name", "contact_email"},
		Values:        clientValues,
	})
}

// AccessRight grants one user scoped access to one client's commercial
// features for a period.
type AccessRight struct {
	crud.Lifecycle
	ClientID  uuid.UUID  `json:"client_id" db:"client_id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Scope     string     `json:"scope" db:"scope"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" db:"expires_at"`
}

// AccessRightCreateInput is the payload accepted when granting access.
type AccessRightCreateInput struct {
	ClientID  uuid.UUID  `json:"client_id" validate:"required"`
	UserID    uuid.UUID  `json:"user_id" validate:"required"`
	Scope     string     `json:"scope" validate:"required,oneof=BILLING ADS CONTENT FULL"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// AccessRightUpdateInput is the partial payload accepted when patching a
// grant.
type AccessRightUpdateInput struct {
	Scope     *string    `json:"scope" validate:"omitempty,oneof=BILLING ADS CONTENT FULL"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func newAccessRight(actor shared.Actor, now time.Time, in AccessRightCreateInput) (AccessRight, error) {
	return AccessRight{
		Lifecycle: crud.NewLifecycle(actor, now),
		ClientID:  in.ClientID,
		UserID:    in.UserID,
		Scope:     in.Scope,
		ExpiresAt: in.ExpiresAt,
	}, nil
}

func accessRightPatch(in AccessRightUpdateInput) crud.Filter {
	patch := crud.Filter{}
	if in.Scope != nil {
		patch["scope"] = *in.Scope
	}
	if in.ExpiresAt != nil {
		patch["expires_at"] = *in.ExpiresAt
	}
	return patch
}

var accessRightColumns = []string{
	"id", "created_at", "created_by_id", "updated_at", "updated_by_id",
	"deleted_at", "deleted_by_id",
	"client_id", "user_id", "scope", "expires_at",
}

func accessRightValues(a *AccessRight) crud.Filter {
	return crud.Filter{
		"id":            a.ID,
		"created_at":    a.CreatedAt,
		"created_by_id": a.CreatedByID,
		"updated_at":    a.UpdatedAt,
		"updated_by_id": a.UpdatedByID,
		"client_id":     a.ClientID,
		"user_id":       a.UserID,
		"scope":         a.Scope,
		"expires_at":    a.ExpiresAt,
	}
}

// NewAccessRightModel builds the Postgres persistence model for access
// rights.
func NewAccessRightModel(pool *pgxpool.Pool) *crud.PgModel[AccessRight] {
	return crud.NewPgModel(pool, crud.PgConfig[AccessRight]{
		Table:         "client_access_rights",
		Columns:       accessRightColumns,
		SearchColumns: []string{"scope"},
		Values:        accessRightValues,
	})
}
