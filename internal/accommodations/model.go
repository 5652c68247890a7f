// Package accommodations manages host-owned lodging listings.
package accommodations

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Accommodation is a lodging listing owned by a host within a destination.
type Accommodation struct {
	crud.Lifecycle
	OwnerID       uuid.UUID       `json:"owner_id" db:"owner_id"`
	DestinationID uuid.UUID       `json:"destination_id" db:"destination_id"`
	Slug          string          `json:"slug" db:"slug"`
	Name          string          `json:"name" db:"name"`
	Type          string          `json:"type" db:"type"`
	Summary       string          `json:"summary" db:"summary"`
	Description   string          `json:"description" db:"description"`
	PricePerNight int64           `json:"price_per_night" db:"price_per_night"`
	Currency      string          `json:"currency" db:"currency"`
	MaxGuests     int             `json:"max_guests" db:"max_guests"`
	Visibility    crud.Visibility `json:"visibility" db:"visibility"`
}

// CreateInput is the payload accepted when creating an accommodation. The
// owner defaults to the acting host when omitted.
type CreateInput struct {
	OwnerID       uuid.UUID       `json:"owner_id"`
	DestinationID uuid.UUID       `json:"destination_id" validate:"required"`
	Name          string          `json:"name" validate:"required,min=2,max=160"`
	Type          string          `json:"type" validate:"required,oneof=HOTEL CABIN HOSTEL APARTMENT CAMPING HOUSE"`
	Summary       string          `json:"summary" validate:"required,min=10,max=300"`
	Description   string          `json:"description" validate:"omitempty,max=10000"`
	PricePerNight int64           `json:"price_per_night" validate:"required,min=0"`
	Currency      string          `json:"currency" validate:"required,iso4217"`
	MaxGuests     int             `json:"max_guests" validate:"required,min=1,max=100"`
	Slug          string          `json:"slug" validate:"omitempty,min=3,max=200,lowercase"`
	Visibility    crud.Visibility `json:"visibility" validate:"omitempty,oneof=PUBLIC PRIVATE"`
}

// UpdateInput is the partial payload accepted when patching an accommodation.
type UpdateInput struct {
	Name          *string `json:"name" validate:"omitempty,min=2,max=160"`
	Type          *string `json:"type" validate:"omitempty,oneof=HOTEL CABIN HOSTEL APARTMENT CAMPING HOUSE"`
	Summary       *string `json:"summary" validate:"omitempty,min=10,max=300"`
	Description   *string `json:"description" validate:"omitempty,max=10000"`
	PricePerNight *int64  `json:"price_per_night" validate:"omitempty,min=0"`
	Currency      *string `json:"currency" validate:"omitempty,iso4217"`
	MaxGuests     *int    `json:"max_guests" validate:"omitempty,min=1,max=100"`
}

func newRecord(actor shared.Actor, now time.Time, in CreateInput) (Accommodation, error) {
	owner := in.OwnerID
	if owner == uuid.Nil {
		owner = actor.ID
	}
	visibility := in.Visibility
	if visibility == "" {
		visibility = crud.VisibilityPrivate
	}
	return Accommodation{
		Lifecycle:     crud.NewLifecycle(actor, now),
		OwnerID:       owner,
		DestinationID: in.DestinationID,
		Slug:          in.Slug,
		Name:          in.Name,
		Type:          in.Type,
		Summary:       in.Summary,
		Description:   in.Description,
		PricePerNight: in.PricePerNight,
		Currency:      in.Currency,
		MaxGuests:     in.MaxGuests,
		Visibility:    visibility,
	}, nil
}

func patchOf(in UpdateInput) crud.Filter {
	patch := crud.Filter{}
	if in.Name != nil {
		patch["name"] = *in.Name
	}
	if in.Type != nil {
		patch["type"] = *in.Type
	}
	if in.Summary != nil {
		patch["summary"] = *in.Summary
	}
	if in.Description != nil {
		patch["description"] = *in.Description
	}
	if in.PricePerNight != nil {
		patch["price_per_night"] = *in.PricePerNight
	}
	if in.Currency != nil {
		patch["currency"] = *in.Currency
	}
	if in.MaxGuests != nil {
		patch["max_guests"] = *in.MaxGuests
	}
	return patch
}

var columns = []string{
	"id", "created_at", "created_by_id", "updated_at", "updated_by_id",
	"deleted_at", "deleted_by_id",
	"owner_id", "destination_id", "slug", "name", "type", "summary",
	"description", "price_per_night", "currency", "max_guests", "visibility",
}

func values(a *Accommodation) crud.Filter {
	return crud.Filter{
		"id":              a.ID,
		"created_at":      a.CreatedAt,
		"created_by_id":   a.CreatedByID,
		"updated_at":      a.UpdatedAt,
		"updated_by_id":   a.UpdatedByID,
		"owner_id":        a.OwnerID,
		"destination_id":  a.DestinationID,
		"slug":            a.Slug,
		"name":            a.Name,
		"type":            a.Type,
		"summary":         a.Summary,
		"description":     a.Description,
		"price_per_night": a.PricePerNight,
		"currency":        a.Currency,
		"max_guests":      a.MaxGuests,
		"visibility":      a.Visibility,
	}
}

// NewModel builds the Postgres persistence model for accommodations.
func NewModel(pool *pgxpool.Pool) *crud.PgModel[Accommodation] {
	return crud.NewPgModel(pool, crud.PgConfig[Accommodation]{
		Table:         "accommodations",
		Columns:       columns,
		SearchColumns: []string{"name", "summary"},
		Values:        values,
	})
}
