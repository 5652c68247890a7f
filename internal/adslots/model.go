// Package adslots manages the advertising slot inventory.
package adslots

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// AdSlot is a bookable advertising placement, optionally sold to a client.
type AdSlot struct {
	crud.Lifecycle
	Name      string     `json:"name" db:"name"`
	Placement string     `json:"placement" db:"placement"`
	ClientID  *uuid.UUID `json:"client_id,omitempty" db:"client_id"`
	Price     int64      `json:"price" db:"price"`
	Currency  string     `json:"currency" db:"currency"`
	StartsAt  time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt    time.Time  `json:"ends_at" db:"ends_at"`
	Active    bool       `json:"active" db:"active"`
}

// CreateInput is the payload accepted when creating an ad slot.
type CreateInput struct {
	Name      string     `json:"name" validate:"required,min=2,max=120"`
	Placement string     `json:"placement" validate:"required,oneof=HOME_BANNER SIDEBAR SEARCH_TOP NEWSLETTER DESTINATION_PAGE"`
	ClientID  *uuid.UUID `json:"client_id"`
	Price     int64      `json:"price" validate:"required,min=0"`
	Currency  string     `json:"currency" validate:"required,iso4217"`
	StartsAt  time.Time  `json:"starts_at" validate:"required"`
	EndsAt    time.Time  `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Active    bool       `json:"active"`
}

// UpdateInput is the partial payload accepted when patching an ad slot.
type UpdateInput struct {
	Name      *string    `json:"name" validate:"omitempty,min=2,max=120"`
	Placement *string    `json:"placement" validate:"omitempty,oneof=HOME_BANNER SIDEBAR SEARCH_TOP NEWSLETTER DESTINATION_PAGE"`
	ClientID  *uuid.UUID `json:"client_id"`
	Price     *int64     `json:"price" validate:"omitempty,min=0"`
	Currency  *string    `json:"currency" validate:"omitempty,iso4217"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	Active    *bool      `json:"active"`
}

func newRecord(actor shared.Actor, now time.Time, in CreateInput) (AdSlot, error) {
	return AdSlot{
		Lifecycle: crud.NewLifecycle(actor, now),
		Name:      in.Name,
		Placement: in.Placement,
		ClientID:  in.ClientID,
		Price:     in.Price,
		Currency:  in.Currency,
		StartsAt:  in.StartsAt,
		EndsAt:    in.EndsAt,
		Active:    in.Active,
	}, nil
}

func patchOf(in UpdateInput) crud.Filter {
	patch := crud.Filter{}
	if in.Name != nil {
		patch["name"] = *in.Name
	}
	if in.Placement != nil {
		patch["placement"] = *in.Placement
	}
	if in.ClientID != nil {
		patch["client_id"] = *in.ClientID
	}
	if in.Price != nil {
		patch["price"] = *in.Price
	}
	if in.Currency != nil {
		patch["currency"] = *in.Currency
	}
	if in.StartsAt != nil {
		patch["starts_at"] = *in.StartsAt
	}
	if in.EndsAt != nil {
		patch["ends_at"] = *in.EndsAt
	}
	if in.Active != nil {
		patch["active"] = *in.Active
	}
	return patch
}

var columns = []string{
	"id", "created_at", "created_by_id", "updated_at", "updated_by_id",
	"deleted_at", "deleted_by_id",
	"name", "placement", "client_id", "price", "currency",
	"starts_at", "ends_at", "active",
}

func values(a *AdSlot) crud.Filter {
	return crud.Filter{
		"id":            a.ID,
		"created_at":    a.CreatedAt,
		"created_by_id": a.CreatedByID,
		"updated_at":    a.UpdatedAt,
		"updated_by_id": a.UpdatedByID,
		"name":          a.Name,
		"placement":     a.Placement,
		"client_id":     a.ClientID,
		"price":         a.Price,
		"currency":      a.Currency,
		"starts_at":     a.StartsAt,
		"ends_at":       a.EndsAt,
		"active":        a.Active,
	}
}

// NewModel builds the Postgres persistence model for ad slots.
func NewModel(pool *pgxpool.Pool) *crud.PgModel[AdSlot] {
	return crud.NewPgModel(pool, crud.PgConfig[AdSlot]{
		Table:         "ad_slots",
		Columns:       columns,
		SearchColumns: []string{"name"},
		Values:        values,
	})
}
