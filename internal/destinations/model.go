// Package destinations manages the tourist destinations content catalog.
package destinations

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Destination is a geographic area accommodations and events attach to.
type Destination struct {
	crud.Lifecycle
	Slug        string          `json:"slug" db:"slug"`
	Name        string          `json:"name" db:"name"`
	Country     string          `json:"country" db:"country"`
	Summary     string          `json:"summary" db:"summary"`
	Description string          `json:"description" db:"description"`
	Visibility  crud.Visibility `json:"visibility" db:"visibility"`
	Featured    bool            `json:"featured" db:"featured"`
}

// CreateInput is the payload accepted when creating a destination.
type CreateInput struct {
	Name        string          `json:"name" validate:"required,min=2,max=120"`
	Country     string          `json:"country" validate:"required,iso3166_1_alpha2"`
	Summary     string          `json:"summary" validate:"required,min=10,max=300"`
	Description string          `json:"description" validate:"omitempty,max=10000"`
	Slug        string          `json:"slug" validate:"omitempty,min=3,max=160,lowercase"`
	Visibility  crud.Visibility `json:"visibility" validate:"omitempty,oneof=PUBLIC PRIVATE"`
	Featured    bool            `json:"featured"`
}

// UpdateInput is the partial payload accepted when patching a destination.
// Nil fields are left untouched.
type UpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=120"`
	Country     *string `json:"country" validate:"omitempty,iso3166_1_alpha2"`
	Summary     *string `json:"summary" validate:"omitempty,min=10,max=300"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Featured    *bool   `json:"featured"`
}

func newRecord(actor shared.Actor, now time.Time, in CreateInput) (Destination, error) {
	visibility := in.Visibility
	if visibility == "" {
		visibility = crud.VisibilityPrivate
	}
	return Destination{
		Lifecycle:   crud.NewLifecycle(actor, now),
		Slug:        in.Slug,
		Name:        in.Name,
		Country:     in.Country,
		Summary:     in.Summary,
		Description: in.Description,
		Visibility:  visibility,
		Featured:    in.Featured,
	}, nil
}

func patchOf(in UpdateInput) crud.Filter {
	patch := crud.Filter{}
	if in.Name != nil {
		patch["name"] = *in.Name
	}
	if in.Country != nil {
		patch["country"] = *in.Country
	}
	if in.Summary != nil {
		patch["summary"] = *in.Summary
	}
	if in.Description != nil {
		patch["description"] = *in.Description
	}
	if in.Featured != nil {
		patch["featured"] = *in.Featured
	}
	return patch
}

var columns = []string{
	"id", "created_at", "created_by_id", "updated_at", "updated_by_id",
	"deleted_at", "deleted_by_id",
	"slug", "name", "country", "summary", "description", "visibility", "featured",
}

func values(d *Destination) crud.Filter {
	return crud.Filter{
		"id":            d.ID,
		"created_at":    d.CreatedAt,
		"created_by_id": d.CreatedByID,
		"updated_at":    d.UpdatedAt,
		"updated_by_id": d.UpdatedByID,
		"slug":          d.Slug,
		"name":          d.Name,
		"country":       d.Country,
		"summary":       d.Summary,
		"description":   d.Description,
		"visibility":    d.Visibility,
		"featured":      d.Featured,
	}
}

// NewModel builds the Postgres persistence model for destinations.
func NewModel(pool *pgxpool.Pool) *crud.PgModel[Destination] {
	return crud.NewPgModel(pool, crud.PgConfig[Destination]{
		Table:         "destinations",
		Columns:       columns,
		SearchColumns: []string{"name", "summary"},
		Values:        values,
	})
}
