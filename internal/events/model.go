// Package events manages the published events calendar.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Event is a dated happening published within a destination.
type Event struct {
	crud.Lifecycle
	DestinationID uuid.UUID       `json:"destination_id" db:"destination_id"`
	Slug          string          `json:"slug" db:"slug"`
	Name          string          `json:"name" db:"name"`
	Category      string          `json:"category" db:"category"`
	Summary       string          `json:"summary" db:"summary"`
	Description   string          `json:"description" db:"description"`
	StartsAt      time.Time       `json:"starts_at" db:"starts_at"`
	EndsAt        *time.Time      `json:"ends_at,omitempty" db:"ends_at"`
	Visibility    crud.Visibility `json:"visibility" db:"visibility"`
}

// CreateInput is the payload accepted when creating an event. The slug is
// always derived; callers cannot supply one.
type CreateInput struct {
	DestinationID uuid.UUID       `json:"destination_id" validate:"required"`
	Name          string          `json:"name" validate:"required,min=2,max=160"`
	Category      string          `json:"category" validate:"required,oneof=MUSIC GASTRONOMY CULTURE SPORTS NATURE FESTIVAL"`
	Summary       string          `json:"summary" validate:"required,min=10,max=300"`
	Description   string          `json:"description" validate:"omitempty,max=10000"`
	StartsAt      time.Time       `json:"starts_at" validate:"required"`
	EndsAt        *time.Time      `json:"ends_at" validate:"omitempty,gtfield=StartsAt"`
	Visibility    crud.Visibility `json:"visibility" validate:"omitempty,oneof=PUBLIC PRIVATE"`
}

// UpdateInput is the partial payload accepted when patching an event.
type UpdateInput struct {
	Name        *string    `json:"name" validate:"omitempty,min=2,max=160"`
	Category    *string    `json:"category" validate:"omitempty,oneof=MUSIC GASTRONOMY CULTURE SPORTS NATURE FESTIVAL"`
	Summary     *string    `json:"summary" validate:"omitempty,min=10,max=300"`
	Description *string    `json:"description" validate:"omitempty,max=10000"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

func newRecord(actor shared.Actor, now time.Time, in CreateInput) (Event, error) {
	visibility := in.Visibility
	if visibility == "" {
		visibility = crud.VisibilityPrivate
	}
	return Event{
		Lifecycle:     crud.NewLifecycle(actor, now),
		DestinationID: in.DestinationID,
		Name:          in.Name,
		Category:      in.Category,
		Summary:       in.Summary,
		Description:   in.Description,
		StartsAt:      in.StartsAt,
		EndsAt:        in.EndsAt,
		Visibility:    visibility,
	}, nil
}

func patchOf(in UpdateInput) crud.Filter {
	patch := crud.Filter{}
	if in.Name != nil {
		patch["name"] = *in.Name
	}
	if in.Category != nil {
		patch["category"] = *in.Category
	}
	if in.Summary != nil {
		patch["summary"] = *in.Summary
	}
	if in.Description != nil {
		patch["description"] = *in.Description
	}
	if in.StartsAt != nil {
		patch["starts_at"] = *in.StartsAt
	}
	if in.EndsAt != nil {
		patch["ends_at"] = *in.EndsAt
	}
	return patch
}

var columns = []string{
	"id", "created_at", "created_by_id", "updated_at", "updated_by_id",
	"deleted_at", "deleted_by_id",
	"destination_id", "slug", "name", "category", "summary", "description",
	"starts_at", "ends_at", "visibility",
}

func values(e *Event) crud.Filter {
	return crud.Filter{
		"id":             e.ID,
		"created_at":     e.CreatedAt,
		"created_by_id":  e.CreatedByID,
		"updated_at":     e.UpdatedAt,
		"updated_by_id":  e.UpdatedByID,
		"destination_id": e.DestinationID,
		"slug":           e.Slug,
		"name":           e.Name,
		"category":       e.Category,
		"summary":        e.Summary,
		"description":    e.Description,
		"starts_at":      e.StartsAt,
		"ends_at":        e.EndsAt,
		"visibility":     e.Visibility,
	}
}

// NewModel builds the Postgres persistence model for events.
func NewModel(pool *pgxpool.Pool) *crud.PgModel[Event] {
	return crud.NewPgModel(pool, crud.PgConfig[Event]{
		Table:         "events",
		Columns:       columns,
		SearchColumns: []string{"name", "summary"},
		Values:        values,
	})
}
