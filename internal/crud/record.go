package crud

import (
	"time"

	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Visibility is the optional public/private state content entities carry.
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// Valid reports whether the visibility value is one of the declared states.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Record is the contract every managed entity satisfies.
type Record interface {
	RecordID() uuid.UUID
	Deleted() bool
}

// Lifecycle carries the audit and soft-deletion fields shared by every
// entity. Domain structs embed it.
type Lifecycle struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CreatedByID uuid.UUID  `json:"created_by_id" db:"created_by_id"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	UpdatedByID uuid.UUID  `json:"updated_by_id" db:"updated_by_id"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	DeletedByID *uuid.UUID `json:"deleted_by_id,omitempty" db:"deleted_by_id"`
}

// RecordID returns the entity identifier.
func (l Lifecycle) RecordID() uuid.UUID { return l.ID }

// Deleted reports whether the record is soft-deleted.
func (l Lifecycle) Deleted() bool { return l.DeletedAt != nil }

// NewLifecycle stamps a fresh lifecycle for a record created by actor at now.
func NewLifecycle(actor shared.Actor, now time.Time) Lifecycle {
	return Lifecycle{
		ID:          uuid.New(),
		CreatedAt:   now,
		CreatedByID: actor.ID,
		UpdatedAt:   now,
		UpdatedByID: actor.ID,
	}
}
