// Package subscriptions manages client subscription plans.
package subscriptions

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// Subscription binds a client to a billed plan for a period.
type Subscription struct {
	crud.Lifecycle
	ClientID   uuid.UUID  `json:"client_id" db:"client_id"`
	Plan       string     `json:"plan" db:"plan"`
	Status     string     `json:"status" db:"status"`
	Price      int64      `json:"price" db:"price"`
	Currency   string     `json:"currency" db:"currency"`
	StartsAt   time.Time  `json:"starts_at" db:"starts_at"`
	RenewsAt   *time.Time `json:"renews_at,omitempty" db:"renews_at"`
	CanceledAt *time.Time `json:"canceled_at,omitempty" db:"canceled_at"`
}

// CreateInput is the payload accepted when creating a subscription.
type CreateInput struct {
	ClientID uuid.UUID  `json:"client_id" validate:"required"`
	Plan     string     `json:"plan" validate:"required,oneof=BASIC STANDARD PREMIUM ENTERPRISE"`
	Price    int64      `json:"price" validate:"required,min=0"`
	Currency string     `json:"currency" validate:"required,iso4217"`
	StartsAt time.Time  `json:"starts_at" validate:"required"`
	RenewsAt *time.Time `json:"renews_at" validate:"omitempty,gtfield=StartsAt"`
}

// UpdateInput is the partial payload accepted when patching a subscription.
type UpdateInput struct {
	Plan     *string    `json:"plan" validate:"omitempty,oneof=BASIC STANDARD PREMIUM ENTERPRISE"`
	Status   *string    `json:"status" validate:"omitempty,oneof=ACTIVE PAST_DUE CANCELED"`
	Price    *int64     `json:"price" validate:"omitempty,min=0"`
	Currency *string    `json:"currency" validate:"omitempty,iso4217"`
	RenewsAt *time.Time `json:"renews_at"`
}

func newRecord(actor shared.Actor, now time.Time, in CreateInput) (Subscription, error) {
	return Subscription{
		Lifecycle: crud.NewLifecycle(actor, now),
		ClientID:  in.ClientID,
		Plan:      in.Plan,
		Status:    "ACTIVE",
		Price:     in.Price,
		Currency:  in.Currency,
		StartsAt:  in.StartsAt,
		RenewsAt:  in.RenewsAt,
	}, nil
}

func patchOf(in UpdateInput) crud.Filter {
	patch := crud.Filter{}
	if in.Plan != nil {
		patch["plan"] = *in.Plan
	}
	if in.Status != nil {
		patch["status"] = *in.Status
	}
	if in.Price != nil {
		patch["price"] = *in.Price
	}
	if in.Currency != nil {
		patch["currency"] = *in.Currency
	}
	if in.RenewsAt != nil {
		patch["renews_at"] = *in.RenewsAt
	}
	return patch
}

var columns = []string{
	"id", "created_at", "created_by_id", "updated_at", "updated_by_id",
	"deleted_at", "deleted_by_id",
	"client_id", "plan", "status", "price", "currency",
	"starts_at", "renews_at", "canceled_at",
}

func values(s *Subscription) crud.Filter {
	return crud.Filter{
		"id":            s.ID,
		"created_at":    s.CreatedAt,
		"created_by_id": s.CreatedByID,
		"updated_at":    s.UpdatedAt,
		"updated_by_id": s.UpdatedByID,
		"client_id":     s.ClientID,
		"plan":          s.Plan,
		"status":        s.Status,
		"price":         s.Price,
		"currency":      s.Currency,
		"starts_at":     s.StartsAt,
		"renews_at":     s.RenewsAt,
		"canceled_at":   s.CanceledAt,
	}
}

// NewModel builds the Postgres persistence model for subscriptions.
func NewModel(pool *pgxpool.Pool) *crud.PgModel[Subscription] {
	return crud.NewPgModel(pool, crud.PgConfig[Subscription]{
		Table:         "subscriptions",
		Columns:       columns,
		SearchColumns: []string{"plan", "status"},
		Values:        values,
	})
}
