package crud

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// ErrRecordNotFound is the sentinel persistence models return when a lookup
// resolves nothing. The pipeline converts it into a NOT_FOUND result.
var ErrRecordNotFound = errors.New("crud: record not found")

// Filter is an equality filter or update patch keyed by column name.
type Filter map[string]any

// Model is the persistence contract the pipeline drives. FindByID resolves
// records regardless of deletion state; FindOne, FindAll, Search and Count
// see live records only. Implementations may return coded *Error values for
// domain failures (e.g. uniqueness violations); any other error is wrapped
// as INTERNAL_ERROR by the pipeline.
type Model[T Record] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindOne(ctx context.Context, filter Filter) (*T, error)
	FindAll(ctx context.Context, filter Filter, page shared.PageRequest) ([]T, int, error)
	Search(ctx context.Context, query string, filter Filter, page shared.PageRequest) ([]T, int, error)
	Create(ctx context.Context, rec *T) error
	Update(ctx context.Context, id uuid.UUID, patch Filter) (*T, error)
	SoftDelete(ctx context.Context, id uuid.UUID, by uuid.UUID, at time.Time) error
	Restore(ctx context.Context, id uuid.UUID, by uuid.UUID, at time.Time) error
	HardDelete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter Filter) (int, error)
}
