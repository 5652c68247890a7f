package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// slugProbeLimit bounds collision probing before giving up.
const slugProbeLimit = 50

// UniqueSlug returns base, or the first deterministic numeric-suffixed
// variant (-2, -3, …) that no other live record holds. excludeID skips the
// record being updated so keeping its own slug is never a collision.
func UniqueSlug[T Record](ctx context.Context, model Model[T], base string, excludeID uuid.UUID) (string, error) {
	if base == "" {
		return "", Validationf("slug source fields are empty")
	}
	slug := base
	for i := 2; i <= slugProbeLimit; i++ {
		existing, err := model.FindOne(ctx, Filter{"slug": slug})
		if errors.Is(err, ErrRecordNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		if (*existing).RecordID() == excludeID {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return "", Internalf(nil, "no free slug near %q", base)
}

// Options bundles the cross-cutting dependencies every entity service
// receives from the runtime wiring.
type Options struct {
	Logger  *slog.Logger
	Audit   shared.AuditRecorder
	Observe func(entity, operation, code string)
	Now     func() time.Time
}
