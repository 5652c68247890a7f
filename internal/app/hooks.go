package app

import (
	"context"
	"log/slog"

	"github.com/qazuor/hospeda-sub009/internal/crud"
	"github.com/qazuor/hospeda-sub009/internal/platform/cache"
	"github.com/qazuor/hospeda-sub009/internal/shared"
	"github.com/qazuor/hospeda-sub009/jobs"
)

// CacheBumpHook returns an after hook that invalidates the entity's cached
// listings synchronously and queues a background bump for downstream caches.
// The synchronous bump failing surfaces to the pipeline; a failed enqueue is
// logged and swallowed because the cache is already fresh.
func CacheBumpHook[T crud.Record](entity string, content *cache.Content, queue *jobs.Client, logger *slog.Logger) crud.AfterHook[T] {
	return func(ctx context.Context, _ shared.Actor, op crud.Operation, _ *T) error {
		if content != nil {
			if err := content.Bump(ctx, entity); err != nil {
				return err
			}
		}
		if queue != nil {
			if _, err := queue.EnqueueCacheBump(ctx, entity); err != nil {
				logger.Warn("enqueue cache bump",
					slog.String("entity", entity),
					slog.String("operation", string(op)),
					slog.Any("error", err))
			}
		}
		return nil
	}
}
