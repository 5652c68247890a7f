// Package jobs defines the asynq task types and the worker that processes
// them.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeCacheBump invalidates the content cache of one entity.
	TaskTypeCacheBump = "cache:bump"
	// TaskTypeWelcomeEmail sends the post-registration email.
	TaskTypeWelcomeEmail = "mail:welcome"
	// TaskTypeAuditTrim removes audit entries past the retention window.
	TaskTypeAuditTrim = "audit:trim"
)

// CacheBumpPayload names the entity whose cached listings went stale.
type CacheBumpPayload struct {
	Entity string `json:"entity"`
}

// NewCacheBumpTask constructs a cache invalidation task.
func NewCacheBumpTask(payload CacheBumpPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeCacheBump, data), nil
}

// ContentBumper advances the content cache version of an entity.
type ContentBumper interface {
	Bump(ctx context.Context, entity string) error
}

// NewCacheBumpHandler processes TaskTypeCacheBump tasks.
func NewCacheBumpHandler(cache ContentBumper, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload CacheBumpPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.Entity == "" {
			return asynq.SkipRetry
		}
		if err := cache.Bump(ctx, payload.Entity); err != nil {
			return fmt.Errorf("jobs: bump %s cache: %w", payload.Entity, err)
		}
		logger.Info("content cache bumped", slog.String("entity", payload.Entity))
		return nil
	}
}

// WelcomeEmailPayload describes the information required to greet a new user.
type WelcomeEmailPayload struct {
	To   string `json:"to"`
	Name string `json:"name"`
}

// NewWelcomeEmailTask constructs an asynq task for the welcome email.
func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWelcomeEmail, data), nil
}

// HandleWelcomeEmailTask processes TaskTypeWelcomeEmail tasks.
func HandleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// SMTP delivery is wired in a later phase; the task contract is stable.
	fmt.Printf("[jobs] welcome email to %s (%s)\n", payload.To, payload.Name)
	return nil
}
