package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// AuditTrimmer removes audit entries older than the retention window.
type AuditTrimmer interface {
	TrimAuditLogs(ctx context.Context, retention time.Duration) (int64, error)
}

// NewAuditTrimTask constructs the periodic audit-trim task.
func NewAuditTrimTask() *asynq.Task {
	return asynq.NewTask(TaskTypeAuditTrim, nil)
}

// NewAuditTrimHandler processes TaskTypeAuditTrim tasks.
func NewAuditTrimHandler(trimmer AuditTrimmer, retention time.Duration, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		removed, err := trimmer.TrimAuditLogs(ctx, retention)
		if err != nil {
			return err
		}
		logger.Info("audit logs trimmed",
			slog.Int64("removed", removed),
			slog.Duration("retention", retention))
		return nil
	}
}
