// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/reelsite/internal/app/store/audit"
	"go.uber.org/zap"
)

// AuditRetentionJob deletes audit events older than retention. It runs
// every six hours; a retention of zero or less yields a job that does
// nothing.
func AuditRetentionJob(store *audit.Store, retention time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "audit-retention",
		Interval: 6 * time.Hour,
		Run: func(ctx context.Context) error {
			if retention <= 0 {
				return nil
			}
			cutoff := time.Now().UTC().Add(-retention)
			deleted, err := store.DeleteBefore(ctx, cutoff)
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("pruned audit events",
					zap.Int64("deleted", deleted),
					zap.Time("before", cutoff))
			}
			return nil
		},
	}
}
