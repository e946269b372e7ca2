package repository

import (
	"context"
	"time"

	"printapi/internal/model"
)

// JobRepository is the durable queue behind deferred notifications.
// Claiming is what makes the worker safe to run on several instances: a due
// row is handed to exactly one claimant.
type JobRepository interface {
	Enqueue(ctx context.Context, job *model.ScheduledJob) error

	// ClaimDue atomically selects up to limit pending jobs due at or before
	// now, increments their attempt counter and returns them. A claimed job
	// is not visible to other claimants.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.ScheduledJob, error)

	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}
