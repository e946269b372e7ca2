package postgres

import (
	"context"
	"database/sql"
	"time"

	"printapi/internal/model"
	"printapi/internal/repository"
)

// JobPostgres is a PostgreSQL implementation of repository.JobRepository.
// ClaimDue relies on FOR UPDATE SKIP LOCKED so several worker instances can
// poll the same table without handing a job to two of them.
type JobPostgres struct {
	db *sql.DB
}

// NewJobPostgres creates a new JobPostgres repository.
func NewJobPostgres(db *sql.DB) *JobPostgres {
	return &JobPostgres{db: db}
}

var _ repository.JobRepository = (*JobPostgres)(nil)

// Enqueue inserts a pending job row.
func (r *JobPostgres) Enqueue(ctx context.Context, job *model.ScheduledJob) error {
	const q = `
		INSERT INTO scheduled_jobs (id, kind, payload, due_at, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, q,
		job.ID, job.Kind, []byte(job.Payload), job.DueAt, job.Status, job.Attempts, job.CreatedAt,
	)
	return err
}

// ClaimDue picks up to limit due pending jobs, increments their attempt
// counter and returns them. Rows locked by another claimant are skipped.
func (r *JobPostgres) ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.ScheduledJob, error) {
	const q = `
		UPDATE scheduled_jobs
		SET attempts = attempts + 1
		WHERE id IN (
			SELECT id FROM scheduled_jobs
			WHERE status = 'pending' AND due_at <= $1
			ORDER BY due_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, payload, due_at, status, attempts, created_at
	`
	rows, err := r.db.QueryContext(ctx, q, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]model.ScheduledJob, 0)
	for rows.Next() {
		var j model.ScheduledJob
		var payload []byte
		if err := rows.Scan(&j.ID, &j.Kind, &payload, &j.DueAt, &j.Status, &j.Attempts, &j.CreatedAt); err != nil {
			return nil, err
		}
		j.Payload = payload
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// MarkDone finalizes a successfully handled job.
func (r *JobPostgres) MarkDone(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, model.JobDone)
}

// MarkFailed records a job whose handler returned an error.
func (r *JobPostgres) MarkFailed(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, model.JobFailed)
}

func (r *JobPostgres) setStatus(ctx context.Context, id string, status model.JobStatus) error {
	const q = `UPDATE scheduled_jobs SET status = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
