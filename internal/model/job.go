package model

import (
	"encoding/json"
	"time"
)

// JobStatus tracks a scheduled job through the worker loop.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// ScheduledJob is a durable deferred task. Jobs are rows, not in-process
// timers, so deferred notifications survive a restart.
type ScheduledJob struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	DueAt     time.Time       `json:"due_at"`
	Status    JobStatus       `json:"status"`
	Attempts  int             `json:"attempts"`
	CreatedAt time.Time       `json:"created_at"`
}
