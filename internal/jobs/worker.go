package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"printapi/internal/mail"
	"printapi/internal/model"
	"printapi/internal/repository"
)

const claimBatchSize = 20

// Worker polls the scheduled-jobs table and executes due jobs. It runs until
// its context is cancelled; job failures are logged and recorded on the row,
// they never stop the loop.
type Worker struct {
	jobs          repository.JobRepository
	orders        repository.OrderRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	mailer        mail.Mailer
	interval      time.Duration
}

// NewWorker wires a worker. interval is the poll period.
func NewWorker(
	jobs repository.JobRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	mailer mail.Mailer,
	interval time.Duration,
) *Worker {
	return &Worker{
		jobs:          jobs,
		orders:        orders,
		users:         users,
		notifications: notifications,
		mailer:        mailer,
		interval:      interval,
	}
}

// Run blocks, polling for due jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll claims one batch of due jobs and executes them. Exported so tests and
// manual triggers can run a cycle without the ticker.
func (w *Worker) Poll(ctx context.Context) {
	claimed, err := w.jobs.ClaimDue(ctx, time.Now().UTC(), claimBatchSize)
	if err != nil {
		logJSON(map[string]any{
			"component": "jobs",
			"event":     "claim_failed",
			"level":     "error",
			"error":     err.Error(),
		})
		return
	}

	for i := range claimed {
		job := &claimed[i]
		if err := w.handle(ctx, job); err != nil {
			logJSON(map[string]any{
				"component": "jobs",
				"event":     "job_failed",
				"level":     "error",
				"job_id":    job.ID,
				"job_kind":  job.Kind,
				"attempts":  job.Attempts,
				"error":     err.Error(),
			})
			if mErr := w.jobs.MarkFailed(ctx, job.ID); mErr != nil {
				logJSON(map[string]any{
					"component": "jobs",
					"event":     "mark_failed_error",
					"level":     "error",
					"job_id":    job.ID,
					"error":     mErr.Error(),
				})
			}
			continue
		}
		if err := w.jobs.MarkDone(ctx, job.ID); err != nil {
			logJSON(map[string]any{
				"component": "jobs",
				"event":     "mark_done_error",
				"level":     "error",
				"job_id":    job.ID,
				"error":     err.Error(),
			})
		}
	}
}

func (w *Worker) handle(ctx context.Context, job *model.ScheduledJob) error {
	switch job.Kind {
	case KindOrderConfirmation:
		return w.handleOrderConfirmation(ctx, job)
	default:
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
}

// handleOrderConfirmation records the confirmation notification and emails
// the order's owner. The notification row is the durable part; the email is
// best-effort and only logged on failure.
func (w *Worker) handleOrderConfirmation(ctx context.Context, job *model.ScheduledJob) error {
	var payload OrderConfirmationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	order, err := w.orders.FindByID(ctx, payload.OrderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", payload.OrderID, err)
	}
	owner, err := w.users.FindByID(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("load order owner: %w", err)
	}

	message := fmt.Sprintf("Your order %s has been received and is awaiting processing.", order.ID)
	if _, err := w.notifications.Create(ctx, &model.Notification{
		ID:          uuid.NewString(),
		RecipientID: owner.ID,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("record confirmation notification: %w", err)
	}

	if err := w.mailer.Send(ctx, owner.Email, "Order received", message); err != nil {
		logJSON(map[string]any{
			"component": "jobs",
			"event":     "confirmation_mail_failed",
			"level":     "error",
			"order_id":  order.ID,
			"error":     err.Error(),
		})
	}
	return nil
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		data["level"] = "info"
	}
	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal worker log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
