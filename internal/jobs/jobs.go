// Package jobs implements the durable deferred-task queue. A deferred
// notification is a database row with a due time, not an in-memory timer, so
// it survives a process restart and can be worked by any instance.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"printapi/internal/model"
)

// KindOrderConfirmation is the delayed "order received" notification sent to
// an order's owner shortly after checkout.
const KindOrderConfirmation = "order_confirmation"

// OrderConfirmationPayload identifies the order to confirm.
type OrderConfirmationPayload struct {
	OrderID string `json:"order_id"`
}

// NewOrderConfirmation builds a pending confirmation job due at the given time.
func NewOrderConfirmation(orderID string, due time.Time) (*model.ScheduledJob, error) {
	payload, err := json.Marshal(OrderConfirmationPayload{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	return &model.ScheduledJob{
		ID:        uuid.NewString(),
		Kind:      KindOrderConfirmation,
		Payload:   payload,
		DueAt:     due,
		Status:    model.JobPending,
		CreatedAt: time.Now().UTC(),
	}, nil
}
