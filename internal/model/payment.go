package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks the simulated payment attached to an order.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment is 1:1 with its order. It is created pending when the order is
// created; later status updates come only through the gateway collaborator,
// never from the pricing or lifecycle code.
type Payment struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"order_id"`
	Phone          string          `json:"phone"`
	Amount         decimal.Decimal `json:"amount"`
	TransactionRef string          `json:"transaction_ref,omitempty"`
	Status         PaymentStatus   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}
