// Package payment defines the contract with the mobile-money gateway.
// The real gateway is out of scope; the core only initiates a payment when
// an order is created and later receives out-of-band status updates through
// the payment record.
package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"printapi/internal/model"
)

// Initiation is the gateway's answer to an initiate call.
type Initiation struct {
	TransactionID string
	Status        model.PaymentStatus
}

// Gateway initiates a payment for an order. Fire-and-forget: the returned
// status is usually pending and settles later outside this process.
type Gateway interface {
	Initiate(ctx context.Context, phone string, amount decimal.Decimal, orderRef string) (Initiation, error)
}
