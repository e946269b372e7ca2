package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"printapi/internal/model"
)

// StubGateway simulates the mobile-money gateway. Every initiation succeeds
// with a deterministic test transaction reference and a pending status.
type StubGateway struct{}

// NewStub creates a simulated gateway.
func NewStub() *StubGateway {
	return &StubGateway{}
}

var _ Gateway = (*StubGateway)(nil)

// Initiate returns a TEST-prefixed transaction reference in pending state.
func (g *StubGateway) Initiate(_ context.Context, _ string, _ decimal.Decimal, orderRef string) (Initiation, error) {
	return Initiation{
		TransactionID: fmt.Sprintf("TEST-%s", orderRef),
		Status:        model.PaymentPending,
	}, nil
}
