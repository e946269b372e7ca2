package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"printapi/internal/payment"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Initiate(ctx context.Context, phone string, amount decimal.Decimal, orderRef string) (payment.Initiation, error) {
	args := m.Called(ctx, phone, amount, orderRef)
	return args.Get(0).(payment.Initiation), args.Error(1)
}
