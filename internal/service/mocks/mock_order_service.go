package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"printapi/internal/model"
	"printapi/internal/service"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, actor model.Actor, in service.CreateOrderInput) (*service.CreateOrderResult, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CreateOrderResult), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, actor model.Actor, id string) (*model.Order, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, actor model.Actor, q service.ListOrdersQuery) ([]model.Order, error) {
	args := m.Called(ctx, actor, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, actor model.Actor, id, rawStatus string) (*service.StatusUpdateResult, error) {
	args := m.Called(ctx, actor, id, rawStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StatusUpdateResult), args.Error(1)
}

func (m *MockOrderService) SoftDelete(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockOrderService) Restore(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockOrderService) HardDelete(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockOrderService) DownloadFile(ctx context.Context, actor model.Actor, orderID, fileID string) (*service.FileDownload, error) {
	args := m.Called(ctx, actor, orderID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileDownload), args.Error(1)
}

func (m *MockOrderService) FileURL(ctx context.Context, actor model.Actor, orderID, fileID string) (string, error) {
	args := m.Called(ctx, actor, orderID, fileID)
	return args.String(0), args.Error(1)
}

func (m *MockOrderService) Stats(ctx context.Context, actor model.Actor) (map[model.OrderStatus]int, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.OrderStatus]int), args.Error(1)
}

func (m *MockOrderService) UserStats(ctx context.Context, actor model.Actor) (map[model.OrderStatus]int, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.OrderStatus]int), args.Error(1)
}

func (m *MockOrderService) PublicCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
