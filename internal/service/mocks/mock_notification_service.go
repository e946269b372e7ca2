package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"printapi/internal/model"
)

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Send(ctx context.Context, actor model.Actor, recipientID, message string) (*model.Notification, error) {
	args := m.Called(ctx, actor, recipientID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationService) ListFor(ctx context.Context, actor model.Actor, includeDeleted bool) ([]model.Notification, error) {
	args := m.Called(ctx, actor, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationService) ListDeleted(ctx context.Context, actor model.Actor) ([]model.Notification, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationService) ListSentBy(ctx context.Context, actor model.Actor) ([]model.Notification, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, actor model.Actor) (int64, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, actor model.Actor) (int, error) {
	args := m.Called(ctx, actor)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationService) SoftDelete(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockNotificationService) Restore(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockNotificationService) HardDelete(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
