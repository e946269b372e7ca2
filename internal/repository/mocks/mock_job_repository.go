package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"printapi/internal/model"
)

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Enqueue(ctx context.Context, job *model.ScheduledJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.ScheduledJob, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScheduledJob), args.Error(1)
}

func (m *MockJobRepository) MarkDone(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobRepository) MarkFailed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
