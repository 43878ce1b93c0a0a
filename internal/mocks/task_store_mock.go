package mocks

import (
	"context"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockTaskStore is a mock of store.TaskStore interface for use with testify/mock
type TestifyMockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TestifyMockTaskStore)(nil)

func taskResult(args mock.Arguments) (*domain.Task, error) {
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByOwner is a mock implementation of store.TaskStore.ListByOwner
func (m *TestifyMockTaskStore) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	args := m.Called(ctx, ownerID)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create is a mock implementation of store.TaskStore.Create
func (m *TestifyMockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// UpdateText is a mock implementation of store.TaskStore.UpdateText
func (m *TestifyMockTaskStore) UpdateText(
	ctx context.Context,
	ownerID, id int64,
	text string,
) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, id, text))
}

// ToggleCompleted is a mock implementation of store.TaskStore.ToggleCompleted
func (m *TestifyMockTaskStore) ToggleCompleted(
	ctx context.Context,
	ownerID, id int64,
) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, id))
}

// Delete is a mock implementation of store.TaskStore.Delete
func (m *TestifyMockTaskStore) Delete(ctx context.Context, ownerID, id int64) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// DeleteAllByOwner is a mock implementation of store.TaskStore.DeleteAllByOwner
func (m *TestifyMockTaskStore) DeleteAllByOwner(ctx context.Context, ownerID int64) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}
