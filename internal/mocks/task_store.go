package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/store"
)

// MockTaskStore implements store.TaskStore in memory with the same owner
// scoping and ordering as the PostgreSQL store.
type MockTaskStore struct {
	// Err, when set, is returned by every method.
	Err error

	// Now supplies created_at values; defaults to time.Now.
	Now func() time.Time

	tasks  map[int64]*domain.Task
	nextID int64
	mu     sync.Mutex
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty in-memory task store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		tasks: make(map[int64]*domain.Task),
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *MockTaskStore) owned(ownerID, id int64) (*domain.Task, bool) {
	t, ok := m.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, false
	}
	return t, true
}

// ListByOwner implements the TaskStore interface
func (m *MockTaskStore) ListByOwner(_ context.Context, ownerID int64) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	result := make([]*domain.Task, 0)
	for _, t := range m.tasks {
		if t.OwnerID == ownerID {
			copied := *t
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.nextID++
	task.ID = m.nextID
	task.CreatedAt = m.Now()

	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

// UpdateText implements the TaskStore interface
func (m *MockTaskStore) UpdateText(
	_ context.Context,
	ownerID, id int64,
	text string,
) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	t, ok := m.owned(ownerID, id)
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	t.Text = text
	copied := *t
	return &copied, nil
}

// ToggleCompleted implements the TaskStore interface
func (m *MockTaskStore) ToggleCompleted(
	_ context.Context,
	ownerID, id int64,
) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	t, ok := m.owned(ownerID, id)
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	t.Completed = !t.Completed
	copied := *t
	return &copied, nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(_ context.Context, ownerID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	if _, ok := m.owned(ownerID, id); !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// DeleteAllByOwner implements the TaskStore interface
func (m *MockTaskStore) DeleteAllByOwner(_ context.Context, ownerID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return 0, m.Err
	}

	var count int64
	for id, t := range m.tasks {
		if t.OwnerID == ownerID {
			delete(m.tasks, id)
			count++
		}
	}
	return count, nil
}
