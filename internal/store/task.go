package store

import (
	"context"

	"github.com/phrazzld/tasklist-api/internal/domain"
)

// TaskStore defines owner-scoped persistence for tasks. Every method filters
// by ownerID, so a task belonging to another user behaves exactly like a
// missing one.
type TaskStore interface {
	// ListByOwner returns the owner's tasks, newest first. An empty slice is
	// a valid result.
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// Create inserts the task and populates its ID and CreatedAt.
	Create(ctx context.Context, task *domain.Task) error

	// UpdateText sets the text of a task and returns the updated row.
	// Returns ErrTaskNotFound if no row matches both id and ownerID.
	UpdateText(ctx context.Context, ownerID, id int64, text string) (*domain.Task, error)

	// ToggleCompleted flips the completed flag in a single statement and
	// returns the updated row.
	// Returns ErrTaskNotFound if no row matches both id and ownerID.
	ToggleCompleted(ctx context.Context, ownerID, id int64) (*domain.Task, error)

	// Delete removes a single task.
	// Returns ErrTaskNotFound if no row matches both id and ownerID.
	Delete(ctx context.Context, ownerID, id int64) error

	// DeleteAllByOwner removes every task of the owner and returns how many
	// rows were deleted. Zero is not an error.
	DeleteAllByOwner(ctx context.Context, ownerID int64) (int64, error)
}
