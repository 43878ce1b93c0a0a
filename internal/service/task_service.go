package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/redact"
	"github.com/phrazzld/tasklist-api/internal/store"
)

// TaskServiceError is a custom error type for task service errors.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// TaskService provides owner-scoped task operations. A task owned by
// someone else is reported as store.ErrTaskNotFound.
type TaskService interface {
	// ListTasks returns the owner's tasks, newest first.
	ListTasks(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// CreateTask adds an uncompleted task. The text is trimmed and must be
	// 1..255 characters.
	CreateTask(ctx context.Context, ownerID int64, text string) (*domain.Task, error)

	// RenameTask replaces the text of a task.
	RenameTask(ctx context.Context, ownerID, taskID int64, text string) (*domain.Task, error)

	// ToggleTask flips the completed flag of a task.
	ToggleTask(ctx context.Context, ownerID, taskID int64) (*domain.Task, error)

	// DeleteTask removes a single task.
	DeleteTask(ctx context.Context, ownerID, taskID int64) error

	// ClearTasks removes all of the owner's tasks and returns how many were deleted.
	ClearTasks(ctx context.Context, ownerID int64) (int64, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if taskStore == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

func validateIDs(ownerID, taskID int64) error {
	if ownerID <= 0 {
		return domain.NewValidationError("owner_id", "must be positive", domain.ErrInvalidID)
	}
	if taskID <= 0 {
		return domain.NewValidationError("id", "must be positive", domain.ErrInvalidID)
	}
	return nil
}

// wrap keeps validation and not-found errors as they are and wraps
// everything else, logging it.
func (s *taskServiceImpl) wrap(ctx context.Context, op string, err error) error {
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	if errors.Is(err, store.ErrNotFound) {
		return NewTaskServiceError(op, "task not found", store.ErrTaskNotFound)
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("task operation failed",
		slog.String("operation", op),
		slog.String("error", redact.Error(err)))
	return NewTaskServiceError(op, "store operation failed", err)
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	if ownerID <= 0 {
		return nil, domain.NewValidationError("owner_id", "must be positive", domain.ErrInvalidID)
	}
	tasks, err := s.taskStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.wrap(ctx, "list", err)
	}
	return tasks, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID int64,
	text string,
) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, text)
	if err != nil {
		return nil, err
	}
	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, s.wrap(ctx, "create", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("owner_id", ownerID))
	return task, nil
}

// RenameTask implements TaskService.RenameTask
func (s *taskServiceImpl) RenameTask(
	ctx context.Context,
	ownerID, taskID int64,
	text string,
) (*domain.Task, error) {
	if err := validateIDs(ownerID, taskID); err != nil {
		return nil, err
	}
	normalized, err := domain.NormalizeTaskText(text)
	if err != nil {
		return nil, err
	}

	task, err := s.taskStore.UpdateText(ctx, ownerID, taskID, normalized)
	if err != nil {
		return nil, s.wrap(ctx, "rename", err)
	}
	return task, nil
}

// ToggleTask implements TaskService.ToggleTask
func (s *taskServiceImpl) ToggleTask(
	ctx context.Context,
	ownerID, taskID int64,
) (*domain.Task, error) {
	if err := validateIDs(ownerID, taskID); err != nil {
		return nil, err
	}
	task, err := s.taskStore.ToggleCompleted(ctx, ownerID, taskID)
	if err != nil {
		return nil, s.wrap(ctx, "toggle", err)
	}
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID int64) error {
	if err := validateIDs(ownerID, taskID); err != nil {
		return err
	}
	if err := s.taskStore.Delete(ctx, ownerID, taskID); err != nil {
		return s.wrap(ctx, "delete", err)
	}
	return nil
}

// ClearTasks implements TaskService.ClearTasks
func (s *taskServiceImpl) ClearTasks(ctx context.Context, ownerID int64) (int64, error) {
	if ownerID <= 0 {
		return 0, domain.NewValidationError("owner_id", "must be positive", domain.ErrInvalidID)
	}
	count, err := s.taskStore.DeleteAllByOwner(ctx, ownerID)
	if err != nil {
		return 0, s.wrap(ctx, "clear", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("tasks cleared",
		slog.Int64("owner_id", ownerID),
		slog.Int64("deleted", count))
	return count, nil
}
