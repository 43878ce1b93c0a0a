package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/redact"
	"github.com/phrazzld/tasklist-api/internal/store"
)

const taskColumns = `id, owner_id, task_text, completed, created_at`

// PostgresTaskStore implements the store.TaskStore interface.
// Every statement filters on owner_id.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: constructor precondition
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Text, &t.Completed, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByOwner implements store.TaskStore.ListByOwner
func (s *PostgresTaskStore) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE owner_id = $1
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		log.Error("failed to list tasks",
			slog.Int64("owner_id", ownerID),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("task", "list", "query failed", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", redact.Error(cerr)))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "list", "scan failed", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "row iteration failed", MapError(err))
	}

	return tasks, nil
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	text, err := domain.NormalizeTaskText(task.Text)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	task.Text = text

	err = s.db.QueryRowContext(ctx,
		`INSERT INTO tasks (owner_id, task_text, completed)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		task.OwnerID, task.Text, task.Completed,
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("task owner does not exist", slog.Int64("owner_id", task.OwnerID))
			return fmt.Errorf("%w: %v", store.ErrUserNotFound, err)
		}
		log.Error("failed to insert task",
			slog.Int64("owner_id", task.OwnerID),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	log.Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("owner_id", task.OwnerID))
	return nil
}

// UpdateText implements store.TaskStore.UpdateText
func (s *PostgresTaskStore) UpdateText(
	ctx context.Context,
	ownerID, id int64,
	text string,
) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE tasks
		 SET task_text = $3
		 WHERE id = $1 AND owner_id = $2
		 RETURNING `+taskColumns,
		id, ownerID, text,
	)
	return s.scanUpdated(ctx, row, "update_text", ownerID, id)
}

// ToggleCompleted implements store.TaskStore.ToggleCompleted
func (s *PostgresTaskStore) ToggleCompleted(
	ctx context.Context,
	ownerID, id int64,
) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE tasks
		 SET completed = NOT completed
		 WHERE id = $1 AND owner_id = $2
		 RETURNING `+taskColumns,
		id, ownerID,
	)
	return s.scanUpdated(ctx, row, "toggle", ownerID, id)
}

func (s *PostgresTaskStore) scanUpdated(
	ctx context.Context,
	row *sql.Row,
	op string,
	ownerID, id int64,
) (*domain.Task, error) {
	task, err := scanTask(row)
	if err == nil {
		return task, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTaskNotFound
	}

	logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
		slog.String("operation", op),
		slog.Int64("task_id", id),
		slog.Int64("owner_id", ownerID),
		slog.String("error", redact.Error(err)))
	return nil, store.NewStoreError("task", op, "update failed", MapError(err))
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		log.Error("failed to delete task",
			slog.Int64("task_id", id),
			slog.Int64("owner_id", ownerID),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError("task", "delete", "delete failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// DeleteAllByOwner implements store.TaskStore.DeleteAllByOwner
func (s *PostgresTaskStore) DeleteAllByOwner(ctx context.Context, ownerID int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1`, ownerID)
	if err != nil {
		log.Error("failed to clear tasks",
			slog.Int64("owner_id", ownerID),
			slog.String("error", redact.Error(err)))
		return 0, store.NewStoreError("task", "clear", "delete failed", MapError(err))
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError("task", "clear", "rows affected unavailable", err)
	}

	log.Debug("tasks cleared",
		slog.Int64("owner_id", ownerID),
		slog.Int64("deleted", count))
	return count, nil
}
