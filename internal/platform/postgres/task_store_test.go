package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/platform/postgres"
	"github.com/phrazzld/tasklist-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskCols = []string{"id", "owner_id", "task_text", "completed", "created_at"}

func newTaskStore(t *testing.T) (*postgres.PostgresTaskStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return postgres.NewPostgresTaskStore(db, nil), mock
}

func TestPostgresTaskStore_ListByOwner(t *testing.T) {
	ctx := context.Background()
	newer := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	t.Run("returns owner tasks newest first", func(t *testing.T) {
		s, mock := newTaskStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(
			"FROM tasks WHERE owner_id = $1 ORDER BY created_at DESC, id DESC",
		)).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(taskCols).
				AddRow(int64(2), int64(7), "walk dog", true, newer).
				AddRow(int64(1), int64(7), "buy milk", false, older))

		tasks, err := s.ListByOwner(ctx, 7)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, int64(2), tasks[0].ID)
		assert.True(t, tasks[0].Completed)
		assert.Equal(t, "buy milk", tasks[1].Text)
		assert.Equal(t, int64(7), tasks[1].OwnerID)
	})

	t.Run("empty list is not an error", func(t *testing.T) {
		s, mock := newTaskStore(t)
		mock.ExpectQuery("FROM tasks").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(taskCols))

		tasks, err := s.ListByOwner(ctx, 7)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("query failure", func(t *testing.T) {
		s, mock := newTaskStore(t)
		mock.ExpectQuery("FROM tasks").
			WithArgs(int64(7)).
			WillReturnError(errors.New("connection refused"))

		_, err := s.ListByOwner(ctx, 7)
		require.Error(t, err)
		var storeErr *store.StoreError
		assert.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "list", storeErr.Operation)
	})
}

func TestPostgresTaskStore_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("inserts trimmed text", func(t *testing.T) {
		s, mock := newTaskStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks (owner_id, task_text, completed)")).
			WithArgs(int64(7), "buy milk", false).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), created))

		task := &domain.Task{OwnerID: 7, Text: "  buy milk  "}
		require.NoError(t, s.Create(ctx, task))
		assert.Equal(t, int64(11), task.ID)
		assert.Equal(t, "buy milk", task.Text)
		assert.Equal(t, created, task.CreatedAt)
	})

	t.Run("rejects empty text without touching the database", func(t *testing.T) {
		s, _ := newTaskStore(t)
		err := s.Create(ctx, &domain.Task{OwnerID: 7, Text: "   "})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing owner", func(t *testing.T) {
		s, mock := newTaskStore(t)
		mock.ExpectQuery("INSERT INTO tasks").
			WithArgs(int64(42), "orphan", false).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "tasks_owner_id_fkey"})

		err := s.Create(ctx, &domain.Task{OwnerID: 42, Text: "orphan"})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.NotErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestPostgresTaskStore_ToggleCompleted(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("flips in a single statement", func(t *testing.T) {
		s, mock := newTaskStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(
			"UPDATE tasks SET completed = NOT completed WHERE id = $1 AND owner_id = $2",
		)).
			WithArgs(int64(3), int64(7)).
			WillReturnRows(sqlmock.NewRows(taskCols).AddRow(int64(3), int64(7), "buy milk", true, created))

		task, err := s.ToggleCompleted(ctx, 7, 3)
		require.NoError(t, err)
		assert.True(t, task.Completed)
	})

	t.Run("other owner is not found", func(t *testing.T) {
		s, mock := newTaskStore(t)
		mock.ExpectQuery("UPDATE tasks").
			WithArgs(int64(3), int64(8)).
			WillReturnRows(sqlmock.NewRows(taskCols))

		_, err := s.ToggleCompleted(ctx, 8, 3)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestPostgresTaskStore_UpdateText(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("updates text", func(t *testing.T) {
		s, mock := newTaskStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("SET task_text = $3 WHERE id = $1 AND owner_id = $2")).
			WithArgs(int64(3), int64(7), "buy oat milk").
			WillReturnRows(sqlmock.NewRows(taskCols).AddRow(int64(3), int64(7), "buy oat milk", false, created))

		task, err := s.UpdateText(ctx, 7, 3, "buy oat milk")
		require.NoError(t, err)
		assert.Equal(t, "buy oat milk", task.Text)
	})

	t.Run("missing row", func(t *testing.T) {
		s, mock := newTaskStore(t)
		mock.ExpectQuery("UPDATE tasks").
			WithArgs(int64(99), int64(7), "x").
			WillReturnRows(sqlmock.NewRows(taskCols))

		_, err := s.UpdateText(ctx, 7, 99, "x")
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("database failure is not reported as not found", func(t *testing.T) {
		s, mock := newTaskStore(t)
		mock.ExpectQuery("UPDATE tasks").
			WithArgs(int64(3), int64(7), "x").
			WillReturnError(errors.New("boom"))

		_, err := s.UpdateText(ctx, 7, 3, "x")
		require.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrNotFound)
	})
}

func TestPostgresTaskStore_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes owned task", func(t *testing.T) {
		s, mock := newTaskStore(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1 AND owner_id = $2")).
			WithArgs(int64(3), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Delete(ctx, 7, 3))
	})

	t.Run("no matching row", func(t *testing.T) {
		s, mock := newTaskStore(t)
		mock.ExpectExec("DELETE FROM tasks").
			WithArgs(int64(3), int64(8)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Delete(ctx, 8, 3), store.ErrTaskNotFound)
	})
}

func TestPostgresTaskStore_DeleteAllByOwner(t *testing.T) {
	ctx := context.Background()
	s, mock := newTaskStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE owner_id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE owner_id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	count, err := s.DeleteAllByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = s.DeleteAllByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
