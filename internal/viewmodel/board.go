package viewmodel

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/phrazzld/tasklist-api/internal/client"
)

// ErrEmptyTask is returned by Add and Rename for blank text.
var ErrEmptyTask = errors.New("task text cannot be empty")

// TaskAPI is the part of client.Client the board uses.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]client.Task, error)
	CreateTask(ctx context.Context, text string) (*client.Task, error)
	RenameTask(ctx context.Context, id int64, text string) (*client.Renamed, error)
	ToggleTask(ctx context.Context, id int64) (*client.Toggled, error)
	DeleteTask(ctx context.Context, id int64) error
	ClearTasks(ctx context.Context) (int64, error)
}

var _ TaskAPI = (*client.Client)(nil)

// Board issues API calls and reconciles their results into State.
// Failed calls leave the tasks untouched and post an error notification;
// a rejected session resets the state.
type Board struct {
	api    TaskAPI
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// NewBoard creates a board with an empty state.
func NewBoard(api TaskAPI, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}
	return &Board{
		api:    api,
		logger: logger.With(slog.String("component", "board")),
		state:  NewState(),
	}
}

// State returns a snapshot of the current state.
func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	snapshot := b.state
	snapshot.Tasks = slices.Clone(b.state.Tasks)
	return snapshot
}

func (b *Board) dispatch(events ...Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ev := range events {
		b.state = Reduce(b.state, ev)
	}
}

func success(msg string) Event {
	return Notified{Notification: Notification{Message: msg, Kind: KindSuccess}}
}

func info(msg string) Event {
	return Notified{Notification: Notification{Message: msg, Kind: KindInfo}}
}

// fail records a failed call. Auth failures sign the user out.
func (b *Board) fail(op, msg string, err error) error {
	b.logger.Debug("board operation failed", slog.String("operation", op), slog.String("error", err.Error()))

	var apiErr *client.APIError
	if errors.Is(err, client.ErrSignedOut) || (errors.As(err, &apiErr) && apiErr.IsAuthError()) {
		b.dispatch(SignedOut{}, Notified{Notification: Notification{
			Message: "Session expired. Please sign in again.",
			Kind:    KindError,
		}})
		return err
	}

	b.dispatch(Notified{Notification: Notification{Message: msg, Kind: KindError}})
	return err
}

// Load fetches the task list.
func (b *Board) Load(ctx context.Context) error {
	tasks, err := b.api.ListTasks(ctx)
	if err != nil {
		return b.fail("load", "Failed to fetch tasks!", err)
	}
	b.dispatch(TasksLoaded{Tasks: tasks})
	return nil
}

// Add creates a task and prepends it.
func (b *Board) Add(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		b.dispatch(Notified{Notification: Notification{Message: "Task cannot be empty", Kind: KindError}})
		return ErrEmptyTask
	}

	task, err := b.api.CreateTask(ctx, text)
	if err != nil {
		return b.fail("add", "Failed to add task!", err)
	}
	b.dispatch(TaskAdded{Task: *task}, success("Task added successfully!"))
	return nil
}

// Rename replaces a task's text.
func (b *Board) Rename(ctx context.Context, id int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		b.dispatch(Notified{Notification: Notification{Message: "Task cannot be empty", Kind: KindError}})
		return ErrEmptyTask
	}

	renamed, err := b.api.RenameTask(ctx, id, text)
	if err != nil {
		return b.fail("rename", "Failed to update task!", err)
	}
	b.dispatch(TaskRenamed{ID: renamed.ID, Text: renamed.Text}, success("Task updated successfully!"))
	return nil
}

// Toggle flips a task's completion.
func (b *Board) Toggle(ctx context.Context, id int64) error {
	toggled, err := b.api.ToggleTask(ctx, id)
	if err != nil {
		return b.fail("toggle", "Failed to update status!", err)
	}

	note := info("Marked as pending")
	if toggled.Completed {
		note = info("Marked as completed!")
	}
	b.dispatch(TaskToggled{ID: toggled.ID, Completed: toggled.Completed}, note)
	return nil
}

// Delete removes a task.
func (b *Board) Delete(ctx context.Context, id int64) error {
	if err := b.api.DeleteTask(ctx, id); err != nil {
		return b.fail("delete", "Failed to delete task!", err)
	}
	b.dispatch(TaskDeleted{ID: id}, success("Task deleted!"))
	return nil
}

// Clear removes every task and returns how many the server deleted.
func (b *Board) Clear(ctx context.Context) (int64, error) {
	count, err := b.api.ClearTasks(ctx)
	if err != nil {
		return 0, b.fail("clear", "Failed to clear tasks!", err)
	}
	b.dispatch(TasksCleared{}, success("All tasks cleared!"))
	return count, nil
}

// SetFilter changes the visible subset.
func (b *Board) SetFilter(f Filter) {
	b.dispatch(FilterChanged{Filter: f})
}

// Dismiss hides the current notification.
func (b *Board) Dismiss() {
	b.dispatch(NotificationDismissed{})
}
