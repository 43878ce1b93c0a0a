package viewmodel

import (
	"slices"

	"github.com/phrazzld/tasklist-api/internal/client"
)

// Event is a state transition. The set of events is closed.
type Event interface {
	isEvent()
}

// TasksLoaded replaces the task list with a fresh server copy.
type TasksLoaded struct{ Tasks []client.Task }

// TaskAdded prepends a newly created task.
type TaskAdded struct{ Task client.Task }

// TaskRenamed replaces the text of a task.
type TaskRenamed struct {
	ID   int64
	Text string
}

// TaskToggled sets the completion of a task.
type TaskToggled struct {
	ID        int64
	Completed bool
}

// TaskDeleted removes a task.
type TaskDeleted struct{ ID int64 }

// TasksCleared removes every task.
type TasksCleared struct{}

// FilterChanged selects a different filter.
type FilterChanged struct{ Filter Filter }

// Notified shows a notification, replacing any current one.
type Notified struct{ Notification Notification }

// NotificationDismissed hides the current notification.
type NotificationDismissed struct{}

// SignedOut drops all user data.
type SignedOut struct{}

func (TasksLoaded) isEvent()           {}
func (TaskAdded) isEvent()             {}
func (TaskRenamed) isEvent()           {}
func (TaskToggled) isEvent()           {}
func (TaskDeleted) isEvent()           {}
func (TasksCleared) isEvent()          {}
func (FilterChanged) isEvent()         {}
func (Notified) isEvent()              {}
func (NotificationDismissed) isEvent() {}
func (SignedOut) isEvent()             {}

// Reduce returns the state after ev. It never mutates s; events naming an
// unknown task leave the list unchanged.
func Reduce(s State, ev Event) State {
	next := s
	next.Tasks = slices.Clone(s.Tasks)

	switch e := ev.(type) {
	case TasksLoaded:
		next.Tasks = slices.Clone(e.Tasks)
	case TaskAdded:
		next.Tasks = append([]client.Task{e.Task}, next.Tasks...)
	case TaskRenamed:
		if i := indexOf(next.Tasks, e.ID); i >= 0 {
			next.Tasks[i].Text = e.Text
		}
	case TaskToggled:
		if i := indexOf(next.Tasks, e.ID); i >= 0 {
			next.Tasks[i].Completed = e.Completed
			next.Tasks[i].Status = 0
			if e.Completed {
				next.Tasks[i].Status = 1
			}
		}
	case TaskDeleted:
		next.Tasks = slices.DeleteFunc(next.Tasks, func(t client.Task) bool { return t.ID == e.ID })
	case TasksCleared:
		next.Tasks = nil
	case FilterChanged:
		next.Filter = e.Filter
	case Notified:
		next.Notification = e.Notification
	case NotificationDismissed:
		next.Notification = Notification{}
	case SignedOut:
		next = NewState()
	}
	return next
}

func indexOf(tasks []client.Task, id int64) int {
	return slices.IndexFunc(tasks, func(t client.Task) bool { return t.ID == id })
}
