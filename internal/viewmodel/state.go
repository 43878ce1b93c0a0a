package viewmodel

import (
	"fmt"

	"github.com/phrazzld/tasklist-api/internal/client"
)

// Filter selects which tasks are visible.
type Filter string

// Supported filters.
const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

// ParseFilter validates a filter name.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case FilterAll, FilterCompleted, FilterPending:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q: want all, completed or pending", s)
	}
}

// NotificationKind is the severity of a notification.
type NotificationKind string

// Notification kinds.
const (
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
	KindInfo    NotificationKind = "info"
)

// Notification is a transient message for the user. The zero value means
// nothing to show.
type Notification struct {
	Message string
	Kind    NotificationKind
}

// Empty reports whether there is nothing to show.
func (n Notification) Empty() bool {
	return n.Message == ""
}

// State is the task list as seen by the client. Tasks are newest first.
type State struct {
	Tasks        []client.Task
	Filter       Filter
	Notification Notification
}

// NewState returns the initial state.
func NewState() State {
	return State{Filter: FilterAll}
}

// Stats are the dashboard counts derived from a State.
type Stats struct {
	Total     int
	Completed int
	Pending   int
	// Percent is the completed share rounded half-up, 0 for an empty list.
	Percent int
}

// Stats derives the dashboard counts.
func (s State) Stats() Stats {
	st := Stats{Total: len(s.Tasks)}
	for _, t := range s.Tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Pending = st.Total - st.Completed
	st.Percent = completionPercent(st.Completed, st.Total)
	return st
}

// completionPercent computes round(100*completed/total) with halves
// rounded up, in integer arithmetic.
func completionPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return (200*completed + total) / (2 * total)
}

// Visible returns the tasks selected by the current filter.
func (s State) Visible() []client.Task {
	out := make([]client.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		switch s.Filter {
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		case FilterPending:
			if t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
