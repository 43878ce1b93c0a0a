package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTaskTextLength is the longest task text accepted, in characters.
const MaxTaskTextLength = 255

// Task is a single entry in a user's task list.
type Task struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTask creates an uncompleted task for the given owner. The text is
// trimmed before validation.
func NewTask(ownerID int64, text string) (*Task, error) {
	if ownerID <= 0 {
		return nil, NewValidationError("owner_id", "must be positive", ErrInvalidID)
	}

	normalized, err := NormalizeTaskText(text)
	if err != nil {
		return nil, err
	}

	return &Task{
		OwnerID:   ownerID,
		Text:      normalized,
		Completed: false,
	}, nil
}

// NormalizeTaskText trims the text and checks it is non-empty and within
// MaxTaskTextLength.
func NormalizeTaskText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", NewValidationError("taskname", "cannot be empty", ErrValidation)
	}
	if utf8.RuneCountInString(trimmed) > MaxTaskTextLength {
		return "", NewValidationError("taskname", "is too long", ErrValidation)
	}
	return trimmed, nil
}

// Status returns the numeric completion flag used on the wire (1 completed, 0 pending).
func (t *Task) Status() int {
	if t.Completed {
		return 1
	}
	return 0
}
