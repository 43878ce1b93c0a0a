package client

import "time"

// User is the public profile returned at login.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Task is a task as returned by the API.
type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"taskname"`
	Completed bool      `json:"completed"`
	Status    int       `json:"status"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Renamed is the result of a rename.
type Renamed struct {
	ID   int64  `json:"id"`
	Text string `json:"taskname"`
}

// Toggled is the result of a completion toggle.
type Toggled struct {
	ID        int64 `json:"id"`
	Status    int   `json:"status"`
	Completed bool  `json:"completed"`
}

// Health is the server health report.
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type taskBody struct {
	TaskName string `json:"taskname"`
}

type registerResponse struct {
	Status string `json:"status"`
	UserID int64  `json:"userId"`
}

type loginResponse struct {
	Status    string    `json:"status"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type clearResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}
