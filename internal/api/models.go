package api

import (
	"time"

	"github.com/phrazzld/tasklist-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TaskRequest is the body of the create and rename endpoints.
type TaskRequest struct {
	TaskName string `json:"taskname" validate:"required"`
}

// RegisterResponse is returned with 201 after a successful registration.
type RegisterResponse struct {
	Status string `json:"status"`
	UserID int64  `json:"userId"`
}

// UserResponse is the public profile of a user.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	Status string `json:"status"`

	// Token is the bearer token for subsequent requests
	Token string `json:"token"`

	// ExpiresAt is the RFC 3339 timestamp when the token expires
	ExpiresAt string `json:"expiresAt"`

	User UserResponse `json:"user"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID        int64     `json:"id"`
	TaskName  string    `json:"taskname"`
	Completed bool      `json:"completed"`
	Status    int       `json:"status"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RenameResponse is returned after a task's text changes.
type RenameResponse struct {
	ID       int64  `json:"id"`
	TaskName string `json:"taskname"`
}

// ToggleResponse is returned after a task's completion flips.
type ToggleResponse struct {
	ID        int64 `json:"id"`
	Status    int   `json:"status"`
	Completed bool  `json:"completed"`
}

// DeleteResponse is returned after a single task is deleted.
type DeleteResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// ClearResponse is returned after all of a user's tasks are deleted.
type ClearResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

// HealthResponse reports service and database status.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		TaskName:  t.Text,
		Completed: t.Completed,
		Status:    t.Status(),
		UserID:    t.OwnerID,
		CreatedAt: t.CreatedAt,
	}
}

func toTaskResponses(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}
