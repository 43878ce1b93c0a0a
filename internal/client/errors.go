package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSignedOut is returned when the server rejected the session token.
	// The stored session has been cleared by the time it is returned.
	ErrSignedOut = errors.New("signed out: session is no longer valid")

	// ErrNotSignedIn is returned by operations that need a session when none exists.
	ErrNotSignedIn = errors.New("not signed in")
)

// APIError is an HTTP error response from the server.
type APIError struct {
	StatusCode int
	Message    string
	// Reason is the machine-readable rejection reason of auth failures
	// (no_token, invalid_token, session_expired), empty otherwise.
	Reason string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Reason != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Reason, msg)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

// IsAuthError reports whether the status code means the token was rejected.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// StatusCode returns the HTTP status of err if it wraps an APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
