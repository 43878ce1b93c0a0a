package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/mocks"
	"github.com/phrazzld/tasklist-api/internal/service"
	"github.com/phrazzld/tasklist-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthHandler_NilLoggerPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewAuthHandler(&fakeUserService{}, &mocks.MockJWTService{}, nil)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		registerFn func(ctx context.Context, username, email, password string) (*domain.User, error)
		wantStatus int
		wantError  string
	}{
		{
			name: "success",
			body: RegisterRequest{Username: "alice", Email: "a@x.com", Password: "secret"},
			registerFn: func(_ context.Context, username, email, _ string) (*domain.User, error) {
				return &domain.User{ID: 7, Username: username, Email: email}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			body: RegisterRequest{Username: "alice", Email: "a@x.com", Password: "secret"},
			registerFn: func(context.Context, string, string, string) (*domain.User, error) {
				return nil, store.ErrEmailExists
			},
			wantStatus: http.StatusConflict,
			wantError:  "Email already registered",
		},
		{
			name: "domain validation failure",
			body: RegisterRequest{Username: "alice", Email: "a@x.com", Password: "secret"},
			registerFn: func(context.Context, string, string, string) (*domain.User, error) {
				return nil, domain.ErrEmptyUsername
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "username cannot be empty",
		},
		{
			name: "store failure is not leaked",
			body: RegisterRequest{Username: "alice", Email: "a@x.com", Password: "secret"},
			registerFn: func(context.Context, string, string, string) (*domain.User, error) {
				return nil, errors.New("pq: connection to 10.0.0.1 refused")
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Registration failed",
		},
		{
			name:       "malformed json",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "missing username",
			body:       RegisterRequest{Email: "a@x.com", Password: "secret"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid username: required field",
		},
		{
			name:       "bad email",
			body:       RegisterRequest{Username: "alice", Email: "nope", Password: "secret"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid email: invalid email format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUserService{RegisterFn: tt.registerFn}
			h := NewAuthHandler(users, &mocks.MockJWTService{}, testLogger())

			rec := doRequest(t, http.HandlerFunc(h.Register), http.MethodPost, "/register", "", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusCreated {
				resp := decodeBody[RegisterResponse](t, rec)
				assert.Equal(t, "success", resp.Status)
				assert.Equal(t, int64(7), resp.UserID)
				return
			}
			errResp := decodeError(t, rec)
			assert.Equal(t, tt.wantError, errResp.Error)
			assert.NotContains(t, rec.Body.String(), "10.0.0.1")
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	expiresAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	alice := &domain.User{ID: 3, Username: "alice", Email: "a@x.com"}

	tests := []struct {
		name       string
		body       interface{}
		authFn     func(ctx context.Context, email, password string) (*domain.User, error)
		tokenErr   error
		wantStatus int
		wantError  string
	}{
		{
			name: "success",
			body: LoginRequest{Email: "a@x.com", Password: "secret"},
			authFn: func(context.Context, string, string) (*domain.User, error) {
				return alice, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "invalid credentials",
			body: LoginRequest{Email: "a@x.com", Password: "wrong"},
			authFn: func(context.Context, string, string) (*domain.User, error) {
				return nil, service.ErrInvalidCredentials
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid credentials",
		},
		{
			name: "token generation failure",
			body: LoginRequest{Email: "a@x.com", Password: "secret"},
			authFn: func(context.Context, string, string) (*domain.User, error) {
				return alice, nil
			},
			tokenErr:   errors.New("signing failed"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Login failed",
		},
		{
			name:       "missing password",
			body:       LoginRequest{Email: "a@x.com"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid password: required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUserService{AuthenticateFn: tt.authFn}
			jwtService := &mocks.MockJWTService{Token: "signed-token", ExpiresAt: expiresAt, Err: tt.tokenErr}
			h := NewAuthHandler(users, jwtService, testLogger())

			rec := doRequest(t, http.HandlerFunc(h.Login), http.MethodPost, "/login", "", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, tt.wantError, decodeError(t, rec).Error)
				return
			}
			resp := decodeBody[LoginResponse](t, rec)
			assert.Equal(t, "success", resp.Status)
			assert.Equal(t, "signed-token", resp.Token)
			assert.Equal(t, "2026-01-02T03:04:05Z", resp.ExpiresAt)
			assert.Equal(t, UserResponse{ID: 3, Username: "alice", Email: "a@x.com"}, resp.User)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	h := NewAuthHandler(&fakeUserService{}, &mocks.MockJWTService{}, testLogger())

	rec := doRequest(t, http.HandlerFunc(h.Logout), http.MethodPost, "/logout", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", decodeBody[MessageResponse](t, rec).Message)
}
