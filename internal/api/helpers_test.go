package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasklist-api/internal/api/middleware"
	"github.com/phrazzld/tasklist-api/internal/api/shared"
	"github.com/phrazzld/tasklist-api/internal/config"
	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/mocks"
	"github.com/phrazzld/tasklist-api/internal/service"
	"github.com/phrazzld/tasklist-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-characters-long"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestJWTService(t *testing.T) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return svc
}

// fakeUserService implements service.UserService with overridable behavior.
type fakeUserService struct {
	RegisterFn     func(ctx context.Context, username, email, password string) (*domain.User, error)
	AuthenticateFn func(ctx context.Context, email, password string) (*domain.User, error)
}

var _ service.UserService = (*fakeUserService)(nil)

func (f *fakeUserService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	return f.RegisterFn(ctx, username, email, password)
}

func (f *fakeUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return f.AuthenticateFn(ctx, email, password)
}

// taskFixture wires a TaskHandler behind the real auth middleware.
type taskFixture struct {
	router http.Handler
	store  *mocks.MockTaskStore
	jwt    auth.JWTService
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	taskStore := mocks.NewMockTaskStore()
	taskService, err := service.NewTaskService(taskStore, testLogger())
	require.NoError(t, err)

	jwtService := newTestJWTService(t)
	handler := NewTaskHandler(taskService, testLogger())

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(jwtService).Authenticate)
		r.Get("/tasks", handler.ListTasks)
		r.Post("/tasks", handler.CreateTask)
		r.Put("/tasks/{id}", handler.RenameTask)
		r.Put("/tasks/{id}/status", handler.ToggleTask)
		r.Delete("/tasks/{id}", handler.DeleteTask)
		r.Delete("/clearalltasks", handler.ClearTasks)
	})

	return &taskFixture{router: r, store: taskStore, jwt: jwtService}
}

func (f *taskFixture) token(t *testing.T, userID int64) string {
	t.Helper()
	token, err := f.jwt.GenerateToken(context.Background(), auth.Identity{UserID: userID, Email: "u@example.com"})
	require.NoError(t, err)
	return token
}

func (f *taskFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return doRequest(t, f.router, method, path, token, body)
}

func doRequest(
	t *testing.T,
	h http.Handler,
	method, path, token string,
	body interface{},
) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, rec)
}
