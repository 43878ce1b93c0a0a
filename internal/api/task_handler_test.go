package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/phrazzld/tasklist-api/internal/api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskHandler_NilLoggerPanics(t *testing.T) {
	assert.Panics(t, func() { NewTaskHandler(nil, nil) })
}

func TestTaskHandler_Lifecycle(t *testing.T) {
	f := newTaskFixture(t)
	token := f.token(t, 1)

	rec := f.do(t, http.MethodPost, "/tasks", token, TaskRequest{TaskName: "  buy milk  "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[TaskResponse](t, rec)
	assert.Positive(t, created.ID)
	assert.Equal(t, "buy milk", created.TaskName)
	assert.False(t, created.Completed)
	assert.Equal(t, 0, created.Status)
	assert.Equal(t, int64(1), created.UserID)

	rec = f.do(t, http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]TaskResponse](t, rec), 1)

	path := fmt.Sprintf("/tasks/%d", created.ID)
	rec = f.do(t, http.MethodPut, path, token, TaskRequest{TaskName: "buy oat milk"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, RenameResponse{ID: created.ID, TaskName: "buy oat milk"}, decodeBody[RenameResponse](t, rec))

	rec = f.do(t, http.MethodPut, path+"/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ToggleResponse{ID: created.ID, Status: 1, Completed: true}, decodeBody[ToggleResponse](t, rec))

	rec = f.do(t, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DeleteResponse{Message: "Task deleted successfully", ID: created.ID},
		decodeBody[DeleteResponse](t, rec))

	rec = f.do(t, http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestTaskHandler_CreateValidation(t *testing.T) {
	f := newTaskFixture(t)
	token := f.token(t, 1)

	tests := []struct {
		name      string
		body      interface{}
		wantError string
	}{
		{"blank text", TaskRequest{TaskName: "   "}, "taskname cannot be empty"},
		{"missing text", map[string]string{}, "taskname cannot be empty"},
		{"too long", TaskRequest{TaskName: strings.Repeat("x", 256)}, "taskname is too long"},
		{"malformed json", "[", "Invalid request format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/tasks", token, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantError, decodeError(t, rec).Error)
		})
	}
}

func TestTaskHandler_OtherOwnersTasksAreNotFound(t *testing.T) {
	f := newTaskFixture(t)
	alice := f.token(t, 1)
	bob := f.token(t, 2)

	rec := f.do(t, http.MethodPost, "/tasks", alice, TaskRequest{TaskName: "private"})
	require.Equal(t, http.StatusCreated, rec.Code)
	path := fmt.Sprintf("/tasks/%d", decodeBody[TaskResponse](t, rec).ID)

	tests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodPut, path, TaskRequest{TaskName: "hijacked"}},
		{http.MethodPut, path + "/status", nil},
		{http.MethodDelete, path, nil},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.path, bob, tt.body)
			require.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "Task not found", decodeError(t, rec).Error)
		})
	}

	rec = f.do(t, http.MethodGet, "/tasks", bob, nil)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/tasks", alice, nil)
	tasks := decodeBody[[]TaskResponse](t, rec)
	require.Len(t, tasks, 1)
	assert.Equal(t, "private", tasks[0].TaskName)
	assert.False(t, tasks[0].Completed)
}

func TestTaskHandler_InvalidPathID(t *testing.T) {
	f := newTaskFixture(t)
	token := f.token(t, 1)

	for _, id := range []string{"abc", "0", "-4"} {
		t.Run(id, func(t *testing.T) {
			rec := f.do(t, http.MethodPut, "/tasks/"+id+"/status", token, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestTaskHandler_ClearIsIdempotent(t *testing.T) {
	f := newTaskFixture(t)
	token := f.token(t, 1)
	other := f.token(t, 2)

	for _, text := range []string{"a", "b"} {
		rec := f.do(t, http.MethodPost, "/tasks", token, TaskRequest{TaskName: text})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := f.do(t, http.MethodPost, "/tasks", other, TaskRequest{TaskName: "keep"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodDelete, "/clearalltasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ClearResponse{Message: "All tasks cleared successfully!", DeletedCount: 2},
		decodeBody[ClearResponse](t, rec))

	rec = f.do(t, http.MethodDelete, "/clearalltasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), decodeBody[ClearResponse](t, rec).DeletedCount)

	rec = f.do(t, http.MethodGet, "/tasks", other, nil)
	assert.Len(t, decodeBody[[]TaskResponse](t, rec), 1)
}

func TestTaskHandler_StoreFailureUsesFallbackMessage(t *testing.T) {
	f := newTaskFixture(t)
	token := f.token(t, 1)
	f.store.Err = errors.New("dial tcp 10.1.2.3:5432: connection refused")

	tests := []struct {
		method  string
		path    string
		body    interface{}
		wantMsg string
	}{
		{http.MethodGet, "/tasks", nil, "Failed to fetch tasks"},
		{http.MethodPost, "/tasks", TaskRequest{TaskName: "x"}, "Failed to add task"},
		{http.MethodPut, "/tasks/1", TaskRequest{TaskName: "x"}, "Failed to update task"},
		{http.MethodPut, "/tasks/1/status", nil, "Failed to toggle task status"},
		{http.MethodDelete, "/tasks/1", nil, "Failed to delete task"},
		{http.MethodDelete, "/clearalltasks", nil, "Failed to clear tasks"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.path, token, tt.body)
			require.Equal(t, http.StatusInternalServerError, rec.Code)
			errResp := decodeError(t, rec)
			assert.Equal(t, tt.wantMsg, errResp.Error)
			assert.NotEmpty(t, errResp.TraceID)
			assert.NotContains(t, rec.Body.String(), "10.1.2.3")
		})
	}
}

func TestTaskHandler_RequiresIdentity(t *testing.T) {
	h := NewTaskHandler(nil, testLogger())

	rec := doRequest(t, http.HandlerFunc(h.ListTasks), http.MethodGet, "/tasks", "", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access denied. No token provided.", decodeError(t, rec).Error)
}

func TestTaskHandler_RejectsMissingToken(t *testing.T) {
	f := newTaskFixture(t)

	rec := f.do(t, http.MethodGet, "/tasks", "", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, shared.ReasonNoToken, decodeError(t, rec).Reason)
}
