package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer is a minimal in-memory task list API.
type fakeServer struct {
	mu     sync.Mutex
	tasks  []map[string]interface{}
	nextID int
	token  string
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+f.token {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "Invalid token", "reason": "invalid_token"})
				return
			}
			f.mu.Lock()
			defer f.mu.Unlock()
			next(w, r)
		}
	}

	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success", "token": f.token,
			"user": map[string]interface{}{"id": 1, "username": "alice", "email": "a@x.com"},
		})
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	})
	mux.HandleFunc("GET /tasks", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.tasks)
	}))
	mux.HandleFunc("POST /tasks", authed(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.nextID++
		task := map[string]interface{}{"id": f.nextID, "taskname": body["taskname"], "completed": false}
		f.tasks = append([]map[string]interface{}{task}, f.tasks...)
		writeJSON(w, http.StatusCreated, task)
	}))
	mux.HandleFunc("PUT /tasks/{id}/status", authed(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		for _, t := range f.tasks {
			if t["id"] == id {
				t["completed"] = !t["completed"].(bool)
				writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "completed": t["completed"]})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Task not found"})
	}))
	return mux
}

func runCLI(t *testing.T, srvURL, session string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-api", srvURL, "-session", session}, args...)
	code := run(context.Background(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Workflow(t *testing.T) {
	fake := &fakeServer{token: "tok"}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()
	session := filepath.Join(t.TempDir(), "session.json")

	code, out, _ := runCLI(t, srv.URL, session, "login", "a@x.com", "secret")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Welcome, alice")

	code, out, _ = runCLI(t, srv.URL, session, "add", "buy", "milk")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Task added successfully!")

	code, out, _ = runCLI(t, srv.URL, session, "toggle", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Marked as completed!")

	code, out, _ = runCLI(t, srv.URL, session, "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Total: 1  Completed: 1  Pending: 0  Progress: 100%")
	assert.Contains(t, out, "[x]    1  buy milk")

	code, out, _ = runCLI(t, srv.URL, session, "list", "pending")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No pending tasks.")

	code, out, _ = runCLI(t, srv.URL, session, "logout")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Logged out successfully")

	code, _, errOut := runCLI(t, srv.URL, session, "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not signed in")
}

func TestRun_RejectedSession(t *testing.T) {
	fake := &fakeServer{token: "tok"}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()
	session := filepath.Join(t.TempDir(), "session.json")

	code, _, _ := runCLI(t, srv.URL, session, "login", "a@x.com", "secret")
	require.Equal(t, 0, code)

	fake.token = "rotated"
	code, _, errOut := runCLI(t, srv.URL, session, "stats")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "session expired")

	code, _, errOut = runCLI(t, srv.URL, session, "stats")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not signed in")
}

func TestRun_UsageErrors(t *testing.T) {
	session := filepath.Join(t.TempDir(), "session.json")

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"login without args", []string{"login"}},
		{"unknown flag", []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, "http://localhost:1", session, tt.args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, errOut, "usage: taskctl")
		})
	}
}

func TestRun_LocallyExpiredSession(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	session := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(session, []byte(`{
		"token": "tok",
		"user": {"id": 1, "username": "alice", "email": "a@x.com"},
		"expiresAt": "2020-01-01T00:00:00Z"
	}`), 0o600))

	code, _, errOut := runCLI(t, srv.URL, session, "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "session expired")
	assert.Zero(t, hits.Load())

	_, err := os.Stat(session)
	assert.True(t, os.IsNotExist(err))
}
