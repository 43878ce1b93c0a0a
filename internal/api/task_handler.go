package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasklist-api/internal/api/shared"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/service"
)

// TaskHandler serves the owner-scoped task endpoints.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toTaskResponses(tasks))
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		handleDecodeError(w, r, err, log)
		return
	}

	// Blank and over-long text is rejected by the service.
	task, err := h.taskService.CreateTask(r.Context(), userID, req.TaskName)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add task")
		return
	}

	log.Debug("task created", slog.Int64("task_id", task.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, toTaskResponse(task))
}

// RenameTask handles PUT /tasks/{id}.
func (h *TaskHandler) RenameTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		handleDecodeError(w, r, err, log)
		return
	}

	task, err := h.taskService.RenameTask(r.Context(), userID, taskID, req.TaskName)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RenameResponse{ID: task.ID, TaskName: task.Text})
}

// ToggleTask handles PUT /tasks/{id}/status.
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.taskService.ToggleTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to toggle task status")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToggleResponse{
		ID:        task.ID,
		Status:    task.Status(),
		Completed: task.Completed,
	})
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, taskID, ok := handleUserIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeleteResponse{
		Message: "Task deleted successfully",
		ID:      taskID,
	})
}

// ClearTasks handles DELETE /clearalltasks.
func (h *TaskHandler) ClearTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	count, err := h.taskService.ClearTasks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to clear tasks")
		return
	}

	log.Info("tasks cleared", slog.Int64("deleted_count", count))
	shared.RespondWithJSON(w, r, http.StatusOK, ClearResponse{
		Message:      "All tasks cleared successfully!",
		DeletedCount: count,
	})
}
