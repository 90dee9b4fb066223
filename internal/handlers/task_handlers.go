package handlers

import (
	"fmt"
	"net/http"
	"time"

	"tasksApp/internal/apiresponse"
	"tasksApp/internal/dto"
	"tasksApp/internal/logger"
	"tasksApp/internal/models/task"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	msgTasksFetched = "Tasks fetched successfully"
	msgTaskFetched  = "Task fetched successfully"
	msgTaskCreated  = "Task created successfully"
	msgTaskUpdated  = "Task updated successfully"
	msgTaskDeleted  = "Task deleted successfully"
	msgHealthy      = "Service is healthy"

	tasksPath = "/api/tasks"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
	}
}

func RegisterRoutes(r chi.Router, h *TaskHandler) {
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Route(tasksPath, func(r chi.Router) {
		r.Get("/", h.GetTasks)
		r.Post("/", h.CreateTask)
		r.Patch("/", h.UpdateTask)

		r.Get("/{id}", h.GetTaskByID)
		r.Delete("/{id}", h.DeleteTask)
	})

	r.Get("/health", h.HealthCheck)
}

// GetTasks lists every task, or only open / closed ones when ?status is given.
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status, err := statusQuery(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var tasks []*task.Task
	if status == nil {
		tasks, err = h.TaskService.FindAllTasks(r.Context())
	} else {
		tasks, err = h.TaskService.FindTasksByStatus(r.Context(), *status)
	}
	if err != nil {
		WriteError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: tasks fetched",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))

	apiresponse.Write(w, apiresponse.New(http.StatusOK, msgTasksFetched).WithData(dto.ToDtoList(tasks)))
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	t, err := h.TaskService.FindTaskByID(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	apiresponse.Write(w, apiresponse.New(http.StatusOK, msgTaskFetched).WithData(dto.ToDto(t)))
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.CreateTaskDto
	if err := decodeJSON(w, r, &request); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := request.Validate(); err != nil {
		WriteError(w, r, err)
		return
	}

	created, err := h.TaskService.CreateTask(r.Context(), request)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	logger.Info("HTTP_OUT: task created",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	w.Header().Set("Location", fmt.Sprintf("%s/%d", tasksPath, created.ID))
	apiresponse.Write(w, apiresponse.New(http.StatusCreated, msgTaskCreated))
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var request dto.UpdateTaskDto
	if err := decodeJSON(w, r, &request); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := request.Validate(); err != nil {
		WriteError(w, r, err)
		return
	}

	updated, err := h.TaskService.UpdateTask(r.Context(), request)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	apiresponse.Write(w, apiresponse.New(http.StatusOK, msgTaskUpdated).WithData(dto.ToDto(updated)))
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}

	apiresponse.Write(w, apiresponse.New(http.StatusOK, msgTaskDeleted))
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		WriteError(w, r, &RequestError{Kind: KindUnavailable, Reason: "Storage is unreachable", Err: err})
		return
	}
	apiresponse.Write(w, apiresponse.New(http.StatusOK, msgHealthy))
}

func (h *TaskHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, &RequestError{
		Kind:   KindRouteNotFound,
		Reason: fmt.Sprintf("No endpoint %s %s", r.Method, r.URL.Path),
	})
}

func (h *TaskHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, &RequestError{
		Kind:   KindMethodNotAllowed,
		Reason: fmt.Sprintf("Request method '%s' is not supported", r.Method),
	})
}
