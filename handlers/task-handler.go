package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ars-patel/TaskHub-Backend/middleware"
	"github.com/ars-patel/TaskHub-Backend/models"
	"github.com/ars-patel/TaskHub-Backend/services"
)

// TaskProvider is the slice of the task service the handler depends on.
type TaskProvider interface {
	ListTasks(ctx context.Context, user *models.User, statusFilter string) ([]services.TaskWithDetails, *services.StatusSummary, error)
	GetTask(ctx context.Context, taskID primitive.ObjectID, user *models.User) (*services.TaskWithDetails, error)
	CreateTask(ctx context.Context, user *models.User, in services.CreateTaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, taskID primitive.ObjectID, user *models.User, in services.UpdateTaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID primitive.ObjectID, user *models.User) error
	UpdateStatus(ctx context.Context, taskID primitive.ObjectID, user *models.User, status models.TaskStatus) (*models.Task, error)
	UpdateChecklist(ctx context.Context, taskID primitive.ObjectID, user *models.User, items []models.TodoItem) (*services.TaskWithDetails, error)
}

var _ TaskProvider = (*services.TaskService)(nil)

type TaskHandler struct {
	Service TaskProvider
}

func NewTaskHandler(service TaskProvider) *TaskHandler {
	return &TaskHandler{Service: service}
}

type taskRequest struct {
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Priority      models.TaskPriority `json:"priority"`
	DueDate       *time.Time          `json:"dueDate"`
	AssignedTo    json.RawMessage     `json:"assignedTo"`
	TodoChecklist []models.TodoItem   `json:"todoChecklist"`
	Attachments   []models.Attachment `json:"attachments"`
}

// parseAssignedTo enforces that assignedTo is an array of valid user id
// strings. Creation requires the field; updates may omit it, in which case
// nil is returned and the existing assignees are kept.
func parseAssignedTo(raw json.RawMessage, required bool) ([]primitive.ObjectID, bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		if required {
			return nil, false, nil
		}
		return nil, true, nil
	}
	var hexIDs []string
	if err := json.Unmarshal(raw, &hexIDs); err != nil {
		return nil, false, nil
	}
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, hex := range hexIDs {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, true, err
		}
		ids = append(ids, id)
	}
	return ids, true, nil
}

func requestUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	return user, true
}

func taskIDFromPath(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Task not found")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ListTasks handles GET /api/tasks?status=.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	tasks, summary, err := h.Service.ListTasks(r.Context(), user, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks":         tasks,
		"statusSummary": summary,
	})
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	task, err := h.Service.GetTask(r.Context(), taskID, user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Title == "" {
		writeMessage(w, http.StatusBadRequest, "Title is required")
		return
	}

	assignedTo, isArray, err := parseAssignedTo(req.AssignedTo, true)
	if !isArray {
		writeMessage(w, http.StatusBadRequest, "assignedTo must be an array of user IDs")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	in := services.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		AssignedTo:    assignedTo,
		TodoChecklist: req.TodoChecklist,
		Attachments:   req.Attachments,
	}
	if req.DueDate != nil {
		in.DueDate = *req.DueDate
	}

	task, err := h.Service.CreateTask(r.Context(), user, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task created successfully",
		"task":    task,
	})
}

// UpdateTask handles PUT /api/tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	assignedTo, isArray, err := parseAssignedTo(req.AssignedTo, false)
	if !isArray {
		writeMessage(w, http.StatusBadRequest, "assignedTo must be an array of user IDs")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	task, err := h.Service.UpdateTask(r.Context(), taskID, user, services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		AssignedTo:    assignedTo,
		TodoChecklist: req.TodoChecklist,
		Attachments:   req.Attachments,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Task updated successfully",
		"updatedTask": task,
	})
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteTask(r.Context(), taskID, user); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Task deleted successfully")
}

// UpdateStatus handles PATCH /api/tasks/{id}/status.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.Service.UpdateStatus(r.Context(), taskID, user, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task status updated",
		"task":    task,
	})
}

// UpdateChecklist handles PATCH /api/tasks/{id}/checklist.
func (h *TaskHandler) UpdateChecklist(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	var req struct {
		TodoChecklist []models.TodoItem `json:"todoChecklist"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.Service.UpdateChecklist(r.Context(), taskID, user, req.TodoChecklist)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task checklist updated",
		"task":    task,
	})
}
