package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ars-patel/TaskHub-Backend/models"
)

// TaskService implements the task lifecycle: creation, tenant-scoped listing,
// patching, status and checklist updates.
type TaskService struct {
	Tasks *mongo.Collection
	Users *mongo.Collection
}

func NewTaskService(tasks, users *mongo.Collection) *TaskService {
	return &TaskService{Tasks: tasks, Users: users}
}

// TaskWithDetails is the listing projection: assignees resolved to display
// fields plus the completed checklist item count.
type TaskWithDetails struct {
	models.Task
	AssignedTo         []models.UserRef `json:"assignedTo"`
	CompletedTodoCount int              `json:"completedTodoCount"`
}

// StatusSummary counts tasks per status bucket over the caller's scope.
type StatusSummary struct {
	All             int64 `json:"all"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

// ListTasks returns the tasks visible to the user, sorted by ascending due
// date. Admins see the whole tenant; members only the tasks assigned to them.
// The summary always covers the unfiltered scope, regardless of statusFilter.
func (s *TaskService) ListTasks(ctx context.Context, user *models.User, statusFilter string) ([]TaskWithDetails, *StatusSummary, error) {
	tenant, err := user.TenantID()
	if err != nil {
		return nil, nil, err
	}

	scope := bson.M{"admin": tenant}
	if user.Role != models.RoleAdmin {
		scope["assignedTo"] = user.ID
	}

	filter := bson.M{}
	for k, v := range scope {
		filter[k] = v
	}
	if statusFilter != "" && statusFilter != "All" {
		filter["status"] = statusFilter
	}

	cursor, err := s.Tasks.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}}))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, nil, fmt.Errorf("failed to decode tasks: %v", err)
	}

	detailed, err := s.withDetails(ctx, tasks)
	if err != nil {
		return nil, nil, err
	}

	summary := &StatusSummary{}
	if summary.All, err = s.Tasks.CountDocuments(ctx, scope); err != nil {
		return nil, nil, fmt.Errorf("failed to count tasks: %v", err)
	}
	counts := []struct {
		status models.TaskStatus
		dest   *int64
	}{
		{models.StatusPending, &summary.PendingTasks},
		{models.StatusInProgress, &summary.InProgressTasks},
		{models.StatusCompleted, &summary.CompletedTasks},
	}
	for _, c := range counts {
		withStatus := bson.M{"status": c.status}
		for k, v := range scope {
			withStatus[k] = v
		}
		if *c.dest, err = s.Tasks.CountDocuments(ctx, withStatus); err != nil {
			return nil, nil, fmt.Errorf("failed to count tasks: %v", err)
		}
	}

	return detailed, summary, nil
}

// GetTask fetches a single task, enforcing the caller's tenant scope.
func (s *TaskService) GetTask(ctx context.Context, taskID primitive.ObjectID, user *models.User) (*TaskWithDetails, error) {
	var task models.Task
	if err := s.Tasks.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		return nil, lookupErr(err, ErrTaskNotFound)
	}

	tenant, err := user.TenantID()
	if err != nil {
		return nil, err
	}
	if task.Admin != tenant {
		return nil, ErrNotAuthorized
	}

	detailed, err := s.withDetails(ctx, []models.Task{task})
	if err != nil {
		return nil, err
	}
	return &detailed[0], nil
}

type CreateTaskInput struct {
	Title         string
	Description   string
	Priority      models.TaskPriority
	DueDate       time.Time
	AssignedTo    []primitive.ObjectID
	TodoChecklist []models.TodoItem
	Attachments   []models.Attachment
}

// CreateTask creates a task owned by the admin's tenant. Only admins create.
func (s *TaskService) CreateTask(ctx context.Context, user *models.User, in CreateTaskInput) (*models.Task, error) {
	if user.Role != models.RoleAdmin {
		return nil, ErrNotAuthorized
	}

	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if in.AssignedTo == nil {
		in.AssignedTo = []primitive.ObjectID{}
	}
	if in.TodoChecklist == nil {
		in.TodoChecklist = []models.TodoItem{}
	}

	now := time.Now()
	task := &models.Task{
		ID:            primitive.NewObjectID(),
		Title:         in.Title,
		Description:   in.Description,
		Priority:      in.Priority,
		Status:        models.StatusPending,
		DueDate:       in.DueDate,
		Admin:         user.ID,
		CreatedBy:     user.ID,
		AssignedTo:    in.AssignedTo,
		TodoChecklist: in.TodoChecklist,
		Progress:      0,
		Attachments:   in.Attachments,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := s.Tasks.InsertOne(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}
	return task, nil
}

type UpdateTaskInput struct {
	Title         string
	Description   string
	Priority      models.TaskPriority
	DueDate       *time.Time
	AssignedTo    []primitive.ObjectID
	TodoChecklist []models.TodoItem
	Attachments   []models.Attachment
}

// UpdateTask applies a full-field patch. Restricted to the owning admin.
func (s *TaskService) UpdateTask(ctx context.Context, taskID primitive.ObjectID, user *models.User, in UpdateTaskInput) (*models.Task, error) {
	task, err := s.ownedTask(ctx, taskID, user)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		task.Title = in.Title
	}
	if in.Description != "" {
		task.Description = in.Description
	}
	if in.Priority != "" {
		task.Priority = in.Priority
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}
	if in.TodoChecklist != nil {
		task.TodoChecklist = in.TodoChecklist
	}
	if in.Attachments != nil {
		task.Attachments = in.Attachments
	}
	if in.AssignedTo != nil {
		task.AssignedTo = in.AssignedTo
	}
	task.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"title":         task.Title,
		"description":   task.Description,
		"priority":      task.Priority,
		"dueDate":       task.DueDate,
		"assignedTo":    task.AssignedTo,
		"todoChecklist": task.TodoChecklist,
		"attachments":   task.Attachments,
		"updatedAt":     task.UpdatedAt,
	}}
	if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": taskID}, update); err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}
	return task, nil
}

// DeleteTask removes a task. Restricted to the owning admin.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID, user *models.User) error {
	if _, err := s.ownedTask(ctx, taskID, user); err != nil {
		return err
	}
	if _, err := s.Tasks.DeleteOne(ctx, bson.M{"_id": taskID}); err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	return nil
}

// UpdateStatus sets the task status. Allowed for the owning admin and for
// assigned members. Forcing Completed marks every checklist item done and
// progress 100.
func (s *TaskService) UpdateStatus(ctx context.Context, taskID primitive.ObjectID, user *models.User, status models.TaskStatus) (*models.Task, error) {
	task, err := s.assignedOrAdminTask(ctx, taskID, user)
	if err != nil {
		return nil, err
	}

	if status != "" {
		task.Status = status
	}
	if task.Status == models.StatusCompleted {
		for i := range task.TodoChecklist {
			task.TodoChecklist[i].Completed = true
		}
		task.Progress = 100
	}
	task.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"status":        task.Status,
		"todoChecklist": task.TodoChecklist,
		"progress":      task.Progress,
		"updatedAt":     task.UpdatedAt,
	}}
	if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": taskID}, update); err != nil {
		return nil, fmt.Errorf("failed to update task status: %v", err)
	}
	return task, nil
}

// UpdateChecklist replaces the checklist wholesale and recomputes progress and
// status from it. The derivation always wins over a manually set status.
func (s *TaskService) UpdateChecklist(ctx context.Context, taskID primitive.ObjectID, user *models.User, items []models.TodoItem) (*TaskWithDetails, error) {
	task, err := s.assignedOrAdminTask(ctx, taskID, user)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []models.TodoItem{}
	}
	task.TodoChecklist = items
	task.Progress = models.ChecklistProgress(items)
	task.Status = models.StatusForProgress(task.Progress)
	task.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"todoChecklist": task.TodoChecklist,
		"progress":      task.Progress,
		"status":        task.Status,
		"updatedAt":     task.UpdatedAt,
	}}
	if _, err := s.Tasks.UpdateOne(ctx, bson.M{"_id": taskID}, update); err != nil {
		return nil, fmt.Errorf("failed to update checklist: %v", err)
	}

	detailed, err := s.withDetails(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &detailed[0], nil
}

// ownedTask loads a task and verifies the caller is its owning admin.
func (s *TaskService) ownedTask(ctx context.Context, taskID primitive.ObjectID, user *models.User) (*models.Task, error) {
	var task models.Task
	if err := s.Tasks.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		return nil, lookupErr(err, ErrTaskNotFound)
	}
	if user.Role != models.RoleAdmin || task.Admin != user.ID {
		return nil, ErrNotAuthorized
	}
	return &task, nil
}

// assignedOrAdminTask loads a task and verifies the caller belongs to its
// tenant and is either the admin or one of the assignees.
func (s *TaskService) assignedOrAdminTask(ctx context.Context, taskID primitive.ObjectID, user *models.User) (*models.Task, error) {
	var task models.Task
	if err := s.Tasks.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		return nil, lookupErr(err, ErrTaskNotFound)
	}
	tenant, err := user.TenantID()
	if err != nil {
		return nil, err
	}
	if task.Admin != tenant {
		return nil, ErrNotAuthorized
	}
	if user.Role != models.RoleAdmin && !task.IsAssignedTo(user.ID) {
		return nil, ErrNotAuthorized
	}
	return &task, nil
}

// withDetails resolves assignee identities in one batched query and decorates
// each task with its completed checklist count.
func (s *TaskService) withDetails(ctx context.Context, tasks []models.Task) ([]TaskWithDetails, error) {
	ids := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]bool)
	for _, task := range tasks {
		for _, id := range task.AssignedTo {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	refs, err := resolveUserRefs(ctx, s.Users, ids)
	if err != nil {
		return nil, err
	}

	detailed := make([]TaskWithDetails, 0, len(tasks))
	for _, task := range tasks {
		assignees := make([]models.UserRef, 0, len(task.AssignedTo))
		for _, id := range task.AssignedTo {
			if ref, ok := refs[id]; ok {
				assignees = append(assignees, ref)
			}
		}
		detailed = append(detailed, TaskWithDetails{
			Task:               task,
			AssignedTo:         assignees,
			CompletedTodoCount: task.CompletedTodoCount(),
		})
	}
	return detailed, nil
}

// resolveUserRefs fetches the display projection for a set of user ids.
func resolveUserRefs(ctx context.Context, users *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error) {
	refs := make(map[primitive.ObjectID]models.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	projection := options.Find().SetProjection(bson.M{"name": 1, "email": 1, "profileImageUrl": 1})
	cursor, err := users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, projection)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve users: %v", err)
	}
	defer cursor.Close(ctx)

	var found []models.UserRef
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode users: %v", err)
	}
	for _, ref := range found {
		refs[ref.ID] = ref
	}
	return refs, nil
}
