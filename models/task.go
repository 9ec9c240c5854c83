package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

type TodoItem struct {
	Text      string `bson:"text" json:"text"`
	Completed bool   `bson:"completed" json:"completed"`
}

type Attachment struct {
	FileName string `bson:"fileName,omitempty" json:"fileName,omitempty"`
	FileURL  string `bson:"fileUrl,omitempty" json:"fileUrl,omitempty"`
	FileType string `bson:"fileType,omitempty" json:"fileType,omitempty"`
	FileSize int64  `bson:"fileSize,omitempty" json:"fileSize,omitempty"`
}

type Task struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title         string               `bson:"title" json:"title"`
	Description   string               `bson:"description,omitempty" json:"description,omitempty"`
	Priority      TaskPriority         `bson:"priority" json:"priority"`
	Status        TaskStatus           `bson:"status" json:"status"`
	DueDate       time.Time            `bson:"dueDate" json:"dueDate"`
	Admin         primitive.ObjectID   `bson:"admin" json:"admin"`
	CreatedBy     primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	AssignedTo    []primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	TodoChecklist []TodoItem           `bson:"todoChecklist" json:"todoChecklist"`
	Progress      int                  `bson:"progress" json:"progress"`
	Attachments   []Attachment         `bson:"attachments,omitempty" json:"attachments,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// CompletedTodoCount returns how many checklist items are done.
func (t *Task) CompletedTodoCount() int {
	count := 0
	for _, item := range t.TodoChecklist {
		if item.Completed {
			count++
		}
	}
	return count
}

// ChecklistProgress computes the 0-100 completion percentage of a checklist.
// An empty checklist counts as 0.
func ChecklistProgress(items []TodoItem) int {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(items)) * 100))
}

// StatusForProgress derives the task status from its progress percentage.
func StatusForProgress(progress int) TaskStatus {
	switch {
	case progress == 100:
		return StatusCompleted
	case progress > 0:
		return StatusInProgress
	default:
		return StatusPending
	}
}

// IsAssignedTo reports whether the given user appears in the assignee set.
func (t *Task) IsAssignedTo(userID primitive.ObjectID) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}
