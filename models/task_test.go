package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ars-patel/TaskHub-Backend/models"
)

func TestChecklistProgress(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.TodoItem
		expected int
	}{
		{"empty checklist", []models.TodoItem{}, 0},
		{"nil checklist", nil, 0},
		{"none completed", []models.TodoItem{{Completed: false}, {Completed: false}}, 0},
		{"half completed", []models.TodoItem{{Completed: true}, {Completed: false}}, 50},
		{"all completed", []models.TodoItem{{Completed: true}, {Completed: true}}, 100},
		{"one of three", []models.TodoItem{{Completed: true}, {Completed: false}, {Completed: false}}, 33},
		{"two of three", []models.TodoItem{{Completed: true}, {Completed: true}, {Completed: false}}, 67},
		{"single item done", []models.TodoItem{{Completed: true}}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.ChecklistProgress(tt.items))
		})
	}
}

func TestStatusForProgress(t *testing.T) {
	assert.Equal(t, models.StatusPending, models.StatusForProgress(0))
	assert.Equal(t, models.StatusInProgress, models.StatusForProgress(1))
	assert.Equal(t, models.StatusInProgress, models.StatusForProgress(50))
	assert.Equal(t, models.StatusInProgress, models.StatusForProgress(99))
	assert.Equal(t, models.StatusCompleted, models.StatusForProgress(100))
}

// Walks a two-item checklist through its full lifecycle: untouched, half
// done, fully done.
func TestChecklistLifecycle(t *testing.T) {
	items := []models.TodoItem{{Text: "first"}, {Text: "second"}}

	progress := models.ChecklistProgress(items)
	assert.Equal(t, 0, progress)
	assert.Equal(t, models.StatusPending, models.StatusForProgress(progress))

	items[0].Completed = true
	progress = models.ChecklistProgress(items)
	assert.Equal(t, 50, progress)
	assert.Equal(t, models.StatusInProgress, models.StatusForProgress(progress))

	items[1].Completed = true
	progress = models.ChecklistProgress(items)
	assert.Equal(t, 100, progress)
	assert.Equal(t, models.StatusCompleted, models.StatusForProgress(progress))
}

func TestCompletedTodoCount(t *testing.T) {
	task := models.Task{TodoChecklist: []models.TodoItem{
		{Completed: true},
		{Completed: false},
		{Completed: true},
	}}
	assert.Equal(t, 2, task.CompletedTodoCount())

	assert.Equal(t, 0, (&models.Task{}).CompletedTodoCount())
}

// Derivation invariant: for every checklist, status is Pending iff progress
// is 0, Completed iff 100, In Progress otherwise.
func TestProgressStatusInvariant(t *testing.T) {
	for total := 0; total <= 7; total++ {
		for completed := 0; completed <= total; completed++ {
			items := make([]models.TodoItem, total)
			for i := 0; i < completed; i++ {
				items[i].Completed = true
			}

			progress := models.ChecklistProgress(items)
			status := models.StatusForProgress(progress)

			switch {
			case progress == 0:
				assert.Equal(t, models.StatusPending, status)
			case progress == 100:
				assert.Equal(t, models.StatusCompleted, status)
				assert.Equal(t, completed, total)
			default:
				assert.Equal(t, models.StatusInProgress, status)
			}
		}
	}
}
