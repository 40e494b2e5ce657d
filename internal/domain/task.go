package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the completion state of a task.
type TaskStatus string

const (
	TaskStatus_Open TaskStatus = "OPEN"
	TaskStatus_Done TaskStatus = "DONE"
)

// TaskPriority represents the urgency of a task.
type TaskPriority string

const (
	TaskPriority_Low    TaskPriority = "Low"
	TaskPriority_Medium TaskPriority = "Medium"
	TaskPriority_High   TaskPriority = "High"
)

// DefaultTaskPriority is applied when a tool call omits the priority.
const DefaultTaskPriority = TaskPriority_Medium

// Task represents an internal to-do item for academy staff.
type Task struct {
	ID          uuid.UUID
	Title       string
	Description string
	Priority    TaskPriority
	Status      TaskStatus
	DueDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the task fields before persisting.
func (t Task) Validate() error {
	if t.Title == "" {
		return NewValidationErr("title cannot be empty")
	}
	if t.Status != TaskStatus_Open && t.Status != TaskStatus_Done {
		return NewValidationErr("status must be either OPEN or DONE")
	}
	switch t.Priority {
	case TaskPriority_Low, TaskPriority_Medium, TaskPriority_High:
	default:
		return NewValidationErr("priority must be one of Low, Medium, High")
	}
	if t.DueDate.IsZero() {
		return NewValidationErr("due_date cannot be empty")
	}
	return nil
}

// ToModelInput formats the task as a compact line for model consumption.
func (t Task) ToModelInput() string {
	return fmt.Sprintf("ID: %s | Title: %s | Priority: %s | Due: %s | Status: %s",
		t.ID.String(), t.Title, t.Priority, t.DueDate.Format(time.DateOnly), t.Status)
}

// ListTasksParams holds optional filters for listing tasks.
type ListTasksParams struct {
	TitleContains *string
	Status        *TaskStatus
}

// ListTasksOption modifies ListTasksParams.
type ListTasksOption func(*ListTasksParams)

// WithTaskTitleContains filters tasks whose title contains the substring
// (case-insensitive).
func WithTaskTitleContains(q string) ListTasksOption {
	return func(params *ListTasksParams) {
		params.TitleContains = &q
	}
}

// WithTaskStatus filters tasks by status.
func WithTaskStatus(status TaskStatus) ListTasksOption {
	return func(params *ListTasksParams) {
		params.Status = &status
	}
}

// TaskRepository is the Data Store surface for tasks.
type TaskRepository interface {
	ListTasks(ctx context.Context, page, pageSize int, opts ...ListTasksOption) ([]Task, bool, error)
	GetTask(ctx context.Context, id uuid.UUID) (Task, bool, error)
	CreateTask(ctx context.Context, task Task) error
	UpdateTask(ctx context.Context, task Task) error
	DeleteTask(ctx context.Context, id uuid.UUID) error
}
