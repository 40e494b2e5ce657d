package postgres

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/telemetry"
)

var (
	taskFields = []string{
		"id",
		"title",
		"description",
		"priority",
		"status",
		"due_date",
		"created_at",
		"updated_at",
	}
)

// TaskRepository implements the domain.TaskRepository interface using
// PostgreSQL as the storage backend.
type TaskRepository struct {
	sb squirrel.StatementBuilderType
}

// NewTaskRepository creates a new instance of TaskRepository.
func NewTaskRepository(br squirrel.BaseRunner) TaskRepository {
	return TaskRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// ListTasks lists tasks with pagination and optional filters.
func (tr TaskRepository) ListTasks(ctx context.Context, page, pageSize int, opts ...domain.ListTasksOption) ([]domain.Task, bool, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("pageSize", pageSize),
	))
	defer span.End()

	if pageSize <= 0 {
		return nil, false, domain.NewValidationErr("page_size must be greater than 0")
	}
	if page <= 0 {
		return nil, false, domain.NewValidationErr("page must be greater than 0")
	}

	qry := tr.sb.
		Select(taskFields...).
		From("tasks").
		OrderBy("due_date ASC, created_at ASC").
		Limit(uint64(pageSize + 1)).
		Offset(uint64((page - 1) * pageSize))

	params := &domain.ListTasksParams{}
	for _, opt := range opts {
		opt(params)
	}

	if params.TitleContains != nil {
		qry = qry.Where(squirrel.ILike{"title": "%" + *params.TitleContains + "%"})
	}
	if params.Status != nil {
		qry = qry.Where(squirrel.Eq{"status": *params.Status})
	}

	rows, err := qry.QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}
	defer rows.Close() //nolint:errcheck

	var tasks []domain.Task
	for rows.Next() {
		var task domain.Task
		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Priority,
			&task.Status,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, false, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}

	if len(tasks) > pageSize {
		return tasks[:pageSize], true, nil
	}
	return tasks, false, nil
}

// GetTask retrieves a task by ID.
func (tr TaskRepository) GetTask(ctx context.Context, id uuid.UUID) (domain.Task, bool, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	var task domain.Task
	err := tr.sb.
		Select(taskFields...).
		From("tasks").
		Where(squirrel.Eq{"id": id}).
		QueryRowContext(spanCtx).
		Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Priority,
			&task.Status,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
		)

	if telemetry.RecordErrorAndStatus(span, err) {
		if err == sql.ErrNoRows {
			return domain.Task{}, false, nil
		}
		return domain.Task{}, false, err
	}

	return task, true, nil
}

// CreateTask creates a new task.
func (tr TaskRepository) CreateTask(ctx context.Context, task domain.Task) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := tr.sb.
		Insert("tasks").
		Columns(taskFields...).
		Values(
			task.ID,
			task.Title,
			task.Description,
			task.Priority,
			task.Status,
			task.DueDate,
			task.CreatedAt,
			task.UpdatedAt,
		).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// UpdateTask updates an existing task.
func (tr TaskRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := tr.sb.
		Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("priority", task.Priority).
		Set("status", task.Status).
		Set("due_date", task.DueDate).
		Set("updated_at", task.UpdatedAt).
		Where(squirrel.Eq{"id": task.ID}).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// DeleteTask deletes a task by ID.
func (tr TaskRepository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := tr.sb.
		Delete("tasks").
		Where(squirrel.Eq{"id": id}).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// InitTaskRepository is a Symbiont initializer for TaskRepository.
type InitTaskRepository struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the TaskRepository in the dependency container.
func (tr InitTaskRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.TaskRepository](NewTaskRepository(tr.DB))
	return ctx, nil
}
