package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/usecases"
)

// TaskListTool lists tasks for the model.
type TaskListTool struct {
	repo domain.TaskRepository
}

// NewTaskListTool creates a new instance of TaskListTool.
func NewTaskListTool(repo domain.TaskRepository) TaskListTool {
	return TaskListTool{repo: repo}
}

// StatusMessage returns a status message about the tool execution.
func (t TaskListTool) StatusMessage() string {
	return "📋 Looking up tasks..."
}

// Definition returns the tool schema for listTasks.
func (t TaskListTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "listTasks",
		Description: "List tasks with pagination. Always pass page and page_size, start with page=1, and keep fetching while next_page is true when full coverage is needed. title filters by partial, case-insensitive match; status must be OPEN or DONE.",
		Parameters: []domain.ToolParam{
			{Name: "page", Type: domain.ToolParamType_Number, Description: "Page number starting from 1.", Required: true},
			{Name: "page_size", Type: domain.ToolParamType_Number, Description: "Items per page, positive integer.", Required: true},
			{Name: "title", Type: domain.ToolParamType_String, Description: "Optional partial title filter."},
			{Name: "status", Type: domain.ToolParamType_Enum, Description: "Optional status filter.", EnumValues: []string{"OPEN", "DONE"}},
		},
	}
}

// Call executes listTasks.
func (t TaskListTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Page     int    `json:"page"`
		PageSize int    `json:"page_size"`
		Title    string `json:"title,omitempty"`
		Status   string `json:"status,omitempty"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}
	if params.Page < 1 || params.PageSize < 1 {
		return errResponse(call, "invalid_arguments",
			fmt.Errorf("page and page_size must be positive integers"))
	}

	var opts []domain.ListTasksOption
	if params.Title != "" {
		opts = append(opts, domain.WithTaskTitleContains(params.Title))
	}
	if params.Status != "" {
		status := domain.TaskStatus(params.Status)
		if status != domain.TaskStatus_Open && status != domain.TaskStatus_Done {
			return errResponse(call, "invalid_arguments",
				fmt.Errorf("status must be OPEN or DONE"))
		}
		opts = append(opts, domain.WithTaskStatus(status))
	}

	tasks, hasNext, err := t.repo.ListTasks(ctx, params.Page, params.PageSize, opts...)
	if err != nil {
		return errResponse(call, "list_tasks_error", err)
	}

	rows := make([]taskRow, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, taskRow{
			ID:       task.ID.String(),
			Title:    task.Title,
			Priority: string(task.Priority),
			Status:   string(task.Status),
			DueDate:  task.DueDate.Format(time.DateOnly),
		})
	}
	table, err := encodeTable(rows)
	if err != nil {
		return errResponse(call, "encode_error", err)
	}

	return okResponse(call, map[string]any{
		"tasks":     table,
		"next_page": hasNext,
	})
}

type taskRow struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
	DueDate  string `json:"due_date"`
}

// TaskCreateTool creates a task.
type TaskCreateTool struct {
	uow          domain.UnitOfWork
	creator      usecases.TaskCreator
	timeProvider domain.CurrentTimeProvider
}

// NewTaskCreateTool creates a new instance of TaskCreateTool.
func NewTaskCreateTool(uow domain.UnitOfWork, creator usecases.TaskCreator, timeProvider domain.CurrentTimeProvider) TaskCreateTool {
	return TaskCreateTool{uow: uow, creator: creator, timeProvider: timeProvider}
}

// StatusMessage returns a status message about the tool execution.
func (t TaskCreateTool) StatusMessage() string {
	return "📝 Creating the task..."
}

// Definition returns the tool schema for addTask.
func (t TaskCreateTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "addTask",
		Description: "Create exactly one task. Required: title. priority defaults to Medium and due_date defaults to today. For several tasks, call once per task.",
		Parameters: []domain.ToolParam{
			{Name: "title", Type: domain.ToolParamType_String, Description: "Task title.", Required: true},
			{Name: "description", Type: domain.ToolParamType_String, Description: "Longer task description."},
			{Name: "priority", Type: domain.ToolParamType_Enum, Description: "Task priority.", EnumValues: []string{"Low", "Medium", "High"}},
			{Name: "due_date", Type: domain.ToolParamType_String, Description: "Due date, YYYY-MM-DD or a phrase like 'next friday'."},
		},
	}
}

// Call executes addTask.
func (t TaskCreateTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
		Priority    string `json:"priority,omitempty"`
		DueDate     string `json:"due_date,omitempty"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	now := t.timeProvider.Now()
	dueDate, err := domain.ResolveDueDate(params.DueDate, now, now.Location())
	if err != nil {
		return errResponse(call, "invalid_due_date", err)
	}

	var task domain.Task
	err = t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		created, err := t.creator.Create(ctx, uow, domain.Task{
			Title:       params.Title,
			Description: params.Description,
			Priority:    domain.TaskPriority(params.Priority),
			DueDate:     dueDate,
		})
		if err != nil {
			return err
		}
		task = created
		return nil
	})
	if err != nil {
		return errResponse(call, "add_task_error", err)
	}

	return messageResponse(call, "Task created. %s", task.ToModelInput())
}

// TaskUpdateTool updates a task located by partial title.
type TaskUpdateTool struct {
	uow          domain.UnitOfWork
	updater      usecases.TaskUpdater
	resolver     Resolver
	timeProvider domain.CurrentTimeProvider
}

// NewTaskUpdateTool creates a new instance of TaskUpdateTool.
func NewTaskUpdateTool(uow domain.UnitOfWork, updater usecases.TaskUpdater, resolver Resolver, timeProvider domain.CurrentTimeProvider) TaskUpdateTool {
	return TaskUpdateTool{uow: uow, updater: updater, resolver: resolver, timeProvider: timeProvider}
}

// StatusMessage returns a status message about the tool execution.
func (t TaskUpdateTool) StatusMessage() string {
	return "📝 Updating the task..."
}

// Definition returns the tool schema for updateTask.
func (t TaskUpdateTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "updateTask",
		Description: "Update one existing task. title accepts a partial, case-insensitive match. Only the provided optional fields change; set status to DONE to complete a task.",
		Parameters: []domain.ToolParam{
			{Name: "title", Type: domain.ToolParamType_String, Description: "Current task title, partial match allowed.", Required: true},
			{Name: "new_title", Type: domain.ToolParamType_String, Description: "Replacement title."},
			{Name: "description", Type: domain.ToolParamType_String, Description: "Replacement description."},
			{Name: "priority", Type: domain.ToolParamType_Enum, Description: "Replacement priority.", EnumValues: []string{"Low", "Medium", "High"}},
			{Name: "status", Type: domain.ToolParamType_Enum, Description: "Replacement status.", EnumValues: []string{"OPEN", "DONE"}},
			{Name: "due_date", Type: domain.ToolParamType_String, Description: "Replacement due date."},
		},
	}
}

// Call executes updateTask.
func (t TaskUpdateTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Title       string  `json:"title"`
		NewTitle    *string `json:"new_title,omitempty"`
		Description *string `json:"description,omitempty"`
		Priority    *string `json:"priority,omitempty"`
		Status      *string `json:"status,omitempty"`
		DueDate     *string `json:"due_date,omitempty"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	resolution, err := t.resolver.Resolve(ctx, domain.EntityKind_Task, params.Title)
	if err != nil {
		return errResponse(call, "resolve_error", err)
	}
	switch resolution.Outcome {
	case domain.ResolutionOutcome_NotFound:
		return notFoundResponse(call, domain.EntityKind_Task, params.Title)
	case domain.ResolutionOutcome_Ambiguous:
		return ambiguousResponse(call, domain.EntityKind_Task, params.Title, resolution.Candidates)
	}

	var task domain.Task
	err = t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		current, found, err := uow.Task().GetTask(ctx, resolution.Match.ID)
		if err != nil {
			return err
		}
		if !found {
			return domain.NewNotFoundErr(fmt.Sprintf("task %s not found", resolution.Match.ID))
		}
		if params.NewTitle != nil {
			current.Title = *params.NewTitle
		}
		if params.Description != nil {
			current.Description = *params.Description
		}
		if params.Priority != nil {
			current.Priority = domain.TaskPriority(*params.Priority)
		}
		if params.Status != nil {
			current.Status = domain.TaskStatus(*params.Status)
		}
		if params.DueDate != nil {
			now := t.timeProvider.Now()
			dueDate, err := domain.ResolveDueDate(*params.DueDate, now, now.Location())
			if err != nil {
				return err
			}
			current.DueDate = dueDate
		}
		updated, err := t.updater.Update(ctx, uow, current)
		if err != nil {
			return err
		}
		task = updated
		return nil
	})
	if err != nil {
		return errResponse(call, "update_task_error", err)
	}

	return messageResponse(call, "Task updated. %s", task.ToModelInput())
}

// TaskDeleteTool deletes a task located by partial title.
type TaskDeleteTool struct {
	uow      domain.UnitOfWork
	deleter  usecases.TaskDeleter
	resolver Resolver
}

// NewTaskDeleteTool creates a new instance of TaskDeleteTool.
func NewTaskDeleteTool(uow domain.UnitOfWork, deleter usecases.TaskDeleter, resolver Resolver) TaskDeleteTool {
	return TaskDeleteTool{uow: uow, deleter: deleter, resolver: resolver}
}

// StatusMessage returns a status message about the tool execution.
func (t TaskDeleteTool) StatusMessage() string {
	return "🗑️ Removing the task..."
}

// Definition returns the tool schema for deleteTask.
func (t TaskDeleteTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "deleteTask",
		Description: "Delete one task. title accepts a partial, case-insensitive match; nothing is deleted when the match is ambiguous.",
		Parameters: []domain.ToolParam{
			{Name: "title", Type: domain.ToolParamType_String, Description: "Task title, partial match allowed.", Required: true},
		},
	}
}

// Call executes deleteTask.
func (t TaskDeleteTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Title string `json:"title"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	resolution, err := t.resolver.Resolve(ctx, domain.EntityKind_Task, params.Title)
	if err != nil {
		return errResponse(call, "resolve_error", err)
	}
	switch resolution.Outcome {
	case domain.ResolutionOutcome_NotFound:
		return notFoundResponse(call, domain.EntityKind_Task, params.Title)
	case domain.ResolutionOutcome_Ambiguous:
		return ambiguousResponse(call, domain.EntityKind_Task, params.Title, resolution.Candidates)
	}

	err = t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		return t.deleter.Delete(ctx, uow, resolution.Match.ID)
	})
	if err != nil {
		return errResponse(call, "delete_task_error", err)
	}

	return messageResponse(call, "Task %q was deleted.", resolution.Match.Name)
}
