package assistant

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/usecases"
)

// CourseListTool lists courses for the model.
type CourseListTool struct {
	repo domain.CourseRepository
}

// NewCourseListTool creates a new instance of CourseListTool.
func NewCourseListTool(repo domain.CourseRepository) CourseListTool {
	return CourseListTool{repo: repo}
}

// StatusMessage returns a status message about the tool execution.
func (t CourseListTool) StatusMessage() string {
	return "📚 Looking up courses..."
}

// Definition returns the tool schema for listCourses.
func (t CourseListTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "listCourses",
		Description: "List courses with pagination. Always pass page and page_size, start with page=1, and keep fetching while next_page is true when full coverage is needed. name filters by partial, case-insensitive match.",
		Parameters: []domain.ToolParam{
			{Name: "page", Type: domain.ToolParamType_Number, Description: "Page number starting from 1.", Required: true},
			{Name: "page_size", Type: domain.ToolParamType_Number, Description: "Items per page, positive integer.", Required: true},
			{Name: "name", Type: domain.ToolParamType_String, Description: "Optional partial name filter."},
		},
	}
}

// Call executes listCourses.
func (t CourseListTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Page     int    `json:"page"`
		PageSize int    `json:"page_size"`
		Name     string `json:"name,omitempty"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}
	if params.Page < 1 || params.PageSize < 1 {
		return errResponse(call, "invalid_arguments",
			fmt.Errorf("page and page_size must be positive integers"))
	}

	var opts []domain.ListCoursesOption
	if params.Name != "" {
		opts = append(opts, domain.WithCourseNameContains(params.Name))
	}

	courses, hasNext, err := t.repo.ListCourses(ctx, params.Page, params.PageSize, opts...)
	if err != nil {
		return errResponse(call, "list_courses_error", err)
	}

	rows := make([]courseRow, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, courseRow{
			ID:            c.ID.String(),
			Name:          c.Name,
			Fee:           c.Fee.StringFixed(2),
			DurationWeeks: c.DurationWeeks,
		})
	}
	table, err := encodeTable(rows)
	if err != nil {
		return errResponse(call, "encode_error", err)
	}

	return okResponse(call, map[string]any{
		"courses":   table,
		"next_page": hasNext,
	})
}

type courseRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Fee           string `json:"fee"`
	DurationWeeks int    `json:"duration_weeks"`
}

// CourseCreateTool creates a course.
type CourseCreateTool struct {
	uow     domain.UnitOfWork
	creator usecases.CourseCreator
}

// NewCourseCreateTool creates a new instance of CourseCreateTool.
func NewCourseCreateTool(uow domain.UnitOfWork, creator usecases.CourseCreator) CourseCreateTool {
	return CourseCreateTool{uow: uow, creator: creator}
}

// StatusMessage returns a status message about the tool execution.
func (t CourseCreateTool) StatusMessage() string {
	return "📚 Adding the course..."
}

// Definition returns the tool schema for addCourse.
func (t CourseCreateTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "addCourse",
		Description: "Add exactly one new course. Required: name. Optional: description, fee, duration_weeks.",
		Parameters: []domain.ToolParam{
			{Name: "name", Type: domain.ToolParamType_String, Description: "Course name.", Required: true},
			{Name: "description", Type: domain.ToolParamType_String, Description: "Course description."},
			{Name: "fee", Type: domain.ToolParamType_Number, Description: "Course fee."},
			{Name: "duration_weeks", Type: domain.ToolParamType_Number, Description: "Course length in weeks."},
		},
	}
}

// Call executes addCourse.
func (t CourseCreateTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Name          string  `json:"name"`
		Description   string  `json:"description,omitempty"`
		Fee           float64 `json:"fee,omitempty"`
		DurationWeeks int     `json:"duration_weeks,omitempty"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	var course domain.Course
	err := t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		created, err := t.creator.Create(ctx, uow, domain.Course{
			Name:          params.Name,
			Description:   params.Description,
			Fee:           decimal.NewFromFloat(params.Fee),
			DurationWeeks: params.DurationWeeks,
		})
		if err != nil {
			return err
		}
		course = created
		return nil
	})
	if err != nil {
		return errResponse(call, "add_course_error", err)
	}

	return messageResponse(call, "Course %s was added.", course.Name)
}

// CourseUpdateTool updates a course located by partial name.
type CourseUpdateTool struct {
	uow      domain.UnitOfWork
	updater  usecases.CourseUpdater
	resolver Resolver
}

// NewCourseUpdateTool creates a new instance of CourseUpdateTool.
func NewCourseUpdateTool(uow domain.UnitOfWork, updater usecases.CourseUpdater, resolver Resolver) CourseUpdateTool {
	return CourseUpdateTool{uow: uow, updater: updater, resolver: resolver}
}

// StatusMessage returns a status message about the tool execution.
func (t CourseUpdateTool) StatusMessage() string {
	return "📚 Updating the course..."
}

// Definition returns the tool schema for updateCourse.
func (t CourseUpdateTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "updateCourse",
		Description: "Update one existing course. name accepts a partial, case-insensitive match. Only the provided optional fields change.",
		Parameters: []domain.ToolParam{
			{Name: "name", Type: domain.ToolParamType_String, Description: "Current course name, partial match allowed.", Required: true},
			{Name: "new_name", Type: domain.ToolParamType_String, Description: "Replacement name."},
			{Name: "description", Type: domain.ToolParamType_String, Description: "Replacement description."},
			{Name: "fee", Type: domain.ToolParamType_Number, Description: "Replacement fee."},
			{Name: "duration_weeks", Type: domain.ToolParamType_Number, Description: "Replacement length in weeks."},
		},
	}
}

// Call executes updateCourse.
func (t CourseUpdateTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Name          string   `json:"name"`
		NewName       *string  `json:"new_name,omitempty"`
		Description   *string  `json:"description,omitempty"`
		Fee           *float64 `json:"fee,omitempty"`
		DurationWeeks *int     `json:"duration_weeks,omitempty"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	resolution, err := t.resolver.Resolve(ctx, domain.EntityKind_Course, params.Name)
	if err != nil {
		return errResponse(call, "resolve_error", err)
	}
	switch resolution.Outcome {
	case domain.ResolutionOutcome_NotFound:
		return notFoundResponse(call, domain.EntityKind_Course, params.Name)
	case domain.ResolutionOutcome_Ambiguous:
		return ambiguousResponse(call, domain.EntityKind_Course, params.Name, resolution.Candidates)
	}

	var course domain.Course
	err = t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		current, found, err := uow.Course().GetCourse(ctx, resolution.Match.ID)
		if err != nil {
			return err
		}
		if !found {
			return domain.NewNotFoundErr(fmt.Sprintf("course %s not found", resolution.Match.ID))
		}
		if params.NewName != nil {
			current.Name = *params.NewName
		}
		if params.Description != nil {
			current.Description = *params.Description
		}
		if params.Fee != nil {
			current.Fee = decimal.NewFromFloat(*params.Fee)
		}
		if params.DurationWeeks != nil {
			current.DurationWeeks = *params.DurationWeeks
		}
		updated, err := t.updater.Update(ctx, uow, current)
		if err != nil {
			return err
		}
		course = updated
		return nil
	})
	if err != nil {
		return errResponse(call, "update_course_error", err)
	}

	return messageResponse(call, "Course %s was updated.", course.Name)
}

// CourseDeleteTool deletes a course located by partial name.
type CourseDeleteTool struct {
	uow      domain.UnitOfWork
	deleter  usecases.CourseDeleter
	resolver Resolver
}

// NewCourseDeleteTool creates a new instance of CourseDeleteTool.
func NewCourseDeleteTool(uow domain.UnitOfWork, deleter usecases.CourseDeleter, resolver Resolver) CourseDeleteTool {
	return CourseDeleteTool{uow: uow, deleter: deleter, resolver: resolver}
}

// StatusMessage returns a status message about the tool execution.
func (t CourseDeleteTool) StatusMessage() string {
	return "🗑️ Removing the course..."
}

// Definition returns the tool schema for deleteCourse.
func (t CourseDeleteTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "deleteCourse",
		Description: "Delete one course. name accepts a partial, case-insensitive match; nothing is deleted when the match is ambiguous.",
		Parameters: []domain.ToolParam{
			{Name: "name", Type: domain.ToolParamType_String, Description: "Course name, partial match allowed.", Required: true},
		},
	}
}

// Call executes deleteCourse.
func (t CourseDeleteTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Name string `json:"name"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	resolution, err := t.resolver.Resolve(ctx, domain.EntityKind_Course, params.Name)
	if err != nil {
		return errResponse(call, "resolve_error", err)
	}
	switch resolution.Outcome {
	case domain.ResolutionOutcome_NotFound:
		return notFoundResponse(call, domain.EntityKind_Course, params.Name)
	case domain.ResolutionOutcome_Ambiguous:
		return ambiguousResponse(call, domain.EntityKind_Course, params.Name, resolution.Candidates)
	}

	err = t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		return t.deleter.Delete(ctx, uow, resolution.Match.ID)
	})
	if err != nil {
		return errResponse(call, "delete_course_error", err)
	}

	return messageResponse(call, "Course %s was deleted.", resolution.Match.Name)
}
