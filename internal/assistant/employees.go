package assistant

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/usecases"
)

// EmployeeListTool lists employees for the model.
type EmployeeListTool struct {
	repo domain.EmployeeRepository
}

// NewEmployeeListTool creates a new instance of EmployeeListTool.
func NewEmployeeListTool(repo domain.EmployeeRepository) EmployeeListTool {
	return EmployeeListTool{repo: repo}
}

// StatusMessage returns a status message about the tool execution.
func (t EmployeeListTool) StatusMessage() string {
	return "👥 Looking up employees..."
}

// Definition returns the tool schema for listEmployees.
func (t EmployeeListTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "listEmployees",
		Description: "List employees with pagination. Always pass page and page_size, start with page=1, and keep fetching while next_page is true when full coverage is needed. name filters by partial, case-insensitive match.",
		Parameters: []domain.ToolParam{
			{Name: "page", Type: domain.ToolParamType_Number, Description: "Page number starting from 1.", Required: true},
			{Name: "page_size", Type: domain.ToolParamType_Number, Description: "Items per page, positive integer.", Required: true},
			{Name: "name", Type: domain.ToolParamType_String, Description: "Optional partial name filter."},
		},
	}
}

// Call executes listEmployees.
func (t EmployeeListTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
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

	var opts []domain.ListEmployeesOption
	if params.Name != "" {
		opts = append(opts, domain.WithEmployeeNameContains(params.Name))
	}

	employees, hasNext, err := t.repo.ListEmployees(ctx, params.Page, params.PageSize, opts...)
	if err != nil {
		return errResponse(call, "list_employees_error", err)
	}

	rows := make([]employeeRow, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, employeeRow{
			ID:     e.ID.String(),
			Name:   e.Name,
			Role:   e.Role,
			Phone:  e.Phone,
			Email:  e.Email,
			Salary: e.Salary.StringFixed(2),
		})
	}
	table, err := encodeTable(rows)
	if err != nil {
		return errResponse(call, "encode_error", err)
	}

	return okResponse(call, map[string]any{
		"employees": table,
		"next_page": hasNext,
	})
}

type employeeRow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Email  string `json:"email,omitempty"`
	Salary string `json:"salary"`
}

// EmployeeCreateTool creates an employee.
type EmployeeCreateTool struct {
	uow     domain.UnitOfWork
	creator usecases.EmployeeCreator
}

// NewEmployeeCreateTool creates a new instance of EmployeeCreateTool.
func NewEmployeeCreateTool(uow domain.UnitOfWork, creator usecases.EmployeeCreator) EmployeeCreateTool {
	return EmployeeCreateTool{uow: uow, creator: creator}
}

// StatusMessage returns a status message about the tool execution.
func (t EmployeeCreateTool) StatusMessage() string {
	return "👥 Adding the employee..."
}

// Definition returns the tool schema for addEmployee.
func (t EmployeeCreateTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "addEmployee",
		Description: "Add exactly one new employee. Required: name. Optional: role, phone, email, salary.",
		Parameters: []domain.ToolParam{
			{Name: "name", Type: domain.ToolParamType_String, Description: "Full employee name.", Required: true},
			{Name: "role", Type: domain.ToolParamType_String, Description: "Job title or role."},
			{Name: "phone", Type: domain.ToolParamType_String, Description: "Contact phone number."},
			{Name: "email", Type: domain.ToolParamType_String, Description: "Contact email address."},
			{Name: "salary", Type: domain.ToolParamType_Number, Description: "Monthly salary."},
		},
	}
}

// Call executes addEmployee.
func (t EmployeeCreateTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Name   string  `json:"name"`
		Role   string  `json:"role,omitempty"`
		Phone  string  `json:"phone,omitempty"`
		Email  string  `json:"email,omitempty"`
		Salary float64 `json:"salary,omitempty"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	var employee domain.Employee
	err := t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		created, err := t.creator.Create(ctx, uow, domain.Employee{
			Name:   params.Name,
			Role:   params.Role,
			Phone:  params.Phone,
			Email:  params.Email,
			Salary: decimal.NewFromFloat(params.Salary),
		})
		if err != nil {
			return err
		}
		employee = created
		return nil
	})
	if err != nil {
		return errResponse(call, "add_employee_error", err)
	}

	return messageResponse(call, "Employee %s was added.", employee.Name)
}

// EmployeeUpdateTool updates an employee located by partial name.
type EmployeeUpdateTool struct {
	uow      domain.UnitOfWork
	updater  usecases.EmployeeUpdater
	resolver Resolver
}

// NewEmployeeUpdateTool creates a new instance of EmployeeUpdateTool.
func NewEmployeeUpdateTool(uow domain.UnitOfWork, updater usecases.EmployeeUpdater, resolver Resolver) EmployeeUpdateTool {
	return EmployeeUpdateTool{uow: uow, updater: updater, resolver: resolver}
}

// StatusMessage returns a status message about the tool execution.
func (t EmployeeUpdateTool) StatusMessage() string {
	return "👥 Updating the employee..."
}

// Definition returns the tool schema for updateEmployee.
func (t EmployeeUpdateTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "updateEmployee",
		Description: "Update one existing employee. name accepts a partial, case-insensitive match. Only the provided optional fields change.",
		Parameters: []domain.ToolParam{
			{Name: "name", Type: domain.ToolParamType_String, Description: "Current employee name, partial match allowed.", Required: true},
			{Name: "new_name", Type: domain.ToolParamType_String, Description: "Replacement name."},
			{Name: "role", Type: domain.ToolParamType_String, Description: "Replacement role."},
			{Name: "phone", Type: domain.ToolParamType_String, Description: "Replacement phone number."},
			{Name: "email", Type: domain.ToolParamType_String, Description: "Replacement email address."},
			{Name: "salary", Type: domain.ToolParamType_Number, Description: "Replacement salary."},
		},
	}
}

// Call executes updateEmployee.
func (t EmployeeUpdateTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Name    string   `json:"name"`
		NewName *string  `json:"new_name,omitempty"`
		Role    *string  `json:"role,omitempty"`
		Phone   *string  `json:"phone,omitempty"`
		Email   *string  `json:"email,omitempty"`
		Salary  *float64 `json:"salary,omitempty"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	resolution, err := t.resolver.Resolve(ctx, domain.EntityKind_Employee, params.Name)
	if err != nil {
		return errResponse(call, "resolve_error", err)
	}
	switch resolution.Outcome {
	case domain.ResolutionOutcome_NotFound:
		return notFoundResponse(call, domain.EntityKind_Employee, params.Name)
	case domain.ResolutionOutcome_Ambiguous:
		return ambiguousResponse(call, domain.EntityKind_Employee, params.Name, resolution.Candidates)
	}

	var employee domain.Employee
	err = t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		current, found, err := uow.Employee().GetEmployee(ctx, resolution.Match.ID)
		if err != nil {
			return err
		}
		if !found {
			return domain.NewNotFoundErr(fmt.Sprintf("employee %s not found", resolution.Match.ID))
		}
		if params.NewName != nil {
			current.Name = *params.NewName
		}
		if params.Role != nil {
			current.Role = *params.Role
		}
		if params.Phone != nil {
			current.Phone = *params.Phone
		}
		if params.Email != nil {
			current.Email = *params.Email
		}
		if params.Salary != nil {
			current.Salary = decimal.NewFromFloat(*params.Salary)
		}
		updated, err := t.updater.Update(ctx, uow, current)
		if err != nil {
			return err
		}
		employee = updated
		return nil
	})
	if err != nil {
		return errResponse(call, "update_employee_error", err)
	}

	return messageResponse(call, "Employee %s was updated.", employee.Name)
}

// EmployeeDeleteTool deletes an employee located by partial name.
type EmployeeDeleteTool struct {
	uow      domain.UnitOfWork
	deleter  usecases.EmployeeDeleter
	resolver Resolver
}

// NewEmployeeDeleteTool creates a new instance of EmployeeDeleteTool.
func NewEmployeeDeleteTool(uow domain.UnitOfWork, deleter usecases.EmployeeDeleter, resolver Resolver) EmployeeDeleteTool {
	return EmployeeDeleteTool{uow: uow, deleter: deleter, resolver: resolver}
}

// StatusMessage returns a status message about the tool execution.
func (t EmployeeDeleteTool) StatusMessage() string {
	return "🗑️ Removing the employee..."
}

// Definition returns the tool schema for deleteEmployee.
func (t EmployeeDeleteTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "deleteEmployee",
		Description: "Delete one employee. name accepts a partial, case-insensitive match; nothing is deleted when the match is ambiguous.",
		Parameters: []domain.ToolParam{
			{Name: "name", Type: domain.ToolParamType_String, Description: "Employee name, partial match allowed.", Required: true},
		},
	}
}

// Call executes deleteEmployee.
func (t EmployeeDeleteTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Name string `json:"name"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	resolution, err := t.resolver.Resolve(ctx, domain.EntityKind_Employee, params.Name)
	if err != nil {
		return errResponse(call, "resolve_error", err)
	}
	switch resolution.Outcome {
	case domain.ResolutionOutcome_NotFound:
		return notFoundResponse(call, domain.EntityKind_Employee, params.Name)
	case domain.ResolutionOutcome_Ambiguous:
		return ambiguousResponse(call, domain.EntityKind_Employee, params.Name, resolution.Candidates)
	}

	err = t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		return t.deleter.Delete(ctx, uow, resolution.Match.ID)
	})
	if err != nil {
		return errResponse(call, "delete_employee_error", err)
	}

	return messageResponse(call, "Employee %s was deleted.", resolution.Match.Name)
}
