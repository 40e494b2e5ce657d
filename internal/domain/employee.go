package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee represents a staff member of the academy.
type Employee struct {
	ID        uuid.UUID
	Name      string
	Role      string
	Phone     string
	Email     string
	Salary    decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the employee fields before persisting.
func (e Employee) Validate() error {
	if e.Name == "" {
		return NewValidationErr("name cannot be empty")
	}
	if e.Salary.IsNegative() {
		return NewValidationErr("salary cannot be negative")
	}
	return nil
}

// ListEmployeesParams holds optional filters for listing employees.
type ListEmployeesParams struct {
	NameContains *string
}

// ListEmployeesOption modifies ListEmployeesParams.
type ListEmployeesOption func(*ListEmployeesParams)

// WithEmployeeNameContains filters employees whose name contains the substring
// (case-insensitive).
func WithEmployeeNameContains(q string) ListEmployeesOption {
	return func(params *ListEmployeesParams) {
		params.NameContains = &q
	}
}

// EmployeeRepository is the Data Store surface for employees.
type EmployeeRepository interface {
	ListEmployees(ctx context.Context, page, pageSize int, opts ...ListEmployeesOption) ([]Employee, bool, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (Employee, bool, error)
	CreateEmployee(ctx context.Context, employee Employee) error
	UpdateEmployee(ctx context.Context, employee Employee) error
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
}
