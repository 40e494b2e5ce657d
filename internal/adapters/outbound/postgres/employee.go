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
	employeeFields = []string{
		"id",
		"name",
		"role",
		"phone",
		"email",
		"salary",
		"created_at",
		"updated_at",
	}
)

// EmployeeRepository implements the domain.EmployeeRepository interface using
// PostgreSQL as the storage backend.
type EmployeeRepository struct {
	sb squirrel.StatementBuilderType
}

// NewEmployeeRepository creates a new instance of EmployeeRepository.
func NewEmployeeRepository(br squirrel.BaseRunner) EmployeeRepository {
	return EmployeeRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// ListEmployees lists employees with pagination and optional filters.
func (er EmployeeRepository) ListEmployees(ctx context.Context, page, pageSize int, opts ...domain.ListEmployeesOption) ([]domain.Employee, bool, error) {
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

	qry := er.sb.
		Select(employeeFields...).
		From("employees").
		OrderBy("created_at ASC").
		Limit(uint64(pageSize + 1)).
		Offset(uint64((page - 1) * pageSize))

	params := &domain.ListEmployeesParams{}
	for _, opt := range opts {
		opt(params)
	}

	if params.NameContains != nil {
		qry = qry.Where(squirrel.ILike{"name": "%" + *params.NameContains + "%"})
	}

	rows, err := qry.QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}
	defer rows.Close() //nolint:errcheck

	var employees []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		err := rows.Scan(
			&employee.ID,
			&employee.Name,
			&employee.Role,
			&employee.Phone,
			&employee.Email,
			&employee.Salary,
			&employee.CreatedAt,
			&employee.UpdatedAt,
		)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, false, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}

	if len(employees) > pageSize {
		return employees[:pageSize], true, nil
	}
	return employees, false, nil
}

// GetEmployee retrieves an employee by ID.
func (er EmployeeRepository) GetEmployee(ctx context.Context, id uuid.UUID) (domain.Employee, bool, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	var employee domain.Employee
	err := er.sb.
		Select(employeeFields...).
		From("employees").
		Where(squirrel.Eq{"id": id}).
		QueryRowContext(spanCtx).
		Scan(
			&employee.ID,
			&employee.Name,
			&employee.Role,
			&employee.Phone,
			&employee.Email,
			&employee.Salary,
			&employee.CreatedAt,
			&employee.UpdatedAt,
		)

	if telemetry.RecordErrorAndStatus(span, err) {
		if err == sql.ErrNoRows {
			return domain.Employee{}, false, nil
		}
		return domain.Employee{}, false, err
	}

	return employee, true, nil
}

// CreateEmployee creates a new employee.
func (er EmployeeRepository) CreateEmployee(ctx context.Context, employee domain.Employee) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := er.sb.
		Insert("employees").
		Columns(employeeFields...).
		Values(
			employee.ID,
			employee.Name,
			employee.Role,
			employee.Phone,
			employee.Email,
			employee.Salary,
			employee.CreatedAt,
			employee.UpdatedAt,
		).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// UpdateEmployee updates an existing employee.
func (er EmployeeRepository) UpdateEmployee(ctx context.Context, employee domain.Employee) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := er.sb.
		Update("employees").
		Set("name", employee.Name).
		Set("role", employee.Role).
		Set("phone", employee.Phone).
		Set("email", employee.Email).
		Set("salary", employee.Salary).
		Set("updated_at", employee.UpdatedAt).
		Where(squirrel.Eq{"id": employee.ID}).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// DeleteEmployee deletes an employee by ID.
func (er EmployeeRepository) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := er.sb.
		Delete("employees").
		Where(squirrel.Eq{"id": id}).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// InitEmployeeRepository is a Symbiont initializer for EmployeeRepository.
type InitEmployeeRepository struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the EmployeeRepository in the dependency container.
func (er InitEmployeeRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.EmployeeRepository](NewEmployeeRepository(er.DB))
	return ctx, nil
}
