package usecases

import (
	"context"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"

	"github.com/mirahq/academy-crm/internal/domain"
)

// EmployeeCreator defines the interface for creating employees within a unit of work.
type EmployeeCreator interface {
	Create(ctx context.Context, uow domain.UnitOfWork, employee domain.Employee) (domain.Employee, error)
}

// EmployeeUpdater defines the interface for updating employees within a unit of work.
type EmployeeUpdater interface {
	Update(ctx context.Context, uow domain.UnitOfWork, employee domain.Employee) (domain.Employee, error)
}

// EmployeeDeleter defines the interface for deleting employees within a unit of work.
type EmployeeDeleter interface {
	Delete(ctx context.Context, uow domain.UnitOfWork, id uuid.UUID) error
}

// EmployeeServiceImpl implements the employee mutation use cases.
type EmployeeServiceImpl struct {
	timeProvider domain.CurrentTimeProvider
	createUUID   func() uuid.UUID
}

// NewEmployeeServiceImpl creates a new instance of EmployeeServiceImpl.
func NewEmployeeServiceImpl(timeProvider domain.CurrentTimeProvider) EmployeeServiceImpl {
	return EmployeeServiceImpl{
		timeProvider: timeProvider,
		createUUID:   uuid.New,
	}
}

// Create persists a new employee.
func (s EmployeeServiceImpl) Create(ctx context.Context, uow domain.UnitOfWork, employee domain.Employee) (domain.Employee, error) {
	now := s.timeProvider.Now()
	employee.ID = s.createUUID()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	if err := employee.Validate(); err != nil {
		return domain.Employee{}, err
	}

	if err := uow.Employee().CreateEmployee(ctx, employee); err != nil {
		return domain.Employee{}, err
	}

	err := uow.Outbox().CreateEntityEvent(ctx, domain.EntityEvent{
		Type:      domain.EventType_ENTITY_CREATED,
		Kind:      domain.EntityKind_Employee,
		EntityID:  employee.ID,
		CreatedAt: now,
	})
	if err != nil {
		return domain.Employee{}, err
	}

	return employee, nil
}

// Update persists changes to an existing employee.
func (s EmployeeServiceImpl) Update(ctx context.Context, uow domain.UnitOfWork, employee domain.Employee) (domain.Employee, error) {
	now := s.timeProvider.Now()
	employee.UpdatedAt = now

	if err := employee.Validate(); err != nil {
		return domain.Employee{}, err
	}

	if err := uow.Employee().UpdateEmployee(ctx, employee); err != nil {
		return domain.Employee{}, err
	}

	err := uow.Outbox().CreateEntityEvent(ctx, domain.EntityEvent{
		Type:      domain.EventType_ENTITY_UPDATED,
		Kind:      domain.EntityKind_Employee,
		EntityID:  employee.ID,
		CreatedAt: now,
	})
	if err != nil {
		return domain.Employee{}, err
	}

	return employee, nil
}

// Delete removes an employee.
func (s EmployeeServiceImpl) Delete(ctx context.Context, uow domain.UnitOfWork, id uuid.UUID) error {
	if err := uow.Employee().DeleteEmployee(ctx, id); err != nil {
		return err
	}

	return uow.Outbox().CreateEntityEvent(ctx, domain.EntityEvent{
		Type:      domain.EventType_ENTITY_DELETED,
		Kind:      domain.EntityKind_Employee,
		EntityID:  id,
		CreatedAt: s.timeProvider.Now(),
	})
}

// InitEmployeeService initializes the employee use cases and registers them in
// the dependency container.
type InitEmployeeService struct {
	TimeProvider domain.CurrentTimeProvider `resolve:""`
}

func (i InitEmployeeService) Initialize(ctx context.Context) (context.Context, error) {
	svc := NewEmployeeServiceImpl(i.TimeProvider)
	depend.Register[EmployeeCreator](svc)
	depend.Register[EmployeeUpdater](svc)
	depend.Register[EmployeeDeleter](svc)
	return ctx, nil
}
