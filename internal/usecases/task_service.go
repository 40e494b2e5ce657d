package usecases

import (
	"context"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"

	"github.com/mirahq/academy-crm/internal/domain"
)

// TaskCreator defines the interface for creating tasks within a unit of work.
type TaskCreator interface {
	Create(ctx context.Context, uow domain.UnitOfWork, task domain.Task) (domain.Task, error)
}

// TaskUpdater defines the interface for updating tasks within a unit of work.
type TaskUpdater interface {
	Update(ctx context.Context, uow domain.UnitOfWork, task domain.Task) (domain.Task, error)
}

// TaskDeleter defines the interface for deleting tasks within a unit of work.
type TaskDeleter interface {
	Delete(ctx context.Context, uow domain.UnitOfWork, id uuid.UUID) error
}

// TaskServiceImpl implements the task mutation use cases.
type TaskServiceImpl struct {
	timeProvider domain.CurrentTimeProvider
	createUUID   func() uuid.UUID
}

// NewTaskServiceImpl creates a new instance of TaskServiceImpl.
func NewTaskServiceImpl(timeProvider domain.CurrentTimeProvider) TaskServiceImpl {
	return TaskServiceImpl{
		timeProvider: timeProvider,
		createUUID:   uuid.New,
	}
}

// Create persists a new task, filling defaulted fields first.
func (s TaskServiceImpl) Create(ctx context.Context, uow domain.UnitOfWork, task domain.Task) (domain.Task, error) {
	now := s.timeProvider.Now()
	task.ID = s.createUUID()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = domain.TaskStatus_Open
	}
	if task.Priority == "" {
		task.Priority = domain.DefaultTaskPriority
	}

	if err := task.Validate(); err != nil {
		return domain.Task{}, err
	}

	if err := uow.Task().CreateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}

	err := uow.Outbox().CreateEntityEvent(ctx, domain.EntityEvent{
		Type:      domain.EventType_ENTITY_CREATED,
		Kind:      domain.EntityKind_Task,
		EntityID:  task.ID,
		CreatedAt: now,
	})
	if err != nil {
		return domain.Task{}, err
	}

	return task, nil
}

// Update persists changes to an existing task.
func (s TaskServiceImpl) Update(ctx context.Context, uow domain.UnitOfWork, task domain.Task) (domain.Task, error) {
	now := s.timeProvider.Now()
	task.UpdatedAt = now

	if err := task.Validate(); err != nil {
		return domain.Task{}, err
	}

	if err := uow.Task().UpdateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}

	err := uow.Outbox().CreateEntityEvent(ctx, domain.EntityEvent{
		Type:      domain.EventType_ENTITY_UPDATED,
		Kind:      domain.EntityKind_Task,
		EntityID:  task.ID,
		CreatedAt: now,
	})
	if err != nil {
		return domain.Task{}, err
	}

	return task, nil
}

// Delete removes a task.
func (s TaskServiceImpl) Delete(ctx context.Context, uow domain.UnitOfWork, id uuid.UUID) error {
	if err := uow.Task().DeleteTask(ctx, id); err != nil {
		return err
	}

	return uow.Outbox().CreateEntityEvent(ctx, domain.EntityEvent{
		Type:      domain.EventType_ENTITY_DELETED,
		Kind:      domain.EntityKind_Task,
		EntityID:  id,
		CreatedAt: s.timeProvider.Now(),
	})
}

// InitTaskService initializes the task use cases and registers them in the
// dependency container.
type InitTaskService struct {
	TimeProvider domain.CurrentTimeProvider `resolve:""`
}

func (i InitTaskService) Initialize(ctx context.Context) (context.Context, error) {
	svc := NewTaskServiceImpl(i.TimeProvider)
	depend.Register[TaskCreator](svc)
	depend.Register[TaskUpdater](svc)
	depend.Register[TaskDeleter](svc)
	return ctx, nil
}
