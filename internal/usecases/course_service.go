package usecases

import (
	"context"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"

	"github.com/mirahq/academy-crm/internal/domain"
)

// CourseCreator defines the interface for creating courses within a unit of work.
type CourseCreator interface {
	Create(ctx context.Context, uow domain.UnitOfWork, course domain.Course) (domain.Course, error)
}

// CourseUpdater defines the interface for updating courses within a unit of work.
type CourseUpdater interface {
	Update(ctx context.Context, uow domain.UnitOfWork, course domain.Course) (domain.Course, error)
}

// CourseDeleter defines the interface for deleting courses within a unit of work.
type CourseDeleter interface {
	Delete(ctx context.Context, uow domain.UnitOfWork, id uuid.UUID) error
}

// CourseServiceImpl implements the course mutation use cases.
type CourseServiceImpl struct {
	timeProvider domain.CurrentTimeProvider
	createUUID   func() uuid.UUID
}

// NewCourseServiceImpl creates a new instance of CourseServiceImpl.
func NewCourseServiceImpl(timeProvider domain.CurrentTimeProvider) CourseServiceImpl {
	return CourseServiceImpl{
		timeProvider: timeProvider,
		createUUID:   uuid.New,
	}
}

// Create persists a new course.
func (s CourseServiceImpl) Create(ctx context.Context, uow domain.UnitOfWork, course domain.Course) (domain.Course, error) {
	now := s.timeProvider.Now()
	course.ID = s.createUUID()
	course.CreatedAt = now
	course.UpdatedAt = now

	if err := course.Validate(); err != nil {
		return domain.Course{}, err
	}

	if err := uow.Course().CreateCourse(ctx, course); err != nil {
		return domain.Course{}, err
	}

	err := uow.Outbox().CreateEntityEvent(ctx, domain.EntityEvent{
		Type:      domain.EventType_ENTITY_CREATED,
		Kind:      domain.EntityKind_Course,
		EntityID:  course.ID,
		CreatedAt: now,
	})
	if err != nil {
		return domain.Course{}, err
	}

	return course, nil
}

// Update persists changes to an existing course.
func (s CourseServiceImpl) Update(ctx context.Context, uow domain.UnitOfWork, course domain.Course) (domain.Course, error) {
	now := s.timeProvider.Now()
	course.UpdatedAt = now

	if err := course.Validate(); err != nil {
		return domain.Course{}, err
	}

	if err := uow.Course().UpdateCourse(ctx, course); err != nil {
		return domain.Course{}, err
	}

	err := uow.Outbox().CreateEntityEvent(ctx, domain.EntityEvent{
		Type:      domain.EventType_ENTITY_UPDATED,
		Kind:      domain.EntityKind_Course,
		EntityID:  course.ID,
		CreatedAt: now,
	})
	if err != nil {
		return domain.Course{}, err
	}

	return course, nil
}

// Delete removes a course.
func (s CourseServiceImpl) Delete(ctx context.Context, uow domain.UnitOfWork, id uuid.UUID) error {
	if err := uow.Course().DeleteCourse(ctx, id); err != nil {
		return err
	}

	return uow.Outbox().CreateEntityEvent(ctx, domain.EntityEvent{
		Type:      domain.EventType_ENTITY_DELETED,
		Kind:      domain.EntityKind_Course,
		EntityID:  id,
		CreatedAt: s.timeProvider.Now(),
	})
}

// InitCourseService initializes the course use cases and registers them in the
// dependency container.
type InitCourseService struct {
	TimeProvider domain.CurrentTimeProvider `resolve:""`
}

func (i InitCourseService) Initialize(ctx context.Context) (context.Context, error) {
	svc := NewCourseServiceImpl(i.TimeProvider)
	depend.Register[CourseCreator](svc)
	depend.Register[CourseUpdater](svc)
	depend.Register[CourseDeleter](svc)
	return ctx, nil
}
