package usecases

import (
	"context"
	"fmt"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"

	"github.com/mirahq/academy-crm/internal/domain"
)

// StudentCreator defines the interface for creating students within a unit of work.
type StudentCreator interface {
	Create(ctx context.Context, uow domain.UnitOfWork, student domain.Student) (domain.Student, error)
}

// StudentUpdater defines the interface for updating students within a unit of work.
type StudentUpdater interface {
	Update(ctx context.Context, uow domain.UnitOfWork, student domain.Student) (domain.Student, error)
}

// StudentDeleter defines the interface for deleting students within a unit of work.
type StudentDeleter interface {
	Delete(ctx context.Context, uow domain.UnitOfWork, id uuid.UUID) error
}

// StudentEnroller defines the interface for enrolling students into courses.
type StudentEnroller interface {
	Enroll(ctx context.Context, uow domain.UnitOfWork, studentID, courseID uuid.UUID) (domain.Student, error)
}

// PaymentRecorder defines the interface for recording student fee payments.
type PaymentRecorder interface {
	Record(ctx context.Context, uow domain.UnitOfWork, payment domain.Payment) (domain.Student, error)
}

// StudentServiceImpl implements the student mutation use cases. Every method
// runs against the repositories of the unit of work it receives, so callers
// control the transaction boundary.
type StudentServiceImpl struct {
	timeProvider domain.CurrentTimeProvider
	createUUID   func() uuid.UUID
}

// NewStudentServiceImpl creates a new instance of StudentServiceImpl.
func NewStudentServiceImpl(timeProvider domain.CurrentTimeProvider) StudentServiceImpl {
	return StudentServiceImpl{
		timeProvider: timeProvider,
		createUUID:   uuid.New,
	}
}

// Create persists a new student and records the creation event.
func (s StudentServiceImpl) Create(ctx context.Context, uow domain.UnitOfWork, student domain.Student) (domain.Student, error) {
	now := s.timeProvider.Now()
	student.ID = s.createUUID()
	student.CreatedAt = now
	student.UpdatedAt = now

	if err := student.Validate(); err != nil {
		return domain.Student{}, err
	}

	if err := uow.Student().CreateStudent(ctx, student); err != nil {
		return domain.Student{}, err
	}

	err := uow.Outbox().CreateEntityEvent(ctx, domain.EntityEvent{
		Type:      domain.EventType_ENTITY_CREATED,
		Kind:      domain.EntityKind_Student,
		EntityID:  student.ID,
		CreatedAt: now,
	})
	if err != nil {
		return domain.Student{}, err
	}

	return student, nil
}

// Update persists changes to an existing student and records the update event.
func (s StudentServiceImpl) Update(ctx context.Context, uow domain.UnitOfWork, student domain.Student) (domain.Student, error) {
	now := s.timeProvider.Now()
	student.UpdatedAt = now

	if err := student.Validate(); err != nil {
		return domain.Student{}, err
	}

	if err := uow.Student().UpdateStudent(ctx, student); err != nil {
		return domain.Student{}, err
	}

	err := uow.Outbox().CreateEntityEvent(ctx, domain.EntityEvent{
		Type:      domain.EventType_ENTITY_UPDATED,
		Kind:      domain.EntityKind_Student,
		EntityID:  student.ID,
		CreatedAt: now,
	})
	if err != nil {
		return domain.Student{}, err
	}

	return student, nil
}

// Delete removes a student and records the deletion event.
func (s StudentServiceImpl) Delete(ctx context.Context, uow domain.UnitOfWork, id uuid.UUID) error {
	if err := uow.Student().DeleteStudent(ctx, id); err != nil {
		return err
	}

	return uow.Outbox().CreateEntityEvent(ctx, domain.EntityEvent{
		Type:      domain.EventType_ENTITY_DELETED,
		Kind:      domain.EntityKind_Student,
		EntityID:  id,
		CreatedAt: s.timeProvider.Now(),
	})
}

// Enroll links a student to a course and adds the course fee to the
// student's total. Both writes share the caller's unit of work.
func (s StudentServiceImpl) Enroll(ctx context.Context, uow domain.UnitOfWork, studentID, courseID uuid.UUID) (domain.Student, error) {
	student, found, err := uow.Student().GetStudent(ctx, studentID)
	if err != nil {
		return domain.Student{}, err
	}
	if !found {
		return domain.Student{}, domain.NewNotFoundErr(fmt.Sprintf("student %s not found", studentID))
	}

	course, found, err := uow.Course().GetCourse(ctx, courseID)
	if err != nil {
		return domain.Student{}, err
	}
	if !found {
		return domain.Student{}, domain.NewNotFoundErr(fmt.Sprintf("course %s not found", courseID))
	}

	for _, enrolled := range student.CourseIDs {
		if enrolled == courseID {
			return domain.Student{}, domain.NewValidationErr(
				fmt.Sprintf("%s is already enrolled in %s", student.Name, course.Name))
		}
	}

	if err := uow.Student().EnrollStudent(ctx, studentID, courseID); err != nil {
		return domain.Student{}, err
	}

	student.CourseIDs = append(student.CourseIDs, courseID)
	student.TotalFee = student.TotalFee.Add(course.Fee)
	return s.Update(ctx, uow, student)
}

// Record stores a payment row and bumps the student's paid amount in the same
// unit of work, so a partial write cannot survive a failure between the two.
func (s StudentServiceImpl) Record(ctx context.Context, uow domain.UnitOfWork, payment domain.Payment) (domain.Student, error) {
	now := s.timeProvider.Now()
	payment.ID = s.createUUID()
	payment.CreatedAt = now
	if payment.Method == "" {
		payment.Method = domain.DefaultPaymentMethod
	}
	if payment.PaidAt.IsZero() {
		payment.PaidAt = now
	}

	if err := payment.Validate(); err != nil {
		return domain.Student{}, err
	}

	student, found, err := uow.Student().GetStudent(ctx, payment.StudentID)
	if err != nil {
		return domain.Student{}, err
	}
	if !found {
		return domain.Student{}, domain.NewNotFoundErr(fmt.Sprintf("student %s not found", payment.StudentID))
	}

	if err := uow.Finance().CreatePayment(ctx, payment); err != nil {
		return domain.Student{}, err
	}

	student.PaidAmount = student.PaidAmount.Add(payment.Amount)
	return s.Update(ctx, uow, student)
}

// InitStudentService initializes the student use cases and registers them in
// the dependency container.
type InitStudentService struct {
	TimeProvider domain.CurrentTimeProvider `resolve:""`
}

func (i InitStudentService) Initialize(ctx context.Context) (context.Context, error) {
	svc := NewStudentServiceImpl(i.TimeProvider)
	depend.Register[StudentCreator](svc)
	depend.Register[StudentUpdater](svc)
	depend.Register[StudentDeleter](svc)
	depend.Register[StudentEnroller](svc)
	depend.Register[PaymentRecorder](svc)
	return ctx, nil
}
