package http

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/usecases"
)

// fakeUow hands the callback back to itself, so service fakes observe the
// same unit of work the handler started.
type fakeUow struct {
	students domain.StudentRepository
	execErr  error
}

func (f *fakeUow) Student() domain.StudentRepository           { return f.students }
func (f *fakeUow) Employee() domain.EmployeeRepository         { return nil }
func (f *fakeUow) Course() domain.CourseRepository             { return nil }
func (f *fakeUow) Task() domain.TaskRepository                 { return nil }
func (f *fakeUow) Finance() domain.FinanceRepository           { return nil }
func (f *fakeUow) Memory() domain.MemoryRepository             { return nil }
func (f *fakeUow) Knowledge() domain.KnowledgeRepository       { return nil }
func (f *fakeUow) Conversation() domain.ConversationRepository { return nil }
func (f *fakeUow) Outbox() domain.OutboxRepository             { return nil }

func (f *fakeUow) Execute(ctx context.Context, fn func(uow domain.UnitOfWork) error) error {
	if f.execErr != nil {
		return f.execErr
	}
	return fn(f)
}

type fakeStudentRepo struct {
	listFn func(ctx context.Context, page, pageSize int, opts ...domain.ListStudentsOption) ([]domain.Student, bool, error)
	getFn  func(ctx context.Context, id uuid.UUID) (domain.Student, bool, error)
}

func (f *fakeStudentRepo) ListStudents(ctx context.Context, page, pageSize int, opts ...domain.ListStudentsOption) ([]domain.Student, bool, error) {
	return f.listFn(ctx, page, pageSize, opts...)
}

func (f *fakeStudentRepo) GetStudent(ctx context.Context, id uuid.UUID) (domain.Student, bool, error) {
	return f.getFn(ctx, id)
}

func (f *fakeStudentRepo) CreateStudent(ctx context.Context, student domain.Student) error {
	return nil
}

func (f *fakeStudentRepo) UpdateStudent(ctx context.Context, student domain.Student) error {
	return nil
}

func (f *fakeStudentRepo) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeStudentRepo) EnrollStudent(ctx context.Context, studentID, courseID uuid.UUID) error {
	return nil
}

type fakeStudentCreator struct {
	createFn func(ctx context.Context, uow domain.UnitOfWork, student domain.Student) (domain.Student, error)
}

func (f *fakeStudentCreator) Create(ctx context.Context, uow domain.UnitOfWork, student domain.Student) (domain.Student, error) {
	return f.createFn(ctx, uow, student)
}

type fakeSendTurn struct {
	executeFn func(ctx context.Context, userText string, mode domain.AssistantMode, opts ...usecases.SendTurnOption) (domain.ConversationMessage, error)
}

func (f *fakeSendTurn) Execute(ctx context.Context, userText string, mode domain.AssistantMode, opts ...usecases.SendTurnOption) (domain.ConversationMessage, error) {
	return f.executeFn(ctx, userText, mode, opts...)
}

type fakeListConversation struct {
	queryFn func(ctx context.Context, page, pageSize int) ([]domain.ConversationMessage, bool, error)
}

func (f *fakeListConversation) Query(ctx context.Context, page, pageSize int) ([]domain.ConversationMessage, bool, error) {
	return f.queryFn(ctx, page, pageSize)
}

type fakeClearConversation struct {
	executeErr error
	called     bool
}

func (f *fakeClearConversation) Execute(ctx context.Context) error {
	f.called = true
	return f.executeErr
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }
