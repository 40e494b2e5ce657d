package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mirahq/academy-crm/internal/domain"
)

type fakeGateway struct {
	result   domain.TurnResult
	err      error
	lastReq  domain.TurnRequest
	reqCount int
}

func (f *fakeGateway) GenerateTurn(ctx context.Context, req domain.TurnRequest) (domain.TurnResult, error) {
	f.lastReq = req
	f.reqCount++
	return f.result, f.err
}

func (f *fakeGateway) ConnectLive(ctx context.Context, cfg domain.LiveConfig) (domain.LiveStream, error) {
	return nil, nil
}

type fakeRegistry struct {
	tools      []domain.ToolDefinition
	responses  []domain.ToolResponse
	dispatched [][]domain.ToolCall
}

func (f *fakeRegistry) List() []domain.ToolDefinition { return f.tools }

func (f *fakeRegistry) Dispatch(ctx context.Context, calls []domain.ToolCall) []domain.ToolResponse {
	f.dispatched = append(f.dispatched, calls)
	return f.responses
}

func (f *fakeRegistry) StatusMessage(toolName string) string { return "⏳ Processing request..." }

type fakeContextBuilder struct {
	instruction string
	err         error
	lastMode    domain.AssistantMode
}

func (f *fakeContextBuilder) BuildSystemContext(ctx context.Context, mode domain.AssistantMode, userText string) (string, error) {
	f.lastMode = mode
	return f.instruction, f.err
}

type fakeConvRepo struct {
	messages  []domain.ConversationMessage
	appendErr error
	listErr   error
}

func (f *fakeConvRepo) ListMessages(ctx context.Context, page, pageSize int) ([]domain.ConversationMessage, bool, error) {
	return f.messages, false, f.listErr
}

func (f *fakeConvRepo) AppendMessage(ctx context.Context, message domain.ConversationMessage) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeConvRepo) ClearMessages(ctx context.Context) error {
	f.messages = nil
	return nil
}

type fakeOutboxRepo struct {
	pending      []domain.OutboxEvent
	fetchErr     error
	entityEvents []domain.EntityEvent
	chatEvents   []domain.ChatMessageEvent
	updated      []domain.OutboxEvent
	deletedIDs   []uuid.UUID
}

func (f *fakeOutboxRepo) CreateEntityEvent(ctx context.Context, event domain.EntityEvent) error {
	f.entityEvents = append(f.entityEvents, event)
	return nil
}

func (f *fakeOutboxRepo) CreateChatEvent(ctx context.Context, event domain.ChatMessageEvent) error {
	f.chatEvents = append(f.chatEvents, event)
	return nil
}

func (f *fakeOutboxRepo) FetchPendingEvents(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	return f.pending, f.fetchErr
}

func (f *fakeOutboxRepo) UpdateEvent(ctx context.Context, eventID uuid.UUID, status domain.OutboxStatus, retryCount int, lastError string) error {
	f.updated = append(f.updated, domain.OutboxEvent{
		ID:         eventID,
		Status:     status,
		RetryCount: retryCount,
		LastError:  &lastError,
	})
	return nil
}

func (f *fakeOutboxRepo) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	f.deletedIDs = append(f.deletedIDs, eventID)
	return nil
}

type fakeStudentRepo struct {
	students map[uuid.UUID]domain.Student
	enrolled [][2]uuid.UUID
}

func (f *fakeStudentRepo) ListStudents(ctx context.Context, page, pageSize int, opts ...domain.ListStudentsOption) ([]domain.Student, bool, error) {
	return nil, false, nil
}

func (f *fakeStudentRepo) GetStudent(ctx context.Context, id uuid.UUID) (domain.Student, bool, error) {
	s, ok := f.students[id]
	return s, ok, nil
}

func (f *fakeStudentRepo) CreateStudent(ctx context.Context, student domain.Student) error {
	f.students[student.ID] = student
	return nil
}

func (f *fakeStudentRepo) UpdateStudent(ctx context.Context, student domain.Student) error {
	f.students[student.ID] = student
	return nil
}

func (f *fakeStudentRepo) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	delete(f.students, id)
	return nil
}

func (f *fakeStudentRepo) EnrollStudent(ctx context.Context, studentID, courseID uuid.UUID) error {
	f.enrolled = append(f.enrolled, [2]uuid.UUID{studentID, courseID})
	return nil
}

type fakeCourseRepo struct {
	courses map[uuid.UUID]domain.Course
}

func (f *fakeCourseRepo) ListCourses(ctx context.Context, page, pageSize int, opts ...domain.ListCoursesOption) ([]domain.Course, bool, error) {
	return nil, false, nil
}

func (f *fakeCourseRepo) GetCourse(ctx context.Context, id uuid.UUID) (domain.Course, bool, error) {
	c, ok := f.courses[id]
	return c, ok, nil
}

func (f *fakeCourseRepo) CreateCourse(ctx context.Context, course domain.Course) error { return nil }
func (f *fakeCourseRepo) UpdateCourse(ctx context.Context, course domain.Course) error { return nil }
func (f *fakeCourseRepo) DeleteCourse(ctx context.Context, id uuid.UUID) error         { return nil }

type fakeFinanceRepo struct {
	payments []domain.Payment
}

func (f *fakeFinanceRepo) ListIncome(ctx context.Context, page, pageSize int) ([]domain.Income, bool, error) {
	return nil, false, nil
}
func (f *fakeFinanceRepo) CreateIncome(ctx context.Context, income domain.Income) error { return nil }
func (f *fakeFinanceRepo) UpdateIncome(ctx context.Context, income domain.Income) error { return nil }
func (f *fakeFinanceRepo) DeleteIncome(ctx context.Context, id uuid.UUID) error         { return nil }

func (f *fakeFinanceRepo) ListExpenses(ctx context.Context, page, pageSize int) ([]domain.Expense, bool, error) {
	return nil, false, nil
}
func (f *fakeFinanceRepo) CreateExpense(ctx context.Context, expense domain.Expense) error {
	return nil
}
func (f *fakeFinanceRepo) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	return nil
}
func (f *fakeFinanceRepo) DeleteExpense(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeFinanceRepo) ListPayments(ctx context.Context, studentID *uuid.UUID, page, pageSize int) ([]domain.Payment, bool, error) {
	return f.payments, false, nil
}

func (f *fakeFinanceRepo) CreatePayment(ctx context.Context, payment domain.Payment) error {
	f.payments = append(f.payments, payment)
	return nil
}

func (f *fakeFinanceRepo) Summarize(ctx context.Context) (domain.FinancialSummary, error) {
	return domain.FinancialSummary{}, nil
}

// fakeUow hands its transactional callback right back to itself so tests see
// every repository interaction without a database.
type fakeUow struct {
	students   *fakeStudentRepo
	courses    *fakeCourseRepo
	finance    *fakeFinanceRepo
	conv       *fakeConvRepo
	outbox     *fakeOutboxRepo
	executeErr error
	executed   int
}

func (f *fakeUow) Student() domain.StudentRepository           { return f.students }
func (f *fakeUow) Employee() domain.EmployeeRepository         { return nil }
func (f *fakeUow) Course() domain.CourseRepository             { return f.courses }
func (f *fakeUow) Task() domain.TaskRepository                 { return nil }
func (f *fakeUow) Finance() domain.FinanceRepository           { return f.finance }
func (f *fakeUow) Memory() domain.MemoryRepository             { return nil }
func (f *fakeUow) Knowledge() domain.KnowledgeRepository       { return nil }
func (f *fakeUow) Conversation() domain.ConversationRepository { return f.conv }
func (f *fakeUow) Outbox() domain.OutboxRepository             { return f.outbox }

func (f *fakeUow) Execute(ctx context.Context, fn func(uow domain.UnitOfWork) error) error {
	f.executed++
	if f.executeErr != nil {
		return f.executeErr
	}
	return fn(f)
}

type fakePublisher struct {
	errs      map[uuid.UUID]error
	published []domain.OutboxEvent
}

func (f *fakePublisher) PublishEvent(ctx context.Context, event domain.OutboxEvent) error {
	if err, ok := f.errs[event.ID]; ok {
		return err
	}
	f.published = append(f.published, event)
	return nil
}

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time { return f.now }
