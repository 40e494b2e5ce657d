package assistant

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/mirahq/academy-crm/internal/domain"
)

type fakeTool struct {
	definition domain.ToolDefinition
	status     string
	callFn     func(ctx context.Context, call domain.ToolCall) domain.ToolResponse
}

func (f fakeTool) Definition() domain.ToolDefinition { return f.definition }
func (f fakeTool) StatusMessage() string             { return f.status }
func (f fakeTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	return f.callFn(ctx, call)
}

func echoTool(name string) fakeTool {
	return fakeTool{
		definition: domain.ToolDefinition{Name: name},
		callFn: func(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
			return domain.ToolResponse{
				ID:     call.ID,
				Name:   call.Name,
				Result: map[string]any{"message": "ok"},
			}
		},
	}
}

type fakeStudentRepo struct {
	students []domain.Student
	listErr  error
	lastOpts domain.ListStudentsParams
}

func (f *fakeStudentRepo) ListStudents(ctx context.Context, page, pageSize int, opts ...domain.ListStudentsOption) ([]domain.Student, bool, error) {
	for _, opt := range opts {
		opt(&f.lastOpts)
	}
	return f.students, false, f.listErr
}

func (f *fakeStudentRepo) GetStudent(ctx context.Context, id uuid.UUID) (domain.Student, bool, error) {
	for _, s := range f.students {
		if s.ID == id {
			return s, true, nil
		}
	}
	return domain.Student{}, false, nil
}

func (f *fakeStudentRepo) CreateStudent(ctx context.Context, student domain.Student) error { return nil }
func (f *fakeStudentRepo) UpdateStudent(ctx context.Context, student domain.Student) error { return nil }
func (f *fakeStudentRepo) DeleteStudent(ctx context.Context, id uuid.UUID) error           { return nil }
func (f *fakeStudentRepo) EnrollStudent(ctx context.Context, studentID, courseID uuid.UUID) error {
	return nil
}

type fakeEmployeeRepo struct {
	employees []domain.Employee
}

func (f *fakeEmployeeRepo) ListEmployees(ctx context.Context, page, pageSize int, opts ...domain.ListEmployeesOption) ([]domain.Employee, bool, error) {
	return f.employees, false, nil
}

func (f *fakeEmployeeRepo) GetEmployee(ctx context.Context, id uuid.UUID) (domain.Employee, bool, error) {
	return domain.Employee{}, false, nil
}

func (f *fakeEmployeeRepo) CreateEmployee(ctx context.Context, employee domain.Employee) error {
	return nil
}

func (f *fakeEmployeeRepo) UpdateEmployee(ctx context.Context, employee domain.Employee) error {
	return nil
}

func (f *fakeEmployeeRepo) DeleteEmployee(ctx context.Context, id uuid.UUID) error { return nil }

type fakeCourseRepo struct {
	courses []domain.Course
}

func (f *fakeCourseRepo) ListCourses(ctx context.Context, page, pageSize int, opts ...domain.ListCoursesOption) ([]domain.Course, bool, error) {
	return f.courses, false, nil
}

func (f *fakeCourseRepo) GetCourse(ctx context.Context, id uuid.UUID) (domain.Course, bool, error) {
	return domain.Course{}, false, nil
}

func (f *fakeCourseRepo) CreateCourse(ctx context.Context, course domain.Course) error { return nil }
func (f *fakeCourseRepo) UpdateCourse(ctx context.Context, course domain.Course) error { return nil }
func (f *fakeCourseRepo) DeleteCourse(ctx context.Context, id uuid.UUID) error         { return nil }

type fakeTaskRepo struct {
	tasks []domain.Task
}

func (f *fakeTaskRepo) ListTasks(ctx context.Context, page, pageSize int, opts ...domain.ListTasksOption) ([]domain.Task, bool, error) {
	return f.tasks, false, nil
}

func (f *fakeTaskRepo) GetTask(ctx context.Context, id uuid.UUID) (domain.Task, bool, error) {
	return domain.Task{}, false, nil
}

func (f *fakeTaskRepo) CreateTask(ctx context.Context, task domain.Task) error { return nil }
func (f *fakeTaskRepo) UpdateTask(ctx context.Context, task domain.Task) error { return nil }
func (f *fakeTaskRepo) DeleteTask(ctx context.Context, id uuid.UUID) error     { return nil }

type fakeMemoryRepo struct {
	facts []domain.MemoryFact
}

func (f *fakeMemoryRepo) ListFacts(ctx context.Context) ([]domain.MemoryFact, error) {
	return f.facts, nil
}

func (f *fakeMemoryRepo) SaveFact(ctx context.Context, fact domain.MemoryFact) error {
	f.facts = append(f.facts, fact)
	return nil
}

func (f *fakeMemoryRepo) DeleteFact(ctx context.Context, id uuid.UUID) error { return nil }

type fakeKnowledgeRepo struct {
	snippets []domain.KnowledgeSnippet
}

func (f *fakeKnowledgeRepo) UpsertSnippet(ctx context.Context, snippet domain.KnowledgeSnippet) error {
	return nil
}

func (f *fakeKnowledgeRepo) DeleteSnippet(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeKnowledgeRepo) SearchSimilar(ctx context.Context, embedding pgvector.Vector, limit int) ([]domain.KnowledgeSnippet, error) {
	if limit < len(f.snippets) {
		return f.snippets[:limit], nil
	}
	return f.snippets, nil
}

type fakeEmbedder struct {
	err error
}

func (f fakeEmbedder) EmbedText(ctx context.Context, text string) (pgvector.Vector, error) {
	if f.err != nil {
		return pgvector.Vector{}, f.err
	}
	return pgvector.NewVector([]float32{0.1, 0.2, 0.3}), nil
}

type fakeConvRepo struct {
	mu       sync.Mutex
	messages []domain.ConversationMessage
}

func (f *fakeConvRepo) ListMessages(ctx context.Context, page, pageSize int) ([]domain.ConversationMessage, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ConversationMessage{}, f.messages...), false, nil
}

func (f *fakeConvRepo) AppendMessage(ctx context.Context, message domain.ConversationMessage) error {
	f.mu.Lock()
	f.messages = append(f.messages, message)
	f.mu.Unlock()
	return nil
}

func (f *fakeConvRepo) ClearMessages(ctx context.Context) error {
	f.mu.Lock()
	f.messages = nil
	f.mu.Unlock()
	return nil
}

func (f *fakeConvRepo) snapshot() []domain.ConversationMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ConversationMessage{}, f.messages...)
}

// fakeLiveStream scripts inbound events and records everything sent. Recv
// blocks on the events channel, returning io.EOF when it is closed.
type fakeLiveStream struct {
	events  chan domain.LiveEvent
	recvErr error

	mu            sync.Mutex
	sentAudio     [][]byte
	sentText      []string
	sentResponses [][]domain.ToolResponse
	closed        int
}

func newFakeLiveStream() *fakeLiveStream {
	return &fakeLiveStream{events: make(chan domain.LiveEvent, 32)}
}

func (f *fakeLiveStream) SendAudio(ctx context.Context, pcm []byte) error {
	f.mu.Lock()
	f.sentAudio = append(f.sentAudio, pcm)
	f.mu.Unlock()
	return nil
}

func (f *fakeLiveStream) SendText(ctx context.Context, text string) error {
	f.mu.Lock()
	f.sentText = append(f.sentText, text)
	f.mu.Unlock()
	return nil
}

func (f *fakeLiveStream) SendToolResponses(ctx context.Context, responses []domain.ToolResponse) error {
	f.mu.Lock()
	f.sentResponses = append(f.sentResponses, responses)
	f.mu.Unlock()
	return nil
}

func (f *fakeLiveStream) Recv(ctx context.Context) (domain.LiveEvent, error) {
	select {
	case event, ok := <-f.events:
		if !ok {
			if f.recvErr != nil {
				return domain.LiveEvent{}, f.recvErr
			}
			return domain.LiveEvent{}, io.EOF
		}
		return event, nil
	case <-ctx.Done():
		return domain.LiveEvent{}, ctx.Err()
	}
}

func (f *fakeLiveStream) Close() error {
	f.mu.Lock()
	f.closed++
	f.mu.Unlock()
	return nil
}

func (f *fakeLiveStream) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time { return f.now }
