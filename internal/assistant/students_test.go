package assistant

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirahq/academy-crm/internal/domain"
)

type fakeResolver struct {
	resolution domain.Resolution
	err        error
	lastKind   domain.EntityKind
	lastQuery  string
}

func (f *fakeResolver) Resolve(ctx context.Context, kind domain.EntityKind, query string) (domain.Resolution, error) {
	f.lastKind = kind
	f.lastQuery = query
	return f.resolution, f.err
}

// trackingUow counts Execute calls so tests can assert that ambiguous and
// not-found resolutions never open a transaction.
type trackingUow struct {
	students domain.StudentRepository
	executed int
}

func (f *trackingUow) Student() domain.StudentRepository           { return f.students }
func (f *trackingUow) Employee() domain.EmployeeRepository         { return nil }
func (f *trackingUow) Course() domain.CourseRepository             { return nil }
func (f *trackingUow) Task() domain.TaskRepository                 { return nil }
func (f *trackingUow) Finance() domain.FinanceRepository           { return nil }
func (f *trackingUow) Memory() domain.MemoryRepository             { return nil }
func (f *trackingUow) Knowledge() domain.KnowledgeRepository       { return nil }
func (f *trackingUow) Conversation() domain.ConversationRepository { return nil }
func (f *trackingUow) Outbox() domain.OutboxRepository             { return nil }

func (f *trackingUow) Execute(ctx context.Context, fn func(uow domain.UnitOfWork) error) error {
	f.executed++
	return fn(f)
}

type fakeStudentCreator struct {
	created []domain.Student
}

func (f *fakeStudentCreator) Create(ctx context.Context, uow domain.UnitOfWork, student domain.Student) (domain.Student, error) {
	student.ID = uuid.New()
	f.created = append(f.created, student)
	return student, nil
}

type fakeStudentDeleter struct {
	deletedIDs []uuid.UUID
	err        error
}

func (f *fakeStudentDeleter) Delete(ctx context.Context, uow domain.UnitOfWork, id uuid.UUID) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return f.err
}

func TestStudentDeleteTool_Call(t *testing.T) {
	matchID := uuid.New()

	tests := map[string]struct {
		resolution      domain.Resolution
		expectedWrites  int
		expectedDeleted int
		expectMessage   string
		expectSuggested int
	}{
		"found-deletes": {
			resolution: domain.Resolution{
				Outcome: domain.ResolutionOutcome_Found,
				Match:   domain.Candidate{ID: matchID, Name: "Amina Yusuf"},
			},
			expectedWrites:  1,
			expectedDeleted: 1,
			expectMessage:   "Student Amina Yusuf was deleted.",
		},
		"not-found-writes-nothing": {
			resolution:     domain.Resolution{Outcome: domain.ResolutionOutcome_NotFound},
			expectedWrites: 0,
			expectMessage:  `No student matching "ami" was found.`,
		},
		"ambiguous-writes-nothing": {
			resolution: domain.Resolution{
				Outcome: domain.ResolutionOutcome_Ambiguous,
				Candidates: []domain.Candidate{
					{ID: uuid.New(), Name: "Amina Yusuf"},
					{ID: uuid.New(), Name: "Amina Farah"},
				},
			},
			expectedWrites:  0,
			expectSuggested: 2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			uow := &trackingUow{}
			deleter := &fakeStudentDeleter{}
			resolver := &fakeResolver{resolution: tt.resolution}
			tool := NewStudentDeleteTool(uow, deleter, resolver)

			resp := tool.Call(context.Background(), domain.ToolCall{
				ID:   "call-1",
				Name: "deleteStudent",
				Args: map[string]any{"name": "ami"},
			})

			assert.Equal(t, "call-1", resp.ID)
			assert.Empty(t, resp.Error)
			assert.Equal(t, tt.expectedWrites, uow.executed)
			assert.Len(t, deleter.deletedIDs, tt.expectedDeleted)
			assert.Equal(t, domain.EntityKind_Student, resolver.lastKind)
			assert.Equal(t, "ami", resolver.lastQuery)

			if tt.expectMessage != "" {
				assert.Equal(t, tt.expectMessage, resp.Result["message"])
			}
			if tt.expectSuggested > 0 {
				suggestions, ok := resp.Result["suggestions"].([]map[string]any)
				require.True(t, ok)
				assert.Len(t, suggestions, tt.expectSuggested)
			}
		})
	}
}

func TestStudentCreateTool_Call(t *testing.T) {
	uow := &trackingUow{}
	creator := &fakeStudentCreator{}
	tool := NewStudentCreateTool(uow, creator)

	resp := tool.Call(context.Background(), domain.ToolCall{
		ID:   "call-1",
		Name: "addStudent",
		Args: map[string]any{"name": "Amina Yusuf", "total_fee": 300.0},
	})

	assert.Empty(t, resp.Error)
	message, ok := resp.Result["message"].(string)
	require.True(t, ok)
	assert.Contains(t, message, "Student Amina Yusuf was added.")
	assert.Equal(t, 1, uow.executed)
	require.Len(t, creator.created, 1)
	assert.Equal(t, "300", creator.created[0].TotalFee.String())
}

func TestStudentDeleteTool_Call_RejectsUnknownArgs(t *testing.T) {
	tool := NewStudentDeleteTool(&trackingUow{}, &fakeStudentDeleter{}, &fakeResolver{})

	resp := tool.Call(context.Background(), domain.ToolCall{
		ID:   "call-1",
		Name: "deleteStudent",
		Args: map[string]any{"name": "ami", "force": true},
	})

	assert.Equal(t, "invalid_arguments", resp.Result["error"])
}

func TestStudentListTool_Call(t *testing.T) {
	repo := &fakeStudentRepo{students: []domain.Student{
		{ID: uuid.New(), Name: "Amina Yusuf"},
	}}
	tool := NewStudentListTool(repo)

	resp := tool.Call(context.Background(), domain.ToolCall{
		ID:   "call-1",
		Name: "listStudents",
		Args: map[string]any{"page": 1, "page_size": 20, "name": "ami"},
	})

	assert.Empty(t, resp.Error)
	table, ok := resp.Result["students"].(string)
	require.True(t, ok)
	assert.Contains(t, table, "Amina Yusuf")
	assert.Equal(t, false, resp.Result["next_page"])
	require.NotNil(t, repo.lastOpts.NameContains)
	assert.Equal(t, "ami", *repo.lastOpts.NameContains)
}

func TestStudentListTool_Call_RejectsNonPositivePaging(t *testing.T) {
	tool := NewStudentListTool(&fakeStudentRepo{})

	resp := tool.Call(context.Background(), domain.ToolCall{
		ID:   "call-1",
		Name: "listStudents",
		Args: map[string]any{"page": 0, "page_size": 20},
	})

	assert.Equal(t, "invalid_arguments", resp.Result["error"])
}
