package assistant

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirahq/academy-crm/internal/domain"
)

func TestEntityResolver_Resolve_Students(t *testing.T) {
	makeStudents := func(n int) []domain.Student {
		students := make([]domain.Student, 0, n)
		for i := range n {
			students = append(students, domain.Student{
				ID:   uuid.New(),
				Name: fmt.Sprintf("Student %d", i+1),
			})
		}
		return students
	}

	tests := map[string]struct {
		students           []domain.Student
		expectedOutcome    domain.ResolutionOutcome
		expectedCandidates int
	}{
		"no-match": {
			students:        nil,
			expectedOutcome: domain.ResolutionOutcome_NotFound,
		},
		"single-match": {
			students:        makeStudents(1),
			expectedOutcome: domain.ResolutionOutcome_Found,
		},
		"two-matches-ambiguous": {
			students:           makeStudents(2),
			expectedOutcome:    domain.ResolutionOutcome_Ambiguous,
			expectedCandidates: 2,
		},
		"candidates-capped-at-five": {
			students:           makeStudents(9),
			expectedOutcome:    domain.ResolutionOutcome_Ambiguous,
			expectedCandidates: 5,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			studentRepo := &fakeStudentRepo{students: tt.students}
			resolver := NewEntityResolver(studentRepo, &fakeEmployeeRepo{}, &fakeCourseRepo{}, &fakeTaskRepo{})

			resolution, err := resolver.Resolve(context.Background(), domain.EntityKind_Student, "stu")
			require.NoError(t, err)
			assert.Equal(t, tt.expectedOutcome, resolution.Outcome)

			switch tt.expectedOutcome {
			case domain.ResolutionOutcome_Found:
				assert.Equal(t, tt.students[0].ID, resolution.Match.ID)
				assert.Empty(t, resolution.Candidates)
			case domain.ResolutionOutcome_Ambiguous:
				require.Len(t, resolution.Candidates, tt.expectedCandidates)
				// Candidates keep store order.
				for i, c := range resolution.Candidates {
					assert.Equal(t, tt.students[i].ID, c.ID)
				}
			}

			require.NotNil(t, studentRepo.lastOpts.NameContains)
			assert.Equal(t, "stu", *studentRepo.lastOpts.NameContains)
		})
	}
}

func TestEntityResolver_Resolve_OtherKinds(t *testing.T) {
	taskID := uuid.New()
	courseID := uuid.New()
	employeeID := uuid.New()

	resolver := NewEntityResolver(
		&fakeStudentRepo{},
		&fakeEmployeeRepo{employees: []domain.Employee{{ID: employeeID, Name: "Hassan"}}},
		&fakeCourseRepo{courses: []domain.Course{{ID: courseID, Name: "English B1"}}},
		&fakeTaskRepo{tasks: []domain.Task{{ID: taskID, Title: "Order chairs"}}},
	)

	tests := map[string]struct {
		kind         domain.EntityKind
		expectedID   uuid.UUID
		expectedName string
	}{
		"employee": {kind: domain.EntityKind_Employee, expectedID: employeeID, expectedName: "Hassan"},
		"course":   {kind: domain.EntityKind_Course, expectedID: courseID, expectedName: "English B1"},
		"task":     {kind: domain.EntityKind_Task, expectedID: taskID, expectedName: "Order chairs"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			resolution, err := resolver.Resolve(context.Background(), tt.kind, "x")
			require.NoError(t, err)
			assert.Equal(t, domain.ResolutionOutcome_Found, resolution.Outcome)
			assert.Equal(t, tt.expectedID, resolution.Match.ID)
			assert.Equal(t, tt.expectedName, resolution.Match.Name)
		})
	}
}

func TestEntityResolver_Resolve_RepoError(t *testing.T) {
	studentRepo := &fakeStudentRepo{listErr: assert.AnError}
	resolver := NewEntityResolver(studentRepo, &fakeEmployeeRepo{}, &fakeCourseRepo{}, &fakeTaskRepo{})

	_, err := resolver.Resolve(context.Background(), domain.EntityKind_Student, "amina")
	assert.Error(t, err)
}

func TestEntityResolver_Resolve_UnsupportedKind(t *testing.T) {
	resolver := NewEntityResolver(&fakeStudentRepo{}, &fakeEmployeeRepo{}, &fakeCourseRepo{}, &fakeTaskRepo{})

	_, err := resolver.Resolve(context.Background(), domain.EntityKind("invoice"), "x")
	assert.Error(t, err)
}
