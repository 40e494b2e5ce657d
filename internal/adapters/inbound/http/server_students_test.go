package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirahq/academy-crm/internal/domain"
)

var domainStudent = domain.Student{
	ID:         uuid.MustParse("123e4567-e89b-12d3-a456-426614174000"),
	Name:       "Amina Yusuf",
	Phone:      "+252612345678",
	Email:      "amina@example.com",
	TotalFee:   decimal.NewFromInt(300),
	PaidAmount: decimal.NewFromInt(100),
	CreatedAt:  time.Date(2026, 1, 22, 10, 30, 0, 0, time.UTC),
	UpdatedAt:  time.Date(2026, 1, 22, 10, 30, 0, 0, time.UTC),
}

func serializeJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestAcademyServer_CreateStudent(t *testing.T) {
	tests := map[string]struct {
		requestBody    []byte
		createResult   domain.Student
		createErr      error
		expectedStatus int
		expectedCode   errorCode
	}{
		"success": {
			requestBody:    serializeJSON(t, createStudentReq{Name: "Amina Yusuf"}),
			createResult:   domainStudent,
			expectedStatus: http.StatusCreated,
		},
		"validation-error": {
			requestBody:    serializeJSON(t, createStudentReq{}),
			createErr:      domain.NewValidationErr("name cannot be empty"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   errCode_BadRequest,
		},
		"invalid-json-body": {
			requestBody:    []byte(`{"name":`),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   errCode_BadRequest,
		},
		"internal-server-error": {
			requestBody:    serializeJSON(t, createStudentReq{Name: "Amina Yusuf"}),
			createErr:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   errCode_InternalError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			api := &AcademyServer{
				Logger: log.Default(),
				Uow:    &fakeUow{},
				StudentCreator: &fakeStudentCreator{
					createFn: func(ctx context.Context, uow domain.UnitOfWork, student domain.Student) (domain.Student, error) {
						return tt.createResult, tt.createErr
					},
				},
			}

			req := httptest.NewRequest(http.MethodPost, "/students", bytes.NewReader(tt.requestBody))
			rec := httptest.NewRecorder()
			api.CreateStudent(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				var errResp errorResp
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
				assert.Equal(t, tt.expectedCode, errResp.Error.Code)
				return
			}

			var got studentResp
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, domainStudent.ID, got.ID)
			assert.Equal(t, domainStudent.Name, got.Name)
			assert.True(t, got.DueAmount.Equal(decimal.NewFromInt(200)))
		})
	}
}

func TestAcademyServer_GetStudent(t *testing.T) {
	tests := map[string]struct {
		id             string
		getResult      domain.Student
		getFound       bool
		getErr         error
		expectedStatus int
	}{
		"success": {
			id:             domainStudent.ID.String(),
			getResult:      domainStudent,
			getFound:       true,
			expectedStatus: http.StatusOK,
		},
		"not-found": {
			id:             uuid.NewString(),
			expectedStatus: http.StatusNotFound,
		},
		"invalid-id": {
			id:             "not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
		"database-error": {
			id:             domainStudent.ID.String(),
			getErr:         errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			api := &AcademyServer{
				Logger: log.Default(),
				StudentRepo: &fakeStudentRepo{
					getFn: func(ctx context.Context, id uuid.UUID) (domain.Student, bool, error) {
						return tt.getResult, tt.getFound, tt.getErr
					},
				},
			}

			req := httptest.NewRequest(http.MethodGet, "/students/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			rec := httptest.NewRecorder()
			api.GetStudent(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestAcademyServer_ListStudents(t *testing.T) {
	tests := map[string]struct {
		target           string
		students         []domain.Student
		hasMore          bool
		expectedStatus   int
		expectedNextPage *int
		expectedQuery    *string
	}{
		"first-page-with-more": {
			target:           "/students?page=1&page_size=1",
			students:         []domain.Student{domainStudent},
			hasMore:          true,
			expectedStatus:   http.StatusOK,
			expectedNextPage: intPtr(2),
		},
		"name-filter-forwarded": {
			target:         "/students?query=amina",
			students:       []domain.Student{domainStudent},
			expectedStatus: http.StatusOK,
			expectedQuery:  strPtr("amina"),
		},
		"invalid-course-id": {
			target:         "/students?course_id=nope",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var gotOpts domain.ListStudentsParams
			api := &AcademyServer{
				Logger: log.Default(),
				StudentRepo: &fakeStudentRepo{
					listFn: func(ctx context.Context, page, pageSize int, opts ...domain.ListStudentsOption) ([]domain.Student, bool, error) {
						for _, opt := range opts {
							opt(&gotOpts)
						}
						return tt.students, tt.hasMore, nil
					},
				},
			}

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			api.ListStudents(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var got listStudentsResp
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Len(t, got.Items, len(tt.students))
			assert.Equal(t, tt.expectedNextPage, got.NextPage)
			if tt.expectedQuery != nil {
				require.NotNil(t, gotOpts.NameContains)
				assert.Equal(t, *tt.expectedQuery, *gotOpts.NameContains)
			}
		})
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
