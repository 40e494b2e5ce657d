package postgres

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/telemetry"
)

var (
	studentFields = []string{
		"id",
		"name",
		"phone",
		"email",
		"total_fee",
		"paid_amount",
		"notes",
		"created_at",
		"updated_at",
	}
)

// StudentRepository implements the domain.StudentRepository interface using
// PostgreSQL as the storage backend.
type StudentRepository struct {
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new instance of StudentRepository.
func NewStudentRepository(br squirrel.BaseRunner) StudentRepository {
	return StudentRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// ListStudents lists students with pagination and optional filters.
func (sr StudentRepository) ListStudents(ctx context.Context, page, pageSize int, opts ...domain.ListStudentsOption) ([]domain.Student, bool, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("pageSize", pageSize),
	))
	defer span.End()

	if pageSize <= 0 {
		return nil, false, domain.NewValidationErr("page_size must be greater than 0")
	}
	if page <= 0 {
		return nil, false, domain.NewValidationErr("page must be greater than 0")
	}

	qry := sr.sb.
		Select(studentFields...).
		From("students").
		OrderBy("created_at ASC").
		Limit(uint64(pageSize + 1)). // fetch one extra to determine if there's more
		Offset(uint64((page - 1) * pageSize))

	params := &domain.ListStudentsParams{}
	for _, opt := range opts {
		opt(params)
	}

	if params.NameContains != nil {
		qry = qry.Where(squirrel.ILike{"name": "%" + *params.NameContains + "%"})
	}
	if params.CourseID != nil {
		qry = qry.Where(squirrel.Expr(
			"id IN (SELECT student_id FROM student_courses WHERE course_id = ?)",
			*params.CourseID,
		))
	}

	rows, err := qry.QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}
	defer rows.Close() //nolint:errcheck

	var students []domain.Student
	for rows.Next() {
		var student domain.Student
		err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Phone,
			&student.Email,
			&student.TotalFee,
			&student.PaidAmount,
			&student.Notes,
			&student.CreatedAt,
			&student.UpdatedAt,
		)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, false, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}

	hasMore := false
	if len(students) > pageSize {
		students = students[:pageSize]
		hasMore = true
	}

	if err := sr.loadCourseIDs(spanCtx, students); telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}

	return students, hasMore, nil
}

// GetStudent retrieves a student by ID.
func (sr StudentRepository) GetStudent(ctx context.Context, id uuid.UUID) (domain.Student, bool, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	var student domain.Student
	err := sr.sb.
		Select(studentFields...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		QueryRowContext(spanCtx).
		Scan(
			&student.ID,
			&student.Name,
			&student.Phone,
			&student.Email,
			&student.TotalFee,
			&student.PaidAmount,
			&student.Notes,
			&student.CreatedAt,
			&student.UpdatedAt,
		)

	if telemetry.RecordErrorAndStatus(span, err) {
		if err == sql.ErrNoRows {
			return domain.Student{}, false, nil
		}
		return domain.Student{}, false, err
	}

	students := []domain.Student{student}
	if err := sr.loadCourseIDs(spanCtx, students); telemetry.RecordErrorAndStatus(span, err) {
		return domain.Student{}, false, err
	}

	return students[0], true, nil
}

// CreateStudent creates a new student.
func (sr StudentRepository) CreateStudent(ctx context.Context, student domain.Student) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := sr.sb.
		Insert("students").
		Columns(studentFields...).
		Values(
			student.ID,
			student.Name,
			student.Phone,
			student.Email,
			student.TotalFee,
			student.PaidAmount,
			student.Notes,
			student.CreatedAt,
			student.UpdatedAt,
		).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// UpdateStudent updates an existing student.
func (sr StudentRepository) UpdateStudent(ctx context.Context, student domain.Student) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := sr.sb.
		Update("students").
		Set("name", student.Name).
		Set("phone", student.Phone).
		Set("email", student.Email).
		Set("total_fee", student.TotalFee).
		Set("paid_amount", student.PaidAmount).
		Set("notes", student.Notes).
		Set("updated_at", student.UpdatedAt).
		Where(squirrel.Eq{"id": student.ID}).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// DeleteStudent deletes a student by ID. Enrollments go with it.
func (sr StudentRepository) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := sr.sb.
		Delete("students").
		Where(squirrel.Eq{"id": id}).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// EnrollStudent links a student to a course.
func (sr StudentRepository) EnrollStudent(ctx context.Context, studentID, courseID uuid.UUID) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := sr.sb.
		Insert("student_courses").
		Columns("student_id", "course_id").
		Values(studentID, courseID).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// loadCourseIDs fills CourseIDs for the given students in one query.
func (sr StudentRepository) loadCourseIDs(ctx context.Context, students []domain.Student) error {
	if len(students) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}

	rows, err := sr.sb.
		Select("student_id", "course_id").
		From("student_courses").
		Where(squirrel.Eq{"student_id": ids}).
		QueryContext(ctx)
	if err != nil {
		return err
	}
	defer rows.Close() //nolint:errcheck

	byStudent := map[uuid.UUID][]uuid.UUID{}
	for rows.Next() {
		var studentID, courseID uuid.UUID
		if err := rows.Scan(&studentID, &courseID); err != nil {
			return err
		}
		byStudent[studentID] = append(byStudent[studentID], courseID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range students {
		students[i].CourseIDs = byStudent[students[i].ID]
	}
	return nil
}

// InitStudentRepository is a Symbiont initializer for StudentRepository.
type InitStudentRepository struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the StudentRepository in the dependency container.
func (sr InitStudentRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.StudentRepository](NewStudentRepository(sr.DB))
	return ctx, nil
}
