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
	courseFields = []string{
		"id",
		"name",
		"description",
		"fee",
		"duration_weeks",
		"created_at",
		"updated_at",
	}
)

// CourseRepository implements the domain.CourseRepository interface using
// PostgreSQL as the storage backend.
type CourseRepository struct {
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(br squirrel.BaseRunner) CourseRepository {
	return CourseRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// ListCourses lists courses with pagination and optional filters.
func (cr CourseRepository) ListCourses(ctx context.Context, page, pageSize int, opts ...domain.ListCoursesOption) ([]domain.Course, bool, error) {
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

	qry := cr.sb.
		Select(courseFields...).
		From("courses").
		OrderBy("created_at ASC").
		Limit(uint64(pageSize + 1)).
		Offset(uint64((page - 1) * pageSize))

	params := &domain.ListCoursesParams{}
	for _, opt := range opts {
		opt(params)
	}

	if params.NameContains != nil {
		qry = qry.Where(squirrel.ILike{"name": "%" + *params.NameContains + "%"})
	}

	rows, err := qry.QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}
	defer rows.Close() //nolint:errcheck

	var courses []domain.Course
	for rows.Next() {
		var course domain.Course
		err := rows.Scan(
			&course.ID,
			&course.Name,
			&course.Description,
			&course.Fee,
			&course.DurationWeeks,
			&course.CreatedAt,
			&course.UpdatedAt,
		)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, false, err
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}

	if len(courses) > pageSize {
		return courses[:pageSize], true, nil
	}
	return courses, false, nil
}

// GetCourse retrieves a course by ID.
func (cr CourseRepository) GetCourse(ctx context.Context, id uuid.UUID) (domain.Course, bool, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	var course domain.Course
	err := cr.sb.
		Select(courseFields...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		QueryRowContext(spanCtx).
		Scan(
			&course.ID,
			&course.Name,
			&course.Description,
			&course.Fee,
			&course.DurationWeeks,
			&course.CreatedAt,
			&course.UpdatedAt,
		)

	if telemetry.RecordErrorAndStatus(span, err) {
		if err == sql.ErrNoRows {
			return domain.Course{}, false, nil
		}
		return domain.Course{}, false, err
	}

	return course, true, nil
}

// CreateCourse creates a new course.
func (cr CourseRepository) CreateCourse(ctx context.Context, course domain.Course) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := cr.sb.
		Insert("courses").
		Columns(courseFields...).
		Values(
			course.ID,
			course.Name,
			course.Description,
			course.Fee,
			course.DurationWeeks,
			course.CreatedAt,
			course.UpdatedAt,
		).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// UpdateCourse updates an existing course.
func (cr CourseRepository) UpdateCourse(ctx context.Context, course domain.Course) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := cr.sb.
		Update("courses").
		Set("name", course.Name).
		Set("description", course.Description).
		Set("fee", course.Fee).
		Set("duration_weeks", course.DurationWeeks).
		Set("updated_at", course.UpdatedAt).
		Where(squirrel.Eq{"id": course.ID}).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// DeleteCourse deletes a course by ID.
func (cr CourseRepository) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := cr.sb.
		Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// InitCourseRepository is a Symbiont initializer for CourseRepository.
type InitCourseRepository struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the CourseRepository in the dependency container.
func (cr InitCourseRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.CourseRepository](NewCourseRepository(cr.DB))
	return ctx, nil
}
