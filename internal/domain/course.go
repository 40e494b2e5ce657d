package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Course represents a training course offered by the academy.
type Course struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Fee           decimal.Decimal
	DurationWeeks int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the course fields before persisting.
func (c Course) Validate() error {
	if c.Name == "" {
		return NewValidationErr("name cannot be empty")
	}
	if c.Fee.IsNegative() {
		return NewValidationErr("fee cannot be negative")
	}
	if c.DurationWeeks < 0 {
		return NewValidationErr("duration_weeks cannot be negative")
	}
	return nil
}

// ListCoursesParams holds optional filters for listing courses.
type ListCoursesParams struct {
	NameContains *string
}

// ListCoursesOption modifies ListCoursesParams.
type ListCoursesOption func(*ListCoursesParams)

// WithCourseNameContains filters courses whose name contains the substring
// (case-insensitive).
func WithCourseNameContains(q string) ListCoursesOption {
	return func(params *ListCoursesParams) {
		params.NameContains = &q
	}
}

// CourseRepository is the Data Store surface for courses.
type CourseRepository interface {
	ListCourses(ctx context.Context, page, pageSize int, opts ...ListCoursesOption) ([]Course, bool, error)
	GetCourse(ctx context.Context, id uuid.UUID) (Course, bool, error)
	CreateCourse(ctx context.Context, course Course) error
	UpdateCourse(ctx context.Context, course Course) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}
