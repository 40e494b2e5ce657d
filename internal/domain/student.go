package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Student represents an enrolled or prospective student of the academy.
type Student struct {
	ID         uuid.UUID
	Name       string
	Phone      string
	Email      string
	CourseIDs  []uuid.UUID
	TotalFee   decimal.Decimal
	PaidAmount decimal.Decimal
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the student fields before persisting.
func (s Student) Validate() error {
	if s.Name == "" {
		return NewValidationErr("name cannot be empty")
	}
	if len(s.Name) > 200 {
		return NewValidationErr("name must be at most 200 characters")
	}
	if s.TotalFee.IsNegative() {
		return NewValidationErr("total_fee cannot be negative")
	}
	if s.PaidAmount.IsNegative() {
		return NewValidationErr("paid_amount cannot be negative")
	}
	return nil
}

// DueAmount returns the outstanding balance.
func (s Student) DueAmount() decimal.Decimal {
	return s.TotalFee.Sub(s.PaidAmount)
}

// ToModelInput formats the student as a compact line for model consumption.
func (s Student) ToModelInput() string {
	return fmt.Sprintf("ID: %s | Name: %s | Paid: %s | Due: %s",
		s.ID.String(), s.Name, s.PaidAmount.StringFixed(2), s.DueAmount().StringFixed(2))
}

// ListStudentsParams holds optional filters for listing students.
type ListStudentsParams struct {
	NameContains *string
	CourseID     *uuid.UUID
}

// ListStudentsOption modifies ListStudentsParams.
type ListStudentsOption func(*ListStudentsParams)

// WithStudentNameContains filters students whose name contains the substring
// (case-insensitive). Backs the entity resolver.
func WithStudentNameContains(q string) ListStudentsOption {
	return func(params *ListStudentsParams) {
		params.NameContains = &q
	}
}

// WithStudentCourse filters students enrolled in the given course.
func WithStudentCourse(courseID uuid.UUID) ListStudentsOption {
	return func(params *ListStudentsParams) {
		params.CourseID = &courseID
	}
}

// StudentRepository is the Data Store surface for students.
type StudentRepository interface {
	// ListStudents retrieves students in the store's natural order.
	ListStudents(ctx context.Context, page, pageSize int, opts ...ListStudentsOption) ([]Student, bool, error)
	// GetStudent retrieves one student by ID.
	GetStudent(ctx context.Context, id uuid.UUID) (Student, bool, error)
	// CreateStudent persists a new student.
	CreateStudent(ctx context.Context, student Student) error
	// UpdateStudent persists changes to an existing student.
	UpdateStudent(ctx context.Context, student Student) error
	// DeleteStudent removes one student.
	DeleteStudent(ctx context.Context, id uuid.UUID) error
	// EnrollStudent links a student to a course.
	EnrollStudent(ctx context.Context, studentID, courseID uuid.UUID) error
}
