package assistant

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/usecases"
)

// StudentListTool lists students for the model.
type StudentListTool struct {
	repo domain.StudentRepository
}

// NewStudentListTool creates a new instance of StudentListTool.
func NewStudentListTool(repo domain.StudentRepository) StudentListTool {
	return StudentListTool{repo: repo}
}

// StatusMessage returns a status message about the tool execution.
func (t StudentListTool) StatusMessage() string {
	return "🎓 Looking up students..."
}

// Definition returns the tool schema for listStudents.
func (t StudentListTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "listStudents",
		Description: "List students with pagination. Always pass page and page_size, start with page=1, and keep fetching while next_page is true when full coverage is needed. name filters by partial, case-insensitive match.",
		Parameters: []domain.ToolParam{
			{Name: "page", Type: domain.ToolParamType_Number, Description: "Page number starting from 1.", Required: true},
			{Name: "page_size", Type: domain.ToolParamType_Number, Description: "Items per page, positive integer.", Required: true},
			{Name: "name", Type: domain.ToolParamType_String, Description: "Optional partial name filter."},
		},
	}
}

// Call executes listStudents.
func (t StudentListTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Page     int    `json:"page"`
		PageSize int    `json:"page_size"`
		Name     string `json:"name,omitempty"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}
	if params.Page < 1 || params.PageSize < 1 {
		return errResponse(call, "invalid_arguments",
			fmt.Errorf("page and page_size must be positive integers"))
	}

	var opts []domain.ListStudentsOption
	if params.Name != "" {
		opts = append(opts, domain.WithStudentNameContains(params.Name))
	}

	students, hasNext, err := t.repo.ListStudents(ctx, params.Page, params.PageSize, opts...)
	if err != nil {
		return errResponse(call, "list_students_error", err)
	}

	rows := make([]studentRow, 0, len(students))
	for _, s := range students {
		rows = append(rows, newStudentRow(s))
	}
	table, err := encodeTable(rows)
	if err != nil {
		return errResponse(call, "encode_error", err)
	}

	return okResponse(call, map[string]any{
		"students":  table,
		"next_page": hasNext,
	})
}

type studentRow struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Total string `json:"total_fee"`
	Paid  string `json:"paid"`
	Due   string `json:"due"`
}

func newStudentRow(s domain.Student) studentRow {
	return studentRow{
		ID:    s.ID.String(),
		Name:  s.Name,
		Phone: s.Phone,
		Email: s.Email,
		Total: s.TotalFee.StringFixed(2),
		Paid:  s.PaidAmount.StringFixed(2),
		Due:   s.DueAmount().StringFixed(2),
	}
}

// StudentCreateTool creates a student.
type StudentCreateTool struct {
	uow     domain.UnitOfWork
	creator usecases.StudentCreator
}

// NewStudentCreateTool creates a new instance of StudentCreateTool.
func NewStudentCreateTool(uow domain.UnitOfWork, creator usecases.StudentCreator) StudentCreateTool {
	return StudentCreateTool{uow: uow, creator: creator}
}

// StatusMessage returns a status message about the tool execution.
func (t StudentCreateTool) StatusMessage() string {
	return "🎓 Adding the student..."
}

// Definition returns the tool schema for addStudent.
func (t StudentCreateTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "addStudent",
		Description: "Add exactly one new student. Required: name. Optional: phone, email, total_fee, notes. For several students, call once per student.",
		Parameters: []domain.ToolParam{
			{Name: "name", Type: domain.ToolParamType_String, Description: "Full student name.", Required: true},
			{Name: "phone", Type: domain.ToolParamType_String, Description: "Contact phone number."},
			{Name: "email", Type: domain.ToolParamType_String, Description: "Contact email address."},
			{Name: "total_fee", Type: domain.ToolParamType_Number, Description: "Total agreed fee."},
			{Name: "notes", Type: domain.ToolParamType_String, Description: "Free-form notes."},
		},
	}
}

// Call executes addStudent.
func (t StudentCreateTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Name     string  `json:"name"`
		Phone    string  `json:"phone,omitempty"`
		Email    string  `json:"email,omitempty"`
		TotalFee float64 `json:"total_fee,omitempty"`
		Notes    string  `json:"notes,omitempty"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	var student domain.Student
	err := t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		created, err := t.creator.Create(ctx, uow, domain.Student{
			Name:     params.Name,
			Phone:    params.Phone,
			Email:    params.Email,
			TotalFee: decimal.NewFromFloat(params.TotalFee),
			Notes:    params.Notes,
		})
		if err != nil {
			return err
		}
		student = created
		return nil
	})
	if err != nil {
		return errResponse(call, "add_student_error", err)
	}

	return messageResponse(call, "Student %s was added. %s", student.Name, student.ToModelInput())
}

// StudentUpdateTool updates a student located by partial name.
type StudentUpdateTool struct {
	uow      domain.UnitOfWork
	updater  usecases.StudentUpdater
	resolver Resolver
}

// NewStudentUpdateTool creates a new instance of StudentUpdateTool.
func NewStudentUpdateTool(uow domain.UnitOfWork, updater usecases.StudentUpdater, resolver Resolver) StudentUpdateTool {
	return StudentUpdateTool{uow: uow, updater: updater, resolver: resolver}
}

// StatusMessage returns a status message about the tool execution.
func (t StudentUpdateTool) StatusMessage() string {
	return "🎓 Updating the student..."
}

// Definition returns the tool schema for updateStudent.
func (t StudentUpdateTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "updateStudent",
		Description: "Update one existing student. name accepts a partial, case-insensitive match. Only the provided optional fields change.",
		Parameters: []domain.ToolParam{
			{Name: "name", Type: domain.ToolParamType_String, Description: "Current student name, partial match allowed.", Required: true},
			{Name: "new_name", Type: domain.ToolParamType_String, Description: "Replacement name."},
			{Name: "phone", Type: domain.ToolParamType_String, Description: "Replacement phone number."},
			{Name: "email", Type: domain.ToolParamType_String, Description: "Replacement email address."},
			{Name: "total_fee", Type: domain.ToolParamType_Number, Description: "Replacement total fee."},
			{Name: "notes", Type: domain.ToolParamType_String, Description: "Replacement notes."},
		},
	}
}

// Call executes updateStudent.
func (t StudentUpdateTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Name     string   `json:"name"`
		NewName  *string  `json:"new_name,omitempty"`
		Phone    *string  `json:"phone,omitempty"`
		Email    *string  `json:"email,omitempty"`
		TotalFee *float64 `json:"total_fee,omitempty"`
		Notes    *string  `json:"notes,omitempty"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	resolution, err := t.resolver.Resolve(ctx, domain.EntityKind_Student, params.Name)
	if err != nil {
		return errResponse(call, "resolve_error", err)
	}
	switch resolution.Outcome {
	case domain.ResolutionOutcome_NotFound:
		return notFoundResponse(call, domain.EntityKind_Student, params.Name)
	case domain.ResolutionOutcome_Ambiguous:
		return ambiguousResponse(call, domain.EntityKind_Student, params.Name, resolution.Candidates)
	}

	var student domain.Student
	err = t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		current, found, err := uow.Student().GetStudent(ctx, resolution.Match.ID)
		if err != nil {
			return err
		}
		if !found {
			return domain.NewNotFoundErr(fmt.Sprintf("student %s not found", resolution.Match.ID))
		}
		if params.NewName != nil {
			current.Name = *params.NewName
		}
		if params.Phone != nil {
			current.Phone = *params.Phone
		}
		if params.Email != nil {
			current.Email = *params.Email
		}
		if params.TotalFee != nil {
			current.TotalFee = decimal.NewFromFloat(*params.TotalFee)
		}
		if params.Notes != nil {
			current.Notes = *params.Notes
		}
		updated, err := t.updater.Update(ctx, uow, current)
		if err != nil {
			return err
		}
		student = updated
		return nil
	})
	if err != nil {
		return errResponse(call, "update_student_error", err)
	}

	return messageResponse(call, "Student %s was updated. %s", student.Name, student.ToModelInput())
}

// StudentDeleteTool deletes a student located by partial name.
type StudentDeleteTool struct {
	uow      domain.UnitOfWork
	deleter  usecases.StudentDeleter
	resolver Resolver
}

// NewStudentDeleteTool creates a new instance of StudentDeleteTool.
func NewStudentDeleteTool(uow domain.UnitOfWork, deleter usecases.StudentDeleter, resolver Resolver) StudentDeleteTool {
	return StudentDeleteTool{uow: uow, deleter: deleter, resolver: resolver}
}

// StatusMessage returns a status message about the tool execution.
func (t StudentDeleteTool) StatusMessage() string {
	return "🗑️ Removing the student..."
}

// Definition returns the tool schema for deleteStudent.
func (t StudentDeleteTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "deleteStudent",
		Description: "Delete one student. name accepts a partial, case-insensitive match; nothing is deleted when the match is ambiguous.",
		Parameters: []domain.ToolParam{
			{Name: "name", Type: domain.ToolParamType_String, Description: "Student name, partial match allowed.", Required: true},
		},
	}
}

// Call executes deleteStudent.
func (t StudentDeleteTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Name string `json:"name"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	resolution, err := t.resolver.Resolve(ctx, domain.EntityKind_Student, params.Name)
	if err != nil {
		return errResponse(call, "resolve_error", err)
	}
	switch resolution.Outcome {
	case domain.ResolutionOutcome_NotFound:
		return notFoundResponse(call, domain.EntityKind_Student, params.Name)
	case domain.ResolutionOutcome_Ambiguous:
		return ambiguousResponse(call, domain.EntityKind_Student, params.Name, resolution.Candidates)
	}

	err = t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		return t.deleter.Delete(ctx, uow, resolution.Match.ID)
	})
	if err != nil {
		return errResponse(call, "delete_student_error", err)
	}

	return messageResponse(call, "Student %s was deleted.", resolution.Match.Name)
}

// StudentEnrollTool enrolls a student into a course, both located by partial name.
type StudentEnrollTool struct {
	uow      domain.UnitOfWork
	enroller usecases.StudentEnroller
	resolver Resolver
}

// NewStudentEnrollTool creates a new instance of StudentEnrollTool.
func NewStudentEnrollTool(uow domain.UnitOfWork, enroller usecases.StudentEnroller, resolver Resolver) StudentEnrollTool {
	return StudentEnrollTool{uow: uow, enroller: enroller, resolver: resolver}
}

// StatusMessage returns a status message about the tool execution.
func (t StudentEnrollTool) StatusMessage() string {
	return "🎓 Enrolling the student..."
}

// Definition returns the tool schema for enrollStudent.
func (t StudentEnrollTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "enrollStudent",
		Description: "Enroll one student into one course. Both names accept partial, case-insensitive matches. The course fee is added to the student's total fee.",
		Parameters: []domain.ToolParam{
			{Name: "studentName", Type: domain.ToolParamType_String, Description: "Student name, partial match allowed.", Required: true},
			{Name: "courseName", Type: domain.ToolParamType_String, Description: "Course name, partial match allowed.", Required: true},
		},
	}
}

// Call executes enrollStudent.
func (t StudentEnrollTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		StudentName string `json:"studentName"`
		CourseName  string `json:"courseName"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	studentRes, err := t.resolver.Resolve(ctx, domain.EntityKind_Student, params.StudentName)
	if err != nil {
		return errResponse(call, "resolve_error", err)
	}
	switch studentRes.Outcome {
	case domain.ResolutionOutcome_NotFound:
		return notFoundResponse(call, domain.EntityKind_Student, params.StudentName)
	case domain.ResolutionOutcome_Ambiguous:
		return ambiguousResponse(call, domain.EntityKind_Student, params.StudentName, studentRes.Candidates)
	}

	courseRes, err := t.resolver.Resolve(ctx, domain.EntityKind_Course, params.CourseName)
	if err != nil {
		return errResponse(call, "resolve_error", err)
	}
	switch courseRes.Outcome {
	case domain.ResolutionOutcome_NotFound:
		return notFoundResponse(call, domain.EntityKind_Course, params.CourseName)
	case domain.ResolutionOutcome_Ambiguous:
		return ambiguousResponse(call, domain.EntityKind_Course, params.CourseName, courseRes.Candidates)
	}

	var student domain.Student
	err = t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		enrolled, err := t.enroller.Enroll(ctx, uow, studentRes.Match.ID, courseRes.Match.ID)
		if err != nil {
			return err
		}
		student = enrolled
		return nil
	})
	if err != nil {
		return errResponse(call, "enroll_student_error", err)
	}

	return messageResponse(call, "%s was enrolled in %s. %s",
		student.Name, courseRes.Match.Name, student.ToModelInput())
}

// PaymentRecordTool records a fee payment for a student located by partial name.
type PaymentRecordTool struct {
	uow          domain.UnitOfWork
	recorder     usecases.PaymentRecorder
	resolver     Resolver
	timeProvider domain.CurrentTimeProvider
}

// NewPaymentRecordTool creates a new instance of PaymentRecordTool.
func NewPaymentRecordTool(uow domain.UnitOfWork, recorder usecases.PaymentRecorder, resolver Resolver, timeProvider domain.CurrentTimeProvider) PaymentRecordTool {
	return PaymentRecordTool{uow: uow, recorder: recorder, resolver: resolver, timeProvider: timeProvider}
}

// StatusMessage returns a status message about the tool execution.
func (t PaymentRecordTool) StatusMessage() string {
	return "💰 Recording the payment..."
}

// Definition returns the tool schema for recordPayment.
func (t PaymentRecordTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "recordPayment",
		Description: "Record one fee payment for a student. studentName accepts a partial, case-insensitive match. method defaults to Cash and date defaults to today.",
		Parameters: []domain.ToolParam{
			{Name: "studentName", Type: domain.ToolParamType_String, Description: "Student name, partial match allowed.", Required: true},
			{Name: "amount", Type: domain.ToolParamType_Number, Description: "Payment amount, positive.", Required: true},
			{Name: "method", Type: domain.ToolParamType_Enum, Description: "Payment method.", EnumValues: []string{"Cash", "Card", "Transfer"}},
			{Name: "date", Type: domain.ToolParamType_String, Description: "Payment date, YYYY-MM-DD or a phrase like 'yesterday'."},
			{Name: "notes", Type: domain.ToolParamType_String, Description: "Free-form notes."},
		},
	}
}

// Call executes recordPayment.
func (t PaymentRecordTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		StudentName string  `json:"studentName"`
		Amount      float64 `json:"amount"`
		Method      string  `json:"method,omitempty"`
		Date        string  `json:"date,omitempty"`
		Notes       string  `json:"notes,omitempty"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	resolution, err := t.resolver.Resolve(ctx, domain.EntityKind_Student, params.StudentName)
	if err != nil {
		return errResponse(call, "resolve_error", err)
	}
	switch resolution.Outcome {
	case domain.ResolutionOutcome_NotFound:
		return notFoundResponse(call, domain.EntityKind_Student, params.StudentName)
	case domain.ResolutionOutcome_Ambiguous:
		return ambiguousResponse(call, domain.EntityKind_Student, params.StudentName, resolution.Candidates)
	}

	now := t.timeProvider.Now()
	paidAt, err := domain.ResolveDueDate(params.Date, now, now.Location())
	if err != nil {
		return errResponse(call, "invalid_date", err)
	}

	var student domain.Student
	err = t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		updated, err := t.recorder.Record(ctx, uow, domain.Payment{
			StudentID: resolution.Match.ID,
			Amount:    decimal.NewFromFloat(params.Amount),
			Method:    domain.PaymentMethod(params.Method),
			PaidAt:    paidAt,
			Notes:     params.Notes,
		})
		if err != nil {
			return err
		}
		student = updated
		return nil
	})
	if err != nil {
		return errResponse(call, "record_payment_error", err)
	}

	return messageResponse(call, "Recorded a payment of %.2f for %s. %s",
		params.Amount, student.Name, student.ToModelInput())
}
