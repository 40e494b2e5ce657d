package http

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mirahq/academy-crm/internal/domain"
)

func toError(err error) errorResp {
	errResp := errorResp{}
	switch e := err.(type) {
	case *domain.ValidationErr:
		errResp.Error.Code = errCode_BadRequest
		errResp.Error.Message = e.Error()
	case *domain.NotFoundErr:
		errResp.Error.Code = errCode_NotFound
		errResp.Error.Message = e.Error()
	case *domain.GatewayErr:
		errResp.Error.Code = errCode_Gateway
		errResp.Error.Message = e.Error()
		errResp.Error.Cause = string(e.Cause)
	default:
		errResp.Error.Code = errCode_InternalError
		errResp.Error.Message = "internal server error"
	}
	return errResp
}

type studentResp struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone,omitempty"`
	Email      string          `json:"email,omitempty"`
	CourseIDs  []uuid.UUID     `json:"course_ids"`
	TotalFee   decimal.Decimal `json:"total_fee"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	DueAmount  decimal.Decimal `json:"due_amount"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func toStudent(s domain.Student) studentResp {
	courseIDs := s.CourseIDs
	if courseIDs == nil {
		courseIDs = []uuid.UUID{}
	}
	return studentResp{
		ID:         s.ID,
		Name:       s.Name,
		Phone:      s.Phone,
		Email:      s.Email,
		CourseIDs:  courseIDs,
		TotalFee:   s.TotalFee,
		PaidAmount: s.PaidAmount,
		DueAmount:  s.DueAmount(),
		Notes:      s.Notes,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

type employeeResp struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Role      string          `json:"role,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Email     string          `json:"email,omitempty"`
	Salary    decimal.Decimal `json:"salary"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toEmployee(e domain.Employee) employeeResp {
	return employeeResp{
		ID:        e.ID,
		Name:      e.Name,
		Role:      e.Role,
		Phone:     e.Phone,
		Email:     e.Email,
		Salary:    e.Salary,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

type courseResp struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Fee           decimal.Decimal `json:"fee"`
	DurationWeeks int             `json:"duration_weeks"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toCourse(c domain.Course) courseResp {
	return courseResp{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		Fee:           c.Fee,
		DurationWeeks: c.DurationWeeks,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

type taskResp struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	DueDate     string    `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTask(t domain.Task) taskResp {
	return taskResp{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		DueDate:     t.DueDate.Format(time.DateOnly),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type incomeResp struct {
	ID         uuid.UUID       `json:"id"`
	Source     string          `json:"source"`
	Category   string          `json:"category,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	ReceivedAt time.Time       `json:"received_at"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toIncome(i domain.Income) incomeResp {
	return incomeResp{
		ID:         i.ID,
		Source:     i.Source,
		Category:   i.Category,
		Amount:     i.Amount,
		ReceivedAt: i.ReceivedAt,
		Notes:      i.Notes,
		CreatedAt:  i.CreatedAt,
	}
}

type expenseResp struct {
	ID        uuid.UUID       `json:"id"`
	Payee     string          `json:"payee"`
	Category  string          `json:"category,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	SpentAt   time.Time       `json:"spent_at"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func toExpense(e domain.Expense) expenseResp {
	return expenseResp{
		ID:        e.ID,
		Payee:     e.Payee,
		Category:  e.Category,
		Amount:    e.Amount,
		SpentAt:   e.SpentAt,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}

type paymentResp struct {
	ID        uuid.UUID       `json:"id"`
	StudentID uuid.UUID       `json:"student_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	PaidAt    time.Time       `json:"paid_at"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func toPayment(p domain.Payment) paymentResp {
	return paymentResp{
		ID:        p.ID,
		StudentID: p.StudentID,
		Amount:    p.Amount,
		Method:    string(p.Method),
		PaidAt:    p.PaidAt,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

type financialSummaryResp struct {
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalPayments  decimal.Decimal `json:"total_payments"`
	TotalExpense   decimal.Decimal `json:"total_expense"`
	Balance        decimal.Decimal `json:"balance"`
	ComputedAt     time.Time       `json:"computed_at"`
	IncomeEntries  int             `json:"income_entries"`
	ExpenseEntries int             `json:"expense_entries"`
	PaymentEntries int             `json:"payment_entries"`
}

func toFinancialSummary(s domain.FinancialSummary) financialSummaryResp {
	return financialSummaryResp{
		TotalIncome:    s.TotalIncome,
		TotalPayments:  s.TotalPayments,
		TotalExpense:   s.TotalExpense,
		Balance:        s.Balance,
		ComputedAt:     s.ComputedAt,
		IncomeEntries:  s.IncomeEntries,
		ExpenseEntries: s.ExpenseEntries,
		PaymentEntries: s.PaymentEntries,
	}
}

type chatMessageResp struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toChatMessage(msg domain.ConversationMessage) chatMessageResp {
	return chatMessageResp{
		ID:        msg.ID,
		Role:      string(msg.Role),
		Content:   msg.Text(),
		CreatedAt: msg.CreatedAt,
	}
}

func toAssistantMode(raw string) (domain.AssistantMode, error) {
	switch raw {
	case "", string(domain.AssistantMode_Authenticated):
		return domain.AssistantMode_Authenticated, nil
	case string(domain.AssistantMode_Guest):
		return domain.AssistantMode_Guest, nil
	default:
		return "", domain.NewValidationErr("mode must be either authenticated or guest")
	}
}
