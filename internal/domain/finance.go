package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a student payment was made.
type PaymentMethod string

const (
	PaymentMethod_Cash     PaymentMethod = "Cash"
	PaymentMethod_Card     PaymentMethod = "Card"
	PaymentMethod_Transfer PaymentMethod = "Transfer"
)

// DefaultPaymentMethod is applied when a tool call omits the method.
const DefaultPaymentMethod = PaymentMethod_Cash

// Payment is a recorded fee payment by a student.
type Payment struct {
	ID        uuid.UUID
	StudentID uuid.UUID
	Amount    decimal.Decimal
	Method    PaymentMethod
	PaidAt    time.Time
	Notes     string
	CreatedAt time.Time
}

// Validate checks the payment fields before persisting.
func (p Payment) Validate() error {
	if p.StudentID == uuid.Nil {
		return NewValidationErr("student_id cannot be empty")
	}
	if !p.Amount.IsPositive() {
		return NewValidationErr("amount must be positive")
	}
	switch p.Method {
	case PaymentMethod_Cash, PaymentMethod_Card, PaymentMethod_Transfer:
	default:
		return NewValidationErr("method must be one of Cash, Card, Transfer")
	}
	return nil
}

// Income is a recorded revenue entry outside student payments.
type Income struct {
	ID         uuid.UUID
	Source     string
	Category   string
	Amount     decimal.Decimal
	ReceivedAt time.Time
	Notes      string
	CreatedAt  time.Time
}

// Validate checks the income fields before persisting.
func (i Income) Validate() error {
	if i.Source == "" {
		return NewValidationErr("source cannot be empty")
	}
	if !i.Amount.IsPositive() {
		return NewValidationErr("amount must be positive")
	}
	return nil
}

// Expense is a recorded cost entry.
type Expense struct {
	ID        uuid.UUID
	Payee     string
	Category  string
	Amount    decimal.Decimal
	SpentAt   time.Time
	Notes     string
	CreatedAt time.Time
}

// Validate checks the expense fields before persisting.
func (e Expense) Validate() error {
	if e.Payee == "" {
		return NewValidationErr("payee cannot be empty")
	}
	if !e.Amount.IsPositive() {
		return NewValidationErr("amount must be positive")
	}
	return nil
}

// FinancialSummary aggregates income (including student payments), expenses
// and the resulting balance.
type FinancialSummary struct {
	TotalIncome    decimal.Decimal
	TotalPayments  decimal.Decimal
	TotalExpense   decimal.Decimal
	Balance        decimal.Decimal
	ComputedAt     time.Time
	IncomeEntries  int
	ExpenseEntries int
	PaymentEntries int
}

// FinanceRepository is the Data Store surface for bookkeeping records.
type FinanceRepository interface {
	ListIncome(ctx context.Context, page, pageSize int) ([]Income, bool, error)
	CreateIncome(ctx context.Context, income Income) error
	UpdateIncome(ctx context.Context, income Income) error
	DeleteIncome(ctx context.Context, id uuid.UUID) error

	ListExpenses(ctx context.Context, page, pageSize int) ([]Expense, bool, error)
	CreateExpense(ctx context.Context, expense Expense) error
	UpdateExpense(ctx context.Context, expense Expense) error
	DeleteExpense(ctx context.Context, id uuid.UUID) error

	ListPayments(ctx context.Context, studentID *uuid.UUID, page, pageSize int) ([]Payment, bool, error)
	CreatePayment(ctx context.Context, payment Payment) error

	// Summarize aggregates totals across income, expenses and payments.
	Summarize(ctx context.Context) (FinancialSummary, error)
}
