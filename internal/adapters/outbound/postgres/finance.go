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
	incomeFields = []string{
		"id",
		"source",
		"category",
		"amount",
		"received_at",
		"notes",
		"created_at",
	}
	expenseFields = []string{
		"id",
		"payee",
		"category",
		"amount",
		"spent_at",
		"notes",
		"created_at",
	}
	paymentFields = []string{
		"id",
		"student_id",
		"amount",
		"method",
		"paid_at",
		"notes",
		"created_at",
	}
)

// FinanceRepository implements the domain.FinanceRepository interface using
// PostgreSQL as the storage backend.
type FinanceRepository struct {
	sb squirrel.StatementBuilderType
}

// NewFinanceRepository creates a new instance of FinanceRepository.
func NewFinanceRepository(br squirrel.BaseRunner) FinanceRepository {
	return FinanceRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// ListIncome lists income entries with pagination, newest first.
func (fr FinanceRepository) ListIncome(ctx context.Context, page, pageSize int) ([]domain.Income, bool, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("pageSize", pageSize),
	))
	defer span.End()

	if err := validatePaging(page, pageSize); err != nil {
		return nil, false, err
	}

	rows, err := fr.sb.
		Select(incomeFields...).
		From("income_entries").
		OrderBy("received_at DESC").
		Limit(uint64(pageSize + 1)).
		Offset(uint64((page - 1) * pageSize)).
		QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}
	defer rows.Close() //nolint:errcheck

	var entries []domain.Income
	for rows.Next() {
		var income domain.Income
		err := rows.Scan(
			&income.ID,
			&income.Source,
			&income.Category,
			&income.Amount,
			&income.ReceivedAt,
			&income.Notes,
			&income.CreatedAt,
		)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, false, err
		}
		entries = append(entries, income)
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}

	if len(entries) > pageSize {
		return entries[:pageSize], true, nil
	}
	return entries, false, nil
}

// CreateIncome creates a new income entry.
func (fr FinanceRepository) CreateIncome(ctx context.Context, income domain.Income) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := fr.sb.
		Insert("income_entries").
		Columns(incomeFields...).
		Values(
			income.ID,
			income.Source,
			income.Category,
			income.Amount,
			income.ReceivedAt,
			income.Notes,
			income.CreatedAt,
		).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// UpdateIncome updates an existing income entry.
func (fr FinanceRepository) UpdateIncome(ctx context.Context, income domain.Income) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := fr.sb.
		Update("income_entries").
		Set("source", income.Source).
		Set("category", income.Category).
		Set("amount", income.Amount).
		Set("received_at", income.ReceivedAt).
		Set("notes", income.Notes).
		Where(squirrel.Eq{"id": income.ID}).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// DeleteIncome deletes an income entry by ID.
func (fr FinanceRepository) DeleteIncome(ctx context.Context, id uuid.UUID) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := fr.sb.
		Delete("income_entries").
		Where(squirrel.Eq{"id": id}).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// ListExpenses lists expense entries with pagination, newest first.
func (fr FinanceRepository) ListExpenses(ctx context.Context, page, pageSize int) ([]domain.Expense, bool, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("pageSize", pageSize),
	))
	defer span.End()

	if err := validatePaging(page, pageSize); err != nil {
		return nil, false, err
	}

	rows, err := fr.sb.
		Select(expenseFields...).
		From("expense_entries").
		OrderBy("spent_at DESC").
		Limit(uint64(pageSize + 1)).
		Offset(uint64((page - 1) * pageSize)).
		QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}
	defer rows.Close() //nolint:errcheck

	var entries []domain.Expense
	for rows.Next() {
		var expense domain.Expense
		err := rows.Scan(
			&expense.ID,
			&expense.Payee,
			&expense.Category,
			&expense.Amount,
			&expense.SpentAt,
			&expense.Notes,
			&expense.CreatedAt,
		)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, false, err
		}
		entries = append(entries, expense)
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}

	if len(entries) > pageSize {
		return entries[:pageSize], true, nil
	}
	return entries, false, nil
}

// CreateExpense creates a new expense entry.
func (fr FinanceRepository) CreateExpense(ctx context.Context, expense domain.Expense) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := fr.sb.
		Insert("expense_entries").
		Columns(expenseFields...).
		Values(
			expense.ID,
			expense.Payee,
			expense.Category,
			expense.Amount,
			expense.SpentAt,
			expense.Notes,
			expense.CreatedAt,
		).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// UpdateExpense updates an existing expense entry.
func (fr FinanceRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := fr.sb.
		Update("expense_entries").
		Set("payee", expense.Payee).
		Set("category", expense.Category).
		Set("amount", expense.Amount).
		Set("spent_at", expense.SpentAt).
		Set("notes", expense.Notes).
		Where(squirrel.Eq{"id": expense.ID}).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// DeleteExpense deletes an expense entry by ID.
func (fr FinanceRepository) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := fr.sb.
		Delete("expense_entries").
		Where(squirrel.Eq{"id": id}).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// ListPayments lists student payments, optionally filtered by student.
func (fr FinanceRepository) ListPayments(ctx context.Context, studentID *uuid.UUID, page, pageSize int) ([]domain.Payment, bool, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("pageSize", pageSize),
	))
	defer span.End()

	if err := validatePaging(page, pageSize); err != nil {
		return nil, false, err
	}

	qry := fr.sb.
		Select(paymentFields...).
		From("student_payments").
		OrderBy("paid_at DESC").
		Limit(uint64(pageSize + 1)).
		Offset(uint64((page - 1) * pageSize))

	if studentID != nil {
		qry = qry.Where(squirrel.Eq{"student_id": *studentID})
	}

	rows, err := qry.QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}
	defer rows.Close() //nolint:errcheck

	var payments []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		err := rows.Scan(
			&payment.ID,
			&payment.StudentID,
			&payment.Amount,
			&payment.Method,
			&payment.PaidAt,
			&payment.Notes,
			&payment.CreatedAt,
		)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, false, err
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}

	if len(payments) > pageSize {
		return payments[:pageSize], true, nil
	}
	return payments, false, nil
}

// CreatePayment creates a new student payment.
func (fr FinanceRepository) CreatePayment(ctx context.Context, payment domain.Payment) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := fr.sb.
		Insert("student_payments").
		Columns(paymentFields...).
		Values(
			payment.ID,
			payment.StudentID,
			payment.Amount,
			payment.Method,
			payment.PaidAt,
			payment.Notes,
			payment.CreatedAt,
		).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// Summarize aggregates totals across income, expenses and payments.
func (fr FinanceRepository) Summarize(ctx context.Context) (domain.FinancialSummary, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	var summary domain.FinancialSummary

	err := fr.sb.
		Select("COALESCE(SUM(amount), 0)", "COUNT(*)").
		From("income_entries").
		QueryRowContext(spanCtx).
		Scan(&summary.TotalIncome, &summary.IncomeEntries)
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.FinancialSummary{}, err
	}

	err = fr.sb.
		Select("COALESCE(SUM(amount), 0)", "COUNT(*)").
		From("expense_entries").
		QueryRowContext(spanCtx).
		Scan(&summary.TotalExpense, &summary.ExpenseEntries)
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.FinancialSummary{}, err
	}

	err = fr.sb.
		Select("COALESCE(SUM(amount), 0)", "COUNT(*)").
		From("student_payments").
		QueryRowContext(spanCtx).
		Scan(&summary.TotalPayments, &summary.PaymentEntries)
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.FinancialSummary{}, err
	}

	summary.Balance = summary.TotalIncome.Add(summary.TotalPayments).Sub(summary.TotalExpense)
	return summary, nil
}

func validatePaging(page, pageSize int) error {
	if pageSize <= 0 {
		return domain.NewValidationErr("page_size must be greater than 0")
	}
	if page <= 0 {
		return domain.NewValidationErr("page must be greater than 0")
	}
	return nil
}

// InitFinanceRepository is a Symbiont initializer for FinanceRepository.
type InitFinanceRepository struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the FinanceRepository in the dependency container.
func (fr InitFinanceRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.FinanceRepository](NewFinanceRepository(fr.DB))
	return ctx, nil
}
