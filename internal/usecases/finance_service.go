package usecases

import (
	"context"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"

	"github.com/mirahq/academy-crm/internal/domain"
)

// IncomeRecorder defines the interface for recording income entries.
type IncomeRecorder interface {
	RecordIncome(ctx context.Context, uow domain.UnitOfWork, income domain.Income) (domain.Income, error)
}

// ExpenseRecorder defines the interface for recording expense entries.
type ExpenseRecorder interface {
	RecordExpense(ctx context.Context, uow domain.UnitOfWork, expense domain.Expense) (domain.Expense, error)
}

// FinanceServiceImpl implements the bookkeeping use cases.
type FinanceServiceImpl struct {
	timeProvider domain.CurrentTimeProvider
	createUUID   func() uuid.UUID
}

// NewFinanceServiceImpl creates a new instance of FinanceServiceImpl.
func NewFinanceServiceImpl(timeProvider domain.CurrentTimeProvider) FinanceServiceImpl {
	return FinanceServiceImpl{
		timeProvider: timeProvider,
		createUUID:   uuid.New,
	}
}

// RecordIncome persists a new income entry, defaulting the received date to now.
func (s FinanceServiceImpl) RecordIncome(ctx context.Context, uow domain.UnitOfWork, income domain.Income) (domain.Income, error) {
	now := s.timeProvider.Now()
	income.ID = s.createUUID()
	income.CreatedAt = now
	if income.ReceivedAt.IsZero() {
		income.ReceivedAt = now
	}

	if err := income.Validate(); err != nil {
		return domain.Income{}, err
	}

	if err := uow.Finance().CreateIncome(ctx, income); err != nil {
		return domain.Income{}, err
	}

	return income, nil
}

// RecordExpense persists a new expense entry, defaulting the spent date to now.
func (s FinanceServiceImpl) RecordExpense(ctx context.Context, uow domain.UnitOfWork, expense domain.Expense) (domain.Expense, error) {
	now := s.timeProvider.Now()
	expense.ID = s.createUUID()
	expense.CreatedAt = now
	if expense.SpentAt.IsZero() {
		expense.SpentAt = now
	}

	if err := expense.Validate(); err != nil {
		return domain.Expense{}, err
	}

	if err := uow.Finance().CreateExpense(ctx, expense); err != nil {
		return domain.Expense{}, err
	}

	return expense, nil
}

// InitFinanceService initializes the bookkeeping use cases and registers them
// in the dependency container.
type InitFinanceService struct {
	TimeProvider domain.CurrentTimeProvider `resolve:""`
}

func (i InitFinanceService) Initialize(ctx context.Context) (context.Context, error) {
	svc := NewFinanceServiceImpl(i.TimeProvider)
	depend.Register[IncomeRecorder](svc)
	depend.Register[ExpenseRecorder](svc)
	return ctx, nil
}
