package assistant

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/usecases"
)

// IncomeCreateTool records an income entry.
type IncomeCreateTool struct {
	uow          domain.UnitOfWork
	recorder     usecases.IncomeRecorder
	timeProvider domain.CurrentTimeProvider
}

// NewIncomeCreateTool creates a new instance of IncomeCreateTool.
func NewIncomeCreateTool(uow domain.UnitOfWork, recorder usecases.IncomeRecorder, timeProvider domain.CurrentTimeProvider) IncomeCreateTool {
	return IncomeCreateTool{uow: uow, recorder: recorder, timeProvider: timeProvider}
}

// StatusMessage returns a status message about the tool execution.
func (t IncomeCreateTool) StatusMessage() string {
	return "💰 Recording the income..."
}

// Definition returns the tool schema for addIncome.
func (t IncomeCreateTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "addIncome",
		Description: "Record one income entry. Required: source and amount. date defaults to today.",
		Parameters: []domain.ToolParam{
			{Name: "source", Type: domain.ToolParamType_String, Description: "Where the money came from.", Required: true},
			{Name: "amount", Type: domain.ToolParamType_Number, Description: "Income amount, positive.", Required: true},
			{Name: "category", Type: domain.ToolParamType_String, Description: "Bookkeeping category."},
			{Name: "date", Type: domain.ToolParamType_String, Description: "Date received, YYYY-MM-DD or a phrase like 'yesterday'."},
			{Name: "notes", Type: domain.ToolParamType_String, Description: "Free-form notes."},
		},
	}
}

// Call executes addIncome.
func (t IncomeCreateTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Source   string  `json:"source"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category,omitempty"`
		Date     string  `json:"date,omitempty"`
		Notes    string  `json:"notes,omitempty"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	now := t.timeProvider.Now()
	receivedAt, err := domain.ResolveDueDate(params.Date, now, now.Location())
	if err != nil {
		return errResponse(call, "invalid_date", err)
	}

	var income domain.Income
	err = t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		created, err := t.recorder.RecordIncome(ctx, uow, domain.Income{
			Source:     params.Source,
			Category:   params.Category,
			Amount:     decimal.NewFromFloat(params.Amount),
			ReceivedAt: receivedAt,
			Notes:      params.Notes,
		})
		if err != nil {
			return err
		}
		income = created
		return nil
	})
	if err != nil {
		return errResponse(call, "add_income_error", err)
	}

	return messageResponse(call, "Income of %s from %s was recorded.",
		income.Amount.StringFixed(2), income.Source)
}

// ExpenseCreateTool records an expense entry.
type ExpenseCreateTool struct {
	uow          domain.UnitOfWork
	recorder     usecases.ExpenseRecorder
	timeProvider domain.CurrentTimeProvider
}

// NewExpenseCreateTool creates a new instance of ExpenseCreateTool.
func NewExpenseCreateTool(uow domain.UnitOfWork, recorder usecases.ExpenseRecorder, timeProvider domain.CurrentTimeProvider) ExpenseCreateTool {
	return ExpenseCreateTool{uow: uow, recorder: recorder, timeProvider: timeProvider}
}

// StatusMessage returns a status message about the tool execution.
func (t ExpenseCreateTool) StatusMessage() string {
	return "💸 Recording the expense..."
}

// Definition returns the tool schema for addExpense.
func (t ExpenseCreateTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "addExpense",
		Description: "Record one expense entry. Required: payee and amount. date defaults to today.",
		Parameters: []domain.ToolParam{
			{Name: "payee", Type: domain.ToolParamType_String, Description: "Who was paid.", Required: true},
			{Name: "amount", Type: domain.ToolParamType_Number, Description: "Expense amount, positive.", Required: true},
			{Name: "category", Type: domain.ToolParamType_String, Description: "Bookkeeping category."},
			{Name: "date", Type: domain.ToolParamType_String, Description: "Date spent, YYYY-MM-DD or a phrase like 'yesterday'."},
			{Name: "notes", Type: domain.ToolParamType_String, Description: "Free-form notes."},
		},
	}
}

// Call executes addExpense.
func (t ExpenseCreateTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Payee    string  `json:"payee"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category,omitempty"`
		Date     string  `json:"date,omitempty"`
		Notes    string  `json:"notes,omitempty"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	now := t.timeProvider.Now()
	spentAt, err := domain.ResolveDueDate(params.Date, now, now.Location())
	if err != nil {
		return errResponse(call, "invalid_date", err)
	}

	var expense domain.Expense
	err = t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		created, err := t.recorder.RecordExpense(ctx, uow, domain.Expense{
			Payee:    params.Payee,
			Category: params.Category,
			Amount:   decimal.NewFromFloat(params.Amount),
			SpentAt:  spentAt,
			Notes:    params.Notes,
		})
		if err != nil {
			return err
		}
		expense = created
		return nil
	})
	if err != nil {
		return errResponse(call, "add_expense_error", err)
	}

	return messageResponse(call, "Expense of %s to %s was recorded.",
		expense.Amount.StringFixed(2), expense.Payee)
}

// FinancialSummaryTool reports aggregate income, expenses and balance.
type FinancialSummaryTool struct {
	repo domain.FinanceRepository
}

// NewFinancialSummaryTool creates a new instance of FinancialSummaryTool.
func NewFinancialSummaryTool(repo domain.FinanceRepository) FinancialSummaryTool {
	return FinancialSummaryTool{repo: repo}
}

// StatusMessage returns a status message about the tool execution.
func (t FinancialSummaryTool) StatusMessage() string {
	return "📊 Crunching the numbers..."
}

// Definition returns the tool schema for getFinancialSummary.
func (t FinancialSummaryTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "getFinancialSummary",
		Description: "Get totals for income (including student payments), expenses and the resulting balance. Takes no parameters.",
		Parameters:  []domain.ToolParam{},
	}
}

// Call executes getFinancialSummary.
func (t FinancialSummaryTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct{}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	summary, err := t.repo.Summarize(ctx)
	if err != nil {
		return errResponse(call, "summary_error", err)
	}

	return okResponse(call, map[string]any{
		"total_income":   summary.TotalIncome.StringFixed(2),
		"total_payments": summary.TotalPayments.StringFixed(2),
		"total_expense":  summary.TotalExpense.StringFixed(2),
		"balance":        summary.Balance.StringFixed(2),
	})
}
