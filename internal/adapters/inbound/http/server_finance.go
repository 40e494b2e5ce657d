package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mirahq/academy-crm/internal/domain"
)

type listIncomeResp struct {
	Items []incomeResp `json:"items"`
	pagination
}

func (api *AcademyServer) ListIncome(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	entries, hasMore, err := api.FinanceRepo.ListIncome(r.Context(), page, pageSize)
	if err != nil {
		api.Logger.Printf("Error listing income: %v", err)
		respondError(w, toError(err))
		return
	}

	resp := listIncomeResp{Items: []incomeResp{}, pagination: toPagination(page, hasMore)}
	for _, entry := range entries {
		resp.Items = append(resp.Items, toIncome(entry))
	}
	respondJSON(w, http.StatusOK, resp)
}

type recordIncomeReq struct {
	Source     string          `json:"source"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	ReceivedAt *time.Time      `json:"received_at"`
	Notes      string          `json:"notes"`
}

func (api *AcademyServer) RecordIncome(w http.ResponseWriter, r *http.Request) {
	var req recordIncomeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	income := domain.Income{
		Source:   req.Source,
		Category: req.Category,
		Amount:   req.Amount,
		Notes:    req.Notes,
	}
	if req.ReceivedAt != nil {
		income.ReceivedAt = *req.ReceivedAt
	}

	var created domain.Income
	err := api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		var err error
		created, err = api.IncomeRecorder.RecordIncome(r.Context(), uow, income)
		return err
	})
	if err != nil {
		api.Logger.Printf("Error recording income: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusCreated, toIncome(created))
}

type listExpensesResp struct {
	Items []expenseResp `json:"items"`
	pagination
}

func (api *AcademyServer) ListExpenses(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	entries, hasMore, err := api.FinanceRepo.ListExpenses(r.Context(), page, pageSize)
	if err != nil {
		api.Logger.Printf("Error listing expenses: %v", err)
		respondError(w, toError(err))
		return
	}

	resp := listExpensesResp{Items: []expenseResp{}, pagination: toPagination(page, hasMore)}
	for _, entry := range entries {
		resp.Items = append(resp.Items, toExpense(entry))
	}
	respondJSON(w, http.StatusOK, resp)
}

type recordExpenseReq struct {
	Payee    string          `json:"payee"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	SpentAt  *time.Time      `json:"spent_at"`
	Notes    string          `json:"notes"`
}

func (api *AcademyServer) RecordExpense(w http.ResponseWriter, r *http.Request) {
	var req recordExpenseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	expense := domain.Expense{
		Payee:    req.Payee,
		Category: req.Category,
		Amount:   req.Amount,
		Notes:    req.Notes,
	}
	if req.SpentAt != nil {
		expense.SpentAt = *req.SpentAt
	}

	var created domain.Expense
	err := api.Uow.Execute(r.Context(), func(uow domain.UnitOfWork) error {
		var err error
		created, err = api.ExpenseRecorder.RecordExpense(r.Context(), uow, expense)
		return err
	})
	if err != nil {
		api.Logger.Printf("Error recording expense: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusCreated, toExpense(created))
}

func (api *AcademyServer) GetFinancialSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := api.FinanceRepo.Summarize(r.Context())
	if err != nil {
		api.Logger.Printf("Error summarizing finances: %v", err)
		respondError(w, toError(err))
		return
	}
	summary.ComputedAt = api.TimeProvider.Now()

	respondJSON(w, http.StatusOK, toFinancialSummary(summary))
}
