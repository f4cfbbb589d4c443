package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/GiorgiUbiria/expense_tracker/internal/httputil"
	"github.com/GiorgiUbiria/expense_tracker/internal/ledger"
	"github.com/GiorgiUbiria/expense_tracker/internal/models"
	"github.com/GiorgiUbiria/expense_tracker/internal/seed"
	"github.com/GiorgiUbiria/expense_tracker/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type BudgetRequest struct {
	Category     string          `json:"category"`
	CategoryName string          `json:"category_name"`
	Amount       json.RawMessage `json:"amount" swaggertype:"number"`
	Period       string          `json:"period"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ListBudgets godoc
// @Summary   Budgets with spending in the current period
// @Tags      budgets
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}  BudgetView
// @Router    /api/budgets [get]
func (h *Handlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := principal(r).ID

	budgets, err := h.store.ListBudgets(ctx, userID)
	if err != nil {
		h.serverError(w, r, err, "Error fetching budgets")
		return
	}
	txs, err := h.store.ListTransactions(ctx, userID)
	if err != nil {
		h.serverError(w, r, err, "Error fetching budgets")
		return
	}

	now := h.now()
	out := make([]BudgetView, 0, len(budgets))
	for _, b := range budgets {
		spent := ledger.SpentSince(txs, b.Category, ledger.PeriodStart(b.Period, now))
		out = append(out, budgetView(b, spent))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// CreateBudget godoc
// @Summary   Create a spending limit for a category
// @Tags      budgets
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      BudgetRequest  true  "Budget"
// @Success   201   {object}  BudgetView
// @Failure   400   {object}  httputil.ErrorResponse
// @Router    /api/budgets [post]
func (h *Handlers) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req BudgetRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = strings.TrimSpace(req.CategoryName)
	}
	amountRaw := strings.Trim(strings.TrimSpace(string(req.Amount)), `"`)
	if category == "" || amountRaw == "" || amountRaw == "null" {
		httputil.WriteError(w, http.StatusBadRequest, "Category and amount are required")
		return
	}
	amount, err := decimal.NewFromString(amountRaw)
	if err != nil || !amount.IsPositive() || !models.ValidAmount(amount) {
		httputil.WriteError(w, http.StatusBadRequest, "Amount must be a positive number")
		return
	}
	period := strings.ToUpper(strings.TrimSpace(req.Period))
	if period == "" {
		period = models.PeriodMonthly
	}
	if !models.ValidPeriod(period) {
		httputil.WriteError(w, http.StatusBadRequest, "Period must be one of WEEKLY, MONTHLY, YEARLY")
		return
	}

	b := models.Budget{UserID: principal(r).ID, Category: category, Amount: amount, Period: period}
	if err := h.store.CreateBudget(r.Context(), &b); err != nil {
		h.serverError(w, r, err, "Error creating budget")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, budgetView(b, decimal.Zero))
}

// DeleteBudget godoc
// @Summary   Delete a budget
// @Tags      budgets
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Budget ID"
// @Success   200  {object}  httputil.MessageResponse
// @Failure   400  {object}  httputil.ErrorResponse
// @Failure   404  {object}  httputil.ErrorResponse
// @Router    /api/budgets/{id} [delete]
func (h *Handlers) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid budget ID format")
		return
	}

	err := h.store.DeleteBudget(r.Context(), id, principal(r).ID)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "Budget not found or unauthorized")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Error deleting budget")
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Budget deleted successfully")
}

// Categories godoc
// @Summary   Built-in categories plus the ones the user has used
// @Tags      budgets
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  CategoriesResponse
// @Router    /api/categories [get]
func (h *Handlers) Categories(w http.ResponseWriter, r *http.Request) {
	used, err := h.store.UserCategories(r.Context(), principal(r).ID)
	if err != nil {
		h.serverError(w, r, err, "Error fetching categories")
		return
	}

	seen := make(map[string]bool)
	var out []string
	for _, c := range append(seed.Categories(), used...) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)

	httputil.WriteJSON(w, http.StatusOK, CategoriesResponse{Categories: out})
}

func budgetView(b models.Budget, spent decimal.Decimal) BudgetView {
	return BudgetView{
		ID:        b.ID,
		Category:  b.Category,
		Amount:    money(b.Amount),
		Period:    b.Period,
		Spent:     money(spent),
		Remaining: money(b.Amount.Sub(spent)),
		CreatedAt: b.CreatedAt,
	}
}
