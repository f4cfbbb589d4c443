package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/GiorgiUbiria/expense_tracker/internal/httputil"
	"github.com/GiorgiUbiria/expense_tracker/internal/ledger"
	"github.com/GiorgiUbiria/expense_tracker/internal/models"
	"github.com/GiorgiUbiria/expense_tracker/internal/seed"
	"github.com/GiorgiUbiria/expense_tracker/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRequest accepts amount as a JSON number or numeric string and
// date as YYYY-MM-DD or RFC 3339.
type TransactionRequest struct {
	Type          string          `json:"type"`
	Amount        json.RawMessage `json:"amount" swaggertype:"number"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Date          string          `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
}

type validationError string

func (e validationError) Error() string { return string(e) }

func (req TransactionRequest) toModel(userID uuid.UUID) (models.Transaction, error) {
	amountRaw := strings.Trim(strings.TrimSpace(string(req.Amount)), `"`)
	category := strings.TrimSpace(req.Category)
	if req.Type == "" || amountRaw == "" || amountRaw == "null" || category == "" || strings.TrimSpace(req.Date) == "" {
		return models.Transaction{}, validationError("Missing required fields")
	}
	if !models.ValidType(req.Type) {
		return models.Transaction{}, validationError("Type must be either expense or income")
	}

	amount, err := decimal.NewFromString(amountRaw)
	if err != nil || !models.ValidAmount(amount) {
		return models.Transaction{}, validationError("Amount must be a non-negative number")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return models.Transaction{}, validationError("Invalid date format")
	}

	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		method = models.PaymentCash
	}
	if !models.ValidPaymentMethod(method) {
		return models.Transaction{}, validationError("Payment method must be one of cash, card, upi, bank")
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = models.DefaultDescription
	}

	return models.Transaction{
		UserID:        userID,
		Type:          req.Type,
		Amount:        amount,
		Category:      category,
		Description:   description,
		Date:          date,
		PaymentMethod: method,
	}, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return models.Day(t.UTC()), nil
}

func (h *Handlers) decodeTransaction(w http.ResponseWriter, r *http.Request) (models.Transaction, bool) {
	var req TransactionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return models.Transaction{}, false
	}

	t, err := req.toModel(principal(r).ID)
	var verr validationError
	if errors.As(err, &verr) {
		httputil.WriteError(w, http.StatusBadRequest, verr.Error())
		return models.Transaction{}, false
	}
	return t, true
}

// Dashboard godoc
// @Summary      Totals, expense breakdown and transactions
// @Description  Seeds the sample transactions when the user has none.
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  DashboardResponse
// @Router       /api/expenses/dashboard [get]
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := principal(r).ID

	txs, err := h.store.ListTransactions(ctx, userID)
	if err != nil {
		h.serverError(w, r, err, "Error fetching dashboard data")
		return
	}

	if len(txs) == 0 {
		if _, err := seed.Reset(ctx, h.store, userID); err != nil {
			h.serverError(w, r, err, "Error fetching dashboard data")
			return
		}
		if txs, err = h.store.ListTransactions(ctx, userID); err != nil {
			h.serverError(w, r, err, "Error fetching dashboard data")
			return
		}
	}

	httputil.WriteJSON(w, http.StatusOK, dashboard(ledger.Summarize(txs), txs))
}

// ListTransactions godoc
// @Summary   List transactions, newest first
// @Tags      expenses
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}  TransactionView
// @Router    /api/expenses [get]
func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.store.ListTransactions(r.Context(), principal(r).ID)
	if err != nil {
		h.serverError(w, r, err, "Error fetching transactions")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, transactionViews(txs))
}

// CreateTransaction godoc
// @Summary   Record a transaction
// @Tags      expenses
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      TransactionRequest  true  "Transaction"
// @Success   201   {object}  TransactionView
// @Failure   400   {object}  httputil.ErrorResponse
// @Router    /api/expenses [post]
func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	t, ok := h.decodeTransaction(w, r)
	if !ok {
		return
	}

	if err := h.store.CreateTransaction(r.Context(), &t); err != nil {
		h.serverError(w, r, err, "Error creating transaction")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, transactionView(t))
}

// UpdateTransaction godoc
// @Summary   Replace a transaction
// @Tags      expenses
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string              true  "Transaction ID"
// @Param     body  body      TransactionRequest  true  "Transaction"
// @Success   200   {object}  TransactionView
// @Failure   400   {object}  httputil.ErrorResponse
// @Failure   404   {object}  httputil.ErrorResponse
// @Router    /api/expenses/{id} [put]
func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	t, ok := h.decodeTransaction(w, r)
	if !ok {
		return
	}
	t.ID = id

	ctx := r.Context()
	err := h.store.UpdateTransaction(ctx, &t)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "Transaction not found or unauthorized")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Error updating transaction")
		return
	}

	updated, err := h.store.TransactionForUser(ctx, id, t.UserID)
	if err != nil {
		h.serverError(w, r, err, "Error updating transaction")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, transactionView(*updated))
}

// DeleteTransaction godoc
// @Summary   Delete a transaction
// @Tags      expenses
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Transaction ID"
// @Success   200  {object}  DeleteResponse
// @Failure   400  {object}  httputil.ErrorResponse
// @Failure   404  {object}  httputil.ErrorResponse
// @Router    /api/expenses/{id} [delete]
func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	ctx := r.Context()
	userID := principal(r).ID

	err := h.store.DeleteTransaction(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "Transaction not found or unauthorized")
		return
	}
	if err != nil {
		h.serverError(w, r, err, "Error deleting transaction")
		return
	}

	remaining, err := h.store.ListTransactions(ctx, userID)
	if err != nil {
		h.serverError(w, r, err, "Error deleting transaction")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, DeleteResponse{
		Message:      "Transaction deleted successfully",
		DeletedID:    id,
		Transactions: transactionViews(remaining),
	})
}

// DeleteAllTransactions godoc
// @Summary   Delete every transaction of the current user
// @Tags      expenses
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  DeleteAllResponse
// @Router    /api/expenses/delete-all [delete]
func (h *Handlers) DeleteAllTransactions(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.DeleteAllTransactions(r.Context(), principal(r).ID)
	if err != nil {
		h.serverError(w, r, err, "Error deleting transactions")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DeleteAllResponse{
		Message:      "All transactions deleted successfully",
		DeletedCount: n,
	})
}

// CreateInitial godoc
// @Summary   Replace transactions with the sample set
// @Tags      expenses
// @Produce   json
// @Security  BearerAuth
// @Success   201  {object}  SeedResponse
// @Router    /api/expenses/create-initial [post]
func (h *Handlers) CreateInitial(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.reseed(w, r, "Error creating initial transactions")
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, SeedResponse{
		Message:      "Initial transactions created successfully",
		Transactions: transactionViews(txs),
	})
}

// ForceReset godoc
// @Summary      Reseed and echo the recomputed totals
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  SeedResponse
// @Router       /api/expenses/force-reset [post]
func (h *Handlers) ForceReset(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.reseed(w, r, "Error resetting transactions")
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, SeedResponse{
		Message:      "Transactions force reset successfully",
		Transactions: transactionViews(txs),
		Totals:       totals(ledger.Summarize(txs)),
	})
}

// reseed replaces the user's transactions with the sample set and returns
// them as stored.
func (h *Handlers) reseed(w http.ResponseWriter, r *http.Request, msg string) ([]models.Transaction, bool) {
	ctx := r.Context()
	userID := principal(r).ID

	if _, err := seed.Reset(ctx, h.store, userID); err != nil {
		h.serverError(w, r, err, msg)
		return nil, false
	}
	txs, err := h.store.ListTransactions(ctx, userID)
	if err != nil {
		h.serverError(w, r, err, msg)
		return nil, false
	}
	return txs, true
}
