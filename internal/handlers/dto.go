package handlers

import (
	"time"

	"github.com/GiorgiUbiria/expense_tracker/internal/ledger"
	"github.com/GiorgiUbiria/expense_tracker/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserView never carries the password hash or reset token.
type UserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Currency string    `json:"currency"`
	Language string    `json:"language"`
	Theme    string    `json:"theme"`
}

type ProfileView struct {
	UserView
	Username  *string   `json:"username,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type UserMessageResponse struct {
	Message string      `json:"message"`
	User    ProfileView `json:"user"`
}

type TransactionView struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	PaymentMethod string    `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type DashboardResponse struct {
	TotalIncome        float64            `json:"total_income"`
	TotalExpenses      float64            `json:"total_expenses"`
	Balance            float64            `json:"balance"`
	CategoryTotals     map[string]float64 `json:"category_totals"`
	RecentTransactions []TransactionView  `json:"recent_transactions"`
}

type DeleteResponse struct {
	Message      string            `json:"message"`
	DeletedID    uuid.UUID         `json:"deletedId"`
	Transactions []TransactionView `json:"transactions"`
}

type DeleteAllResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

type SeedResponse struct {
	Message      string            `json:"message"`
	Transactions []TransactionView `json:"transactions"`
	Totals       *Totals           `json:"totals,omitempty"`
}

type Totals struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

type BudgetView struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category_name"`
	Amount    float64   `json:"amount"`
	Period    string    `json:"period"`
	Spent     float64   `json:"spent"`
	Remaining float64   `json:"remaining"`
	CreatedAt time.Time `json:"createdAt"`
}

func userView(u *models.User) UserView {
	return UserView{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Currency: u.Currency,
		Language: u.Language,
		Theme:    u.Theme,
	}
}

func profileView(u *models.User) ProfileView {
	return ProfileView{UserView: userView(u), Username: u.Username, CreatedAt: u.CreatedAt}
}

func transactionView(t models.Transaction) TransactionView {
	return TransactionView{
		ID:            t.ID,
		UserID:        t.UserID,
		Type:          t.Type,
		Amount:        t.Amount.InexactFloat64(),
		Category:      t.Category,
		Description:   t.Description,
		Date:          t.Date.UTC(),
		PaymentMethod: t.PaymentMethod,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func transactionViews(txs []models.Transaction) []TransactionView {
	out := make([]TransactionView, 0, len(txs))
	for _, t := range txs {
		out = append(out, transactionView(t))
	}
	return out
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func totals(s ledger.Summary) *Totals {
	return &Totals{
		Income:   money(s.TotalIncome),
		Expenses: money(s.TotalExpenses),
		Balance:  money(s.Balance),
	}
}

func dashboard(s ledger.Summary, txs []models.Transaction) DashboardResponse {
	cats := make(map[string]float64, len(s.CategoryTotals))
	for k, v := range s.CategoryTotals {
		cats[k] = money(v)
	}
	return DashboardResponse{
		TotalIncome:        money(s.TotalIncome),
		TotalExpenses:      money(s.TotalExpenses),
		Balance:            money(s.Balance),
		CategoryTotals:     cats,
		RecentTransactions: transactionViews(txs),
	}
}
