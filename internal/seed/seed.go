package seed

import (
	"context"
	"time"

	"github.com/GiorgiUbiria/expense_tracker/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type sample struct {
	Type          string
	Amount        string
	Category      string
	Description   string
	Date          string
	PaymentMethod string
}

// sampleSet is the demo month given to new and reset accounts.
var sampleSet = []sample{
	{models.TypeIncome, "5000", "salary", "Monthly Salary", "2024-03-01", models.PaymentBank},
	{models.TypeExpense, "1200", "housing", "Rent Payment", "2024-03-10", models.PaymentBank},
	{models.TypeExpense, "300", "utilities", "Electricity Bill", "2024-03-12", models.PaymentCard},
	{models.TypeExpense, "200", "food", "Restaurant", "2024-03-14", models.PaymentCard},
	{models.TypeExpense, "100", "transport", "Train Ticket", "2024-03-13", models.PaymentCard},
	{models.TypeExpense, "400", "shopping", "Clothing & Electronics", "2024-03-16", models.PaymentCard},
	{models.TypeExpense, "350", "entertainment", "Movies & Dining", "2024-03-17", models.PaymentCard},
	{models.TypeExpense, "300", "healthcare", "Medical Checkup", "2024-03-18", models.PaymentCard},
	{models.TypeExpense, "150", "food", "Grocery Shopping", "2024-03-15", models.PaymentCard},
}

// Categories lists the built-in categories, in sample order, without
// duplicates.
func Categories() []string {
	seen := make(map[string]bool, len(sampleSet))
	var out []string
	for _, s := range sampleSet {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}

func SampleTransactions(userID uuid.UUID) []models.Transaction {
	txs := make([]models.Transaction, 0, len(sampleSet))
	for _, s := range sampleSet {
		date, _ := time.Parse(time.DateOnly, s.Date)
		txs = append(txs, models.Transaction{
			UserID:        userID,
			Type:          s.Type,
			Amount:        decimal.RequireFromString(s.Amount),
			Category:      s.Category,
			Description:   s.Description,
			Date:          date,
			PaymentMethod: s.PaymentMethod,
		})
	}
	return txs
}

type Replacer interface {
	ReplaceTransactions(ctx context.Context, userID uuid.UUID, txs []models.Transaction) error
}

// Reset swaps the user's transactions for the sample set and returns what
// was written.
func Reset(ctx context.Context, r Replacer, userID uuid.UUID) ([]models.Transaction, error) {
	txs := SampleTransactions(userID)
	if err := r.ReplaceTransactions(ctx, userID, txs); err != nil {
		return nil, err
	}
	return txs, nil
}
