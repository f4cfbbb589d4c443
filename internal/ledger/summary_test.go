package ledger

import (
	"testing"
	"time"

	"github.com/GiorgiUbiria/expense_tracker/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func tx(typ, category, amount string, date time.Time) models.Transaction {
	return models.Transaction{
		Type:     typ,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	assert.True(t, s.TotalIncome.IsZero())
	assert.True(t, s.TotalExpenses.IsZero())
	assert.True(t, s.Balance.IsZero())
	assert.NotNil(t, s.CategoryTotals)
	assert.Empty(t, s.CategoryTotals)
}

func TestSummarize(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx(models.TypeIncome, "salary", "5000", day),
		tx(models.TypeExpense, "food", "0.10", day),
		tx(models.TypeExpense, "food", "0.20", day),
		tx(models.TypeExpense, "rent", "1200", day),
		tx(models.TypeIncome, "gift", "15.55", day),
	}

	s := Summarize(txs)

	assert.Equal(t, "5015.55", s.TotalIncome.String())
	assert.Equal(t, "1200.3", s.TotalExpenses.String())
	assert.Equal(t, "3815.25", s.Balance.String())
	assert.Equal(t, "0.3", s.CategoryTotals["food"].String())
	assert.NotContains(t, s.CategoryTotals, "salary")
	assert.NotContains(t, s.CategoryTotals, "gift")
}

func TestSummarizeInvariants(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	lists := [][]models.Transaction{
		{tx(models.TypeExpense, "a", "1.01", day)},
		{tx(models.TypeIncome, "a", "9.99", day), tx(models.TypeExpense, "a", "19.99", day)},
		{
			tx(models.TypeExpense, "a", "3.33", day),
			tx(models.TypeExpense, "b", "3.33", day),
			tx(models.TypeExpense, "c", "3.34", day),
			tx(models.TypeIncome, "d", "100", day),
		},
	}

	for _, txs := range lists {
		s := Summarize(txs)
		assert.True(t, s.Balance.Equal(s.TotalIncome.Sub(s.TotalExpenses)))

		sum := decimal.Zero
		for _, v := range s.CategoryTotals {
			sum = sum.Add(v)
		}
		assert.True(t, sum.Equal(s.TotalExpenses))
	}
}

func TestPeriodStart(t *testing.T) {
	// Wednesday
	now := time.Date(2024, 3, 20, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), PeriodStart(models.PeriodWeekly, now))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), PeriodStart(models.PeriodMonthly, now))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), PeriodStart(models.PeriodYearly, now))

	sunday := time.Date(2024, 3, 24, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), PeriodStart(models.PeriodWeekly, sunday))
}

func TestSpentSince(t *testing.T) {
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx(models.TypeExpense, "food", "10", since),
		tx(models.TypeExpense, "food", "5", since.AddDate(0, 0, -1)),
		tx(models.TypeExpense, "rent", "100", since),
		tx(models.TypeIncome, "food", "50", since),
	}

	assert.Equal(t, "10", SpentSince(txs, "food", since).String())
	assert.True(t, SpentSince(txs, "travel", since).IsZero())
}
