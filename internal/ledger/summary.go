package ledger

import (
	"time"

	"github.com/GiorgiUbiria/expense_tracker/internal/models"
	"github.com/shopspring/decimal"
)

// Summary aggregates one user's transactions. CategoryTotals holds expenses
// only.
type Summary struct {
	TotalIncome    decimal.Decimal
	TotalExpenses  decimal.Decimal
	Balance        decimal.Decimal
	CategoryTotals map[string]decimal.Decimal
}

func Summarize(txs []models.Transaction) Summary {
	s := Summary{
		TotalIncome:    decimal.Zero,
		TotalExpenses:  decimal.Zero,
		CategoryTotals: make(map[string]decimal.Decimal),
	}

	for _, t := range txs {
		switch t.Type {
		case models.TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case models.TypeExpense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
			s.CategoryTotals[t.Category] = s.CategoryTotals[t.Category].Add(t.Amount)
		}
	}

	s.Balance = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}

// PeriodStart returns the first day of the budget period containing now.
// Weeks start on Monday.
func PeriodStart(period string, now time.Time) time.Time {
	day := models.Day(now)
	switch period {
	case models.PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case models.PeriodYearly:
		return time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// SpentSince sums expenses in category dated on or after since.
func SpentSince(txs []models.Transaction, category string, since time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Type != models.TypeExpense || t.Category != category || t.Date.Before(since) {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total
}
