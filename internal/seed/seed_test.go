package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/GiorgiUbiria/expense_tracker/internal/ledger"
	"github.com/GiorgiUbiria/expense_tracker/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleTransactions(t *testing.T) {
	id := uuid.New()
	txs := SampleTransactions(id)

	require.Len(t, txs, 9)
	income := 0
	for _, tx := range txs {
		assert.Equal(t, id, tx.UserID)
		assert.Equal(t, 2024, tx.Date.Year())
		assert.Equal(t, 3, int(tx.Date.Month()))
		if tx.Type == models.TypeIncome {
			income++
		}
	}
	assert.Equal(t, 1, income)

	s := ledger.Summarize(txs)
	assert.Equal(t, "5000", s.TotalIncome.String())
	assert.Equal(t, "3000", s.TotalExpenses.String())
	assert.Equal(t, "2000", s.Balance.String())
	assert.Equal(t, "350", s.CategoryTotals["food"].String())
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{
		"salary", "housing", "utilities", "food", "transport",
		"shopping", "entertainment", "healthcare",
	}, Categories())
}

type recordingReplacer struct {
	userID uuid.UUID
	txs    []models.Transaction
	err    error
}

func (r *recordingReplacer) ReplaceTransactions(_ context.Context, userID uuid.UUID, txs []models.Transaction) error {
	r.userID, r.txs = userID, txs
	return r.err
}

func TestReset(t *testing.T) {
	id := uuid.New()
	r := &recordingReplacer{}

	txs, err := Reset(context.Background(), r, id)
	require.NoError(t, err)
	assert.Equal(t, id, r.userID)
	assert.Len(t, r.txs, 9)
	assert.Equal(t, r.txs, txs)

	r.err = errors.New("boom")
	_, err = Reset(context.Background(), r, id)
	assert.Error(t, err)
}
