package store

import (
	"context"
	"testing"
	"time"

	"github.com/GiorgiUbiria/expense_tracker/configs"
	"github.com/GiorgiUbiria/expense_tracker/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	st, err := Open(configs.DBConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(s.T(), err, "failed to open test database")
	require.NoError(s.T(), st.Migrate())
	s.store = st
	s.ctx = context.Background()
}

func (s *StoreTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
}

func (s *StoreTestSuite) newUser(email string) *models.User {
	u := &models.User{Name: "Test", Email: email, Password: "hash", Currency: "USD", Language: "en", Theme: "light"}
	require.NoError(s.T(), s.store.CreateUser(s.ctx, u))
	return u
}

func (s *StoreTestSuite) newTx(userID uuid.UUID, date string, amount string) models.Transaction {
	d, err := time.Parse(time.DateOnly, date)
	require.NoError(s.T(), err)
	tx := models.Transaction{
		UserID:        userID,
		Type:          models.TypeExpense,
		Amount:        decimal.RequireFromString(amount),
		Category:      "food",
		Description:   "Lunch",
		Date:          d,
		PaymentMethod: models.PaymentCash,
	}
	require.NoError(s.T(), s.store.CreateTransaction(s.ctx, &tx))
	return tx
}

func (s *StoreTestSuite) TestCreateUserAssignsID() {
	u := s.newUser("a@b.com")
	assert.NotEqual(s.T(), uuid.Nil, u.ID)

	got, err := s.store.UserByID(s.ctx, u.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "a@b.com", got.Email)
	assert.Nil(s.T(), got.Username)
}

func (s *StoreTestSuite) TestDuplicateEmail() {
	s.newUser("a@b.com")

	err := s.store.CreateUser(s.ctx, &models.User{Name: "Other", Email: "a@b.com", Password: "x"})
	assert.ErrorIs(s.T(), err, ErrEmailTaken)
}

func (s *StoreTestSuite) TestUserLookupsReportNotFound() {
	_, err := s.store.UserByEmail(s.ctx, "missing@b.com")
	assert.ErrorIs(s.T(), err, ErrNotFound)

	_, err = s.store.UserByID(s.ctx, uuid.New())
	assert.ErrorIs(s.T(), err, ErrNotFound)

	_, err = s.store.UserByResetToken(s.ctx, "nope")
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *StoreTestSuite) TestUpdateUserUniqueness() {
	a := s.newUser("a@b.com")
	b := s.newUser("b@b.com")

	require.NoError(s.T(), s.store.UpdateUser(s.ctx, a.ID, map[string]any{"username": "alice"}))
	err := s.store.UpdateUser(s.ctx, b.ID, map[string]any{"username": "alice"})
	assert.ErrorIs(s.T(), err, ErrUsernameTaken)

	err = s.store.UpdateUser(s.ctx, b.ID, map[string]any{"email": "a@b.com"})
	assert.ErrorIs(s.T(), err, ErrEmailTaken)

	err = s.store.UpdateUser(s.ctx, uuid.New(), map[string]any{"name": "ghost"})
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *StoreTestSuite) TestResetTokenRoundTrip() {
	u := s.newUser("a@b.com")
	expires := time.Now().Add(time.Hour).UTC()

	require.NoError(s.T(), s.store.UpdateUser(s.ctx, u.ID, map[string]any{
		"reset_password_token":   "hash",
		"reset_password_expires": expires,
	}))

	got, err := s.store.UserByResetToken(s.ctx, "hash")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), u.ID, got.ID)
	require.NotNil(s.T(), got.ResetPasswordExpires)
	assert.WithinDuration(s.T(), expires, *got.ResetPasswordExpires, time.Second)

	require.NoError(s.T(), s.store.UpdateUser(s.ctx, u.ID, map[string]any{
		"reset_password_token":   nil,
		"reset_password_expires": nil,
	}))
	_, err = s.store.UserByResetToken(s.ctx, "hash")
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *StoreTestSuite) TestListTransactionsNewestFirst() {
	u := s.newUser("a@b.com")
	s.newTx(u.ID, "2024-03-01", "1")
	s.newTx(u.ID, "2024-03-20", "2")
	s.newTx(u.ID, "2024-03-10", "3")

	txs, err := s.store.ListTransactions(s.ctx, u.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), txs, 3)
	assert.Equal(s.T(), 20, txs[0].Date.Day())
	assert.Equal(s.T(), 10, txs[1].Date.Day())
	assert.Equal(s.T(), 1, txs[2].Date.Day())
}

func (s *StoreTestSuite) TestTransactionRoundTrip() {
	u := s.newUser("a@b.com")
	created := s.newTx(u.ID, "2024-03-20", "12.34")

	got, err := s.store.TransactionForUser(s.ctx, created.ID, u.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), decimal.RequireFromString("12.34").Equal(got.Amount))
	assert.True(s.T(), created.Date.Equal(got.Date))
	assert.Equal(s.T(), "food", got.Category)
	assert.Equal(s.T(), models.PaymentCash, got.PaymentMethod)
}

func (s *StoreTestSuite) TestOwnershipIsEnforced() {
	owner := s.newUser("owner@b.com")
	other := s.newUser("other@b.com")
	tx := s.newTx(owner.ID, "2024-03-20", "50")

	_, err := s.store.TransactionForUser(s.ctx, tx.ID, other.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	hijack := tx
	hijack.UserID = other.ID
	hijack.Amount = decimal.NewFromInt(1)
	assert.ErrorIs(s.T(), s.store.UpdateTransaction(s.ctx, &hijack), ErrNotFound)
	assert.ErrorIs(s.T(), s.store.DeleteTransaction(s.ctx, tx.ID, other.ID), ErrNotFound)

	got, err := s.store.TransactionForUser(s.ctx, tx.ID, owner.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), decimal.NewFromInt(50).Equal(got.Amount))
}

func (s *StoreTestSuite) TestUpdateAndDeleteTransaction() {
	u := s.newUser("a@b.com")
	tx := s.newTx(u.ID, "2024-03-20", "50")

	tx.Amount = decimal.NewFromInt(75)
	tx.Category = "travel"
	require.NoError(s.T(), s.store.UpdateTransaction(s.ctx, &tx))

	got, err := s.store.TransactionForUser(s.ctx, tx.ID, u.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "travel", got.Category)
	assert.True(s.T(), decimal.NewFromInt(75).Equal(got.Amount))

	require.NoError(s.T(), s.store.DeleteTransaction(s.ctx, tx.ID, u.ID))
	assert.ErrorIs(s.T(), s.store.DeleteTransaction(s.ctx, tx.ID, u.ID), ErrNotFound)
}

func (s *StoreTestSuite) TestDeleteAllCountsOnlyOwnRows() {
	a := s.newUser("a@b.com")
	b := s.newUser("b@b.com")
	s.newTx(a.ID, "2024-03-01", "1")
	s.newTx(a.ID, "2024-03-02", "1")
	s.newTx(b.ID, "2024-03-03", "1")

	n, err := s.store.DeleteAllTransactions(s.ctx, a.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), n)

	left, err := s.store.CountTransactions(s.ctx, b.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), left)
}

func (s *StoreTestSuite) TestReplaceTransactions() {
	u := s.newUser("a@b.com")
	s.newTx(u.ID, "2024-01-01", "99")

	batch := func() []models.Transaction {
		return []models.Transaction{
			{UserID: u.ID, Type: models.TypeIncome, Amount: decimal.NewFromInt(10), Category: "salary", Description: "x", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), PaymentMethod: models.PaymentBank},
			{UserID: u.ID, Type: models.TypeExpense, Amount: decimal.NewFromInt(5), Category: "food", Description: "y", Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), PaymentMethod: models.PaymentCard},
		}
	}

	require.NoError(s.T(), s.store.ReplaceTransactions(s.ctx, u.ID, batch()))
	require.NoError(s.T(), s.store.ReplaceTransactions(s.ctx, u.ID, batch()))

	n, err := s.store.CountTransactions(s.ctx, u.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), n)
}

func (s *StoreTestSuite) TestCreateUserWithTransactions() {
	u := &models.User{ID: uuid.New(), Name: "N", Email: "n@b.com", Password: "x"}
	txs := []models.Transaction{{UserID: u.ID, Type: models.TypeExpense, Amount: decimal.NewFromInt(1), Category: "food", Description: "d", Date: time.Now().UTC(), PaymentMethod: models.PaymentCash}}

	require.NoError(s.T(), s.store.CreateUserWithTransactions(s.ctx, u, txs))
	n, err := s.store.CountTransactions(s.ctx, u.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), n)

	dup := &models.User{ID: uuid.New(), Name: "N", Email: "n@b.com", Password: "x"}
	err = s.store.CreateUserWithTransactions(s.ctx, dup, nil)
	assert.ErrorIs(s.T(), err, ErrEmailTaken)
}

func (s *StoreTestSuite) TestUserCategories() {
	u := s.newUser("a@b.com")
	s.newTx(u.ID, "2024-03-01", "1")
	s.newTx(u.ID, "2024-03-02", "1")
	tx := models.Transaction{UserID: u.ID, Type: models.TypeExpense, Amount: decimal.NewFromInt(1), Category: "books", Description: "d", Date: time.Now().UTC(), PaymentMethod: models.PaymentCash}
	require.NoError(s.T(), s.store.CreateTransaction(s.ctx, &tx))

	cats, err := s.store.UserCategories(s.ctx, u.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"books", "food"}, cats)
}

func (s *StoreTestSuite) TestBudgets() {
	a := s.newUser("a@b.com")
	b := s.newUser("b@b.com")

	budget := models.Budget{UserID: a.ID, Category: "food", Amount: decimal.NewFromInt(300), Period: models.PeriodMonthly}
	require.NoError(s.T(), s.store.CreateBudget(s.ctx, &budget))

	list, err := s.store.ListBudgets(s.ctx, a.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), "food", list[0].Category)

	assert.ErrorIs(s.T(), s.store.DeleteBudget(s.ctx, budget.ID, b.ID), ErrNotFound)
	assert.NoError(s.T(), s.store.DeleteBudget(s.ctx, budget.ID, a.ID))
}

func (s *StoreTestSuite) TestPing() {
	assert.NoError(s.T(), s.store.Ping(s.ctx))
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
