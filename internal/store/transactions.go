package store

import (
	"context"
	"fmt"

	"github.com/GiorgiUbiria/expense_tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// ListTransactions returns the user's transactions, newest date first.
func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Order("created_at DESC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// TransactionForUser returns ErrNotFound both for missing ids and for
// transactions owned by someone else.
func (s *Store) TransactionForUser(ctx context.Context, id, userID uuid.UUID) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// UpdateTransaction overwrites the editable fields of t, scoped to t.UserID.
func (s *Store) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	res := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", t.ID, t.UserID).
		Updates(map[string]any{
			"type":           t.Type,
			"amount":         t.Amount,
			"category":       t.Category,
			"description":    t.Description,
			"date":           t.Date,
			"payment_method": t.PaymentMethod,
		})
	if res.Error != nil {
		return fmt.Errorf("update transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if res.Error != nil {
		return fmt.Errorf("delete transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAllTransactions(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Transaction{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete transactions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Store) CountTransactions(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// ReplaceTransactions purges the user's transactions and inserts txs in one
// database transaction. Concurrent calls for the same user are not
// serialised.
func (s *Store) ReplaceTransactions(ctx context.Context, userID uuid.UUID, txs []models.Transaction) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if len(txs) == 0 {
			return nil
		}
		return tx.Create(&txs).Error
	})
	if err != nil {
		return fmt.Errorf("replace transactions: %w", err)
	}
	return nil
}

// UserCategories lists the distinct categories the user has recorded.
func (s *Store) UserCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var cats []string
	err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Distinct().
		Order("category").
		Pluck("category", &cats).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}
