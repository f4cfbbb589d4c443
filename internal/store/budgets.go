package store

import (
	"context"
	"fmt"

	"github.com/GiorgiUbiria/expense_tracker/internal/models"
	"github.com/google/uuid"
)

func (s *Store) CreateBudget(ctx context.Context, b *models.Budget) error {
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (s *Store) ListBudgets(ctx context.Context, userID uuid.UUID) ([]models.Budget, error) {
	var budgets []models.Budget
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("category").Find(&budgets).Error
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

func (s *Store) DeleteBudget(ctx context.Context, id, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Budget{})
	if res.Error != nil {
		return fmt.Errorf("delete budget: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
