package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/GiorgiUbiria/expense_tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// CreateUserWithTransactions inserts u and its starting transactions
// atomically.
func (s *Store) CreateUserWithTransactions(ctx context.Context, u *models.User, txs []models.Transaction) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if len(txs) == 0 {
			return nil
		}
		return tx.Create(&txs).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

// UserByEmail expects an already normalised address.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, "username = ?", username)
}

// UserByResetToken finds the user holding the reset token hash. Expiry is
// left to the caller.
func (s *Store) UserByResetToken(ctx context.Context, hash string) (*models.User, error) {
	return s.findUser(ctx, "reset_password_token = ?", hash)
}

func (s *Store) findUser(ctx context.Context, query string, args ...any) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UpdateUser writes the given columns. A unique violation is reported as
// ErrEmailTaken when the email column is being changed, ErrUsernameTaken
// otherwise.
func (s *Store) UpdateUser(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		if _, ok := fields["email"]; ok {
			return ErrEmailTaken
		}
		return ErrUsernameTaken
	}
	if res.Error != nil {
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
