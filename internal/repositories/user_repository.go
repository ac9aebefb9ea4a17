package repositories

import (
	"context"
	"errors"
	"fmt"

	apperr "github.com/usename-Poezd/transaction-service/internal/errors"
	"github.com/usename-Poezd/transaction-service/internal/models"

	"gorm.io/gorm"
)

// UserRepository loads owner records and persists premium tier upgrades.
type UserRepository interface {
	Get(ctx context.Context, id uint) (*models.User, error)
	UpdatePremiumTier(ctx context.Context, userID, tierID uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) UpdatePremiumTier(ctx context.Context, userID, tierID uint) error {
	err := conn(ctx, r.db).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("premium_tier_id", tierID).Error
	if err != nil {
		return fmt.Errorf("failed to update premium tier: %w", err)
	}
	return nil
}
