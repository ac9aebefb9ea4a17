package repositories

import (
	"context"
	"errors"
	"fmt"

	apperr "github.com/usename-Poezd/transaction-service/internal/errors"
	"github.com/usename-Poezd/transaction-service/internal/models"

	"gorm.io/gorm"
)

// TierRepository reads the premium tier ladder.
type TierRepository interface {
	// ListByCurrency returns the tiers for cur ordered ascending by
	// (cash, id).
	ListByCurrency(ctx context.Context, cur string) ([]models.PremiumTier, error)
	Get(ctx context.Context, id uint) (*models.PremiumTier, error)
}

type tierRepository struct {
	db *gorm.DB
}

func NewTierRepository(db *gorm.DB) TierRepository {
	return &tierRepository{db: db}
}

func (r *tierRepository) ListByCurrency(ctx context.Context, cur string) ([]models.PremiumTier, error) {
	var tiers []models.PremiumTier
	err := conn(ctx, r.db).
		Where("cur = ?", cur).
		Order("cash ASC, id ASC").
		Find(&tiers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list premium tiers: %w", err)
	}
	return tiers, nil
}

func (r *tierRepository) Get(ctx context.Context, id uint) (*models.PremiumTier, error) {
	var tier models.PremiumTier
	if err := conn(ctx, r.db).First(&tier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get premium tier: %w", err)
	}
	return &tier, nil
}
