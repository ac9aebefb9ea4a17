package repositories

import (
	"context"
	"fmt"

	"github.com/usename-Poezd/transaction-service/internal/models"

	"gorm.io/gorm"
)

// CashbackRepository persists cashback sub-ledger entries.
type CashbackRepository interface {
	Sum(ctx context.Context, userID uint, cur string) (float64, error)
	Insert(ctx context.Context, e *models.CashbackEntry) error
	LockUser(ctx context.Context, userID uint) error
}

type cashbackRepository struct {
	db       *gorm.DB
	postings PostingRepository
}

func NewCashbackRepository(db *gorm.DB) CashbackRepository {
	return &cashbackRepository{db: db, postings: NewPostingRepository(db)}
}

func (r *cashbackRepository) Sum(ctx context.Context, userID uint, cur string) (float64, error) {
	var sum float64
	err := conn(ctx, r.db).
		Model(&models.CashbackEntry{}).
		Where("user_id = ? AND cur = ?", userID, cur).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum cashback entries: %w", err)
	}
	return sum, nil
}

func (r *cashbackRepository) Insert(ctx context.Context, e *models.CashbackEntry) error {
	if err := conn(ctx, r.db).Create(e).Error; err != nil {
		return fmt.Errorf("failed to insert cashback entry: %w", err)
	}
	return nil
}

// LockUser shares the wallet lock: both ledgers serialize on the same
// owner row.
func (r *cashbackRepository) LockUser(ctx context.Context, userID uint) error {
	return r.postings.LockUser(ctx, userID)
}
