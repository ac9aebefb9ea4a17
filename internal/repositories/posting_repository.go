package repositories

import (
	"context"
	"errors"
	"fmt"

	apperr "github.com/usename-Poezd/transaction-service/internal/errors"
	"github.com/usename-Poezd/transaction-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostingRepository persists wallet ledger postings.
type PostingRepository interface {
	Sum(ctx context.Context, userID uint, cur string) (float64, error)
	SumByTypes(ctx context.Context, userID uint, cur string, types []string) (float64, error)
	Insert(ctx context.Context, p *models.Posting) error
	LockUser(ctx context.Context, userID uint) error
}

type postingRepository struct {
	db *gorm.DB
}

func NewPostingRepository(db *gorm.DB) PostingRepository {
	return &postingRepository{db: db}
}

func (r *postingRepository) Sum(ctx context.Context, userID uint, cur string) (float64, error) {
	var sum float64
	err := conn(ctx, r.db).
		Model(&models.Posting{}).
		Where("user_id = ? AND cur = ?", userID, cur).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum postings: %w", err)
	}
	return sum, nil
}

func (r *postingRepository) SumByTypes(ctx context.Context, userID uint, cur string, types []string) (float64, error) {
	var sum float64
	err := conn(ctx, r.db).
		Model(&models.Posting{}).
		Where("user_id = ? AND cur = ? AND type IN ?", userID, cur, types).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum postings by type: %w", err)
	}
	return sum, nil
}

func (r *postingRepository) Insert(ctx context.Context, p *models.Posting) error {
	if err := conn(ctx, r.db).Create(p).Error; err != nil {
		return fmt.Errorf("failed to insert posting: %w", err)
	}
	return nil
}

// LockUser takes a row-level lock on the owner, serializing the
// sum-then-insert sequence per owner for the current transaction.
func (r *postingRepository) LockUser(ctx context.Context, userID uint) error {
	var user models.User
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("failed to lock user %d: %w", userID, err)
	}
	return nil
}
