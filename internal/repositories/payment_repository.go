package repositories

import (
	"context"
	"errors"
	"fmt"

	apperr "github.com/usename-Poezd/transaction-service/internal/errors"
	"github.com/usename-Poezd/transaction-service/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository persists payment records and their status machine.
type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	GetByForeignID(ctx context.Context, foreignID string) (*models.Payment, error)
	// SetStatusIfNotTerminal moves the payment to status unless it already
	// sits in a terminal one. Returns false when nothing was updated.
	SetStatusIfNotTerminal(ctx context.Context, id uint, status string) (bool, error)
	SetForeign(ctx context.Context, id uint, foreignID string, status string) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *models.Payment) error {
	if err := conn(ctx, r.db).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := conn(ctx, r.db).First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepository) GetByForeignID(ctx context.Context, foreignID string) (*models.Payment, error) {
	var payment models.Payment
	err := conn(ctx, r.db).Where("foreign_id = ?", foreignID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment by foreign id: %w", err)
	}
	return &payment, nil
}

// SetStatusIfNotTerminal is a compare-and-set: the WHERE clause excludes
// terminal statuses, so concurrent duplicate webhooks race on a single
// row update and only one of them wins.
func (r *paymentRepository) SetStatusIfNotTerminal(ctx context.Context, id uint, status string) (bool, error) {
	res := conn(ctx, r.db).
		Model(&models.Payment{}).
		Where("id = ? AND status NOT IN ?", id, models.TerminalStatuses).
		Update("status", status)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update payment status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *paymentRepository) SetForeign(ctx context.Context, id uint, foreignID string, status string) error {
	err := conn(ctx, r.db).
		Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"foreign_id": foreignID,
			"status":     status,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update payment foreign id: %w", err)
	}
	return nil
}
