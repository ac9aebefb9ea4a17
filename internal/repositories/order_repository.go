package repositories

import (
	"context"
	"errors"
	"fmt"

	apperr "github.com/usename-Poezd/transaction-service/internal/errors"
	"github.com/usename-Poezd/transaction-service/internal/models"

	"gorm.io/gorm"
)

// OrderRepository loads orders and persists fulfillment transitions.
type OrderRepository interface {
	Get(ctx context.Context, id uint) (*models.CompositeOrder, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.CompositeOrder, error)
	SetStatus(ctx context.Context, id uint, status string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Get(ctx context.Context, id uint) (*models.CompositeOrder, error) {
	var order models.CompositeOrder
	if err := conn(ctx, r.db).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.CompositeOrder, error) {
	var orders []models.CompositeOrder
	if len(ids) == 0 {
		return orders, nil
	}
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) SetStatus(ctx context.Context, id uint, status string) error {
	err := conn(ctx, r.db).
		Model(&models.CompositeOrder{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}
