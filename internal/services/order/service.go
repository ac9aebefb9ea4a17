// Package order implements post-payment fulfillment for composite orders
// and the service-price breakdown used by the amount split.
package order

import (
	"context"
	"fmt"

	apperr "github.com/usename-Poezd/transaction-service/internal/errors"
	"github.com/usename-Poezd/transaction-service/internal/models"
	"github.com/usename-Poezd/transaction-service/internal/repositories"
	"github.com/usename-Poezd/transaction-service/internal/services/payment"
)

// Service resolves orders for the payment orchestrator and prices them.
type Service struct {
	repo repositories.OrderRepository
}

func NewService(repo repositories.OrderRepository) *Service {
	if repo == nil {
		panic("order repository is required")
	}
	return &Service{repo: repo}
}

// Get loads an order's fulfillment handle. A missing id is fatal.
func (s *Service) Get(ctx context.Context, id uint) (payment.Order, error) {
	model, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &fulfillment{repo: s.repo, order: model}, nil
}

// PricesForOrders returns the {price, cashback} breakdown for each order.
func (s *Service) PricesForOrders(ctx context.Context, user *models.User, orderIDs []uint) ([]payment.ServicePrice, error) {
	orders, err := s.repo.ListByIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.CompositeOrder, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}

	prices := make([]payment.ServicePrice, 0, len(orderIDs))
	for _, id := range orderIDs {
		o, ok := byID[id]
		if !ok {
			return nil, apperr.ErrNotFound
		}
		prices = append(prices, payment.ServicePrice{
			OrderID:  o.ID,
			Price:    o.Price,
			Cashback: o.Cashback,
		})
	}
	return prices, nil
}

// fulfillment carries one loaded order through the pay-then-run contract.
type fulfillment struct {
	repo  repositories.OrderRepository
	order *models.CompositeOrder
}

func (f *fulfillment) Pay(ctx context.Context) error {
	if f.order.Status == models.OrderStatusActive {
		return fmt.Errorf("order %d is already active", f.order.ID)
	}
	if err := f.repo.SetStatus(ctx, f.order.ID, models.OrderStatusPaid); err != nil {
		return err
	}
	f.order.Status = models.OrderStatusPaid
	return nil
}

func (f *fulfillment) Run(ctx context.Context) error {
	if f.order.Status != models.OrderStatusPaid {
		return fmt.Errorf("order %d is not paid", f.order.ID)
	}
	if err := f.repo.SetStatus(ctx, f.order.ID, models.OrderStatusActive); err != nil {
		return err
	}
	f.order.Status = models.OrderStatusActive
	return nil
}
