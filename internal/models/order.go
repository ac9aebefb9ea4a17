package models

import (
	"time"
)

// Order statuses used by post-payment fulfillment.
const (
	OrderStatusNew    = "new"
	OrderStatusPaid   = "paid"
	OrderStatusActive = "active"
)

// CompositeOrder is the unit of fulfillment a payment references by id.
// Price and Cashback together form the service-price breakdown used by
// the amount split.
type CompositeOrder struct {
	ID        uint    `gorm:"primarykey"`
	UserID    uint    `gorm:"index;not null"`
	Price     float64 `gorm:"not null"`
	Cashback  float64 `gorm:"default:0"`
	Currency  string  `gorm:"column:cur;not null"`
	Status    string  `gorm:"not null;default:'new'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
