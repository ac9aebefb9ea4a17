package models

import (
	"time"
)

// Cashback posting types.
const (
	CashbackInflowCreate  = "cashback_inflow_create"
	CashbackInflowPayment = "cashback_inflow_payment"
	CashbackOutflowOrder  = "cashback_outflow_order"
)

// CashbackEntry is one signed, immutable entry in the cashback sub-ledger.
type CashbackEntry struct {
	ID        uint    `gorm:"primarykey"`
	UserID    uint    `gorm:"index;not null"`
	Type      string  `gorm:"not null"`
	Amount    float64 `gorm:"not null"`
	Currency  string  `gorm:"column:cur;not null"`
	Comment   string
	PaymentID *uint    `gorm:"index"`
	OrderIDs  UintList `gorm:"type:jsonb"`
	CreatedAt time.Time
}
