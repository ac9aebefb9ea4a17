package models

import (
	"time"
)

// Payment statuses. Transitions are monotonic:
// CREATED -> PENDING -> {SUCCEEDED, FAILED, CANCELED}, with
// CREATED -> SUCCEEDED when nothing remains payable externally.
const (
	PaymentStatusCreated   = "created"
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusCanceled  = "canceled"
)

// TerminalStatuses are the statuses from which no further transition
// is permitted.
var TerminalStatuses = []string{
	PaymentStatusSucceeded,
	PaymentStatusFailed,
	PaymentStatusCanceled,
}

// TerminalStatus reports whether status permits no further transition.
func TerminalStatus(status string) bool {
	for _, s := range TerminalStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Planned-posting target ledgers.
const (
	ActionTypeTransaction = "transaction"
	ActionTypeCashback    = "cashback"
)

// PaymentAction is one planned posting, captured at payment creation and
// executed exactly once when the payment succeeds.
type PaymentAction struct {
	Type   string  `json:"type"`
	Action string  `json:"action"`
	Amount float64 `json:"amount"`
}

// Payment drives a charge from creation through the gateway to settlement.
// Once a terminal status is reached the record is immutable.
type Payment struct {
	ID          uint       `gorm:"primarykey"`
	UserID      uint       `gorm:"index;not null"`
	Amount      float64    `gorm:"not null"`
	Currency    string     `gorm:"not null"`
	Status      string     `gorm:"not null;default:'created'"`
	Description string     `gorm:"size:190"`
	Reference   string     `gorm:"uniqueIndex"`
	ForeignID   string     `gorm:"index"`
	Gateway     string     `gorm:"column:payment_system"`
	OrderIDs    UintList   `gorm:"type:jsonb"`
	Actions     ActionList `gorm:"type:jsonb"`
	IP          string
	Geocode     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
