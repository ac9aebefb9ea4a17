package models

import (
	"time"
)

// Wallet posting types. The tag fixes the required sign of the amount.
const (
	InflowTest     = "inflow_test"
	InflowOther    = "inflow_other"
	InflowCreate   = "inflow_create"
	InflowRefund   = "inflow_refund"
	InflowPayment  = "inflow_payment"
	InflowGroup    = "inflow_group_earned"
	InflowRefBonus = "inflow_ref_bonus"
	InflowUserJob  = "inflow_user_job"

	OutflowTest           = "outflow_test"
	OutflowOther          = "outflow_other"
	OutflowOrder          = "outflow_order"
	OutflowCancelRefBonus = "outflow_cancel_ref_bonus"
	OutflowCancelRefund   = "outflow_cancel_refund"
	OutflowDestroy        = "outflow_destroy"
)

// SupportedCurrencies is the closed set of currency codes the ledgers accept.
var SupportedCurrencies = []string{"USD", "EUR", "RUB"}

// SupportedCurrency reports whether cur belongs to the supported set.
func SupportedCurrency(cur string) bool {
	for _, c := range SupportedCurrencies {
		if c == cur {
			return true
		}
	}
	return false
}

// Posting is one signed, immutable wallet ledger entry. The ledger is
// append-only: corrections are new offsetting postings, never edits.
type Posting struct {
	ID            uint    `gorm:"primarykey"`
	UserID        uint    `gorm:"index;not null"`
	Type          string  `gorm:"not null"`
	Amount        float64 `gorm:"not null"`
	Currency      string  `gorm:"column:cur;not null"`
	Comment       string
	PaymentID     *uint    `gorm:"index"`
	OrderIDs      UintList `gorm:"type:jsonb"`
	RelatedUserID *uint
	CreatedAt     time.Time
}
