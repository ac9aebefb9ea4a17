package models

import (
	"time"
)

// PremiumTier is a reward level keyed to cumulative qualifying wallet
// inflow in one currency. Tiers are ordered by (Cash, ID); a user's tier
// only ever moves upward.
type PremiumTier struct {
	ID        uint    `gorm:"primarykey"`
	Name      string  `gorm:"not null"`
	Currency  string  `gorm:"column:cur;index;not null"`
	Cash      float64 `gorm:"not null"`
	CreatedAt time.Time
}
