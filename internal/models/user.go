package models

import (
	"time"
)

// User is the resolved owner reference the money services operate on.
// Authentication lives outside this service; handlers resolve the user
// once at the boundary and pass the loaded record down.
type User struct {
	ID            uint   `gorm:"primarykey"`
	Name          string `gorm:"not null"`
	Currency      string `gorm:"column:cur;not null;default:'USD'"`
	Locale        string `gorm:"default:'en'"`
	PremiumTierID uint   `gorm:"default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
