package models

import (
	"time"
)

// Account statuses
const (
	AccountStatusActive = "active"
	AccountStatusClosed = "closed"
)

// Account holds a registered member's identity and balance. Balance is in
// integer minor units of the single supported currency and must never go
// negative; only the ledger engine mutates it.
type Account struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Password     string `gorm:"not null" json:"-"`
	Balance      int64  `gorm:"not null;default:0;check:balance >= 0" json:"balance"`
	Status       string `gorm:"default:'active'" json:"status"`
	TokenVersion int    `gorm:"default:1" json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
