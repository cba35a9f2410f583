package models

import (
	"time"
)

// Transaction statuses
const (
	StatusPending  = "pending"
	StatusApplied  = "applied"
	StatusDeclined = "declined"
)

// Transaction types
const (
	TransactionTypeSend    = "send"
	TransactionTypeRequest = "request"
)

// Transaction records one balance movement between two accounts. PayerID is
// always the account funds leave and PayeeID the account funds arrive at,
// regardless of which party initiated the transaction. For a request the
// initiator is the payee; the payer only gets debited once they accept.
type Transaction struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Reference string `gorm:"uniqueIndex;not null" json:"reference"`
	Type      string `gorm:"not null" json:"type"`
	PayerID   uint   `gorm:"not null;index" json:"payer_id"`
	PayeeID   uint   `gorm:"not null;index" json:"payee_id"`
	Amount    int64  `gorm:"not null" json:"amount"`
	Status    string `gorm:"not null;default:'pending'" json:"status"`
	Message   string `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal reports whether the transaction can no longer change state.
func (t *Transaction) Terminal() bool {
	return t.Status == StatusApplied || t.Status == StatusDeclined
}

// CanTransitionTo enforces the lifecycle: pending may become applied or
// declined, terminal states are immutable.
func (t *Transaction) CanTransitionTo(status string) bool {
	if t.Status != StatusPending {
		return false
	}
	return status == StatusApplied || status == StatusDeclined
}
