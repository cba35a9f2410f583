package repositories

import (
	"context"

	"peerpay/internal/models"
)

// TransactionRepository owns transaction records and their lifecycle
// status. Transition is the only way a status changes and it enforces the
// legal moves: pending to applied, pending to declined, nothing else.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*models.Transaction, error)
	ListByAccount(ctx context.Context, accountID uint) ([]models.Transaction, error)
	Transition(ctx context.Context, id uint, newStatus string) error
	Delete(ctx context.Context, id uint) error
}
