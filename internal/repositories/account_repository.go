package repositories

import (
	"context"

	"peerpay/internal/models"
)

// AccountRepository is the sole mutator of account balances. TryDebit,
// Credit and AtomicTransfer are atomic at the database level; callers that
// need a balance change and a ledger write to commit together wrap both in
// LedgerStore.ExecuteInTransaction.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	IncrementTokenVersion(ctx context.Context, id uint) error

	GetBalance(ctx context.Context, id uint) (int64, error)
	TryDebit(ctx context.Context, id uint, amount int64) error
	Credit(ctx context.Context, id uint, amount int64) error
	AtomicTransfer(ctx context.Context, fromID, toID uint, amount int64) error

	TotalBalance(ctx context.Context) (int64, error)
}
