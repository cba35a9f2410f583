package repositories

import (
	"context"

	"gorm.io/gorm"
)

// LedgerStore bundles the two repositories behind a single transactional
// boundary. ExecuteInTransaction hands the callback a store whose
// repositories share one database transaction, so a balance mutation and
// its ledger record commit or roll back together.
type LedgerStore interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository
	ExecuteInTransaction(ctx context.Context, fn func(LedgerStore) error) error
}

type ledgerStore struct {
	db           *gorm.DB
	accounts     AccountRepository
	transactions TransactionRepository
}

// NewLedgerStore creates a gorm-backed LedgerStore.
func NewLedgerStore(db *gorm.DB) LedgerStore {
	return &ledgerStore{
		db:           db,
		accounts:     NewAccountRepository(db),
		transactions: NewTransactionRepository(db),
	}
}

func (s *ledgerStore) Accounts() AccountRepository { return s.accounts }

func (s *ledgerStore) Transactions() TransactionRepository { return s.transactions }

func (s *ledgerStore) ExecuteInTransaction(ctx context.Context, fn func(LedgerStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewLedgerStore(tx))
	})
}
