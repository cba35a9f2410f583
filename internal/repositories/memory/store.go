// Package memory provides an in-process LedgerStore with the same
// semantics as the gorm-backed one: single-writer commit units, bounded
// lock waits and read-committed reads. It backs the engine's unit tests
// and the embedded demo mode; production deployments use postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"peerpay/internal/models"
	"peerpay/internal/repositories"

	"github.com/google/uuid"
)

const defaultLockWait = 2 * time.Second

// Store is an in-memory repositories.LedgerStore. Writers serialize on a
// store-wide token with a bounded wait; readers share an RWMutex and can
// never observe a half-applied commit unit because the write lock is held
// for the whole unit.
type Store struct {
	mu       sync.RWMutex
	writeSem chan struct{}
	lockWait time.Duration

	accounts      map[uint]*models.Account
	transactions  map[uint]*models.Transaction
	nextAccountID uint
	nextTxID      uint
}

// NewStore creates an empty in-memory store. A lockWait of zero selects
// the default bounded wait for the writer token.
func NewStore(lockWait time.Duration) *Store {
	if lockWait <= 0 {
		lockWait = defaultLockWait
	}
	return &Store{
		writeSem:      make(chan struct{}, 1),
		lockWait:      lockWait,
		accounts:      make(map[uint]*models.Account),
		transactions:  make(map[uint]*models.Transaction),
		nextAccountID: 1,
		nextTxID:      1,
	}
}

// Accounts returns the account side of the store.
func (s *Store) Accounts() repositories.AccountRepository {
	return &accountView{s: s}
}

// Transactions returns the transaction side of the store.
func (s *Store) Transactions() repositories.TransactionRepository {
	return &transactionView{s: s}
}

// ExecuteInTransaction runs fn as one commit unit: the writer token and
// the write lock are held throughout, and any error restores the store to
// its pre-transaction state.
func (s *Store) ExecuteInTransaction(ctx context.Context, fn func(repositories.LedgerStore) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	defer s.mu.Unlock()

	snapAccounts := cloneAccounts(s.accounts)
	snapTransactions := cloneTransactions(s.transactions)
	snapNextAccountID, snapNextTxID := s.nextAccountID, s.nextTxID

	if err := fn(&txStore{s: s}); err != nil {
		s.accounts = snapAccounts
		s.transactions = snapTransactions
		s.nextAccountID, s.nextTxID = snapNextAccountID, snapNextTxID
		return err
	}
	return nil
}

func (s *Store) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case s.writeSem <- struct{}{}:
		return nil
	case <-time.After(s.lockWait):
		return repositories.ErrLockBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.writeSem
}

// write runs fn under the writer token and the write lock.
func (s *Store) write(ctx context.Context, fn func() error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// read runs fn under the shared read lock.
func (s *Store) read(fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn()
}

// txStore is the view handed to ExecuteInTransaction callbacks. The outer
// call already holds the locks, so every operation applies directly.
type txStore struct {
	s *Store
}

func (t *txStore) Accounts() repositories.AccountRepository {
	return &accountView{s: t.s, inTx: true}
}

func (t *txStore) Transactions() repositories.TransactionRepository {
	return &transactionView{s: t.s, inTx: true}
}

func (t *txStore) ExecuteInTransaction(_ context.Context, fn func(repositories.LedgerStore) error) error {
	return fn(t)
}

func cloneAccounts(src map[uint]*models.Account) map[uint]*models.Account {
	dst := make(map[uint]*models.Account, len(src))
	for id, acc := range src {
		cp := *acc
		dst[id] = &cp
	}
	return dst
}

func cloneTransactions(src map[uint]*models.Transaction) map[uint]*models.Transaction {
	dst := make(map[uint]*models.Transaction, len(src))
	for id, tx := range src {
		cp := *tx
		dst[id] = &cp
	}
	return dst
}

var _ repositories.LedgerStore = (*Store)(nil)

// accountView implements repositories.AccountRepository over the store.
type accountView struct {
	s    *Store
	inTx bool
}

func (v *accountView) run(ctx context.Context, mutating bool, fn func() error) error {
	if v.inTx {
		return fn()
	}
	if mutating {
		return v.s.write(ctx, fn)
	}
	return v.s.read(fn)
}

func (v *accountView) Create(ctx context.Context, account *models.Account) error {
	return v.run(ctx, true, func() error {
		if account.ID == 0 {
			account.ID = v.s.nextAccountID
			v.s.nextAccountID++
		} else if account.ID >= v.s.nextAccountID {
			v.s.nextAccountID = account.ID + 1
		}
		if account.Status == "" {
			account.Status = models.AccountStatusActive
		}
		now := time.Now()
		account.CreatedAt, account.UpdatedAt = now, now
		cp := *account
		v.s.accounts[account.ID] = &cp
		return nil
	})
}

func (v *accountView) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var out *models.Account
	err := v.run(ctx, false, func() error {
		acc, ok := v.s.accounts[id]
		if !ok {
			return repositories.ErrAccountNotFound
		}
		cp := *acc
		out = &cp
		return nil
	})
	return out, err
}

func (v *accountView) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return v.findBy(ctx, func(acc *models.Account) bool { return acc.Email == email })
}

func (v *accountView) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return v.findBy(ctx, func(acc *models.Account) bool { return acc.Username == username })
}

func (v *accountView) findBy(ctx context.Context, match func(*models.Account) bool) (*models.Account, error) {
	var out *models.Account
	err := v.run(ctx, false, func() error {
		for _, acc := range v.s.accounts {
			if match(acc) {
				cp := *acc
				out = &cp
				return nil
			}
		}
		return repositories.ErrAccountNotFound
	})
	return out, err
}

func (v *accountView) Update(ctx context.Context, account *models.Account) error {
	return v.run(ctx, true, func() error {
		if _, ok := v.s.accounts[account.ID]; !ok {
			return repositories.ErrAccountNotFound
		}
		account.UpdatedAt = time.Now()
		cp := *account
		v.s.accounts[account.ID] = &cp
		return nil
	})
}

func (v *accountView) IncrementTokenVersion(ctx context.Context, id uint) error {
	return v.run(ctx, true, func() error {
		acc, ok := v.s.accounts[id]
		if !ok {
			return repositories.ErrAccountNotFound
		}
		acc.TokenVersion++
		return nil
	})
}

func (v *accountView) GetBalance(ctx context.Context, id uint) (int64, error) {
	var balance int64
	err := v.run(ctx, false, func() error {
		acc, ok := v.s.accounts[id]
		if !ok {
			return repositories.ErrAccountNotFound
		}
		balance = acc.Balance
		return nil
	})
	return balance, err
}

func (v *accountView) TryDebit(ctx context.Context, id uint, amount int64) error {
	if amount <= 0 {
		return repositories.ErrInvalidAmount
	}
	return v.run(ctx, true, func() error {
		acc, ok := v.s.accounts[id]
		if !ok {
			return repositories.ErrAccountNotFound
		}
		if acc.Balance < amount {
			return repositories.ErrInsufficientFunds
		}
		acc.Balance -= amount
		acc.UpdatedAt = time.Now()
		return nil
	})
}

func (v *accountView) Credit(ctx context.Context, id uint, amount int64) error {
	if amount <= 0 {
		return repositories.ErrInvalidAmount
	}
	return v.run(ctx, true, func() error {
		acc, ok := v.s.accounts[id]
		if !ok {
			return repositories.ErrAccountNotFound
		}
		acc.Balance += amount
		acc.UpdatedAt = time.Now()
		return nil
	})
}

// AtomicTransfer applies the debit and the credit under one write lock, so
// no reader can observe one side without the other.
func (v *accountView) AtomicTransfer(ctx context.Context, fromID, toID uint, amount int64) error {
	if amount <= 0 {
		return repositories.ErrInvalidAmount
	}
	if fromID == toID {
		return repositories.ErrSameAccount
	}
	return v.run(ctx, true, func() error {
		from, ok := v.s.accounts[fromID]
		if !ok {
			return repositories.ErrAccountNotFound
		}
		to, ok := v.s.accounts[toID]
		if !ok {
			return repositories.ErrAccountNotFound
		}
		if from.Balance < amount {
			return repositories.ErrInsufficientFunds
		}
		now := time.Now()
		from.Balance -= amount
		to.Balance += amount
		from.UpdatedAt, to.UpdatedAt = now, now
		return nil
	})
}

func (v *accountView) TotalBalance(ctx context.Context) (int64, error) {
	var total int64
	err := v.run(ctx, false, func() error {
		for _, acc := range v.s.accounts {
			total += acc.Balance
		}
		return nil
	})
	return total, err
}

// transactionView implements repositories.TransactionRepository.
type transactionView struct {
	s    *Store
	inTx bool
}

func (v *transactionView) run(ctx context.Context, mutating bool, fn func() error) error {
	if v.inTx {
		return fn()
	}
	if mutating {
		return v.s.write(ctx, fn)
	}
	return v.s.read(fn)
}

func (v *transactionView) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.Amount <= 0 {
		return repositories.ErrInvalidAmount
	}
	if tx.PayerID == tx.PayeeID {
		return repositories.ErrSameAccount
	}
	return v.run(ctx, true, func() error {
		tx.ID = v.s.nextTxID
		v.s.nextTxID++
		if tx.Reference == "" {
			tx.Reference = uuid.NewString()
		}
		if tx.Status == "" {
			tx.Status = models.StatusPending
		}
		now := time.Now()
		tx.CreatedAt, tx.UpdatedAt = now, now
		cp := *tx
		v.s.transactions[tx.ID] = &cp
		return nil
	})
}

func (v *transactionView) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var out *models.Transaction
	err := v.run(ctx, false, func() error {
		tx, ok := v.s.transactions[id]
		if !ok {
			return repositories.ErrTransactionNotFound
		}
		cp := *tx
		out = &cp
		return nil
	})
	return out, err
}

func (v *transactionView) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	var out *models.Transaction
	err := v.run(ctx, false, func() error {
		for _, tx := range v.s.transactions {
			if tx.Reference == reference {
				cp := *tx
				out = &cp
				return nil
			}
		}
		return repositories.ErrTransactionNotFound
	})
	return out, err
}

func (v *transactionView) ListByAccount(ctx context.Context, accountID uint) ([]models.Transaction, error) {
	var out []models.Transaction
	err := v.run(ctx, false, func() error {
		for _, tx := range v.s.transactions {
			if tx.PayerID == accountID || tx.PayeeID == accountID {
				out = append(out, *tx)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].ID < out[j].ID
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
		return nil
	})
	return out, err
}

func (v *transactionView) Transition(ctx context.Context, id uint, newStatus string) error {
	if newStatus != models.StatusApplied && newStatus != models.StatusDeclined {
		return repositories.ErrIllegalTransition
	}
	return v.run(ctx, true, func() error {
		tx, ok := v.s.transactions[id]
		if !ok {
			return repositories.ErrTransactionNotFound
		}
		if !tx.CanTransitionTo(newStatus) {
			return repositories.ErrIllegalTransition
		}
		tx.Status = newStatus
		tx.UpdatedAt = time.Now()
		return nil
	})
}

func (v *transactionView) Delete(ctx context.Context, id uint) error {
	return v.run(ctx, true, func() error {
		tx, ok := v.s.transactions[id]
		if !ok {
			return repositories.ErrTransactionNotFound
		}
		if tx.Status != models.StatusDeclined {
			return repositories.ErrIllegalDelete
		}
		delete(v.s.transactions, id)
		return nil
	})
}
