package ledger

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"peerpay/internal/models"
	"peerpay/internal/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, balances map[uint]int64) (Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore(0)
	for id, balance := range balances {
		acc := &models.Account{
			ID:       id,
			Name:     fmt.Sprintf("Account %d", id),
			Username: fmt.Sprintf("account%d", id),
			Email:    fmt.Sprintf("account%d@example.com", id),
			Password: "hashed",
			Balance:  balance,
		}
		require.NoError(t, store.Accounts().Create(context.Background(), acc))
	}
	return NewService(store, nil, Config{}, nil), store
}

func totalBalance(t *testing.T, store *memory.Store) int64 {
	t.Helper()
	total, err := store.Accounts().TotalBalance(context.Background())
	require.NoError(t, err)
	return total
}

func TestSend(t *testing.T) {
	t.Run("applies immediately and moves funds", func(t *testing.T) {
		svc, store := newTestService(t, map[uint]int64{1: 100, 2: 0})

		txn, err := svc.Send(context.Background(), 1, 2, 40, "lunch")
		require.NoError(t, err)

		assert.Equal(t, models.StatusApplied, txn.Status)
		assert.Equal(t, models.TransactionTypeSend, txn.Type)
		assert.Equal(t, uint(1), txn.PayerID)
		assert.Equal(t, uint(2), txn.PayeeID)
		assert.NotEmpty(t, txn.Reference)

		payerBalance, err := svc.GetBalance(context.Background(), 1)
		require.NoError(t, err)
		payeeBalance, err := svc.GetBalance(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, int64(60), payerBalance)
		assert.Equal(t, int64(40), payeeBalance)
		assert.Equal(t, int64(100), totalBalance(t, store))
	})

	t.Run("insufficient funds leaves no trace", func(t *testing.T) {
		svc, _ := newTestService(t, map[uint]int64{1: 10, 2: 0})

		txn, err := svc.Send(context.Background(), 1, 2, 50, "")
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Nil(t, txn)

		payerBalance, err := svc.GetBalance(context.Background(), 1)
		require.NoError(t, err)
		payeeBalance, err := svc.GetBalance(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, int64(10), payerBalance)
		assert.Equal(t, int64(0), payeeBalance)

		txns, err := svc.ListByAccount(context.Background(), 1)
		require.NoError(t, err)
		assert.Empty(t, txns, "no transaction record for a failed send")
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name    string
			payer   uint
			payee   uint
			amount  int64
			wantErr error
		}{
			{"zero amount", 1, 2, 0, ErrInvalidAmount},
			{"negative amount", 1, 2, -5, ErrInvalidAmount},
			{"same account", 1, 1, 10, ErrSameAccount},
			{"unknown payer", 9, 2, 10, ErrUnknownAccount},
			{"unknown payee", 1, 9, 10, ErrUnknownAccount},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, store := newTestService(t, map[uint]int64{1: 100, 2: 0})
				_, err := svc.Send(context.Background(), tt.payer, tt.payee, tt.amount, "")
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, int64(100), totalBalance(t, store))
			})
		}
	})
}

func TestRequestMoney(t *testing.T) {
	t.Run("creates pending with direction of funds", func(t *testing.T) {
		svc, _ := newTestService(t, map[uint]int64{1: 0, 2: 20})

		// Account 1 asks account 2 for 30: account 2 is the payer-to-be.
		txn, err := svc.RequestMoney(context.Background(), 1, 2, 30, "rent")
		require.NoError(t, err)

		assert.Equal(t, models.StatusPending, txn.Status)
		assert.Equal(t, models.TransactionTypeRequest, txn.Type)
		assert.Equal(t, uint(2), txn.PayerID)
		assert.Equal(t, uint(1), txn.PayeeID)

		// No balance effect and no funds check at request time, even though
		// the payer could not cover the amount right now.
		payerBalance, err := svc.GetBalance(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, int64(20), payerBalance)
	})

	t.Run("rejects unknown accounts", func(t *testing.T) {
		svc, _ := newTestService(t, map[uint]int64{1: 0})
		_, err := svc.RequestMoney(context.Background(), 1, 9, 30, "")
		assert.ErrorIs(t, err, ErrUnknownAccount)
		_, err = svc.RequestMoney(context.Background(), 9, 1, 30, "")
		assert.ErrorIs(t, err, ErrUnknownAccount)
	})

	t.Run("rejects self requests and bad amounts", func(t *testing.T) {
		svc, _ := newTestService(t, map[uint]int64{1: 0, 2: 50})
		_, err := svc.RequestMoney(context.Background(), 1, 1, 30, "")
		assert.ErrorIs(t, err, ErrSameAccount)
		_, err = svc.RequestMoney(context.Background(), 1, 2, 0, "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestResolve(t *testing.T) {
	t.Run("accept with insufficient funds stays pending", func(t *testing.T) {
		svc, store := newTestService(t, map[uint]int64{1: 0, 2: 20})

		req, err := svc.RequestMoney(context.Background(), 1, 2, 30, "")
		require.NoError(t, err)

		_, err = svc.Resolve(context.Background(), req.ID, DecisionAccept)
		assert.ErrorIs(t, err, ErrInsufficientFunds)

		txn, err := svc.GetTransaction(context.Background(), req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, txn.Status, "failed acceptance must not consume the request")
		assert.Equal(t, int64(20), totalBalance(t, store))
	})

	t.Run("accept moves funds and applies", func(t *testing.T) {
		svc, store := newTestService(t, map[uint]int64{1: 0, 2: 50})

		req, err := svc.RequestMoney(context.Background(), 1, 2, 30, "")
		require.NoError(t, err)

		resolved, err := svc.Resolve(context.Background(), req.ID, DecisionAccept)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApplied, resolved.Status)

		requesterBalance, err := svc.GetBalance(context.Background(), 1)
		require.NoError(t, err)
		payerBalance, err := svc.GetBalance(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, int64(30), requesterBalance)
		assert.Equal(t, int64(20), payerBalance)
		assert.Equal(t, int64(50), totalBalance(t, store))
	})

	t.Run("retry after funds arrive succeeds", func(t *testing.T) {
		svc, _ := newTestService(t, map[uint]int64{1: 0, 2: 20, 3: 100})

		req, err := svc.RequestMoney(context.Background(), 1, 2, 30, "")
		require.NoError(t, err)

		_, err = svc.Resolve(context.Background(), req.ID, DecisionAccept)
		assert.ErrorIs(t, err, ErrInsufficientFunds)

		_, err = svc.Send(context.Background(), 3, 2, 50, "top up")
		require.NoError(t, err)

		resolved, err := svc.Resolve(context.Background(), req.ID, DecisionAccept)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApplied, resolved.Status)
	})

	t.Run("decline is terminal and idempotent up to the first call", func(t *testing.T) {
		svc, store := newTestService(t, map[uint]int64{1: 0, 2: 50})

		req, err := svc.RequestMoney(context.Background(), 1, 2, 30, "")
		require.NoError(t, err)

		resolved, err := svc.Resolve(context.Background(), req.ID, DecisionDecline)
		require.NoError(t, err)
		assert.Equal(t, models.StatusDeclined, resolved.Status)
		assert.Equal(t, int64(50), totalBalance(t, store))

		_, err = svc.Resolve(context.Background(), req.ID, DecisionDecline)
		assert.ErrorIs(t, err, ErrIllegalTransition)

		_, err = svc.Resolve(context.Background(), req.ID, DecisionAccept)
		assert.ErrorIs(t, err, ErrIllegalTransition)

		// Balances untouched throughout.
		payerBalance, err := svc.GetBalance(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, int64(50), payerBalance)
	})

	t.Run("terminal applied transaction cannot be resolved again", func(t *testing.T) {
		svc, store := newTestService(t, map[uint]int64{1: 0, 2: 50})

		req, err := svc.RequestMoney(context.Background(), 1, 2, 30, "")
		require.NoError(t, err)
		_, err = svc.Resolve(context.Background(), req.ID, DecisionAccept)
		require.NoError(t, err)

		_, err = svc.Resolve(context.Background(), req.ID, DecisionAccept)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		assert.Equal(t, int64(50), totalBalance(t, store), "failed resolve must not move funds")
	})

	t.Run("unknown transaction and bad decision", func(t *testing.T) {
		svc, _ := newTestService(t, map[uint]int64{1: 0})
		_, err := svc.Resolve(context.Background(), 42, DecisionAccept)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = svc.Resolve(context.Background(), 42, Decision("maybe"))
		assert.ErrorIs(t, err, ErrInvalidDecision)
	})
}

func TestListByAccount(t *testing.T) {
	svc, _ := newTestService(t, map[uint]int64{1: 100, 2: 0, 3: 0})

	_, err := svc.Send(context.Background(), 1, 2, 10, "first")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), 1, 3, 20, "second")
	require.NoError(t, err)
	req, err := svc.RequestMoney(context.Background(), 1, 2, 5, "third")
	require.NoError(t, err)

	txns, err := svc.ListByAccount(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, txns, 3, "both roles are listed")
	assert.Equal(t, "first", txns[0].Message)
	assert.Equal(t, "second", txns[1].Message)
	assert.Equal(t, req.ID, txns[2].ID)

	txns, err = svc.ListByAccount(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	_, err = svc.ListByAccount(context.Background(), 9)
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestGetTransactionByReference(t *testing.T) {
	svc, _ := newTestService(t, map[uint]int64{1: 100, 2: 0})

	txn, err := svc.Send(context.Background(), 1, 2, 10, "")
	require.NoError(t, err)

	got, err := svc.GetTransactionByReference(context.Background(), txn.Reference)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, got.ID)

	_, err = svc.GetTransactionByReference(context.Background(), "no-such-ref")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPurge(t *testing.T) {
	svc, _ := newTestService(t, map[uint]int64{1: 0, 2: 50})

	req, err := svc.RequestMoney(context.Background(), 1, 2, 30, "")
	require.NoError(t, err)

	// Pending and applied records are not purgeable.
	err = svc.Purge(context.Background(), req.ID)
	assert.ErrorIs(t, err, ErrIllegalDelete)

	_, err = svc.Resolve(context.Background(), req.ID, DecisionDecline)
	require.NoError(t, err)

	require.NoError(t, svc.Purge(context.Background(), req.ID))

	_, err = svc.GetTransaction(context.Background(), req.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Purge(context.Background(), req.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConservation(t *testing.T) {
	// Any mix of sends, requests and resolutions keeps the total constant.
	svc, store := newTestService(t, map[uint]int64{1: 500, 2: 300, 3: 0, 4: 120})
	const initialTotal = int64(920)

	rng := rand.New(rand.NewSource(1))
	accounts := []uint{1, 2, 3, 4}
	var pending []uint

	for i := 0; i < 200; i++ {
		from := accounts[rng.Intn(len(accounts))]
		to := accounts[rng.Intn(len(accounts))]
		amount := int64(rng.Intn(80) + 1)

		switch rng.Intn(3) {
		case 0:
			_, err := svc.Send(context.Background(), from, to, amount, "")
			if err != nil {
				assert.True(t, err == ErrInsufficientFunds || err == ErrSameAccount, "unexpected error: %v", err)
			}
		case 1:
			req, err := svc.RequestMoney(context.Background(), from, to, amount, "")
			if err == nil {
				pending = append(pending, req.ID)
			}
		default:
			if len(pending) > 0 {
				id := pending[0]
				pending = pending[1:]
				decision := DecisionAccept
				if rng.Intn(2) == 0 {
					decision = DecisionDecline
				}
				_, err := svc.Resolve(context.Background(), id, decision)
				if err != nil {
					assert.ErrorIs(t, err, ErrInsufficientFunds)
				}
			}
		}

		assert.Equal(t, initialTotal, totalBalance(t, store))
	}

	// Non-negativity over all reachable states.
	for _, id := range accounts {
		balance, err := svc.GetBalance(context.Background(), id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, balance, int64(0))
	}
}

func TestConcurrentTransfersAtomicity(t *testing.T) {
	// A concurrent observer must never see a debit without its credit:
	// the total is invariant at every read, not just at the end.
	svc, store := newTestService(t, map[uint]int64{1: 1000, 2: 1000, 3: 1000, 4: 1000})
	const initialTotal = int64(4000)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	var observerErr error
	var observerMu sync.Mutex
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			total, err := store.Accounts().TotalBalance(context.Background())
			observerMu.Lock()
			if err != nil {
				observerErr = err
			} else if total != initialTotal {
				observerErr = fmt.Errorf("observed total %d, want %d", total, initialTotal)
			}
			observerMu.Unlock()
		}
	}()

	accounts := []uint{1, 2, 3, 4}
	var workers sync.WaitGroup
	for w := 0; w < 8; w++ {
		workers.Add(1)
		go func(seed int64) {
			defer workers.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 50; i++ {
				from := accounts[rng.Intn(len(accounts))]
				to := accounts[rng.Intn(len(accounts))]
				if from == to {
					continue
				}
				_, err := svc.Send(context.Background(), from, to, int64(rng.Intn(20)+1), "")
				if err != nil && err != ErrInsufficientFunds {
					observerMu.Lock()
					observerErr = err
					observerMu.Unlock()
				}
			}
		}(int64(w))
	}
	workers.Wait()
	close(stop)
	wg.Wait()

	require.NoError(t, observerErr)
	assert.Equal(t, initialTotal, totalBalance(t, store))
	for _, id := range accounts {
		balance, err := svc.GetBalance(context.Background(), id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, balance, int64(0))
	}
}

func TestConcurrentResolveRace(t *testing.T) {
	// Two resolvers racing the same pending request: exactly one wins.
	svc, store := newTestService(t, map[uint]int64{1: 0, 2: 100})

	req, err := svc.RequestMoney(context.Background(), 1, 2, 40, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	decisions := []Decision{DecisionAccept, DecisionDecline}
	for i := range decisions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Resolve(context.Background(), req.ID, decisions[i])
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrIllegalTransition)
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)

	txn, err := svc.GetTransaction(context.Background(), req.ID)
	require.NoError(t, err)
	assert.True(t, txn.Terminal())
	assert.Equal(t, int64(100), totalBalance(t, store))
}

func TestOperationTimeout(t *testing.T) {
	svc, _ := newTestService(t, map[uint]int64{1: 100, 2: 0})

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := svc.Send(ctx, 1, 2, 10, "")
	assert.ErrorIs(t, err, ErrTimeout)
}
