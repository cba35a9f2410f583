package ledger

import (
	"context"
	"errors"
	"time"

	"peerpay/internal/models"
	"peerpay/internal/repositories"
)

type service struct {
	store   repositories.LedgerStore
	cache   CacheInvalidator
	config  Config
	metrics MetricsCollector
}

// NewService creates a new ledger service.
func NewService(store repositories.LedgerStore, cache CacheInvalidator, config Config, metrics MetricsCollector) Service {
	if store == nil {
		panic("store is required")
	}
	if cache == nil {
		cache = NoopCacheInvalidator{}
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	if config.ProcessingTimeout == 0 {
		config.ProcessingTimeout = DefaultProcessingTimeout
	}
	return &service{
		store:   store,
		cache:   cache,
		config:  config,
		metrics: metrics,
	}
}

func (s *service) Send(ctx context.Context, payerID, payeeID uint, amount int64, message string) (*models.Transaction, error) {
	defer s.timeOperation("send")()

	if err := validateParties(payerID, payeeID, amount); err != nil {
		s.metrics.RecordError("send", err.Error())
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	txn := &models.Transaction{
		Type:    models.TransactionTypeSend,
		PayerID: payerID,
		PayeeID: payeeID,
		Amount:  amount,
		Status:  models.StatusApplied,
		Message: message,
	}

	// One commit unit: if the ledger write fails the balance mutation
	// rolls back with it, so no insufficient-funds failure or crash can
	// leave a debit without its credit or a transfer without its record.
	err := s.store.ExecuteInTransaction(ctx, func(st repositories.LedgerStore) error {
		if err := st.Accounts().AtomicTransfer(ctx, payerID, payeeID, amount); err != nil {
			return err
		}
		return st.Transactions().Create(ctx, txn)
	})
	if err != nil {
		err = translateErr(err)
		s.metrics.RecordError("send", err.Error())
		return nil, err
	}

	s.invalidate(ctx, payerID, payeeID)
	s.metrics.RecordTransaction(models.TransactionTypeSend, amount)
	return txn, nil
}

func (s *service) RequestMoney(ctx context.Context, requesterID, payerID uint, amount int64, message string) (*models.Transaction, error) {
	defer s.timeOperation("request")()

	// The requester is the payee-to-be: accepting later moves funds from
	// the counterparty to the requester.
	if err := validateParties(payerID, requesterID, amount); err != nil {
		s.metrics.RecordError("request", err.Error())
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	txn := &models.Transaction{
		Type:    models.TransactionTypeRequest,
		PayerID: payerID,
		PayeeID: requesterID,
		Amount:  amount,
		Status:  models.StatusPending,
		Message: message,
	}

	// No funds check here: the payer's balance only matters at resolution
	// time. Both parties must exist, though.
	err := s.store.ExecuteInTransaction(ctx, func(st repositories.LedgerStore) error {
		if _, err := st.Accounts().GetByID(ctx, payerID); err != nil {
			return err
		}
		if _, err := st.Accounts().GetByID(ctx, requesterID); err != nil {
			return err
		}
		return st.Transactions().Create(ctx, txn)
	})
	if err != nil {
		err = translateErr(err)
		s.metrics.RecordError("request", err.Error())
		return nil, err
	}

	s.metrics.RecordTransaction(models.TransactionTypeRequest, amount)
	return txn, nil
}

func (s *service) Resolve(ctx context.Context, transactionID uint, decision Decision) (*models.Transaction, error) {
	defer s.timeOperation("resolve")()

	if decision != DecisionAccept && decision != DecisionDecline {
		s.metrics.RecordError("resolve", ErrInvalidDecision.Error())
		return nil, ErrInvalidDecision
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var resolved *models.Transaction
	err := s.store.ExecuteInTransaction(ctx, func(st repositories.LedgerStore) error {
		txn, err := st.Transactions().GetByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn.Status != models.StatusPending {
			return repositories.ErrIllegalTransition
		}

		if decision == DecisionDecline {
			if err := st.Transactions().Transition(ctx, transactionID, models.StatusDeclined); err != nil {
				return err
			}
		} else {
			// An insufficient-funds failure aborts the unit; the record
			// stays pending and the caller may retry or decline later.
			if err := st.Accounts().AtomicTransfer(ctx, txn.PayerID, txn.PayeeID, txn.Amount); err != nil {
				return err
			}
			if err := st.Transactions().Transition(ctx, transactionID, models.StatusApplied); err != nil {
				if errors.Is(err, repositories.ErrTransactionNotFound) {
					// The record was read as pending in this same unit.
					return ErrInternalInconsistency
				}
				return err
			}
		}

		resolved, err = st.Transactions().GetByID(ctx, transactionID)
		return err
	})
	if err != nil {
		err = translateErr(err)
		s.metrics.RecordError("resolve", err.Error())
		return nil, err
	}

	if decision == DecisionAccept {
		s.invalidate(ctx, resolved.PayerID, resolved.PayeeID)
		s.metrics.RecordTransaction(models.TransactionTypeRequest, resolved.Amount)
	}
	return resolved, nil
}

func (s *service) GetBalance(ctx context.Context, accountID uint) (int64, error) {
	balance, err := s.store.Accounts().GetBalance(ctx, accountID)
	if err != nil {
		return 0, translateErr(err)
	}
	return balance, nil
}

func (s *service) GetTransaction(ctx context.Context, transactionID uint) (*models.Transaction, error) {
	txn, err := s.store.Transactions().GetByID(ctx, transactionID)
	if err != nil {
		return nil, translateErr(err)
	}
	return txn, nil
}

func (s *service) GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	txn, err := s.store.Transactions().GetByReference(ctx, reference)
	if err != nil {
		return nil, translateErr(err)
	}
	return txn, nil
}

func (s *service) ListByAccount(ctx context.Context, accountID uint) ([]models.Transaction, error) {
	if _, err := s.store.Accounts().GetByID(ctx, accountID); err != nil {
		return nil, translateErr(err)
	}
	txns, err := s.store.Transactions().ListByAccount(ctx, accountID)
	if err != nil {
		return nil, translateErr(err)
	}
	return txns, nil
}

func (s *service) Purge(ctx context.Context, transactionID uint) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.store.Transactions().Delete(ctx, transactionID); err != nil {
		err = translateErr(err)
		s.metrics.RecordError("purge", err.Error())
		return err
	}
	return nil
}

// Helper methods

func (s *service) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.config.ProcessingTimeout)
}

func (s *service) timeOperation(op string) func() {
	start := time.Now()
	return func() {
		s.metrics.RecordOperationDuration(op, time.Since(start))
	}
}

func (s *service) invalidate(ctx context.Context, ids ...uint) {
	// Best effort: a stale cache entry only delays reads, it cannot
	// resurrect an uncommitted balance.
	_ = s.cache.InvalidateAccounts(ctx, ids...)
}

func validateParties(payerID, payeeID uint, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if payerID == payeeID {
		return ErrSameAccount
	}
	return nil
}

// translateErr maps storage sentinels onto the service taxonomy.
func translateErr(err error) error {
	switch {
	case errors.Is(err, repositories.ErrAccountNotFound):
		return ErrUnknownAccount
	case errors.Is(err, repositories.ErrTransactionNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrInsufficientFunds):
		return ErrInsufficientFunds
	case errors.Is(err, repositories.ErrInvalidAmount):
		return ErrInvalidAmount
	case errors.Is(err, repositories.ErrSameAccount):
		return ErrSameAccount
	case errors.Is(err, repositories.ErrIllegalTransition):
		return ErrIllegalTransition
	case errors.Is(err, repositories.ErrIllegalDelete):
		return ErrIllegalDelete
	case errors.Is(err, repositories.ErrLockBusy):
		return ErrBusy
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		return err
	}
}
