package ledger

import "errors"

// Service errors. All are recoverable and reported to the caller as-is;
// the engine never retries on the caller's behalf. ErrInternalInconsistency
// is the one fatal case: the account store and the transaction ledger
// disagree inside a commit unit that should have kept them in step.
var (
	ErrInvalidAmount         = errors.New("amount must be a positive integer")
	ErrSameAccount           = errors.New("payer and payee must be different accounts")
	ErrUnknownAccount        = errors.New("account not found")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrNotFound              = errors.New("transaction not found")
	ErrIllegalTransition     = errors.New("transaction is not pending")
	ErrIllegalDelete         = errors.New("only declined transactions can be purged")
	ErrInvalidDecision       = errors.New("decision must be accept or decline")
	ErrBusy                  = errors.New("accounts are busy, retry the operation")
	ErrTimeout               = errors.New("ledger operation timed out")
	ErrInternalInconsistency = errors.New("account store and transaction ledger diverged")
)
