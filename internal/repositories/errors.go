package repositories

import "errors"

// Storage-level sentinel errors. Service packages translate these into
// their caller-facing taxonomy.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrSameAccount         = errors.New("payer and payee are the same account")
	ErrIllegalTransition   = errors.New("transaction is not pending")
	ErrIllegalDelete       = errors.New("only declined transactions can be deleted")
	ErrLockBusy            = errors.New("account locks unavailable")
)
