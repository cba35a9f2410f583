package errors

var (
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be a positive integer",
	}
	ErrSameAccount = &DomainError{
		Code:    "SAME_ACCOUNT",
		Message: "payer and payee must be different accounts",
	}
	ErrUnknownAccount = &DomainError{
		Code:    "UNKNOWN_ACCOUNT",
		Message: "account not found",
	}
	ErrInsufficientFunds = &DomainError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient funds",
	}
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrIllegalTransition = &DomainError{
		Code:    "ILLEGAL_TRANSITION",
		Message: "transaction is not pending",
	}
	ErrIllegalDelete = &DomainError{
		Code:    "ILLEGAL_DELETE",
		Message: "only declined transactions can be removed",
	}
	ErrInvalidDecision = &DomainError{
		Code:    "INVALID_DECISION",
		Message: "decision must be accept or decline",
	}
	ErrBusy = &DomainError{
		Code:    "BUSY",
		Message: "accounts are busy, retry the operation",
	}
	ErrTimeout = &DomainError{
		Code:    "TIMEOUT",
		Message: "operation timed out",
	}
)
