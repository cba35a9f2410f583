package ledger

import (
	"context"

	"peerpay/internal/models"
)

// Service is the transfer engine: the only component allowed to move
// balance between accounts or change a transaction's lifecycle state.
type Service interface {
	// Send moves funds immediately from payer to payee and records an
	// applied transaction in the same commit unit.
	Send(ctx context.Context, payerID, payeeID uint, amount int64, message string) (*models.Transaction, error)

	// RequestMoney records a pending ask. The initiator is the payee-to-be;
	// no balance is checked or moved until the payer resolves the request.
	RequestMoney(ctx context.Context, requesterID, payerID uint, amount int64, message string) (*models.Transaction, error)

	// Resolve accepts or declines a pending request. Accepting moves the
	// funds and applies the record in one commit unit; declining is a pure
	// state change. Either way the transaction becomes terminal exactly once.
	Resolve(ctx context.Context, transactionID uint, decision Decision) (*models.Transaction, error)

	GetBalance(ctx context.Context, accountID uint) (int64, error)
	GetTransaction(ctx context.Context, transactionID uint) (*models.Transaction, error)
	GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error)
	ListByAccount(ctx context.Context, accountID uint) ([]models.Transaction, error)

	// Purge removes a terminal declined record per retention policy.
	Purge(ctx context.Context, transactionID uint) error
}
