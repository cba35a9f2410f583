/*
Package ledger implements the balance-transfer engine.

The engine owns the transaction state machine (pending to applied or
declined, terminals immutable; a send is born applied) and the two
guarantees every operation preserves:

  - no account balance is ever observable below zero
  - the sum of all balances is unchanged by any committed transfer

Every balance-affecting operation runs as a single commit unit spanning
the account store and the transaction ledger, so a debit is never visible
without its credit and a transfer is never visible without its record.

Usage:

	svc := ledger.NewService(store, cacheService, ledger.Config{}, nil)

	// Immediate transfer
	txn, err := svc.Send(ctx, payerID, payeeID, 40, "lunch")

	// Two-party handshake
	req, err := svc.RequestMoney(ctx, requesterID, payerID, 30, "rent")
	txn, err = svc.Resolve(ctx, req.ID, ledger.DecisionAccept)

Error handling:

All failures are sentinel errors (ErrInsufficientFunds, ErrUnknownAccount,
ErrIllegalTransition, ...) and are safe to surface to callers. The engine
never retries: whether to re-request after funds arrive is a caller
decision. ErrInternalInconsistency alone signals a bug rather than a
recoverable condition.
*/
package ledger
