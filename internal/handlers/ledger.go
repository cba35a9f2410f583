package handlers

import (
	"log"
	"strconv"

	"peerpay/internal/services/ledger"
	"peerpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// LedgerHandler exposes the transfer engine over HTTP. Every endpoint acts
// on behalf of the authenticated account taken from the request claims.
type LedgerHandler struct {
	ledgerService ledger.Service
}

func NewLedgerHandler(ledgerService ledger.Service) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// SendRequest is the payload for an immediate transfer. The payer is always
// the authenticated account.
type SendRequest struct {
	PayeeID uint   `json:"payee_id"`
	Amount  int64  `json:"amount"`
	Message string `json:"message"`
}

// RequestMoneyRequest is the payload for asking another account for funds.
// The authenticated account is the payee-to-be.
type RequestMoneyRequest struct {
	PayerID uint   `json:"payer_id"`
	Amount  int64  `json:"amount"`
	Message string `json:"message"`
}

// ResolveRequest carries the payer's decision on a pending request.
type ResolveRequest struct {
	Decision string `json:"decision"`
}

// SendMoney moves funds from the authenticated account to the payee.
func (h *LedgerHandler) SendMoney(c *fiber.Ctx) error {
	claims, ok := utils.GetClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var req SendRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	txn, err := h.ledgerService.Send(c.Context(), claims.AccountID, req.PayeeID, req.Amount, req.Message)
	if err != nil {
		return writeLedgerError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"message":     "Transfer completed",
		"transaction": txn,
	})
}

// RequestMoney records a pending ask against another account.
func (h *LedgerHandler) RequestMoney(c *fiber.Ctx) error {
	claims, ok := utils.GetClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var req RequestMoneyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	txn, err := h.ledgerService.RequestMoney(c.Context(), claims.AccountID, req.PayerID, req.Amount, req.Message)
	if err != nil {
		return writeLedgerError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"message":     "Request created",
		"transaction": txn,
	})
}

// ResolveRequestMoney accepts or declines a pending request. Only the payer
// named by the request may resolve it.
func (h *LedgerHandler) ResolveRequestMoney(c *fiber.Ctx) error {
	claims, ok := utils.GetClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	txnID, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid transaction ID")
	}

	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	txn, err := h.ledgerService.GetTransaction(c.Context(), txnID)
	if err != nil {
		return writeLedgerError(c, err)
	}
	if txn.PayerID != claims.AccountID {
		return utils.Forbidden(c, "Only the requested payer can resolve this request")
	}

	resolved, err := h.ledgerService.Resolve(c.Context(), txnID, ledger.Decision(req.Decision))
	if err != nil {
		return writeLedgerError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message":     "Request resolved",
		"transaction": resolved,
	})
}

// GetBalance returns the authenticated account's current balance.
func (h *LedgerHandler) GetBalance(c *fiber.Ctx) error {
	claims, ok := utils.GetClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	balance, err := h.ledgerService.GetBalance(c.Context(), claims.AccountID)
	if err != nil {
		return writeLedgerError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"account_id": claims.AccountID,
		"balance":    balance,
	})
}

// GetTransactions lists the account's history, oldest first, covering both
// sides of every transfer the account took part in.
func (h *LedgerHandler) GetTransactions(c *fiber.Ctx) error {
	claims, ok := utils.GetClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	txns, err := h.ledgerService.ListByAccount(c.Context(), claims.AccountID)
	if err != nil {
		return writeLedgerError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"transactions": txns,
		"count":        len(txns),
	})
}

// GetTransaction returns a single transaction visible to the caller.
func (h *LedgerHandler) GetTransaction(c *fiber.Ctx) error {
	claims, ok := utils.GetClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	txnID, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid transaction ID")
	}

	txn, err := h.ledgerService.GetTransaction(c.Context(), txnID)
	if err != nil {
		return writeLedgerError(c, err)
	}
	if txn.PayerID != claims.AccountID && txn.PayeeID != claims.AccountID {
		return utils.Forbidden(c, "Not a party to this transaction")
	}

	return utils.Success(c, fiber.Map{"transaction": txn})
}

// GetTransactionByReference resolves a transaction by its receipt reference.
func (h *LedgerHandler) GetTransactionByReference(c *fiber.Ctx) error {
	claims, ok := utils.GetClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	reference := c.Params("reference")
	if reference == "" {
		return utils.BadRequest(c, "Reference is required")
	}

	txn, err := h.ledgerService.GetTransactionByReference(c.Context(), reference)
	if err != nil {
		return writeLedgerError(c, err)
	}
	if txn.PayerID != claims.AccountID && txn.PayeeID != claims.AccountID {
		return utils.Forbidden(c, "Not a party to this transaction")
	}

	return utils.Success(c, fiber.Map{"transaction": txn})
}

// PurgeTransaction removes a declined record the caller was a party to.
func (h *LedgerHandler) PurgeTransaction(c *fiber.Ctx) error {
	claims, ok := utils.GetClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	txnID, err := parseID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid transaction ID")
	}

	txn, err := h.ledgerService.GetTransaction(c.Context(), txnID)
	if err != nil {
		return writeLedgerError(c, err)
	}
	if txn.PayerID != claims.AccountID && txn.PayeeID != claims.AccountID {
		return utils.Forbidden(c, "Not a party to this transaction")
	}

	if err := h.ledgerService.Purge(c.Context(), txnID); err != nil {
		return writeLedgerError(c, err)
	}

	log.Printf("Transaction %d purged by account %d", txnID, claims.AccountID)
	return utils.Success(c, fiber.Map{"message": "Transaction removed"})
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
