package handlers

import (
	"errors"

	domain "peerpay/internal/errors"
	"peerpay/internal/services/ledger"

	"github.com/gofiber/fiber/v2"
)

// writeLedgerError maps engine sentinels onto stable DomainError responses.
func writeLedgerError(c *fiber.Ctx, err error) error {
	var de *domain.DomainError
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		de, status = domain.ErrInvalidAmount, fiber.StatusBadRequest
	case errors.Is(err, ledger.ErrSameAccount):
		de, status = domain.ErrSameAccount, fiber.StatusBadRequest
	case errors.Is(err, ledger.ErrInvalidDecision):
		de, status = domain.ErrInvalidDecision, fiber.StatusBadRequest
	case errors.Is(err, ledger.ErrUnknownAccount):
		de, status = domain.ErrUnknownAccount, fiber.StatusNotFound
	case errors.Is(err, ledger.ErrNotFound):
		de, status = domain.ErrTransactionNotFound, fiber.StatusNotFound
	case errors.Is(err, ledger.ErrInsufficientFunds):
		de, status = domain.ErrInsufficientFunds, fiber.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrIllegalTransition):
		de, status = domain.ErrIllegalTransition, fiber.StatusConflict
	case errors.Is(err, ledger.ErrIllegalDelete):
		de, status = domain.ErrIllegalDelete, fiber.StatusConflict
	case errors.Is(err, ledger.ErrBusy):
		de, status = domain.ErrBusy, fiber.StatusServiceUnavailable
	case errors.Is(err, ledger.ErrTimeout):
		de, status = domain.ErrTimeout, fiber.StatusGatewayTimeout
	default:
		de = &domain.DomainError{Code: "INTERNAL", Message: "internal error"}
	}

	return c.Status(status).JSON(fiber.Map{
		"error": de.Message,
		"code":  de.Code,
	})
}
