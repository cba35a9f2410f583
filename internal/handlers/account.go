package handlers

import (
	"errors"

	"peerpay/internal/models"
	"peerpay/internal/repositories"
	"peerpay/internal/repositories/cache"
	"peerpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AccountHandler serves account profile reads. Profile lookups go through
// the redis cache; the engine invalidates entries after every transfer.
type AccountHandler struct {
	accounts repositories.AccountRepository
	cache    *cache.CacheService
}

func NewAccountHandler(accounts repositories.AccountRepository, cacheService *cache.CacheService) *AccountHandler {
	return &AccountHandler{accounts: accounts, cache: cacheService}
}

// GetProfile returns the authenticated account, including its balance.
func (h *AccountHandler) GetProfile(c *fiber.Ctx) error {
	claims, ok := utils.GetClaims(c)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	account, err := h.getAccount(c, claims.AccountID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return utils.NotFound(c, "Account not found")
		}
		return utils.InternalError(c, "Failed to load account")
	}

	return utils.Success(c, fiber.Map{
		"account": fiber.Map{
			"id":       account.ID,
			"name":     account.Name,
			"username": account.Username,
			"email":    account.Email,
			"balance":  account.Balance,
			"status":   account.Status,
		},
	})
}

// LookupByUsername resolves a counterparty for sending or requesting money.
// Only public fields are returned.
func (h *AccountHandler) LookupByUsername(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return utils.BadRequest(c, "Username is required")
	}

	account, err := h.accounts.GetByUsername(c.Context(), username)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return utils.NotFound(c, "Account not found")
		}
		return utils.InternalError(c, "Failed to load account")
	}

	return utils.Success(c, fiber.Map{
		"account": fiber.Map{
			"id":       account.ID,
			"name":     account.Name,
			"username": account.Username,
		},
	})
}

func (h *AccountHandler) getAccount(c *fiber.Ctx, id uint) (*models.Account, error) {
	if h.cache != nil {
		if account, err := h.cache.GetAccount(c.Context(), id); err == nil {
			return account, nil
		}
	}

	account, err := h.accounts.GetByID(c.Context(), id)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		_ = h.cache.CacheAccount(c.Context(), account)
	}
	return account, nil
}
