package utils

import (
	"peerpay/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetClaims extracts the authenticated claims placed in the request context
// by the auth middleware.
func GetClaims(c *fiber.Ctx) (*models.UserClaims, bool) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	return claims, ok
}
