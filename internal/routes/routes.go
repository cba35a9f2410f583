// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"peerpay/internal/handlers"
	"peerpay/internal/middleware"
	"peerpay/internal/repositories"
	"peerpay/internal/repositories/cache"
	"peerpay/internal/services/auth"
	"peerpay/internal/services/ledger"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB, cacheService *cache.CacheService) {
	// Initialize repositories
	store := repositories.NewLedgerStore(db)
	accountRepo := store.Accounts()

	// Initialize services
	authService := auth.NewService(accountRepo)
	var invalidator ledger.CacheInvalidator
	if cacheService != nil {
		invalidator = cacheService
	}
	ledgerService := ledger.NewService(store, invalidator, ledger.Config{}, nil)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountRepo, cacheService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	healthHandler := handlers.NewHealthHandler(db, cacheService)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to PeerPay API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.RefreshToken)

	// Protected routes with auth middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.Logout)
	protected.Post("/change-password", authHandler.ChangePassword)

	protected.Get("/account", accountHandler.GetProfile)
	protected.Get("/accounts/:username", accountHandler.LookupByUsername)

	protected.Get("/balance", ledgerHandler.GetBalance)
	protected.Get("/transactions", ledgerHandler.GetTransactions)
	protected.Get("/transactions/ref/:reference", ledgerHandler.GetTransactionByReference)
	protected.Get("/transactions/:id", ledgerHandler.GetTransaction)
	protected.Delete("/transactions/:id", ledgerHandler.PurgeTransaction)

	transfers := protected.Group("/transfers")
	transfers.Post("/send", ledgerHandler.SendMoney)
	transfers.Post("/request", ledgerHandler.RequestMoney)
	transfers.Post("/:id/resolve", ledgerHandler.ResolveRequestMoney)
}
