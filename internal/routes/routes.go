// Package routes wires HTTP routes to handlers and middleware.
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"walletengine/internal/engine"
	"walletengine/internal/handlers"
	"walletengine/internal/middleware"
	"walletengine/internal/payments"
	"walletengine/internal/store"
)

// SetupRoutes configures every route the spec's HTTP surface names:
// health, wallet balance/history/verify reads, topup/bonus/spend
// writes, and the admin surface.
func SetupRoutes(app *fiber.App, db *gorm.DB, gormStore store.Store, cache store.BalanceCache, metrics engine.MetricsCollector, stripeSecretKey string) {
	facade := engine.NewFacade(gormStore, cache, metrics)

	walletHandler := handlers.NewWalletHandler(facade)
	adminHandler := handlers.NewAdminHandler(db)

	app.Get("/health", handlers.Health)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "wallet engine API", "docs": "/api"})
	})

	api := app.Group("/api")

	wallets := api.Group("/wallets")
	wallets.Get("/:userId/balance/:assetCode", walletHandler.GetBalance)
	wallets.Get("/:userId/history/:assetCode", walletHandler.GetHistory)
	wallets.Get("/:userId/verify/:assetCode", walletHandler.VerifyLedger)
	wallets.Post("/topup", middleware.RequireIdempotencyKey, walletHandler.TopUp)
	wallets.Post("/bonus", middleware.RequireIdempotencyKey, walletHandler.Bonus)
	wallets.Post("/spend", middleware.RequireIdempotencyKey, walletHandler.Spend)

	if stripeSecretKey != "" {
		fundingService := payments.NewStripeFundingService(stripeSecretKey, facade)
		fundingHandler := handlers.NewFundingHandler(fundingService)
		wallets.Post("/fund", fundingHandler.Fund)
	}

	admin := api.Group("/admin", middleware.AdminAuth)
	admin.Post("/asset-types", adminHandler.CreateAssetType)
	admin.Get("/asset-types", adminHandler.ListAssetTypes)
	admin.Post("/accounts", adminHandler.CreateAccount)
	admin.Get("/transactions", adminHandler.ListTransactions)
	admin.Get("/system-balances", adminHandler.SystemBalances)
}
