package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	Ledger      *inventory.StockLedgerUseCase
	RateLimiter *RateLimiter                    // nil = sin límite
	Ping        func(ctx context.Context) error // chequeo del almacenamiento para /health; nil = siempre ok
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.Ping))

	api := app.Group("/api/v1")

	// Las mutaciones pasan por el limitador; las lecturas no.
	mutating := func(h fiber.Handler) []fiber.Handler {
		if deps.RateLimiter == nil {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{deps.RateLimiter.Handler(), h}
	}

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Ledger, deps.Log)
	products.Get("/", productHandler.List)
	products.Post("/", mutating(productHandler.Create)...)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", mutating(productHandler.Update)...)
	products.Delete("/:id", mutating(productHandler.Delete)...)
	products.Get("/:id/stock", productHandler.Stock)

	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Log)

	// Stores
	api.Get("/stores/:id/inventory", inventoryHandler.StoreInventory)

	// Inventory
	inv := api.Group("/inventory")
	inv.Post("/load", mutating(inventoryHandler.LoadInitialStock)...)
	inv.Post("/in", mutating(inventoryHandler.RegisterEntry)...)
	inv.Post("/out", mutating(inventoryHandler.RegisterOut)...)
	inv.Post("/transfer", mutating(inventoryHandler.Transfer)...)
	inv.Get("/alerts", inventoryHandler.LowStockAlerts)
	inv.Get("/alerts/report.pdf", inventoryHandler.LowStockReport)
	inv.Get("/history", inventoryHandler.History)
}

func healthHandler(ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "error": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
