package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Auth         AuthService
	StockIns     StockInService
	Receipts     ReceiptService
	AuditTrail   AuditTrailService
	Availability AvailabilityService
	JWTSecret    string
	Location     *time.Location
	Logger       zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.Auth, deps.Logger)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	writers := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	stockInHandler := NewStockInHandler(deps.StockIns, deps.Receipts, deps.Location, deps.Logger)
	stockIns := protected.Group("/stock-ins")
	stockIns.Get("/", stockInHandler.List)
	stockIns.Post("/", writers, stockInHandler.Create)
	stockIns.Get("/:id", stockInHandler.GetByID)
	stockIns.Put("/:id", writers, stockInHandler.Update)
	stockIns.Delete("/:id", writers, stockInHandler.Delete)
	stockIns.Get("/:id/receipt", stockInHandler.Receipt)

	inventoryHandler := NewInventoryHandler(deps.AuditTrail, deps.Availability, deps.Location, deps.Logger)
	protected.Get("/inventory/audit-trail", inventoryHandler.AuditTrail)
	protected.Get("/menus/availability", inventoryHandler.MenuAvailability)
}
