package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// HealthCheck comprueba una dependencia externa (DB, Redis).
type HealthCheck func(ctx context.Context) error

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	WarehouseUC  *usecase.WarehouseUseCase
	ProductUC    *usecase.ProductUseCase
	AssignmentUC *usecase.AssignmentUseCase
	Ledger       *inventory.LedgerUseCase
	Requests     *inventory.RequestWorkflowUseCase
	Users        repository.UserRepository
	JWTSecret    string
	HealthChecks map[string]HealthCheck
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.HealthChecks))

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.Users))

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole(entity.RoleAdmin, entity.RoleWarehouseOwner), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Patch("/:id/availability", RequireRole(entity.RoleAdmin, entity.RoleWarehouseOwner), warehouseHandler.SetAvailability)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Delete("/:id", productHandler.Deactivate)

	// Asignaciones usuario-bodega
	assignments := protected.Group("/assignments", RequireRole(entity.RoleAdmin, entity.RoleWarehouseOwner))
	assignmentHandler := NewAssignmentHandler(deps.AssignmentUC)
	assignments.Post("/", assignmentHandler.Create)
	assignments.Get("/warehouse/:id", assignmentHandler.ListByWarehouse)
	assignments.Delete("/:id", assignmentHandler.Delete)

	// Ledger: movimientos directos, traslados y stock
	movements := protected.Group("/stock-movements")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	movements.Post("/", inventoryHandler.RecordMovement)
	movements.Get("/", inventoryHandler.ListMovements)
	movements.Post("/transfers", inventoryHandler.RecordTransfer)
	movements.Get("/stock/:product_id", inventoryHandler.StockDistribution)

	// Solicitudes. /pending va antes de /:id.
	requests := protected.Group("/stock-requests")
	requestHandler := NewStockRequestHandler(deps.Requests)
	requests.Post("/", requestHandler.Submit)
	requests.Get("/mine", requestHandler.ListMine)
	requests.Get("/pending", RequireRole(entity.RoleAdmin, entity.RoleWarehouseOwner), requestHandler.ListPending)
	requests.Delete("/pending", RequireRole(entity.RoleAdmin), requestHandler.ClearPending)
	requests.Post("/:id/approve", RequireRole(entity.RoleAdmin, entity.RoleWarehouseOwner), requestHandler.Approve)
	requests.Post("/:id/reject", RequireRole(entity.RoleAdmin, entity.RoleWarehouseOwner), requestHandler.Reject)
	requests.Delete("/:id", requestHandler.Cancel)
}

// healthHandler responde siempre 200; las dependencias caídas se reportan como degraded.
func healthHandler(checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.Map{"status": "ok"}
		for name, check := range checks {
			if err := check(c.UserContext()); err != nil {
				status[name] = err.Error()
				status["status"] = "degraded"
				continue
			}
			status[name] = "ok"
		}
		return c.JSON(status)
	}
}
