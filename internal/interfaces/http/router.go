package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProductUC     *usecase.ProductUseCase
	CatalogUC     *usecase.CatalogUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	OperationUC   *inventory.OperationUseCase
	StockUC       *inventory.StockQueryUseCase
	DocumentUC    *inventory.DocumentUseCase
	Replenishment *inventory.ReplenishmentUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string
	ServiceName   string
}

// NewApp crea la app Fiber con el manejo de errores {code, message} y recover.
func NewApp(name string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ErrorHandler: errorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/sku/:sku", productHandler.GetBySKU)
	products.Get("/:id", uuidParam, productHandler.GetByID)
	products.Put("/:id", uuidParam, productHandler.Update)

	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	protected.Post("/categories", catalogHandler.CreateCategory)
	protected.Get("/categories", catalogHandler.ListCategories)
	protected.Post("/uoms", catalogHandler.CreateUnitOfMeasure)
	protected.Get("/uoms", catalogHandler.ListUnitsOfMeasure)
	protected.Post("/partners", catalogHandler.CreatePartner)
	protected.Get("/partners", catalogHandler.ListPartners)
	protected.Get("/partners/:id", uuidParam, catalogHandler.GetPartner)

	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", uuidParam, warehouseHandler.GetByID)
	warehouses.Put("/:id", uuidParam, warehouseHandler.Update)
	warehouses.Post("/:id/locations", uuidParam, warehouseHandler.CreateLocation)
	warehouses.Get("/:id/locations", uuidParam, warehouseHandler.ListLocations)

	operations := protected.Group("/operations")
	operationHandler := NewOperationHandler(deps.OperationUC, deps.DocumentUC)
	operations.Post("/", operationHandler.Create)
	operations.Get("/", operationHandler.List)
	operations.Get("/:id", uuidParam, operationHandler.GetByID)
	operations.Put("/:id", uuidParam, operationHandler.Update)
	operations.Post("/:id/validate", uuidParam, operationHandler.Validate)
	operations.Post("/:id/waiting", uuidParam, operationHandler.MarkWaiting)
	operations.Post("/:id/ready", uuidParam, operationHandler.MarkReady)
	operations.Post("/:id/cancel", uuidParam, operationHandler.Cancel)
	operations.Get("/:id/pdf", uuidParam, operationHandler.PDF)

	stockHandler := NewStockHandler(deps.StockUC, deps.DocumentUC)
	protected.Get("/stock", stockHandler.GetLevel)
	protected.Get("/stock/locations/:id", uuidParam, stockHandler.ByLocation)
	protected.Get("/stock/products/:id", uuidParam, stockHandler.ByProduct)
	protected.Get("/ledger", stockHandler.Ledger)
	protected.Get("/ledger/export.xml", stockHandler.ExportLedger)

	inventoryHandler := NewInventoryHandler(deps.Replenishment)
	protected.Get("/inventory/low-stock", inventoryHandler.LowStock)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)
}
