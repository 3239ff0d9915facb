package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartstore/backend/internal/application/advisor"
	"github.com/smartstore/backend/internal/application/analytics"
	"github.com/smartstore/backend/internal/application/auth"
	"github.com/smartstore/backend/internal/application/inventory"
	"github.com/smartstore/backend/internal/application/sales"
	"github.com/smartstore/backend/internal/application/usecase"
	"github.com/smartstore/backend/internal/domain/entity"
	"github.com/smartstore/backend/internal/infrastructure/cache"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	CreateSale  *sales.CreateSaleUseCase
	SalesReport *sales.SalesReportUseCase
	InventoryUC *inventory.UseCase
	Inventory   *analytics.InventoryAnalyzer
	Profit      *analytics.ProfitAnalyzer
	Advisor     *advisor.Advisor
	PDF         SalePDFGenerator
	ReportCache *cache.ReportCache
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Deactivate)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.PDF)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/pdf", saleHandler.GetPDF)
	salesGroup.Patch("/:id/payment-status", saleHandler.UpdatePaymentStatus)

	// Inventory (protegido; los ajustes manuales requieren admin)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/restock", inventoryHandler.Restock)
	invGroup.Post("/adjust", RequireRole(entity.RoleAdmin), inventoryHandler.Adjust)
	invGroup.Get("/products/:id/movements", inventoryHandler.ListMovements)

	// Reports (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.Inventory, deps.Profit, deps.SalesReport, deps.ReportCache)
	reports.Get("/inventory", reportHandler.InventoryReport)
	reports.Get("/profit", reportHandler.ProfitReport)
	reports.Get("/sales", reportHandler.SalesReport)

	// Advisor (protegido)
	advisorHandler := NewAdvisorHandler(deps.Advisor)
	protected.Post("/advisor", advisorHandler.Advise)
}
