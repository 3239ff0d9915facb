package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"github.com/smartstore/backend/internal/application/advisor"
	"github.com/smartstore/backend/internal/application/analytics"
	"github.com/smartstore/backend/internal/application/auth"
	"github.com/smartstore/backend/internal/application/inventory"
	"github.com/smartstore/backend/internal/application/sales"
	"github.com/smartstore/backend/internal/application/usecase"
	"github.com/smartstore/backend/internal/infrastructure/cache"
	infrapdf "github.com/smartstore/backend/internal/infrastructure/pdf"
	"github.com/smartstore/backend/internal/infrastructure/postgres"
	httpRouter "github.com/smartstore/backend/internal/interfaces/http"
	"github.com/smartstore/backend/pkg/config"
	"github.com/smartstore/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	reportCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		time.Duration(cfg.Redis.TTLSeconds)*time.Second)
	if reportCache != nil {
		defer reportCache.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de reportes habilitada")
	}

	rules := analytics.Rules{
		MinProfitMargin: decimal.NewFromFloat(cfg.Advisor.MinProfitMargin),
		MaxStockDays:    cfg.Advisor.MaxStockDays,
		WarningDays:     cfg.Advisor.WarningDays,
		CriticalDays:    cfg.Advisor.CriticalDays,
		LowStockRatio:   decimal.NewFromFloat(cfg.Advisor.LowStockRatio),
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo)
	createSaleUC := sales.NewCreateSaleUseCase(txRunner, saleRepo)
	salesReportUC := sales.NewSalesReportUseCase(analyticsRepo)
	inventoryUC := inventory.NewUseCase(txRunner, movementRepo)
	inventoryAnalyzer := analytics.NewInventoryAnalyzer(productRepo, rules, nil)
	profitAnalyzer := analytics.NewProfitAnalyzer(analyticsRepo, rules)
	storeAdvisor := advisor.NewAdvisor(profitAnalyzer, inventoryAnalyzer, nil)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Smart Store API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		CreateSale:  createSaleUC,
		SalesReport: salesReportUC,
		InventoryUC: inventoryUC,
		Inventory:   inventoryAnalyzer,
		Profit:      profitAnalyzer,
		Advisor:     storeAdvisor,
		PDF:         pdfGenerator,
		ReportCache: reportCache,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
