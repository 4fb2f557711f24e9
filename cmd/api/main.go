package main

import (
	"context"
	"fmt"
	"os"

	"dompet/internal/advice"
	"dompet/internal/cache"
	"dompet/internal/config"
	"dompet/internal/dashboard"
	"dompet/internal/database"
	"dompet/internal/export"
	"dompet/internal/logger"
	"dompet/internal/router"
	"dompet/internal/services"
	"dompet/internal/storage"
	"dompet/internal/validator"

	"github.com/gin-gonic/gin"
)

// @title           Dompet API
// @version         1.0
// @description     Dompet turns a user's transactions, categories, bank accounts and assets into dashboards, filterable reports and exports.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Shared key for database webhooks.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()
	ctx := context.Background()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	categoryService := services.NewCategoryService(db)
	bankAccountService := services.NewBankAccountService(db)
	transactionService := services.NewTransactionService(db, categoryService, bankAccountService)
	assetService := services.NewAssetService(db)
	auditService := services.NewAuditService(db)

	// Reporting pipeline collaborators
	viewCache := cache.New(appConfig, logger.Base())
	defer viewCache.Close()

	var pdf export.PDFRenderer
	if appConfig.PDFEnabled {
		renderer := export.NewChromedpRenderer(export.ChromedpConfig{
			RemoteURL: appConfig.ChromeRemoteURL,
			NoSandbox: appConfig.ChromeNoSandbox,
			Logger:    logger.Base(),
		})
		defer renderer.Close()
		pdf = renderer
	}

	dashboardService := dashboard.NewService(dashboard.Deps{
		Transactions:  transactionService,
		Categories:    categoryService,
		BankAccounts:  bankAccountService,
		Assets:        assetService,
		Cache:         viewCache,
		CacheTTL:      appConfig.CacheTTL,
		Advisor:       advice.New(ctx, appConfig, logger.Base()),
		AdviceTimeout: appConfig.AdviceTimeout,
		Archive:       storage.New(ctx, appConfig, logger.Base()),
		PDF:           pdf,
		Location:      appConfig.Location(),
		PageSize:      appConfig.ReportPageSize,
		Logger:        logger.Base(),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying DB: %w", err)
	}

	engine := router.New(router.Deps{
		Transactions:  transactionService,
		Categories:    categoryService,
		BankAccounts:  bankAccountService,
		Assets:        assetService,
		Audit:         auditService,
		Dashboard:     dashboardService,
		DB:            sqlDB,
		WebhookAPIKey: appConfig.WebhookAPIKey,
	})

	log.Infof("Starting Dompet backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return engine.Run(":" + appConfig.Port)
}
