// Package router assembles the HTTP surface: middleware, public endpoints,
// the JWT-protected /api/v1 group and the webhook hooks.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"dompet/internal/dashboard"
	"dompet/internal/handlers"
	"dompet/internal/middleware"
	"dompet/internal/services"

	_ "dompet/internal/docs" // Import swagger docs
)

// Deps are the services the router exposes.
type Deps struct {
	Transactions services.TransactionServicer
	Categories   services.CategoryServicer
	BankAccounts services.BankAccountServicer
	Assets       services.AssetServicer
	Audit        services.AuditServicer
	Dashboard    dashboard.Servicer

	// DB backs the health check; nil skips the database ping.
	DB            handlers.Pinger
	WebhookAPIKey string
}

// New builds the gin engine with every route registered.
func New(d Deps) *gin.Engine {
	transactionHandler := handlers.NewTransactionHandler(d.Transactions, d.Audit, d.Dashboard)
	categoryHandler := handlers.NewCategoryHandler(d.Categories, d.Audit, d.Dashboard)
	bankAccountHandler := handlers.NewBankAccountHandler(d.BankAccounts, d.Audit, d.Dashboard)
	assetHandler := handlers.NewAssetHandler(d.Assets, d.Audit, d.Dashboard)
	dashboardHandler := handlers.NewDashboardHandler(d.Dashboard)
	webhookHandler := handlers.NewWebhookHandler(d.Dashboard)
	healthHandler := handlers.NewHealthHandler(d.DB)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", healthHandler.Health)

	v1 := router.Group("/api/v1")

	// Database webhooks, authenticated by shared key
	hooks := v1.Group("/hooks")
	hooks.Use(middleware.WebhookAuthMiddleware(d.WebhookAPIKey))
	hooks.POST("/invalidate", webhookHandler.Invalidate)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/dashboard", dashboardHandler.GetDashboard)
	protected.POST("/dashboard/recompute", dashboardHandler.RecomputeDashboard)
	protected.GET("/advice", dashboardHandler.GetAdvice)

	reports := protected.Group("/reports")
	reports.GET("/transactions", dashboardHandler.GetTransactionReport)
	reports.GET("/transactions/export/csv", dashboardHandler.ExportTransactionsCSV)
	reports.GET("/transactions/export/document", dashboardHandler.ExportTransactionsDocument)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	bankAccounts := protected.Group("/bank-accounts")
	bankAccounts.POST("", bankAccountHandler.CreateBankAccount)
	bankAccounts.GET("", bankAccountHandler.GetBankAccounts)
	bankAccounts.GET("/:id", bankAccountHandler.GetBankAccountByID)
	bankAccounts.PUT("/:id", bankAccountHandler.UpdateBankAccount)
	bankAccounts.DELETE("/:id", bankAccountHandler.DeleteBankAccount)

	assets := protected.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.GetAssets)
	assets.GET("/:id", assetHandler.GetAssetByID)
	assets.PUT("/:id", assetHandler.UpdateAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)

	return router
}
