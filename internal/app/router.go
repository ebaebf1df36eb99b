package app

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"dispend/internal/config"
	"dispend/internal/handlers"
	"dispend/internal/middleware"
	"dispend/internal/validator"

	_ "dispend/internal/docs" // Register swagger docs
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Account     *handlers.AccountHandler
	Category    *handlers.CategoryHandler
	Transaction *handlers.TransactionHandler
	Budget      *handlers.BudgetHandler
	Report      *handlers.ReportHandler
	Session     *handlers.SessionHandler
	App         *handlers.AppHandler
}

// NewRouter builds the gin engine with middleware and all routes mounted.
func NewRouter(
	cfg *config.Config,
	account *handlers.AccountHandler,
	category *handlers.CategoryHandler,
	transaction *handlers.TransactionHandler,
	budget *handlers.BudgetHandler,
	report *handlers.ReportHandler,
	session *handlers.SessionHandler,
	appHandler *handlers.AppHandler,
) *gin.Engine {
	return buildRouter(cfg, Handlers{
		Account:     account,
		Category:    category,
		Transaction: transaction,
		Budget:      budget,
		Report:      report,
		Session:     session,
		App:         appHandler,
	})
}

var registerValidators sync.Once

func buildRouter(cfg *config.Config, h Handlers) *gin.Engine {
	registerValidators.Do(validator.Register)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", h.App.Health)

	v1 := router.Group("/api/v1")

	// Public routes
	v1.POST("/session", h.Session.CreateSession)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.AuthEnabled(), []byte(cfg.JWTSecret)))

	accounts := protected.Group("/accounts")
	accounts.GET("", h.Account.ListAccounts)
	accounts.POST("", h.Account.CreateAccount)
	accounts.GET("/:id", h.Account.GetAccount)
	accounts.PUT("/:id", h.Account.UpdateAccount)
	accounts.DELETE("/:id", h.Account.DeleteAccount)

	categories := protected.Group("/categories")
	categories.GET("", h.Category.ListCategories)
	categories.POST("", h.Category.CreateCategory)
	categories.GET("/tree", h.Category.GetCategoryTree)
	categories.GET("/:id", h.Category.GetCategory)
	categories.PUT("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.GET("", h.Transaction.ListTransactions)
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.POST("/bulk-delete", h.Transaction.BulkDeleteTransactions)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	budgets := protected.Group("/budgets")
	budgets.GET("", h.Budget.ListBudgets)
	budgets.POST("", h.Budget.CreateBudget)
	budgets.GET("/spending", h.Budget.GetSpending)
	budgets.GET("/:id", h.Budget.GetBudget)
	budgets.PUT("/:id", h.Budget.UpdateBudget)
	budgets.DELETE("/:id", h.Budget.DeleteBudget)

	reports := protected.Group("/reports")
	reports.GET("/spending-by-category", h.Report.SpendingByCategory)
	reports.GET("/monthly-summary", h.Report.MonthlySummary)

	protected.POST("/app/backup", h.App.Backup)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
