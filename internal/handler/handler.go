// Package handler exposes the JSON API. Handlers bind and validate request
// payloads, delegate to the service layer and map domain errors to status
// codes.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware"
	"fintrack/internal/service"
)

func init() {
	// Currency codes are validated at the binding boundary so malformed
	// codes never reach the services.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
			return core.ValidCurrency(fl.Field().String())
		})
	}
}

type Handler struct {
	cfg     *config.Config
	auth    *service.AuthService
	finance *service.FinanceService
	reports *service.ReportService
}

func New(cfg *config.Config, authSvc *service.AuthService, finance *service.FinanceService, reports *service.ReportService) *Handler {
	return &Handler{cfg: cfg, auth: authSvc, finance: finance, reports: reports}
}

// NewRouter assembles the middleware chain and the route table.
func NewRouter(h *Handler, tokens *auth.TokenService, limiter *middleware.Limiter, logger *log.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Trace(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(limiter.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(tokens))

	protected.GET("/auth/me", h.Me)
	protected.POST("/auth/logout", h.Logout)

	protected.POST("/categories", h.CreateCategory)
	protected.GET("/categories", h.ListCategories)
	protected.GET("/categories/:id", h.GetCategory)
	protected.PUT("/categories/:id", h.UpdateCategory)
	protected.DELETE("/categories/:id", h.DeleteCategory)

	protected.POST("/subcategories", h.CreateSubcategory)
	protected.GET("/subcategories", h.ListSubcategories)
	protected.GET("/subcategories/:id", h.GetSubcategory)
	protected.PUT("/subcategories/:id", h.UpdateSubcategory)
	protected.DELETE("/subcategories/:id", h.DeleteSubcategory)

	protected.POST("/transactions", h.CreateTransaction)
	protected.GET("/transactions", h.ListTransactions)
	protected.GET("/transactions/summary", h.TransactionSummary)
	protected.GET("/transactions/:id", h.GetTransaction)
	protected.PUT("/transactions/:id", h.UpdateTransaction)
	protected.DELETE("/transactions/:id", h.DeleteTransaction)

	protected.POST("/budgets", h.CreateBudget)
	protected.GET("/budgets", h.ListBudgets)
	protected.GET("/budgets/summary", h.BudgetSummary)
	protected.GET("/budgets/:id", h.GetBudget)
	protected.GET("/budgets/:id/summary", h.SingleBudgetSummary)
	protected.PUT("/budgets/:id", h.UpdateBudget)
	protected.DELETE("/budgets/:id", h.DeleteBudget)

	protected.GET("/reports/monthly/:year/:month", h.MonthlyReport)
	protected.GET("/reports/trends", h.Trends)

	protected.GET("/settings/currencies", h.AvailableCurrencies)
	protected.GET("/settings/currencies/rates", h.ListRates)
	protected.POST("/settings/currencies/rates", h.SaveRate)
	protected.GET("/settings/user/preferences", h.GetPreferences)
	protected.PUT("/settings/user/preferences", h.UpdatePreferences)

	return router
}
