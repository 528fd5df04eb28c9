package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	v1 "github.com/shulepay/shulepay/internal/api/v1"
	"github.com/shulepay/shulepay/internal/logger"
	"github.com/shulepay/shulepay/internal/rest/middleware"
)

type Handlers struct {
	Billing  *v1.BillingHandler
	Payment  *v1.PaymentHandler
	Ledger   *v1.LedgerHandler
	Assisted *v1.AssistedUpgradeHandler
}

func NewRouter(handlers Handlers, log *logger.Logger) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.TenantContextMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	billing := router.Group("/billing")
	{
		billing.GET("/subscription", handlers.Billing.GetSubscription)
		billing.POST("/quote", handlers.Billing.Quote)

		billing.POST("/initiate", handlers.Payment.Initiate)
		billing.GET("/pending", handlers.Payment.GetPending)
		billing.POST("/pending/cancel", handlers.Payment.CancelPending)
		billing.POST("/inline-result", handlers.Payment.InlineResult)
		billing.POST("/verify", handlers.Payment.Verify)
		billing.GET("/return", handlers.Payment.Return)

		billing.POST("/assisted-request", handlers.Assisted.Request)

		billing.GET("/transactions", handlers.Ledger.List)
		billing.GET("/transactions/export", handlers.Ledger.Export)
	}
}
