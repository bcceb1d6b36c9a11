package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/anyulbade/payment-wallet-service/internal/middleware"
	"github.com/anyulbade/payment-wallet-service/internal/service"
)

// RegisterRoutes mounts the wallet API on api. Every route acts as the user
// named by the X-User-ID header.
func RegisterRoutes(api *gin.RouterGroup, svc *service.PaymentService) {
	walletHandler := NewWalletHandler(svc)
	methodHandler := NewPaymentMethodHandler(svc)
	paymentHandler := NewPaymentHandler(svc)
	txnHandler := NewTransactionHandler(svc)
	currencyHandler := NewCurrencyHandler(svc)

	api.GET("/currencies", currencyHandler.List)
	api.GET("/currencies/convert", currencyHandler.Convert)

	user := api.Group("", middleware.Auth())
	{
		user.GET("/wallet", walletHandler.Get)
		user.POST("/wallet/deposit", walletHandler.Deposit)
		user.POST("/wallet/withdraw", walletHandler.Withdraw)
		user.PUT("/wallet/currency", walletHandler.ChangeCurrency)
		user.GET("/wallet/audit", walletHandler.Audit)

		user.GET("/payment-methods", methodHandler.List)
		user.POST("/payment-methods", methodHandler.Add)
		user.DELETE("/payment-methods/:id", methodHandler.Remove)
		user.PUT("/payment-methods/:id/default", methodHandler.SetDefault)

		user.POST("/payments", paymentHandler.Create)
		user.POST("/payments/:id/refund", paymentHandler.Refund)

		user.GET("/transactions", txnHandler.List)
		user.GET("/transactions/summary", txnHandler.Summary)
		user.GET("/transactions/:id", txnHandler.Get)
	}
}
