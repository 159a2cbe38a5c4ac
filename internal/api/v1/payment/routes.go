package payment

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the authenticated payment endpoints.
func RegisterRoutes(router *gin.RouterGroup) {
	payments := router.Group("/payments")
	payments.GET("", ListPayments)
	payments.POST("/topup", RequestTopup)
	payments.POST("/pix", CreatePixPayment)
	payments.POST("/preference", CreatePreference)
	payments.GET("/methods", ListPaymentMethods)
	payments.GET("/:id/check", CheckPayment)
}

// RegisterPublicRoutes wires the unauthenticated gateway webhook.
func RegisterPublicRoutes(router *gin.RouterGroup) {
	router.POST("/payments/webhook", Webhook)
}
