package payment

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/payments", ListPayments)
	router.POST("/payments/:id/approve", ApprovePayment)
	router.POST("/payments/:id/reject", RejectPayment)
}
