package order

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	orders.POST("", CreateOrder)
	orders.GET("", ListOrders)
	orders.POST("/sync-status", SyncOrders)
	orders.GET("/:id", GetOrder)
	orders.POST("/:id/status", RefreshOrderStatus)
}
