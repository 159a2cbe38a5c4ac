package order

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/orders", ListOrders)
	router.GET("/orders/stats", OrderStats)
}
