package config

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/config", GetConfig)
	router.POST("/config", UpdateConfig)
	router.PUT("/config/:key", SetConfigValue)
	router.POST("/test-barato", TestBarato)
	router.POST("/test-mercadopago", TestMercadoPago)
}
