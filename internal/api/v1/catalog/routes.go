package catalog

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	services := router.Group("/services")
	services.GET("", ListServices)
	services.GET("/categories", ListCategories)
	services.GET("/search", SearchServices)
	services.GET("/:id", GetService)
}
