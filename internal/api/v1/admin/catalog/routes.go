package catalog

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/services/sync", SyncServices)
	router.POST("/services/:id/toggle", ToggleService)
}
