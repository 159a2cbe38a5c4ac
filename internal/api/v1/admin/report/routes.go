package report

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", Dashboard)
	router.GET("/recent-activity", RecentActivity)
}
