package user

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile", Profile)
	router.PUT("/profile", UpdateProfile)
	router.GET("/balance", Balance)
}
