package api

import (
	adminCatalog "smmpanel-backend/internal/api/v1/admin/catalog"
	adminConfig "smmpanel-backend/internal/api/v1/admin/config"
	adminOrder "smmpanel-backend/internal/api/v1/admin/order"
	adminPayment "smmpanel-backend/internal/api/v1/admin/payment"
	adminReport "smmpanel-backend/internal/api/v1/admin/report"
	adminTransaction "smmpanel-backend/internal/api/v1/admin/transaction"
	adminUser "smmpanel-backend/internal/api/v1/admin/user"
	"smmpanel-backend/internal/api/v1/auth"
	"smmpanel-backend/internal/api/v1/catalog"
	"smmpanel-backend/internal/api/v1/order"
	"smmpanel-backend/internal/api/v1/payment"
	userRoutes "smmpanel-backend/internal/api/v1/user"
	"smmpanel-backend/internal/middleware"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1)
		payment.RegisterPublicRoutes(v1)

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			userRoutes.RegisterRoutes(authorized)
			catalog.RegisterRoutes(authorized)
			order.RegisterRoutes(authorized)
			payment.RegisterRoutes(authorized)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware())
		{
			adminConfig.RegisterRoutes(admin)
			adminCatalog.RegisterRoutes(admin)
			adminOrder.RegisterRoutes(admin)
			adminPayment.RegisterRoutes(admin)
			adminReport.RegisterRoutes(admin)
			adminUser.RegisterRoutes(admin)
			adminTransaction.RegisterRoutes(admin)
		}
	}

	return router
}
