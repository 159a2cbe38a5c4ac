package report

import (
	"smmpanel-backend/internal/services"
	"smmpanel-backend/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dashboard godoc
// @Summary Dashboard statistics
// @Description Get the headline panel numbers. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=services.DashboardStats}
// @Failure 500 {object} utils.Response
// @Router /admin/dashboard [get]
func Dashboard(c *gin.Context) {
	stats, err := services.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch dashboard statistics"))
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Dashboard statistics retrieved successfully", stats))
}

// RecentActivity godoc
// @Summary Recent activity feed
// @Description Get the latest orders, users and payments. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=services.RecentActivity}
// @Failure 500 {object} utils.Response
// @Router /admin/recent-activity [get]
func RecentActivity(c *gin.Context) {
	activity, err := services.GetRecentActivity()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch recent activity"))
		return
	}

	// Strip password hashes before the users go out.
	for i := range activity.Users {
		activity.Users[i].Password = ""
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Recent activity retrieved successfully", activity))
}
