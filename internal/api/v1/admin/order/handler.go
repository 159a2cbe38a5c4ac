package order

import (
	"smmpanel-backend/internal/services"
	"smmpanel-backend/internal/utils"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type OrderListItem struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	ServiceID   int64     `json:"service_id"`
	ServiceName string    `json:"service_name"`
	Link        string    `json:"link"`
	Quantity    int       `json:"quantity"`
	Charge      float64   `json:"charge"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrderListResponse struct {
	Orders []OrderListItem `json:"orders"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// ListOrders godoc
// @Summary List all orders
// @Description Get a paginated list of all orders with filtering. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param user_id query int false "Filter by user ID"
// @Param status query string false "Filter by status"
// @Success 200 {object} utils.Response{data=OrderListResponse}
// @Failure 400 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/orders [get]
func ListOrders(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid page number"))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid limit number"))
		return
	}

	filter := services.OrderFilter{Page: page, Limit: limit}

	if userIDStr, exists := c.GetQuery("user_id"); exists {
		userID, err := strconv.Atoi(userIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid user_id"))
			return
		}
		uid := uint(userID)
		filter.UserID = &uid
	}
	if status, exists := c.GetQuery("status"); exists {
		filter.Status = &status
	}

	orders, total, err := services.FindOrders(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch orders"))
		return
	}

	items := make([]OrderListItem, 0, len(orders))
	for _, o := range orders {
		items = append(items, OrderListItem{
			ID:          o.ID,
			UserID:      o.UserID,
			ServiceID:   o.ServiceID,
			ServiceName: o.ServiceName,
			Link:        o.Link,
			Quantity:    o.Quantity,
			Charge:      o.Charge,
			Status:      o.Status,
			CreatedAt:   o.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Orders retrieved successfully", OrderListResponse{
		Orders: items,
		Total:  total,
		Page:   page,
		Limit:  limit,
	}))
}

// OrderStats godoc
// @Summary Order statistics
// @Description Get order counts and revenue, overall and for today. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=services.OrderStats}
// @Failure 500 {object} utils.Response
// @Router /admin/orders/stats [get]
func OrderStats(c *gin.Context) {
	stats, err := services.GetOrderStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch order statistics"))
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Order statistics retrieved successfully", stats))
}
