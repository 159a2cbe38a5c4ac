package order

import (
	"smmpanel-backend/internal/models"
	"smmpanel-backend/internal/services"
	"smmpanel-backend/internal/utils"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func currentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return models.User{}, false
	}
	u, ok := val.(models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return models.User{}, false
	}
	return u, true
}

type CreateOrderInput struct {
	ServiceID int64  `json:"service_id" binding:"required"`
	Link      string `json:"link" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Comments  string `json:"comments"`
	Runs      int    `json:"runs" binding:"omitempty,gt=0"`
	Interval  int    `json:"interval" binding:"omitempty,gt=0"`
}

// CreateOrder godoc
// @Summary Place an order
// @Description Submit an order upstream and debit the charge from the balance.
// @Tags orders
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body CreateOrderInput true "Order Input"
// @Success 201 {object} utils.Response{data=OrderResponse}
// @Failure 400 {object} utils.Response
// @Failure 402 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Router /orders [post]
func CreateOrder(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateOrderInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	settings, err := services.LoadPanelSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load panel settings"))
		return
	}
	client, err := settings.BaratoClient()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, utils.NewErrorResponse(http.StatusServiceUnavailable, err.Error()))
		return
	}

	placed, err := services.PlaceOrder(u.ID, services.PlaceOrderInput{
		ServiceID: input.ServiceID,
		Link:      input.Link,
		Quantity:  input.Quantity,
		Comments:  input.Comments,
		Runs:      input.Runs,
		Interval:  input.Interval,
	}, settings, client)
	if err != nil {
		var rangeErr *services.QuantityRangeError
		var upstreamErr *services.UpstreamError
		switch {
		case errors.Is(err, services.ErrCatalogServiceNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "Service not found"))
		case errors.As(err, &rangeErr):
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, rangeErr.Error()))
		case errors.Is(err, services.ErrInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, utils.NewErrorResponse(http.StatusPaymentRequired, "Insufficient balance"))
		case errors.As(err, &upstreamErr):
			c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, upstreamErr.Message))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to place order"))
		}
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("Order placed successfully", toResponse(placed)))
}

// ListOrders godoc
// @Summary List own orders
// @Description List the authenticated user's orders, newest first.
// @Tags orders
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} utils.Response{data=OrderListResponse}
// @Failure 400 {object} utils.Response
// @Router /orders [get]
func ListOrders(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

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

	filter := services.OrderFilter{UserID: &u.ID, Page: page, Limit: limit}
	if status, exists := c.GetQuery("status"); exists {
		filter.Status = &status
	}

	orders, total, err := services.FindOrders(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch orders"))
		return
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toResponse(&orders[i]))
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Orders retrieved successfully", OrderListResponse{
		Orders: items,
		Total:  total,
		Page:   page,
		Limit:  limit,
	}))
}

// GetOrder godoc
// @Summary Get one order
// @Description Get one of the authenticated user's orders.
// @Tags orders
// @Produce json
// @Security Bearer
// @Param id path int true "Order ID"
// @Success 200 {object} utils.Response{data=OrderResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /orders/{id} [get]
func GetOrder(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid order ID"))
		return
	}

	order, err := services.GetUserOrder(u.ID, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "Order not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch order"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Order retrieved successfully", toResponse(order)))
}

// RefreshOrderStatus godoc
// @Summary Refresh one order status
// @Description Poll upstream for the order's current status and persist it.
// @Tags orders
// @Produce json
// @Security Bearer
// @Param id path int true "Order ID"
// @Success 200 {object} utils.Response{data=OrderResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Router /orders/{id}/status [post]
func RefreshOrderStatus(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid order ID"))
		return
	}

	settings, err := services.LoadPanelSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load panel settings"))
		return
	}
	client, err := settings.BaratoClient()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, utils.NewErrorResponse(http.StatusServiceUnavailable, err.Error()))
		return
	}

	order, err := services.RefreshOrderStatus(u.ID, uint(id), client)
	if err != nil {
		var upstreamErr *services.UpstreamError
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "Order not found"))
		case errors.Is(err, services.ErrOrderMissingUpstreamID):
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		case errors.As(err, &upstreamErr):
			c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, upstreamErr.Message))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to refresh order status"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Order status refreshed", toResponse(order)))
}

// SyncOrders godoc
// @Summary Refresh all open orders
// @Description Batch-poll upstream for all of the user's open orders.
// @Tags orders
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=SyncResponse}
// @Failure 502 {object} utils.Response
// @Router /orders/sync-status [post]
func SyncOrders(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	settings, err := services.LoadPanelSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load panel settings"))
		return
	}
	client, err := settings.BaratoClient()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, utils.NewErrorResponse(http.StatusServiceUnavailable, err.Error()))
		return
	}

	updated, err := services.SyncPendingOrders(u.ID, client)
	if err != nil {
		c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, "Failed to sync order statuses"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Order statuses synced", SyncResponse{Updated: updated}))
}
