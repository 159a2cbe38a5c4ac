package payment

import (
	"smmpanel-backend/internal/models"
	"smmpanel-backend/internal/services"
	"smmpanel-backend/internal/utils"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type PaymentListItem struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	PaymentID *string   `json:"payment_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type PaymentListResponse struct {
	Payments []PaymentListItem `json:"payments"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

func toItem(p *models.Payment) PaymentListItem {
	return PaymentListItem{
		ID:        p.ID,
		UserID:    p.UserID,
		Amount:    p.Amount,
		Status:    p.Status,
		PaymentID: p.PaymentID,
		CreatedAt: p.CreatedAt,
	}
}

func operatorFromContext(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	u, ok := val.(models.User)
	if !ok {
		return nil, false
	}
	return &u, true
}

// ListPayments godoc
// @Summary List all payments
// @Description Get a paginated list of payments with filtering. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param user_id query int false "Filter by user ID"
// @Param status query string false "Filter by status"
// @Success 200 {object} utils.Response{data=PaymentListResponse}
// @Failure 400 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/payments [get]
func ListPayments(c *gin.Context) {
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

	filter := services.PaymentFilter{Page: page, Limit: limit}

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

	payments, total, err := services.FindPayments(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch payments"))
		return
	}

	items := make([]PaymentListItem, 0, len(payments))
	for i := range payments {
		items = append(items, toItem(&payments[i]))
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Payments retrieved successfully", PaymentListResponse{
		Payments: items,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}))
}

// ApprovePayment godoc
// @Summary Approve a pending payment
// @Description Approve a pending payment and credit the user's balance. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path int true "Payment ID"
// @Success 200 {object} utils.Response{data=PaymentListItem}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /admin/payments/{id}/approve [post]
func ApprovePayment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid payment ID"))
		return
	}

	operator, ok := operatorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	payment, err := services.ApprovePayment(uint(id), operator)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "Payment not found"))
		case errors.Is(err, services.ErrPaymentNotPending):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to approve payment"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Payment approved successfully", toItem(payment)))
}

// RejectPayment godoc
// @Summary Reject a pending payment
// @Description Reject a pending payment. The balance is not touched. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path int true "Payment ID"
// @Success 200 {object} utils.Response{data=PaymentListItem}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /admin/payments/{id}/reject [post]
func RejectPayment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid payment ID"))
		return
	}

	payment, err := services.RejectPayment(uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "Payment not found"))
		case errors.Is(err, services.ErrPaymentNotPending):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to reject payment"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Payment rejected successfully", toItem(payment)))
}
