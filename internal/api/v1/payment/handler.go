package payment

import (
	"smmpanel-backend/internal/mercadopago"
	"smmpanel-backend/internal/models"
	"smmpanel-backend/internal/services"
	"smmpanel-backend/internal/utils"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
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

// ListPayments godoc
// @Summary List own payments
// @Description List the authenticated user's payments, newest first.
// @Tags payments
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=PaymentListResponse}
// @Failure 500 {object} utils.Response
// @Router /payments [get]
func ListPayments(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	payments, err := services.ListUserPayments(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch payments"))
		return
	}

	items := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, toResponse(&payments[i]))
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Payments retrieved successfully", PaymentListResponse{
		Payments: items,
		Total:    len(items),
	}))
}

type TopupInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// RequestTopup godoc
// @Summary Request a manual topup
// @Description Record a pending topup to be approved manually by an admin.
// @Tags payments
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body TopupInput true "Topup Input"
// @Success 201 {object} utils.Response{data=PaymentResponse}
// @Failure 400 {object} utils.Response
// @Router /payments/topup [post]
func RequestTopup(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var input TopupInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	payment, err := services.RequestTopup(u.ID, input.Amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to create topup request"))
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("Topup request created", toResponse(payment)))
}

// CreatePixPayment godoc
// @Summary Create a PIX payment
// @Description Create a PIX topup payment and return the QR code data.
// @Tags payments
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body TopupInput true "Topup Input"
// @Success 201 {object} utils.Response{data=PixPaymentResponse}
// @Failure 400 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Router /payments/pix [post]
func CreatePixPayment(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var input TopupInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	settings, err := services.LoadPanelSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load panel settings"))
		return
	}
	client, err := settings.MercadoPagoClient()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, utils.NewErrorResponse(http.StatusServiceUnavailable, err.Error()))
		return
	}

	payment, gatewayPayment, err := services.CreatePixPayment(&u, input.Amount, client)
	if err != nil {
		zap.L().Error("pix payment creation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, "Failed to create PIX payment"))
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("PIX payment created", PixPaymentResponse{
		Payment:      toResponse(payment),
		QRCode:       gatewayPayment.PointOfInteraction.TransactionData.QRCode,
		QRCodeBase64: gatewayPayment.PointOfInteraction.TransactionData.QRCodeBase64,
		TicketURL:    gatewayPayment.PointOfInteraction.TransactionData.TicketURL,
		ExpiresAt:    gatewayPayment.DateOfExpiration,
	}))
}

type PreferenceInput struct {
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	SuccessURL string  `json:"success_url" binding:"omitempty,url"`
	FailureURL string  `json:"failure_url" binding:"omitempty,url"`
	PendingURL string  `json:"pending_url" binding:"omitempty,url"`
}

// CreatePreference godoc
// @Summary Create a checkout preference
// @Description Create a hosted-checkout preference for a topup.
// @Tags payments
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body PreferenceInput true "Preference Input"
// @Success 201 {object} utils.Response{data=PreferenceResponse}
// @Failure 400 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Router /payments/preference [post]
func CreatePreference(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var input PreferenceInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	settings, err := services.LoadPanelSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load panel settings"))
		return
	}
	client, err := settings.MercadoPagoClient()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, utils.NewErrorResponse(http.StatusServiceUnavailable, err.Error()))
		return
	}

	var backURLs *mercadopago.BackURLs
	if input.SuccessURL != "" || input.FailureURL != "" || input.PendingURL != "" {
		backURLs = &mercadopago.BackURLs{
			Success: input.SuccessURL,
			Failure: input.FailureURL,
			Pending: input.PendingURL,
		}
	}

	payment, preference, err := services.CreateCheckoutPreference(&u, input.Amount, backURLs, client)
	if err != nil {
		zap.L().Error("checkout preference creation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, "Failed to create checkout preference"))
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse("Checkout preference created", PreferenceResponse{
		Payment:      toResponse(payment),
		PreferenceID: preference.ID,
		InitPoint:    preference.InitPoint,
	}))
}

// CheckPayment godoc
// @Summary Check a payment's status
// @Description Re-fetch the payment's status from the gateway and apply it.
// @Tags payments
// @Produce json
// @Security Bearer
// @Param id path int true "Payment ID"
// @Success 200 {object} utils.Response{data=CheckPaymentResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Router /payments/{id}/check [get]
func CheckPayment(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid payment ID"))
		return
	}

	settings, err := services.LoadPanelSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load panel settings"))
		return
	}
	client, err := settings.MercadoPagoClient()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, utils.NewErrorResponse(http.StatusServiceUnavailable, err.Error()))
		return
	}

	payment, gatewayStatus, err := services.CheckPayment(u.ID, uint(id), client)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "Payment not found"))
		case errors.Is(err, services.ErrPaymentMissingGatewayID):
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		default:
			c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, "Failed to check payment"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Payment status checked", CheckPaymentResponse{
		Payment:       toResponse(payment),
		GatewayStatus: gatewayStatus,
	}))
}

// ListPaymentMethods godoc
// @Summary List gateway payment methods
// @Description List the payment methods enabled on the gateway account.
// @Tags payments
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Router /payments/methods [get]
func ListPaymentMethods(c *gin.Context) {
	settings, err := services.LoadPanelSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load panel settings"))
		return
	}
	client, err := settings.MercadoPagoClient()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, utils.NewErrorResponse(http.StatusServiceUnavailable, err.Error()))
		return
	}

	methods, err := client.GetPaymentMethods()
	if err != nil {
		c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, "Failed to fetch payment methods"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Payment methods retrieved successfully", methods))
}

type WebhookInput struct {
	Type string `json:"type"`
	Data struct {
		ID interface{} `json:"id"`
	} `json:"data"`
}

// Webhook godoc
// @Summary Gateway payment notification
// @Description Receive a gateway notification and reconcile the referenced payment. Always answers 200.
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /payments/webhook [post]
func Webhook(c *gin.Context) {
	// The gateway retries on non-200, so every outcome acknowledges. The
	// notification body is never trusted: only the id is taken from it, the
	// status is re-fetched from the gateway.
	ack := func() { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }

	var input WebhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		zap.L().Warn("unparseable webhook payload", zap.Error(err))
		ack()
		return
	}

	if input.Type != "payment" || input.Data.ID == nil {
		ack()
		return
	}

	// The id arrives as either a JSON number or a string.
	gatewayID := fmt.Sprintf("%v", input.Data.ID)
	if f, ok := input.Data.ID.(float64); ok {
		gatewayID = strconv.FormatInt(int64(f), 10)
	}

	settings, err := services.LoadPanelSettings()
	if err != nil {
		zap.L().Error("webhook settings load failed", zap.Error(err))
		ack()
		return
	}
	client, err := settings.MercadoPagoClient()
	if err != nil {
		zap.L().Warn("webhook received with gateway unconfigured")
		ack()
		return
	}

	if err := services.HandleWebhook(gatewayID, client); err != nil {
		zap.L().Warn("webhook processing failed",
			zap.String("gateway_payment_id", gatewayID),
			zap.Error(err))
	}
	ack()
}
