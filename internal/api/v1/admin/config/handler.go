package config

import (
	"smmpanel-backend/internal/models"
	"smmpanel-backend/internal/services"
	"smmpanel-backend/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

var recognizedKeys = map[string]bool{
	models.ConfigKeyBaratoAPIKey:   true,
	models.ConfigKeyProfitMargin:   true,
	models.ConfigKeyMPAccessToken:  true,
	models.ConfigKeyMPPublicKey:    true,
	models.ConfigKeyMPClientID:     true,
	models.ConfigKeyMPClientSecret: true,
}

// maskedKeys are credentials that are never echoed back in full.
var maskedKeys = map[string]bool{
	models.ConfigKeyBaratoAPIKey:   true,
	models.ConfigKeyMPAccessToken:  true,
	models.ConfigKeyMPClientSecret: true,
}

func mask(value string) string {
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}

// GetConfig godoc
// @Summary Get panel configuration
// @Description Get all configuration keys. Credential values are masked. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=map[string]string}
// @Failure 500 {object} utils.Response
// @Router /admin/config [get]
func GetConfig(c *gin.Context) {
	values, err := services.GetAllConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch configuration"))
		return
	}

	for key, value := range values {
		if maskedKeys[key] && value != "" {
			values[key] = mask(value)
		}
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Configuration retrieved successfully", values))
}

type UpdateConfigInput struct {
	Values map[string]string `json:"values" binding:"required"`
}

// UpdateConfig godoc
// @Summary Update panel configuration
// @Description Set several configuration keys at once. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body UpdateConfigInput true "Config values"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/config [post]
func UpdateConfig(c *gin.Context) {
	var input UpdateConfigInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	for key := range input.Values {
		if !recognizedKeys[key] {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Unknown configuration key: "+key))
			return
		}
	}

	if err := services.SetConfigValues(input.Values); err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to update configuration"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Configuration updated successfully", nil))
}

type SetConfigValueInput struct {
	Value string `json:"value"`
}

// SetConfigValue godoc
// @Summary Set one configuration key
// @Description Set a single configuration key. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param key path string true "Config key"
// @Param input body SetConfigValueInput true "Config value"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/config/{key} [put]
func SetConfigValue(c *gin.Context) {
	key := c.Param("key")
	if !recognizedKeys[key] {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Unknown configuration key: "+key))
		return
	}

	var input SetConfigValueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	if err := services.SetConfigValue(key, input.Value); err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to update configuration"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Configuration updated successfully", nil))
}

// TestBarato godoc
// @Summary Test the reseller connection
// @Description Fetch the reseller account balance with the stored credentials. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Failure 503 {object} utils.Response
// @Router /admin/test-barato [post]
func TestBarato(c *gin.Context) {
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

	balance, err := client.Balance()
	if err != nil {
		c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, "Reseller API unreachable: "+err.Error()))
		return
	}
	if balance.Error != "" {
		c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, balance.Error))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Reseller connection OK", gin.H{
		"balance":  float64(balance.Balance),
		"currency": balance.Currency,
	}))
}

// TestMercadoPago godoc
// @Summary Test the payment gateway connection
// @Description Fetch the gateway's payment methods with the stored credentials. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Failure 503 {object} utils.Response
// @Router /admin/test-mercadopago [post]
func TestMercadoPago(c *gin.Context) {
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
		c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, "Payment gateway unreachable: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Payment gateway connection OK", gin.H{
		"payment_methods": len(methods),
	}))
}
