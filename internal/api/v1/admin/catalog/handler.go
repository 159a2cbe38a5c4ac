package catalog

import (
	"smmpanel-backend/internal/services"
	"smmpanel-backend/internal/utils"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SyncServices godoc
// @Summary Sync the service catalog
// @Description Pull the full upstream catalog and upsert it locally. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=services.SyncResult}
// @Failure 502 {object} utils.Response
// @Failure 503 {object} utils.Response
// @Router /admin/services/sync [post]
func SyncServices(c *gin.Context) {
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

	result, err := services.SyncServices(client)
	if err != nil {
		c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, "Catalog sync failed: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Catalog synced successfully", result))
}

// ToggleService godoc
// @Summary Toggle a service's availability
// @Description Flip a service's active flag. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path int true "Service ID"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/services/{id}/toggle [post]
func ToggleService(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid service ID"))
		return
	}

	service, err := services.ToggleService(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrCatalogServiceNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "Service not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to toggle service"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Service toggled successfully", gin.H{
		"id":        service.ID,
		"is_active": service.IsActive,
	}))
}
