package catalog

import (
	"smmpanel-backend/internal/models"
	"smmpanel-backend/internal/services"
	"smmpanel-backend/internal/utils"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func toItems(list []models.Service, margin float64) []ServiceItem {
	items := make([]ServiceItem, 0, len(list))
	for _, s := range list {
		items = append(items, ServiceItem{
			ID:          s.ID,
			ServiceID:   s.ServiceID,
			Name:        s.Name,
			Type:        s.Type,
			Rate:        s.FinalRate(margin),
			Min:         s.Min,
			Max:         s.Max,
			Category:    s.Category,
			Description: s.Description,
		})
	}
	return items
}

// lazySync pulls the catalog once when it is completely empty, so a fresh
// install shows services on first browse. Failures are logged and swallowed;
// the user just sees an empty list.
func lazySync(settings *services.PanelSettings, active []models.Service) []models.Service {
	if len(active) > 0 {
		return active
	}
	client, err := settings.BaratoClient()
	if err != nil {
		return active
	}
	if _, err := services.SyncServices(client); err != nil {
		zap.L().Warn("lazy catalog sync failed", zap.Error(err))
		return active
	}
	refreshed, err := services.ListActiveServices()
	if err != nil {
		return active
	}
	return refreshed
}

// ListServices godoc
// @Summary List active services
// @Description List the active catalog with resale prices.
// @Tags catalog
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=ServiceListResponse}
// @Failure 500 {object} utils.Response
// @Router /services [get]
func ListServices(c *gin.Context) {
	settings, err := services.LoadPanelSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load panel settings"))
		return
	}

	active, err := services.ListActiveServices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch services"))
		return
	}
	active = lazySync(settings, active)

	items := toItems(active, settings.ProfitMargin)
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Services retrieved successfully", ServiceListResponse{
		Services: items,
		Total:    len(items),
	}))
}

// SearchServices godoc
// @Summary Search services
// @Description Search the active catalog by name/description and/or category.
// @Tags catalog
// @Produce json
// @Security Bearer
// @Param q query string false "Search term"
// @Param category query string false "Category filter"
// @Success 200 {object} utils.Response{data=ServiceListResponse}
// @Failure 500 {object} utils.Response
// @Router /services/search [get]
func SearchServices(c *gin.Context) {
	settings, err := services.LoadPanelSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load panel settings"))
		return
	}

	results, err := services.SearchServices(c.Query("q"), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to search services"))
		return
	}

	items := toItems(results, settings.ProfitMargin)
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Services retrieved successfully", ServiceListResponse{
		Services: items,
		Total:    len(items),
	}))
}

// ListCategories godoc
// @Summary List service categories
// @Description List the distinct categories of active services.
// @Tags catalog
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=[]string}
// @Failure 500 {object} utils.Response
// @Router /services/categories [get]
func ListCategories(c *gin.Context) {
	categories, err := services.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch categories"))
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Categories retrieved successfully", categories))
}

// GetService godoc
// @Summary Get one service
// @Description Get one catalog entry by its database id, with the resale price applied.
// @Tags catalog
// @Produce json
// @Security Bearer
// @Param id path int true "Service ID"
// @Success 200 {object} utils.Response{data=ServiceItem}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /services/{id} [get]
func GetService(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid service ID"))
		return
	}

	settings, err := services.LoadPanelSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load panel settings"))
		return
	}

	service, err := services.GetServiceByID(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrCatalogServiceNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "Service not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch service"))
		return
	}

	items := toItems([]models.Service{*service}, settings.ProfitMargin)
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Service retrieved successfully", items[0]))
}
