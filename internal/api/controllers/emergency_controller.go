package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"amazonia/internal/models/request_models"
	"amazonia/internal/services"
	"amazonia/pkg/utils"
)

type EmergencyController struct {
	emergencyService services.EmergencyServiceInterface
}

func NewEmergencyController(emergencyService services.EmergencyServiceInterface) *EmergencyController {
	return &EmergencyController{emergencyService: emergencyService}
}

// ListServices godoc
// @Summary List emergency services
// @Tags Emergency
// @Produce json
// @Param type query string false "hospital, police, fire, pharmacy, ambulance or civil_defense"
// @Param lat query number false "Latitude"
// @Param lon query number false "Longitude"
// @Success 200 {object} utils.APIResponse
// @Router /emergency/services [get]
func (e *EmergencyController) ListServices(c *gin.Context) {
	filter, ok := nearbyFilter(c)
	if !ok {
		return
	}
	p := utils.ParsePagination(c)

	items, total, err := e.emergencyService.List(c.Request.Context(), c.Query("type"), filter, p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondPaged(c, items, p, total, "")
}

// GetService godoc
// @Summary Get an emergency service
// @Tags Emergency
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} utils.APIResponse
// @Router /emergency/services/{id} [get]
func (e *EmergencyController) GetService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := e.emergencyService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, item, "")
}

// Nearest godoc
// @Summary Nearest emergency service
// @Tags Emergency
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param type query string false "Service type"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /emergency/nearest [get]
func (e *EmergencyController) Nearest(c *gin.Context) {
	filter, ok := nearbyFilter(c)
	if !ok {
		return
	}
	if !filter.HasOrigin() {
		utils.RespondError(c, http.StatusBadRequest, "lat and lon are required")
		return
	}

	at := utils.Coordinate{Latitude: *filter.Lat, Longitude: *filter.Lon}
	item, err := e.emergencyService.Nearest(c.Request.Context(), c.Query("type"), at)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, item, "")
}

// Numbers godoc
// @Summary National emergency hotlines
// @Tags Emergency
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /emergency/numbers [get]
func (e *EmergencyController) Numbers(c *gin.Context) {
	utils.RespondSuccess(c, e.emergencyService.Numbers(), "")
}

// CreateService godoc
// @Summary Create an emergency service (admin)
// @Tags Emergency
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.EmergencyServiceRequest true "Service"
// @Success 201 {object} utils.APIResponse
// @Router /emergency/services [post]
func (e *EmergencyController) CreateService(c *gin.Context) {
	var req request_models.EmergencyServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := e.emergencyService.Create(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, item, "Emergency service created")
}

// UpdateService godoc
// @Summary Update an emergency service (admin)
// @Tags Emergency
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Param request body request_models.EmergencyServiceRequest true "Service"
// @Success 200 {object} utils.APIResponse
// @Router /emergency/services/{id} [put]
func (e *EmergencyController) UpdateService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.EmergencyServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := e.emergencyService.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, item, "Emergency service updated")
}

// DeleteService godoc
// @Summary Delete an emergency service (admin)
// @Tags Emergency
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 200 {object} utils.APIResponse
// @Router /emergency/services/{id} [delete]
func (e *EmergencyController) DeleteService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := e.emergencyService.Delete(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Emergency service deleted")
}
