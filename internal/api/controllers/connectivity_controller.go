package controllers

import (
	"github.com/gin-gonic/gin"

	"amazonia/internal/models/request_models"
	"amazonia/internal/services"
	"amazonia/pkg/utils"
)

type ConnectivityController struct {
	connectivityService services.ConnectivityServiceInterface
}

func NewConnectivityController(connectivityService services.ConnectivityServiceInterface) *ConnectivityController {
	return &ConnectivityController{connectivityService: connectivityService}
}

// ListSpots godoc
// @Summary List Wi-Fi spots
// @Description Nearest first when lat/lon are given
// @Tags Connectivity
// @Produce json
// @Param lat query number false "Latitude"
// @Param lon query number false "Longitude"
// @Param radius_m query number false "Radius in meters"
// @Param free_only query bool false "Only free spots"
// @Success 200 {object} utils.APIResponse
// @Router /connectivity/spots [get]
func (cc *ConnectivityController) ListSpots(c *gin.Context) {
	filter, ok := nearbyFilter(c)
	if !ok {
		return
	}
	p := utils.ParsePagination(c)

	spots, total, err := cc.connectivityService.List(c.Request.Context(), filter, queryBool(c, "free_only"), p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondPaged(c, spots, p, total, "")
}

// GetSpot godoc
// @Summary Get a Wi-Fi spot
// @Tags Connectivity
// @Produce json
// @Param id path string true "Spot ID"
// @Success 200 {object} utils.APIResponse
// @Router /connectivity/spots/{id} [get]
func (cc *ConnectivityController) GetSpot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	spot, err := cc.connectivityService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, spot, "")
}

// CreateSpot godoc
// @Summary Map a new Wi-Fi spot
// @Tags Connectivity
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.CreateSpotRequest true "Spot"
// @Success 201 {object} utils.APIResponse
// @Router /connectivity/spots [post]
func (cc *ConnectivityController) CreateSpot(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request_models.CreateSpotRequest
	if !bindJSON(c, &req) {
		return
	}

	spot, err := cc.connectivityService.Create(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, spot, "Spot created")
}

// ReportSpot godoc
// @Summary Rate a Wi-Fi spot
// @Tags Connectivity
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Param request body request_models.SpotReportRequest true "Report"
// @Success 201 {object} utils.APIResponse
// @Router /connectivity/spots/{id}/reports [post]
func (cc *ConnectivityController) ReportSpot(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	spotID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.SpotReportRequest
	if !bindJSON(c, &req) {
		return
	}

	spot, err := cc.connectivityService.Report(c.Request.Context(), userID, spotID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, spot, "Report received")
}

// DeleteSpot godoc
// @Summary Delete a Wi-Fi spot (admin)
// @Tags Connectivity
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Success 200 {object} utils.APIResponse
// @Router /connectivity/spots/{id} [delete]
func (cc *ConnectivityController) DeleteSpot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := cc.connectivityService.Delete(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Spot deleted")
}
