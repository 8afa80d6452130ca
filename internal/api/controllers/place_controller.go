package controllers

import (
	"github.com/gin-gonic/gin"

	"amazonia/internal/models/request_models"
	"amazonia/internal/services"
	"amazonia/pkg/utils"
)

type PlaceController struct {
	placeService services.PlaceServiceInterface
	photoService services.PhotoServiceInterface
}

func NewPlaceController(placeService services.PlaceServiceInterface, photoService services.PhotoServiceInterface) *PlaceController {
	return &PlaceController{
		placeService: placeService,
		photoService: photoService,
	}
}

// ListPlaces godoc
// @Summary List places
// @Description With lat/lon the results are sorted by distance and carry distance_m
// @Tags Places
// @Produce json
// @Param category query string false "Category"
// @Param q query string false "Search text"
// @Param lat query number false "Latitude"
// @Param lon query number false "Longitude"
// @Param radius_m query number false "Radius in meters"
// @Success 200 {object} utils.APIResponse
// @Router /places [get]
func (pc *PlaceController) ListPlaces(c *gin.Context) {
	filter, ok := nearbyFilter(c)
	if !ok {
		return
	}
	p := utils.ParsePagination(c)

	places, total, err := pc.placeService.List(c.Request.Context(), filter, p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondPaged(c, places, p, total, "")
}

// GetPlace godoc
// @Summary Get a place
// @Tags Places
// @Produce json
// @Param id path string true "Place ID"
// @Success 200 {object} utils.APIResponse
// @Router /places/{id} [get]
func (pc *PlaceController) GetPlace(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	place, err := pc.placeService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, place, "")
}

// CreatePlace godoc
// @Summary Create a place (admin)
// @Tags Places
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.PlaceRequest true "Place"
// @Success 201 {object} utils.APIResponse
// @Router /places [post]
func (pc *PlaceController) CreatePlace(c *gin.Context) {
	var req request_models.PlaceRequest
	if !bindJSON(c, &req) {
		return
	}

	place, err := pc.placeService.Create(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, place, "Place created")
}

// UpdatePlace godoc
// @Summary Update a place (admin)
// @Tags Places
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Place ID"
// @Param request body request_models.PlaceRequest true "Place"
// @Success 200 {object} utils.APIResponse
// @Router /places/{id} [put]
func (pc *PlaceController) UpdatePlace(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.PlaceRequest
	if !bindJSON(c, &req) {
		return
	}

	place, err := pc.placeService.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, place, "Place updated")
}

// DeletePlace godoc
// @Summary Delete a place (admin)
// @Tags Places
// @Security BearerAuth
// @Param id path string true "Place ID"
// @Success 200 {object} utils.APIResponse
// @Router /places/{id} [delete]
func (pc *PlaceController) DeletePlace(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := pc.placeService.Delete(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Place deleted")
}

// CheckIn godoc
// @Summary Check in at a place
// @Tags Places
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Place ID"
// @Param request body request_models.CheckInRequest true "Device position"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /places/{id}/check-in [post]
func (pc *PlaceController) CheckIn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	placeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.CheckInRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := pc.placeService.CheckIn(c.Request.Context(), userID, placeID, checkInCoordinate(req))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, resp, "Checked in")
}

// RequestPhotoUpload godoc
// @Summary Pre-signed upload URL for a visit photo
// @Tags Places
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Visit ID"
// @Param request body request_models.PhotoUploadRequest true "Content type"
// @Success 201 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /visits/{id}/photos [post]
func (pc *PlaceController) RequestPhotoUpload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	visitID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.PhotoUploadRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := pc.photoService.RequestUpload(c.Request.Context(), userID, visitID, req.ContentType)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, resp, "Upload URL issued")
}
