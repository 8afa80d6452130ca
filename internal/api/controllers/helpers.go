package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"amazonia/internal/models/request_models"
	"amazonia/pkg/utils"
)

// bindJSON writes a 400 with the validation message when the body is invalid.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationMessage(err))
		return false
	}
	return true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
		return uuid.Nil, false
	}
	return id, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// optionalQueryID parses an optional uuid query parameter.
func optionalQueryID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// nearbyFilter reads category, q, lat, lon and radius_m. lat and lon must
// come together.
func nearbyFilter(c *gin.Context) (request_models.NearbyFilter, bool) {
	filter := request_models.NearbyFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if (latStr == "") != (lonStr == "") {
		utils.RespondError(c, http.StatusBadRequest, "lat and lon must be provided together")
		return filter, false
	}
	if latStr != "" {
		lat, err1 := strconv.ParseFloat(latStr, 64)
		lon, err2 := strconv.ParseFloat(lonStr, 64)
		if err1 != nil || err2 != nil {
			utils.HandleServiceError(c, utils.ErrInvalidCoordinates)
			return filter, false
		}
		filter.Lat, filter.Lon = &lat, &lon
	}

	if r := c.Query("radius_m"); r != "" {
		radius, err := strconv.ParseFloat(r, 64)
		if err != nil || radius < 0 {
			utils.RespondError(c, http.StatusBadRequest, "radius_m must be a non-negative number")
			return filter, false
		}
		filter.RadiusM = radius
	}
	return filter, true
}

func queryBool(c *gin.Context, name string) bool {
	v, _ := strconv.ParseBool(c.Query(name))
	return v
}

func checkInCoordinate(req request_models.CheckInRequest) utils.Coordinate {
	return utils.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
}
