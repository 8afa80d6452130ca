package controllers

import (
	"github.com/gin-gonic/gin"

	"amazonia/internal/models/request_models"
	"amazonia/internal/services"
	"amazonia/pkg/utils"
)

type EventController struct {
	eventService services.EventServiceInterface
}

func NewEventController(eventService services.EventServiceInterface) *EventController {
	return &EventController{eventService: eventService}
}

// ListEvents godoc
// @Summary List events
// @Description Ordered by start time
// @Tags Events
// @Produce json
// @Param category query string false "Category"
// @Param q query string false "Search text"
// @Param upcoming query bool false "Only events that have not ended"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} utils.APIResponse
// @Router /events [get]
func (e *EventController) ListEvents(c *gin.Context) {
	p := utils.ParsePagination(c)
	filter := request_models.EventFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
		Upcoming: queryBool(c, "upcoming"),
	}

	events, total, err := e.eventService.List(c.Request.Context(), filter, p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondPaged(c, events, p, total, "")
}

// GetEvent godoc
// @Summary Get an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /events/{id} [get]
func (e *EventController) GetEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	event, err := e.eventService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, event, "")
}

// CreateEvent godoc
// @Summary Create an event (admin)
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.EventRequest true "Event"
// @Success 201 {object} utils.APIResponse
// @Router /events [post]
func (e *EventController) CreateEvent(c *gin.Context) {
	var req request_models.EventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := e.eventService.Create(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, event, "Event created")
}

// UpdateEvent godoc
// @Summary Update an event (admin)
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body request_models.EventRequest true "Event"
// @Success 200 {object} utils.APIResponse
// @Router /events/{id} [put]
func (e *EventController) UpdateEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.EventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := e.eventService.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, event, "Event updated")
}

// DeleteEvent godoc
// @Summary Delete an event (admin)
// @Tags Events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} utils.APIResponse
// @Router /events/{id} [delete]
func (e *EventController) DeleteEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := e.eventService.Delete(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Event deleted")
}

// CheckIn godoc
// @Summary Check in at an event
// @Description Requires the device to be inside the event's geofence
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body request_models.CheckInRequest true "Device position"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /events/{id}/check-in [post]
func (e *EventController) CheckIn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.CheckInRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := e.eventService.CheckIn(c.Request.Context(), userID, eventID, checkInCoordinate(req))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, resp, "Checked in")
}
