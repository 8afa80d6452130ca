package controllers

import (
	"github.com/gin-gonic/gin"

	"amazonia/internal/models/request_models"
	"amazonia/internal/services"
	"amazonia/pkg/utils"
)

type AlertController struct {
	alertService services.AlertServiceInterface
}

func NewAlertController(alertService services.AlertServiceInterface) *AlertController {
	return &AlertController{alertService: alertService}
}

// ListAlerts godoc
// @Summary Own alerts, newest first
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread alerts"
// @Success 200 {object} utils.APIResponse
// @Router /users/me/alerts [get]
func (a *AlertController) ListAlerts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	p := utils.ParsePagination(c)

	alerts, total, err := a.alertService.List(c.Request.Context(), userID, queryBool(c, "unread"), p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondPaged(c, alerts, p, total, "")
}

// MarkRead godoc
// @Summary Mark an alert as read
// @Tags Alerts
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Success 200 {object} utils.APIResponse
// @Router /users/me/alerts/{id}/read [post]
func (a *AlertController) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := a.alertService.MarkRead(c.Request.Context(), userID, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Alert marked as read")
}

// MarkAllRead godoc
// @Summary Mark every alert as read
// @Tags Alerts
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /users/me/alerts/read-all [post]
func (a *AlertController) MarkAllRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	n, err := a.alertService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"updated": n}, "Alerts marked as read")
}

// DeleteAlert godoc
// @Summary Delete an alert
// @Tags Alerts
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Success 200 {object} utils.APIResponse
// @Router /users/me/alerts/{id} [delete]
func (a *AlertController) DeleteAlert(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := a.alertService.Delete(c.Request.Context(), userID, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Alert deleted")
}

// Broadcast godoc
// @Summary Send an alert to every user (admin)
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.BroadcastAlertRequest true "Alert"
// @Success 201 {object} utils.APIResponse
// @Router /alerts/broadcast [post]
func (a *AlertController) Broadcast(c *gin.Context) {
	var req request_models.BroadcastAlertRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := a.alertService.Broadcast(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, gin.H{"recipients": n}, "Alert broadcast")
}
