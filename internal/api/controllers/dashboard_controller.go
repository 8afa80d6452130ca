package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"amazonia/internal/models/request_models"
	"amazonia/internal/models/response_models"
	"amazonia/internal/services"
	"amazonia/pkg/utils"
)

const defaultDashboardTZ = "America/Belem"

type DashboardController struct {
	dashboardService services.DashboardService
	now              func() time.Time
}

func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		now:              time.Now,
	}
}

// GetDashboard godoc
// @Summary Get festival dashboard
// @Description KPIs, sign-up/check-in/AmaCoin series, most visited places and events, and recent redemptions
// @Tags Dashboard
// @Produce json
// @Param start     query string false "RFC3339 start (e.g. 2025-11-10T00:00:00Z)"
// @Param end       query string false "RFC3339 end (e.g. 2025-11-21T23:59:59Z)"
// @Param last_days query int    false "Lookback in days, instead of start/end. Default 30"
// @Param interval  query string false "Bucket size: day | week | month (default: day)"
// @Param tz        query string false "IANA timezone for bucketing (default: America/Belem)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (p *DashboardController) GetDashboard(c *gin.Context) {
	var q request_models.DashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationMessage(err))
		return
	}
	rng, msg := p.timeRange(q)
	if msg != "" {
		utils.RespondError(c, http.StatusBadRequest, msg)
		return
	}

	report, err := p.dashboardService.BuildDashboard(c.Request.Context(), rng)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, report, "Dashboard data fetched successfully")
}

// timeRange resolves the query into a concrete window. Missing bounds are
// left zero for the service to default.
func (p *DashboardController) timeRange(q request_models.DashboardQuery) (response_models.TimeRange, string) {
	rng := response_models.TimeRange{
		Start:    q.Start,
		End:      q.End,
		Interval: q.Interval,
		Timezone: q.TZ,
	}
	if rng.Interval == "" {
		rng.Interval = "day"
	}
	if rng.Timezone == "" {
		rng.Timezone = defaultDashboardTZ
	}
	if q.LastDays != nil {
		if !q.Start.IsZero() || !q.End.IsZero() {
			return rng, "provide either last_days or start/end (not both)"
		}
		rng.End = p.now().UTC()
		rng.Start = rng.End.AddDate(0, 0, -*q.LastDays)
	}
	return rng, ""
}
