package request_models

import "time"

// DashboardQuery is bound from the query string. LastDays and Start/End
// are alternatives.
type DashboardQuery struct {
	Start    time.Time `form:"start" time_format:"2006-01-02T15:04:05Z07:00"`
	End      time.Time `form:"end" time_format:"2006-01-02T15:04:05Z07:00"`
	LastDays *int      `form:"last_days" binding:"omitempty,min=1,max=366"`
	Interval string    `form:"interval" binding:"omitempty,oneof=day week month"`
	TZ       string    `form:"tz" binding:"omitempty,timezone"`
}
