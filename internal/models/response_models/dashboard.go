package response_models

import (
	"time"

	"github.com/google/uuid"
)

type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// "day" | "week" | "month"
	Interval string `json:"interval"`
	// Optional: timezone used for bucketing (defaults to UTC if empty)
	Timezone string `json:"timezone,omitempty"`
}

type KPIBlock struct {
	TotalUsers         int64   `json:"total_users"`
	NewUsers           int64   `json:"new_users"`
	EventCheckins      int64   `json:"event_checkins"`
	PlaceCheckins      int64   `json:"place_checkins"`
	CoinsIssued        int64   `json:"coins_issued"`
	CoinsSpent         int64   `json:"coins_spent"`
	PendingRedemptions int64   `json:"pending_redemptions"`
	ClaimedRedemptions int64   `json:"claimed_redemptions"`
	QuizAttempts       int64   `json:"quiz_attempts"`
	QuizPassRatePct    float64 `json:"quiz_pass_rate_pct"`
	ConnectivitySpots  int64   `json:"connectivity_spots"`
}

type SeriesPoint struct {
	Bucket time.Time `json:"bucket"`
	Value  int64     `json:"value"`
}

type CountSeries struct {
	Points []SeriesPoint `json:"points"`
	Total  int64         `json:"total"`
}

type TopTarget struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Visits int64     `json:"visits"`
}

type RecentRedemption struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Status      string     `json:"status"`
	CostCoins   int64      `json:"cost_coins"`
	RewardTitle string     `json:"reward_title"`
	UserEmail   string     `json:"user_email"`
	CreatedAt   time.Time  `json:"created_at"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
}

type DashboardReport struct {
	Range             TimeRange          `json:"range"`
	KPIs              KPIBlock           `json:"kpis"`
	NewUsers          CountSeries        `json:"new_users"`
	Checkins          CountSeries        `json:"checkins"`
	CoinsIssued       CountSeries        `json:"coins_issued"`
	TopPlaces         []TopTarget        `json:"top_places"`
	TopEvents         []TopTarget        `json:"top_events"`
	RecentRedemptions []RecentRedemption `json:"recent_redemptions"`
}
