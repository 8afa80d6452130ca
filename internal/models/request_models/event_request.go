package request_models

import "time"

type EventRequest struct {
	Title          string    `json:"title" binding:"required,notblank,max=200"`
	Description    string    `json:"description" binding:"max=5000"`
	Category       string    `json:"category" binding:"max=50"`
	LocationName   string    `json:"location_name" binding:"max=200"`
	Latitude       float64   `json:"latitude" binding:"latitude"`
	Longitude      float64   `json:"longitude" binding:"longitude"`
	StartsAt       time.Time `json:"starts_at" binding:"required"`
	EndsAt         time.Time `json:"ends_at" binding:"required,gtfield=StartsAt"`
	Capacity       int       `json:"capacity" binding:"min=0"`
	CoinReward     int64     `json:"coin_reward" binding:"min=0"`
	CheckinRadiusM float64   `json:"checkin_radius_m" binding:"min=0"`
	Tags           []string  `json:"tags" binding:"max=20,dive,max=40"`
	ImageURL       string    `json:"image_url" binding:"omitempty,url"`
}

type EventFilter struct {
	Category string
	Query    string
	Upcoming bool
}
