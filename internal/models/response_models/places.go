package response_models

type PlaceResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Address        string   `json:"address"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	OpeningHours   string   `json:"opening_hours"`
	CoinReward     int64    `json:"coin_reward"`
	CheckinRadiusM float64  `json:"checkin_radius_m"`
	Images         []string `json:"images"`

	DistanceM *float64 `json:"distance_m,omitempty"`
}
