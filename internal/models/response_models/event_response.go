package response_models

type EventResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	LocationName   string   `json:"location_name"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	StartsAt       string   `json:"starts_at"`
	EndsAt         string   `json:"ends_at"`
	Capacity       int      `json:"capacity"`
	CoinReward     int64    `json:"coin_reward"`
	CheckinRadiusM float64  `json:"checkin_radius_m"`
	Tags           []string `json:"tags"`
	ImageURL       string   `json:"image_url,omitempty"`
}

type VisitResponse struct {
	ID           string  `json:"id"`
	TargetType   string  `json:"target_type"`
	TargetID     string  `json:"target_id"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	DistanceM    float64 `json:"distance_m"`
	CoinsAwarded int64   `json:"coins_awarded"`
	CreatedAt    string  `json:"created_at"`
}

type CheckInResponse struct {
	Visit   VisitResponse `json:"visit"`
	Balance int64         `json:"balance"`
}

type PhotoUploadResponse struct {
	PhotoID   string            `json:"photo_id"`
	ObjectKey string            `json:"object_key"`
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt string            `json:"expires_at"`
}
