package request_models

type PlaceRequest struct {
	Name           string   `json:"name" binding:"required,notblank,max=200"`
	Description    string   `json:"description" binding:"max=5000"`
	Category       string   `json:"category" binding:"max=50"`
	Address        string   `json:"address" binding:"max=300"`
	Latitude       float64  `json:"latitude" binding:"latitude"`
	Longitude      float64  `json:"longitude" binding:"longitude"`
	OpeningHours   string   `json:"opening_hours" binding:"max=200"`
	CoinReward     int64    `json:"coin_reward" binding:"min=0"`
	CheckinRadiusM float64  `json:"checkin_radius_m" binding:"min=0"`
	Images         []string `json:"images" binding:"max=10,dive,url"`
}

// NearbyFilter is shared by place, connectivity and emergency listings.
// Lat/Lon are both set or both nil.
type NearbyFilter struct {
	Category string
	Query    string
	Lat      *float64
	Lon      *float64
	RadiusM  float64
}

func (f NearbyFilter) HasOrigin() bool {
	return f.Lat != nil && f.Lon != nil
}
