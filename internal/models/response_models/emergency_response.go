package response_models

type EmergencyServiceResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Open24h   bool     `json:"open_24h"`
	DistanceM *float64 `json:"distance_m,omitempty"`
}

type EmergencyNumber struct {
	Number      string `json:"number"`
	Service     string `json:"service"`
	Description string `json:"description"`
}
