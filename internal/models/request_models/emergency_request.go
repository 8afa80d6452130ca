package request_models

type EmergencyServiceRequest struct {
	Name      string  `json:"name" binding:"required,notblank,max=200"`
	Type      string  `json:"type" binding:"required,oneof=hospital police fire pharmacy ambulance civil_defense"`
	Phone     string  `json:"phone" binding:"required,max=30"`
	Address   string  `json:"address" binding:"max=300"`
	Latitude  float64 `json:"latitude" binding:"latitude"`
	Longitude float64 `json:"longitude" binding:"longitude"`
	Open24h   bool    `json:"open_24h"`
}
