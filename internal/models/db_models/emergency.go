package db_models

var EmergencyTypes = []string{"hospital", "police", "fire", "pharmacy", "ambulance", "civil_defense"}

type EmergencyService struct {
	BaseModel
	Name      string `gorm:"not null"`
	Type      string `gorm:"not null;index"`
	Phone     string
	Address   string
	Latitude  float64
	Longitude float64
	Open24h   bool `gorm:"column:open_24h"`
}
