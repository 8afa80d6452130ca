package db_models

import (
	"time"

	"github.com/lib/pq"
)

type Event struct {
	BaseModel
	Title        string `gorm:"not null"`
	Description  string
	Category     string `gorm:"index"`
	LocationName string
	Latitude     float64
	Longitude    float64
	StartsAt     time.Time `gorm:"index;not null"`
	EndsAt       time.Time `gorm:"not null"`
	// Capacity of 0 means unlimited.
	Capacity       int
	CoinReward     int64
	CheckinRadiusM float64
	Tags           pq.StringArray `gorm:"type:text[]"`
	ImageURL       string
}
