package db_models

import "github.com/google/uuid"

const (
	VisitTargetEvent = "event"
	VisitTargetPlace = "place"
)

// Visit is a successful geofenced check-in. EventID is only set for event
// visits so the unique index allows many place visits per user.
type Visit struct {
	BaseModel
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_visits_user_event"`
	TargetType   string     `gorm:"not null"`
	TargetID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	EventID      *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_visits_user_event"`
	Latitude     float64
	Longitude    float64
	DistanceM    float64
	CoinsAwarded int64

	Photos []Photo
}
