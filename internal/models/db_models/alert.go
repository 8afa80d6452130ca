package db_models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

type UserAlert struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Title    string    `gorm:"not null"`
	Message  string
	Severity string
	Kind     string
	ReadAt   *time.Time
}
