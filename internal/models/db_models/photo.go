package db_models

import "github.com/google/uuid"

type Photo struct {
	BaseModel
	VisitID     uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	ObjectKey   string    `gorm:"uniqueIndex;not null"`
	ContentType string
}
