package db_models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RedemptionPending   = "pending"
	RedemptionClaimed   = "claimed"
	RedemptionCancelled = "cancelled"
)

type Reward struct {
	BaseModel
	Title       string `gorm:"not null"`
	Description string
	CostCoins   int64 `gorm:"not null"`
	Stock       int   `gorm:"not null;check:chk_rewards_stock,stock >= 0"`
	ImageURL    string
	Active      bool `gorm:"not null;index"`
}

type Redemption struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	RewardID    uuid.UUID `gorm:"type:uuid;index;not null"`
	CostCoins   int64     `gorm:"not null"`
	Code        string    `gorm:"uniqueIndex;not null"`
	Status      string    `gorm:"not null;index"`
	ClaimedAt   *time.Time
	CancelledAt *time.Time

	Reward Reward `gorm:"foreignKey:RewardID"`
}
