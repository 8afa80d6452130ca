package db_models

import "github.com/google/uuid"

const (
	CoinReasonEventCheckin       = "event_checkin"
	CoinReasonPlaceCheckin       = "place_checkin"
	CoinReasonQuiz               = "quiz"
	CoinReasonConnectivitySpot   = "connectivity_spot"
	CoinReasonConnectivityReport = "connectivity_report"
	CoinReasonRedemption         = "redemption"
	CoinReasonRefund             = "refund"
)

// CoinTransaction is the AmaCoins ledger. Amount is negative for debits.
type CoinTransaction struct {
	BaseModel
	UserID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	Amount       int64      `gorm:"not null"`
	Reason       string     `gorm:"not null"`
	ReferenceID  *uuid.UUID `gorm:"type:uuid"`
	BalanceAfter int64
}
