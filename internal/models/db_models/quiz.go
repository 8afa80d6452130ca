package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizQuestion struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

type Quiz struct {
	BaseModel
	Title       string `gorm:"not null"`
	Description string
	Category    string `gorm:"index"`
	CoinReward  int64
	PassPercent int
	Questions   datatypes.JSONSlice[QuizQuestion] `gorm:"type:jsonb"`
}

type QuizAttempt struct {
	BaseModel
	UserID       uuid.UUID                         `gorm:"type:uuid;index;not null"`
	QuizID       uuid.UUID                         `gorm:"type:uuid;index;not null"`
	Answers      datatypes.JSONType[map[string]int] `gorm:"type:jsonb"`
	Correct      int
	Total        int
	ScorePercent int
	Passed       bool
	CoinsAwarded int64

	Quiz Quiz `gorm:"foreignKey:QuizID"`
}
