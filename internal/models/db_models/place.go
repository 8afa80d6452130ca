package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

type Place struct {
	BaseModel
	Name           string `gorm:"not null"`
	Description    string
	Category       string `gorm:"index"`
	Address        string
	Latitude       float64
	Longitude      float64
	OpeningHours   string
	CoinReward     int64
	CheckinRadiusM float64
	Images         pq.StringArray `gorm:"type:text[]"`
}

// EmbeddingDimensions matches text-embedding-3-small and the hash fallback.
const EmbeddingDimensions = 1536

type PlaceEmbedding struct {
	PlaceID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Content   string          `gorm:"type:text"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
	UpdatedAt int64           `gorm:"autoUpdateTime"`
}
