package infra

import (
	"fmt"

	"gorm.io/gorm"

	"amazonia/internal/models/db_models"
	"amazonia/pkg/logging"
)

// Models lists every table owned by the API, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&db_models.User{},
		&db_models.RefreshToken{},
		&db_models.Event{},
		&db_models.Place{},
		&db_models.PlaceEmbedding{},
		&db_models.Visit{},
		&db_models.Photo{},
		&db_models.Quiz{},
		&db_models.QuizAttempt{},
		&db_models.Reward{},
		&db_models.Redemption{},
		&db_models.CoinTransaction{},
		&db_models.ConnectivitySpot{},
		&db_models.ConnectivityReport{},
		&db_models.EmergencyService{},
		&db_models.ChatMessage{},
		&db_models.UserAlert{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logging.Info().Int("tables", len(Models())).Msg("database migrated")
	return nil
}
