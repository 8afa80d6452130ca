package emergency_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"amazonia/internal/repositories"
	"amazonia/internal/services"
)

var Module = fx.Provide(provideEmergencyRepo, services.NewEmergencyService)

func provideEmergencyRepo(db *gorm.DB) repositories.EmergencyRepository {
	return repositories.NewEmergencyRepository(db)
}
