package connectivity_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"amazonia/internal/config"
	"amazonia/internal/repositories"
	"amazonia/internal/services"
)

var Module = fx.Provide(provideSpotRepo, provideConnectivityService)

func provideSpotRepo(db *gorm.DB) repositories.ConnectivityRepository {
	return repositories.NewConnectivityRepository(db)
}

func provideConnectivityService(
	spots repositories.ConnectivityRepository,
	alerts services.AlertNotifier,
	cfg *config.Config,
) services.ConnectivityServiceInterface {
	return services.NewConnectivityService(spots, alerts, cfg)
}
