package events_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"amazonia/internal/config"
	"amazonia/internal/repositories"
	"amazonia/internal/services"
)

var Module = fx.Provide(provideEventRepo, provideEventService)

func provideEventRepo(db *gorm.DB) repositories.EventRepository {
	return repositories.NewEventRepository(db)
}

func provideEventService(
	events repositories.EventRepository,
	visits repositories.VisitRepository,
	alerts services.AlertNotifier,
	cfg *config.Config,
) services.EventServiceInterface {
	return services.NewEventService(events, visits, alerts, cfg)
}
