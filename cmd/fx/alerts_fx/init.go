package alerts_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"amazonia/internal/config"
	"amazonia/internal/repositories"
	"amazonia/internal/services"
)

var Module = fx.Provide(
	provideAlertRepo,
	provideAlertService,
	func(s services.AlertServiceInterface) services.AlertNotifier { return s },
)

func provideAlertRepo(db *gorm.DB) repositories.AlertRepository {
	return repositories.NewAlertRepository(db)
}

func provideAlertService(
	alerts repositories.AlertRepository,
	users repositories.UserRepository,
	pusher services.Pusher,
	mail services.IMailService,
	cfg *config.Config,
) services.AlertServiceInterface {
	return services.NewAlertService(alerts, users, pusher, mail, cfg.Mail.AppBaseURL)
}
