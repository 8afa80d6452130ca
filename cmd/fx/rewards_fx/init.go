package rewards_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"amazonia/internal/repositories"
	"amazonia/internal/services"
)

var Module = fx.Provide(provideRewardRepo, provideRewardService)

func provideRewardRepo(db *gorm.DB) repositories.RewardRepository {
	return repositories.NewRewardRepository(db)
}

func provideRewardService(rewards repositories.RewardRepository, alerts services.AlertNotifier) services.RewardServiceInterface {
	return services.NewRewardService(rewards, alerts)
}
