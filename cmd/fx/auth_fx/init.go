package auth_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"amazonia/internal/config"
	"amazonia/internal/repositories"
	"amazonia/internal/services"
	mem "amazonia/pkg/memcache"
	"amazonia/pkg/utils"
)

var Module = fx.Provide(
	provideTokenManager,
	provideUserRepo,
	provideRefreshTokenRepo,
	provideCoinRepo,
	provideVisitRepo,
	provideAuthService,
	provideUserService,
)

func provideTokenManager(cfg *config.Config) *utils.TokenManager {
	return utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL)
}

func provideUserRepo(db *gorm.DB) repositories.UserRepository {
	return repositories.NewUserRepository(db)
}

func provideRefreshTokenRepo(db *gorm.DB) repositories.RefreshTokenRepository {
	return repositories.NewRefreshTokenRepository(db)
}

func provideCoinRepo(db *gorm.DB) repositories.CoinRepository {
	return repositories.NewCoinRepository(db)
}

func provideVisitRepo(db *gorm.DB) repositories.VisitRepository {
	return repositories.NewVisitRepository(db)
}

func provideAuthService(
	users repositories.UserRepository,
	tokens repositories.RefreshTokenRepository,
	jwt *utils.TokenManager,
	cfg *config.Config,
	resetCodes mem.ResetTokenStore,
	mail services.IMailService,
) services.AuthServiceInterface {
	return services.NewAuthService(users, tokens, jwt, cfg, resetCodes, mail)
}

func provideUserService(
	users repositories.UserRepository,
	coins repositories.CoinRepository,
	visits repositories.VisitRepository,
	rewards repositories.RewardRepository,
	quizzes repositories.QuizRepository,
) services.UserServiceInterface {
	return services.NewUserService(users, coins, visits, rewards, quizzes)
}
