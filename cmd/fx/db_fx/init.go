package db_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"amazonia/internal/config"
	"amazonia/internal/infra"
	"amazonia/pkg/logging"
)

var Module = fx.Provide(provideDB)

func provideDB(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg.Database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logging.Info().Msg("closing database pool")
			infra.ClosePostgresql(db)
			return nil
		},
	})
	return db, nil
}
