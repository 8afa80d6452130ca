package config_fx

import (
	"go.uber.org/fx"

	"amazonia/internal/config"
	"amazonia/pkg/logging"
)

var Module = fx.Provide(provideConfig)

func provideConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Caller: cfg.Log.Caller,
	})
	return cfg, nil
}
