package storage_fx

import (
	"context"

	"go.uber.org/fx"

	"amazonia/internal/config"
	"amazonia/internal/infra"
	"amazonia/pkg/logging"
)

var Module = fx.Provide(provideObjectStorage)

// provideObjectStorage yields nil when no bucket is configured; photo
// uploads then answer 503.
func provideObjectStorage(cfg *config.Config) (infra.ObjectStorage, error) {
	storage, err := infra.NewObjectStorage(context.Background(), cfg.Storage)
	if err != nil {
		return nil, err
	}
	if storage == nil {
		logging.Warn().Msg("object storage not configured, photo uploads disabled")
	}
	return storage, nil
}
