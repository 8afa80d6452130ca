package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"

	mem "amazonia/pkg/memcache"
)

const sweepInterval = 5 * time.Minute

var Module = fx.Provide(provideResetTokens)

func provideResetTokens(lc fx.Lifecycle) mem.ResetTokenStore {
	store := mem.NewResetTokens()
	stop := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go store.RunJanitor(sweepInterval, stop)
			return nil
		},
		OnStop: func(context.Context) error {
			close(stop)
			return nil
		},
	})
	return store
}
