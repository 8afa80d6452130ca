package realtime_fx

import (
	"context"

	"go.uber.org/fx"

	"amazonia/internal/services"
	"amazonia/pkg/realtime"
)

var Module = fx.Provide(
	provideHub,
	func(hub *realtime.Hub) services.Pusher { return hub },
)

func provideHub(lc fx.Lifecycle) *realtime.Hub {
	hub := realtime.NewHub()
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			hub.Close()
			return nil
		},
	})
	return hub
}
