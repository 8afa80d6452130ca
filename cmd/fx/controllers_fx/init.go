package controllers_fx

import (
	"go.uber.org/fx"

	"amazonia/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAuthController),
	fx.Provide(controllers.NewUserController),
	fx.Provide(controllers.NewEventController),
	fx.Provide(controllers.NewPlaceController),
	fx.Provide(controllers.NewQuizController),
	fx.Provide(controllers.NewRewardController),
	fx.Provide(controllers.NewConnectivityController),
	fx.Provide(controllers.NewEmergencyController),
	fx.Provide(controllers.NewChatController),
	fx.Provide(controllers.NewAlertController),
	fx.Provide(controllers.NewRealtimeController),
	fx.Provide(controllers.NewDashboardController),
)
