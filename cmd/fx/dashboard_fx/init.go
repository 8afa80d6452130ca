package dashboard_fx

import (
	"go.uber.org/fx"

	"amazonia/internal/repositories"
	"amazonia/internal/services"
)

// Module backs the admin stats endpoint; it only reads.
var Module = fx.Provide(
	repositories.NewDashboardRepository,
	services.NewDashboardService,
)
