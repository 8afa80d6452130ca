package mail_fx

import (
	"go.uber.org/fx"

	"amazonia/internal/config"
	"amazonia/internal/services"
	"amazonia/pkg/logging"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config) services.IMailService {
	if !cfg.Mail.Enabled() {
		logging.Warn().Msg("SMTP host not configured, emails will only be logged")
	}
	return services.NewMailService(cfg)
}
