package assistant_fx

import (
	"context"

	"go.uber.org/fx"

	"amazonia/internal/config"
	"amazonia/internal/services"
	"amazonia/pkg/assistant"
	"amazonia/pkg/logging"
)

var Module = fx.Provide(provideAssistant)

type assistantOut struct {
	fx.Out

	Replier  services.Replier
	Guard    *assistant.Guarded
	Embedder assistant.Embedder
}

func provideAssistant(cfg *config.Config) (assistantOut, error) {
	primary, embedder, err := assistant.New(context.Background(), assistant.Config{
		Provider:       cfg.Assistant.Provider,
		APIKey:         cfg.Assistant.APIKey,
		Model:          cfg.Assistant.Model,
		EmbeddingModel: cfg.Assistant.EmbeddingModel,
	})
	if err != nil {
		return assistantOut{}, err
	}
	logging.Info().Str("provider", primary.Name()).Msg("chat assistant ready")

	guard := assistant.NewGuarded(primary, cfg.Assistant.Timeout)
	return assistantOut{
		Replier:  guard,
		Guard:    guard,
		Embedder: embedder,
	}, nil
}
