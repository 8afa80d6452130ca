package chat_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"amazonia/internal/config"
	"amazonia/internal/repositories"
	"amazonia/internal/services"
	"amazonia/pkg/assistant"
)

var Module = fx.Provide(provideChatRepo, provideChatService)

func provideChatRepo(db *gorm.DB) repositories.ChatRepository {
	return repositories.NewChatRepository(db)
}

func provideChatService(
	chats repositories.ChatRepository,
	users repositories.UserRepository,
	places repositories.PlaceRepository,
	embeddings repositories.PlaceEmbeddingRepository,
	embedder assistant.Embedder,
	replier services.Replier,
	cfg *config.Config,
) services.ChatServiceInterface {
	return services.NewChatService(chats, users, places, embeddings, embedder, replier, cfg)
}
