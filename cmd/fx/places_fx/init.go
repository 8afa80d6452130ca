package places_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"amazonia/internal/config"
	"amazonia/internal/infra"
	"amazonia/internal/repositories"
	"amazonia/internal/services"
	"amazonia/pkg/assistant"
)

var Module = fx.Provide(
	providePlaceRepo,
	provideEmbeddingRepo,
	providePlaceService,
	providePhotoService,
)

func providePlaceRepo(db *gorm.DB) repositories.PlaceRepository {
	return repositories.NewPlaceRepository(db)
}

func provideEmbeddingRepo(db *gorm.DB) repositories.PlaceEmbeddingRepository {
	return repositories.NewPlaceEmbeddingRepository(db)
}

func providePlaceService(
	places repositories.PlaceRepository,
	embeddings repositories.PlaceEmbeddingRepository,
	embedder assistant.Embedder,
	visits repositories.VisitRepository,
	alerts services.AlertNotifier,
	cfg *config.Config,
) services.PlaceServiceInterface {
	return services.NewPlaceService(places, embeddings, embedder, visits, alerts, cfg)
}

func providePhotoService(visits repositories.VisitRepository, storage infra.ObjectStorage) services.PhotoServiceInterface {
	return services.NewPhotoService(visits, storage)
}
