package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"amazonia/internal/models/db_models"
)

type PlaceEmbeddingRepository interface {
	Upsert(ctx context.Context, embedding *db_models.PlaceEmbedding) error
	// Nearest orders by cosine distance to vector.
	Nearest(ctx context.Context, vector pgvector.Vector, limit int) ([]uuid.UUID, error)
}

type placeEmbeddingRepository struct {
	db *gorm.DB
}

func NewPlaceEmbeddingRepository(db *gorm.DB) PlaceEmbeddingRepository {
	return &placeEmbeddingRepository{db: db}
}

func (r *placeEmbeddingRepository) Upsert(ctx context.Context, embedding *db_models.PlaceEmbedding) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "place_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "embedding", "updated_at"}),
	}).Create(embedding).Error
}

func (r *placeEmbeddingRepository) Nearest(ctx context.Context, vector pgvector.Vector, limit int) ([]uuid.UUID, error) {
	var rows []struct {
		PlaceID uuid.UUID
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT pe.place_id
		FROM place_embeddings pe
		JOIN places p ON p.id = pe.place_id AND p.deleted_at IS NULL
		ORDER BY pe.embedding <=> ?
		LIMIT ?`, vector, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PlaceID)
	}
	return ids, nil
}
