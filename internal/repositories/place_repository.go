package repositories

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/pkg/utils"
)

// maxNearbyCandidates caps rows pulled into memory for exact distance
// sorting. Rows are pre-ordered by nearestFirst so the cap drops the
// farthest ones.
const maxNearbyCandidates = 2000

type PlaceRepository interface {
	Create(ctx context.Context, place *db_models.Place) error
	Update(ctx context.Context, place *db_models.Place) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Place, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.Place, error)
	List(ctx context.Context, filter request_models.NearbyFilter, p utils.Pagination) ([]db_models.Place, int64, error)
	// Nearby returns unpaged candidates around the filter origin, limited to
	// the bounding box of RadiusM when it is set.
	Nearby(ctx context.Context, filter request_models.NearbyFilter) ([]db_models.Place, error)
}

type placeRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

func (r *placeRepository) Create(ctx context.Context, place *db_models.Place) error {
	return r.db.WithContext(ctx).Create(place).Error
}

func (r *placeRepository) Update(ctx context.Context, place *db_models.Place) error {
	res := r.db.WithContext(ctx).Save(place)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrPlaceNotFound
	}
	return nil
}

func (r *placeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&db_models.Place{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrPlaceNotFound
		}
		return tx.Delete(&db_models.PlaceEmbedding{}, "place_id = ?", id).Error
	})
}

func (r *placeRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Place, error) {
	var place db_models.Place
	err := r.db.WithContext(ctx).First(&place, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &place, nil
}

func (r *placeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.Place, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var places []db_models.Place
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&places).Error
	return places, err
}

func (r *placeRepository) filtered(ctx context.Context, filter request_models.NearbyFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&db_models.Place{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if s := strings.TrimSpace(filter.Query); s != "" {
		like := "%" + escapeLike(s) + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ? OR address ILIKE ?", like, like, like)
	}
	return q
}

func (r *placeRepository) List(ctx context.Context, filter request_models.NearbyFilter, p utils.Pagination) ([]db_models.Place, int64, error) {
	q := r.filtered(ctx, filter).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var places []db_models.Place
	if err := q.Order("name ASC").Scopes(page(p)).Find(&places).Error; err != nil {
		return nil, 0, err
	}
	return places, total, nil
}

func (r *placeRepository) Nearby(ctx context.Context, filter request_models.NearbyFilter) ([]db_models.Place, error) {
	q := nearestFirst(withinBox(r.filtered(ctx, filter), filter), filter)

	var places []db_models.Place
	err := q.Limit(maxNearbyCandidates).Find(&places).Error
	return places, err
}

// withinBox narrows q to the bounding box around the filter origin.
func withinBox(q *gorm.DB, filter request_models.NearbyFilter) *gorm.DB {
	if !filter.HasOrigin() || filter.RadiusM <= 0 {
		return q
	}
	minLat, maxLat, minLon, maxLon := utils.BoundingBox(
		utils.Coordinate{Latitude: *filter.Lat, Longitude: *filter.Lon}, filter.RadiusM)
	return q.Where("latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?", minLat, maxLat, minLon, maxLon)
}

// nearestFirst orders rows by squared degree distance from the filter
// origin, with longitude scaled by cos(latitude), so a candidate limit
// keeps the closest rows. Exact meters are computed by the caller.
func nearestFirst(q *gorm.DB, filter request_models.NearbyFilter) *gorm.DB {
	if !filter.HasOrigin() {
		return q
	}
	lat, lon := *filter.Lat, *filter.Lon
	k := math.Cos(lat * math.Pi / 180)
	return q.Order(clause.OrderBy{Expression: clause.Expr{
		SQL:  "(latitude - ?) * (latitude - ?) + (longitude - ?) * (longitude - ?) * ?",
		Vars: []interface{}{lat, lat, lon, lon, k * k},
	}})
}
