package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"amazonia/internal/models/db_models"
	"amazonia/pkg/utils"
)

type EmergencyRepository interface {
	Create(ctx context.Context, service *db_models.EmergencyService) error
	Update(ctx context.Context, service *db_models.EmergencyService) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.EmergencyService, error)
	List(ctx context.Context, serviceType string, p utils.Pagination) ([]db_models.EmergencyService, int64, error)
	// All returns every service of serviceType (any type when empty).
	All(ctx context.Context, serviceType string) ([]db_models.EmergencyService, error)
}

type emergencyRepository struct {
	db *gorm.DB
}

func NewEmergencyRepository(db *gorm.DB) EmergencyRepository {
	return &emergencyRepository{db: db}
}

func (r *emergencyRepository) Create(ctx context.Context, service *db_models.EmergencyService) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *emergencyRepository) Update(ctx context.Context, service *db_models.EmergencyService) error {
	res := r.db.WithContext(ctx).Save(service)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrEmergencyNotFound
	}
	return nil
}

func (r *emergencyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&db_models.EmergencyService{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrEmergencyNotFound
	}
	return nil
}

func (r *emergencyRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.EmergencyService, error) {
	var service db_models.EmergencyService
	err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *emergencyRepository) byType(ctx context.Context, serviceType string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&db_models.EmergencyService{})
	if serviceType != "" {
		q = q.Where("type = ?", serviceType)
	}
	return q
}

func (r *emergencyRepository) List(ctx context.Context, serviceType string, p utils.Pagination) ([]db_models.EmergencyService, int64, error) {
	q := r.byType(ctx, serviceType).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var services []db_models.EmergencyService
	if err := q.Order("name ASC").Scopes(page(p)).Find(&services).Error; err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

func (r *emergencyRepository) All(ctx context.Context, serviceType string) ([]db_models.EmergencyService, error) {
	var services []db_models.EmergencyService
	err := r.byType(ctx, serviceType).Limit(maxNearbyCandidates).Find(&services).Error
	return services, err
}
