package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"amazonia/internal/models/db_models"
	"amazonia/pkg/utils"
)

type AlertRepository interface {
	Create(ctx context.Context, alert *db_models.UserAlert) error
	CreateBatch(ctx context.Context, alerts []db_models.UserAlert) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, p utils.Pagination) ([]db_models.UserAlert, int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *db_models.UserAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *alertRepository) CreateBatch(ctx context.Context, alerts []db_models.UserAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(alerts, 500).Error
}

func (r *alertRepository) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, p utils.Pagination) ([]db_models.UserAlert, int64, error) {
	q := r.db.WithContext(ctx).Model(&db_models.UserAlert{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var alerts []db_models.UserAlert
	if err := q.Order("created_at DESC").Scopes(page(p)).Find(&alerts).Error; err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

func (r *alertRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&db_models.UserAlert{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", gorm.Expr("COALESCE(read_at, ?)", time.Now()))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrAlertNotFound
	}
	return nil
}

func (r *alertRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&db_models.UserAlert{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now())
	return res.RowsAffected, res.Error
}

func (r *alertRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&db_models.UserAlert{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrAlertNotFound
	}
	return nil
}
