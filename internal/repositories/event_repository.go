package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/pkg/utils"
)

type EventRepository interface {
	Create(ctx context.Context, event *db_models.Event) error
	Update(ctx context.Context, event *db_models.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Event, error)
	List(ctx context.Context, filter request_models.EventFilter, p utils.Pagination) ([]db_models.Event, int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *db_models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Update(ctx context.Context, event *db_models.Event) error {
	res := r.db.WithContext(ctx).Save(event)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&db_models.Event{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Event, error) {
	var event db_models.Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, filter request_models.EventFilter, p utils.Pagination) ([]db_models.Event, int64, error) {
	q := r.db.WithContext(ctx).Model(&db_models.Event{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if s := strings.TrimSpace(filter.Query); s != "" {
		like := "%" + escapeLike(s) + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ? OR location_name ILIKE ?", like, like, like)
	}
	if filter.Upcoming {
		q = q.Where("ends_at > ?", time.Now())
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var events []db_models.Event
	if err := q.Order("starts_at ASC").Scopes(page(p)).Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
