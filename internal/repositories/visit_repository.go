package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"amazonia/internal/models/db_models"
	"amazonia/pkg/utils"
)

// CheckInInput is a geofence-approved check-in waiting for its
// transactional gates.
type CheckInInput struct {
	UserID    uuid.UUID
	TargetID  uuid.UUID
	Latitude  float64
	Longitude float64
	DistanceM float64
	// Cooldown applies to place check-ins only.
	Cooldown time.Duration
}

type VisitRepository interface {
	// CheckInEvent locks the event row, enforces one visit per user and the
	// capacity, inserts the visit and credits the event reward.
	CheckInEvent(ctx context.Context, in CheckInInput) (*db_models.Visit, int64, error)
	// CheckInPlace enforces the per-place cooldown under a lock on the
	// user row, inserts the visit and credits the place reward.
	CheckInPlace(ctx context.Context, in CheckInInput) (*db_models.Visit, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Visit, error)
	ListByUser(ctx context.Context, userID uuid.UUID, p utils.Pagination) ([]db_models.Visit, int64, error)
	CreatePhoto(ctx context.Context, photo *db_models.Photo) error
}

type visitRepository struct {
	db *gorm.DB
}

func NewVisitRepository(db *gorm.DB) VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) CheckInEvent(ctx context.Context, in CheckInInput) (*db_models.Visit, int64, error) {
	var (
		visit   *db_models.Visit
		balance int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event db_models.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, "id = ?", in.TargetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrEventNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&db_models.Visit{}).
			Where("user_id = ? AND event_id = ?", in.UserID, event.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return utils.ErrAlreadyCheckedIn
		}

		if event.Capacity > 0 {
			var taken int64
			if err := tx.Model(&db_models.Visit{}).Where("event_id = ?", event.ID).Count(&taken).Error; err != nil {
				return err
			}
			if taken >= int64(event.Capacity) {
				return utils.ErrEventFull
			}
		}

		eventID := event.ID
		visit = &db_models.Visit{
			UserID:       in.UserID,
			TargetType:   db_models.VisitTargetEvent,
			TargetID:     event.ID,
			EventID:      &eventID,
			Latitude:     in.Latitude,
			Longitude:    in.Longitude,
			DistanceM:    in.DistanceM,
			CoinsAwarded: event.CoinReward,
		}
		if err := tx.Create(visit).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ErrAlreadyCheckedIn
			}
			return err
		}

		var err error
		balance, err = applyCoins(tx, in.UserID, event.CoinReward, db_models.CoinReasonEventCheckin, &visit.ID)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return visit, balance, nil
}

func (r *visitRepository) CheckInPlace(ctx context.Context, in CheckInInput) (*db_models.Visit, int64, error) {
	var (
		visit   *db_models.Visit
		balance int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var place db_models.Place
		if err := tx.First(&place, "id = ?", in.TargetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrPlaceNotFound
			}
			return err
		}

		if _, err := lockUser(tx, in.UserID); err != nil {
			return err
		}

		since := time.Now().Add(-in.Cooldown).Unix()
		var recent int64
		if err := tx.Model(&db_models.Visit{}).
			Where("user_id = ? AND target_type = ? AND target_id = ? AND created_at > ?",
				in.UserID, db_models.VisitTargetPlace, place.ID, since).
			Count(&recent).Error; err != nil {
			return err
		}
		if recent > 0 {
			return utils.ErrCheckinCooldown
		}

		visit = &db_models.Visit{
			UserID:       in.UserID,
			TargetType:   db_models.VisitTargetPlace,
			TargetID:     place.ID,
			Latitude:     in.Latitude,
			Longitude:    in.Longitude,
			DistanceM:    in.DistanceM,
			CoinsAwarded: place.CoinReward,
		}
		if err := tx.Create(visit).Error; err != nil {
			return err
		}

		var err error
		balance, err = applyCoins(tx, in.UserID, place.CoinReward, db_models.CoinReasonPlaceCheckin, &visit.ID)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return visit, balance, nil
}

func (r *visitRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Visit, error) {
	var visit db_models.Visit
	err := r.db.WithContext(ctx).First(&visit, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &visit, nil
}

func (r *visitRepository) ListByUser(ctx context.Context, userID uuid.UUID, p utils.Pagination) ([]db_models.Visit, int64, error) {
	q := r.db.WithContext(ctx).Model(&db_models.Visit{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var visits []db_models.Visit
	if err := q.Order("created_at DESC").Scopes(page(p)).Find(&visits).Error; err != nil {
		return nil, 0, err
	}
	return visits, total, nil
}

func (r *visitRepository) CreatePhoto(ctx context.Context, photo *db_models.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}
