package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/pkg/utils"
)

// SpotRewardRules bound what one user can earn from mapping connectivity.
type SpotRewardRules struct {
	Coins int64
	// Cooldown spaces out a user's reports on the same spot. Creating the
	// spot counts as its creator's first report.
	Cooldown time.Duration
	// DailyCap limits rewarded contributions of this kind per user over the
	// last 24 hours. Zero means no cap.
	DailyCap int
}

type ConnectivityRepository interface {
	// CreateSpot stores a crowdsourced spot and credits its reporter within
	// the daily cap. It returns the coins actually awarded.
	CreateSpot(ctx context.Context, spot *db_models.ConnectivitySpot, rules SpotRewardRules) (int64, error)
	FindSpot(ctx context.Context, id uuid.UUID) (*db_models.ConnectivitySpot, error)
	List(ctx context.Context, freeOnly bool, p utils.Pagination) ([]db_models.ConnectivitySpot, int64, error)
	Nearby(ctx context.Context, filter request_models.NearbyFilter, freeOnly bool) ([]db_models.ConnectivitySpot, error)
	// AddReport updates the spot's rolling quality under a row lock. Reports
	// inside the cooldown are rejected; the creator is never paid for
	// rating their own spot.
	AddReport(ctx context.Context, report *db_models.ConnectivityReport, rules SpotRewardRules) (*db_models.ConnectivitySpot, int64, error)
	DeleteSpot(ctx context.Context, id uuid.UUID) error
}

type connectivityRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewConnectivityRepository(db *gorm.DB) ConnectivityRepository {
	return &connectivityRepository{db: db, now: time.Now}
}

func (r *connectivityRepository) CreateSpot(ctx context.Context, spot *db_models.ConnectivitySpot, rules SpotRewardRules) (int64, error) {
	var awarded int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if spot.ReportedBy != nil {
			if _, err := lockUser(tx, *spot.ReportedBy); err != nil {
				return err
			}
		}
		if err := tx.Create(spot).Error; err != nil {
			return err
		}
		if spot.ReportedBy == nil || rules.Coins <= 0 {
			return nil
		}

		rewarded, err := rewardedSince(tx, *spot.ReportedBy, db_models.CoinReasonConnectivitySpot, r.now().Add(-24*time.Hour))
		if err != nil {
			return err
		}
		if capReached(rewarded, rules.DailyCap) {
			return nil
		}
		if _, err := applyCoins(tx, *spot.ReportedBy, rules.Coins, db_models.CoinReasonConnectivitySpot, &spot.ID); err != nil {
			return err
		}
		awarded = rules.Coins
		return nil
	})
	return awarded, err
}

func (r *connectivityRepository) FindSpot(ctx context.Context, id uuid.UUID) (*db_models.ConnectivitySpot, error) {
	var spot db_models.ConnectivitySpot
	err := r.db.WithContext(ctx).First(&spot, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &spot, nil
}

func (r *connectivityRepository) List(ctx context.Context, freeOnly bool, p utils.Pagination) ([]db_models.ConnectivitySpot, int64, error) {
	q := r.db.WithContext(ctx).Model(&db_models.ConnectivitySpot{})
	if freeOnly {
		q = q.Where("is_free = ?", true)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var spots []db_models.ConnectivitySpot
	if err := q.Order("quality DESC").Scopes(page(p)).Find(&spots).Error; err != nil {
		return nil, 0, err
	}
	return spots, total, nil
}

func (r *connectivityRepository) Nearby(ctx context.Context, filter request_models.NearbyFilter, freeOnly bool) ([]db_models.ConnectivitySpot, error) {
	q := r.db.WithContext(ctx).Model(&db_models.ConnectivitySpot{})
	if freeOnly {
		q = q.Where("is_free = ?", true)
	}
	q = nearestFirst(withinBox(q, filter), filter)

	var spots []db_models.ConnectivitySpot
	err := q.Limit(maxNearbyCandidates).Find(&spots).Error
	return spots, err
}

func (r *connectivityRepository) AddReport(ctx context.Context, report *db_models.ConnectivityReport, rules SpotRewardRules) (*db_models.ConnectivitySpot, int64, error) {
	var (
		spot    db_models.ConnectivitySpot
		awarded int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&spot, "id = ?", report.SpotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrSpotNotFound
			}
			return err
		}
		if _, err := lockUser(tx, report.UserID); err != nil {
			return err
		}

		now := r.now()
		if rules.Cooldown > 0 {
			since := now.Add(-rules.Cooldown).Unix()
			if isCreator(&spot, report.UserID) && spot.CreatedAt > since {
				return utils.ErrSpotReportedRecently
			}
			var recent int64
			if err := tx.Model(&db_models.ConnectivityReport{}).
				Where("spot_id = ? AND user_id = ? AND created_at > ?", spot.ID, report.UserID, since).
				Count(&recent).Error; err != nil {
				return err
			}
			if recent > 0 {
				return utils.ErrSpotReportedRecently
			}
		}

		spot.ApplyReport(report.Quality, report.DownloadMbps, report.UploadMbps)
		if err := tx.Model(&spot).Updates(map[string]interface{}{
			"quality":       spot.Quality,
			"report_count":  spot.ReportCount,
			"download_mbps": spot.DownloadMbps,
			"upload_mbps":   spot.UploadMbps,
		}).Error; err != nil {
			return err
		}
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		if rules.Coins <= 0 || isCreator(&spot, report.UserID) {
			return nil
		}

		rewarded, err := rewardedSince(tx, report.UserID, db_models.CoinReasonConnectivityReport, now.Add(-24*time.Hour))
		if err != nil {
			return err
		}
		if capReached(rewarded, rules.DailyCap) {
			return nil
		}
		if _, err := applyCoins(tx, report.UserID, rules.Coins, db_models.CoinReasonConnectivityReport, &report.ID); err != nil {
			return err
		}
		awarded = rules.Coins
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &spot, awarded, nil
}

func isCreator(spot *db_models.ConnectivitySpot, userID uuid.UUID) bool {
	return spot.ReportedBy != nil && *spot.ReportedBy == userID
}

func capReached(rewarded int64, dailyCap int) bool {
	return dailyCap > 0 && rewarded >= int64(dailyCap)
}

// rewardedSince counts the user's ledger credits for reason after since.
func rewardedSince(tx *gorm.DB, userID uuid.UUID, reason string, since time.Time) (int64, error) {
	var n int64
	err := tx.Model(&db_models.CoinTransaction{}).
		Where("user_id = ? AND reason = ? AND amount > 0 AND created_at > ?", userID, reason, since.Unix()).
		Count(&n).Error
	return n, err
}

func (r *connectivityRepository) DeleteSpot(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&db_models.ConnectivitySpot{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrSpotNotFound
	}
	return nil
}
