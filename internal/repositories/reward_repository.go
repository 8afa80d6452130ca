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

type RewardRepository interface {
	Create(ctx context.Context, reward *db_models.Reward) error
	Update(ctx context.Context, reward *db_models.Reward) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Reward, error)
	List(ctx context.Context, activeOnly bool, p utils.Pagination) ([]db_models.Reward, int64, error)

	// Redeem debits the user and takes one unit of stock in one transaction.
	Redeem(ctx context.Context, userID, rewardID uuid.UUID, code string) (*db_models.Redemption, int64, error)
	FindRedemption(ctx context.Context, id uuid.UUID) (*db_models.Redemption, error)
	Claim(ctx context.Context, id uuid.UUID) (*db_models.Redemption, error)
	// Cancel refunds a pending redemption and restores stock.
	Cancel(ctx context.Context, id uuid.UUID) (*db_models.Redemption, int64, error)
	ListRedemptionsByUser(ctx context.Context, userID uuid.UUID, p utils.Pagination) ([]db_models.Redemption, int64, error)
}

type rewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) RewardRepository {
	return &rewardRepository{db: db}
}

func (r *rewardRepository) Create(ctx context.Context, reward *db_models.Reward) error {
	return r.db.WithContext(ctx).Create(reward).Error
}

func (r *rewardRepository) Update(ctx context.Context, reward *db_models.Reward) error {
	res := r.db.WithContext(ctx).Save(reward)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrRewardNotFound
	}
	return nil
}

func (r *rewardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&db_models.Reward{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrRewardNotFound
	}
	return nil
}

func (r *rewardRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Reward, error) {
	var reward db_models.Reward
	err := r.db.WithContext(ctx).First(&reward, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reward, nil
}

func (r *rewardRepository) List(ctx context.Context, activeOnly bool, p utils.Pagination) ([]db_models.Reward, int64, error) {
	q := r.db.WithContext(ctx).Model(&db_models.Reward{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rewards []db_models.Reward
	if err := q.Order("cost_coins ASC").Scopes(page(p)).Find(&rewards).Error; err != nil {
		return nil, 0, err
	}
	return rewards, total, nil
}

func (r *rewardRepository) Redeem(ctx context.Context, userID, rewardID uuid.UUID, code string) (*db_models.Redemption, int64, error) {
	var (
		redemption *db_models.Redemption
		balance    int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reward db_models.Reward
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&reward, "id = ?", rewardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrRewardNotFound
			}
			return err
		}
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		switch {
		case !reward.Active:
			return utils.ErrRewardUnavailable
		case reward.Stock <= 0:
			return utils.ErrOutOfStock
		case user.CoinBalance < reward.CostCoins:
			return utils.ErrInsufficientCoins
		}

		if err := tx.Model(&db_models.Reward{}).
			Where("id = ?", reward.ID).
			Update("stock", gorm.Expr("stock - 1")).Error; err != nil {
			return err
		}

		redemption = &db_models.Redemption{
			UserID:    userID,
			RewardID:  reward.ID,
			CostCoins: reward.CostCoins,
			Code:      code,
			Status:    db_models.RedemptionPending,
		}
		if err := tx.Create(redemption).Error; err != nil {
			return err
		}
		redemption.Reward = reward

		balance, err = applyCoins(tx, userID, -reward.CostCoins, db_models.CoinReasonRedemption, &redemption.ID)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return redemption, balance, nil
}

func (r *rewardRepository) FindRedemption(ctx context.Context, id uuid.UUID) (*db_models.Redemption, error) {
	var redemption db_models.Redemption
	err := r.db.WithContext(ctx).Preload("Reward").First(&redemption, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &redemption, nil
}

func (r *rewardRepository) Claim(ctx context.Context, id uuid.UUID) (*db_models.Redemption, error) {
	var redemption db_models.Redemption

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&redemption, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrRedemptionNotFound
			}
			return err
		}
		if redemption.Status != db_models.RedemptionPending {
			return utils.ErrRedemptionNotOpen
		}

		now := time.Now()
		redemption.Status = db_models.RedemptionClaimed
		redemption.ClaimedAt = &now
		return tx.Model(&redemption).Updates(map[string]interface{}{
			"status":     redemption.Status,
			"claimed_at": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}

func (r *rewardRepository) Cancel(ctx context.Context, id uuid.UUID) (*db_models.Redemption, int64, error) {
	var (
		redemption db_models.Redemption
		balance    int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&redemption, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrRedemptionNotFound
			}
			return err
		}
		if redemption.Status != db_models.RedemptionPending {
			return utils.ErrRedemptionNotOpen
		}

		now := time.Now()
		redemption.Status = db_models.RedemptionCancelled
		redemption.CancelledAt = &now
		if err := tx.Model(&redemption).Updates(map[string]interface{}{
			"status":       redemption.Status,
			"cancelled_at": now,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&db_models.Reward{}).
			Where("id = ?", redemption.RewardID).
			Update("stock", gorm.Expr("stock + 1")).Error; err != nil {
			return err
		}

		var err error
		balance, err = applyCoins(tx, redemption.UserID, redemption.CostCoins, db_models.CoinReasonRefund, &redemption.ID)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return &redemption, balance, nil
}

func (r *rewardRepository) ListRedemptionsByUser(ctx context.Context, userID uuid.UUID, p utils.Pagination) ([]db_models.Redemption, int64, error) {
	q := r.db.WithContext(ctx).Model(&db_models.Redemption{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var redemptions []db_models.Redemption
	if err := q.Preload("Reward").Order("created_at DESC").Scopes(page(p)).Find(&redemptions).Error; err != nil {
		return nil, 0, err
	}
	return redemptions, total, nil
}
