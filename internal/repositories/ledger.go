package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"amazonia/internal/models/db_models"
	"amazonia/pkg/utils"
)

// applyCoins moves a user's balance by amount and appends the ledger row.
// It must run inside tx. The WHERE guard keeps balances non-negative even
// without a prior row lock.
func applyCoins(tx *gorm.DB, userID uuid.UUID, amount int64, reason string, ref *uuid.UUID) (int64, error) {
	if amount == 0 {
		return currentBalance(tx, userID)
	}

	res := tx.Model(&db_models.User{}).
		Where("id = ? AND coin_balance + ? >= 0", userID, amount).
		Update("coin_balance", gorm.Expr("coin_balance + ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		if amount < 0 {
			return 0, utils.ErrInsufficientCoins
		}
		return 0, utils.ErrAccountNotFound
	}

	balance, err := currentBalance(tx, userID)
	if err != nil {
		return 0, err
	}

	entry := &db_models.CoinTransaction{
		UserID:       userID,
		Amount:       amount,
		Reason:       reason,
		ReferenceID:  ref,
		BalanceAfter: balance,
	}
	if err := tx.Create(entry).Error; err != nil {
		return 0, err
	}
	return balance, nil
}

func currentBalance(tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var balance int64
	err := tx.Model(&db_models.User{}).
		Select("coin_balance").
		Where("id = ?", userID).
		Scan(&balance).Error
	return balance, err
}

// lockUser serialises concurrent balance-affecting work for one user.
func lockUser(tx *gorm.DB, userID uuid.UUID) (*db_models.User, error) {
	var user db_models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", userID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, utils.ErrAccountNotFound
		}
		return nil, err
	}
	return &user, nil
}

func isNotFound(err error) bool {
	return err != nil && errors.Is(err, gorm.ErrRecordNotFound)
}

func page(p utils.Pagination) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// CoinRepository reads the AmaCoins ledger.
type CoinRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, p utils.Pagination) ([]db_models.CoinTransaction, int64, error)
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
}

type coinRepository struct {
	db *gorm.DB
}

func NewCoinRepository(db *gorm.DB) CoinRepository {
	return &coinRepository{db: db}
}

func (r *coinRepository) ListByUser(ctx context.Context, userID uuid.UUID, p utils.Pagination) ([]db_models.CoinTransaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&db_models.CoinTransaction{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []db_models.CoinTransaction
	if err := q.Order("created_at DESC").Scopes(page(p)).Find(&txs).Error; err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

func (r *coinRepository) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	return currentBalance(r.db.WithContext(ctx), userID)
}
