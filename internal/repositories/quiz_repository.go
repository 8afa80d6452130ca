package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"amazonia/internal/models/db_models"
	"amazonia/pkg/utils"
)

type QuizRepository interface {
	Create(ctx context.Context, quiz *db_models.Quiz) error
	Update(ctx context.Context, quiz *db_models.Quiz) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Quiz, error)
	List(ctx context.Context, category string, p utils.Pagination) ([]db_models.Quiz, int64, error)
	// RecordAttempt stores a scored attempt. When it passed and the user has
	// no earlier passing attempt with coins, reward is credited and the
	// attempt's CoinsAwarded set. The returned balance is the user's current one.
	RecordAttempt(ctx context.Context, attempt *db_models.QuizAttempt, reward int64) (int64, error)
	ListAttemptsByUser(ctx context.Context, userID uuid.UUID, p utils.Pagination) ([]db_models.QuizAttempt, int64, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(ctx context.Context, quiz *db_models.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepository) Update(ctx context.Context, quiz *db_models.Quiz) error {
	res := r.db.WithContext(ctx).Save(quiz)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrQuizNotFound
	}
	return nil
}

func (r *quizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&db_models.Quiz{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrQuizNotFound
	}
	return nil
}

func (r *quizRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Quiz, error) {
	var quiz db_models.Quiz
	err := r.db.WithContext(ctx).First(&quiz, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) List(ctx context.Context, category string, p utils.Pagination) ([]db_models.Quiz, int64, error) {
	q := r.db.WithContext(ctx).Model(&db_models.Quiz{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var quizzes []db_models.Quiz
	if err := q.Order("created_at DESC").Scopes(page(p)).Find(&quizzes).Error; err != nil {
		return nil, 0, err
	}
	return quizzes, total, nil
}

func (r *quizRepository) RecordAttempt(ctx context.Context, attempt *db_models.QuizAttempt, reward int64) (int64, error) {
	var balance int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, attempt.UserID)
		if err != nil {
			return err
		}
		balance = user.CoinBalance

		attempt.CoinsAwarded = 0
		if attempt.Passed && reward > 0 {
			var rewarded int64
			if err := tx.Model(&db_models.QuizAttempt{}).
				Where("user_id = ? AND quiz_id = ? AND passed AND coins_awarded > 0", attempt.UserID, attempt.QuizID).
				Count(&rewarded).Error; err != nil {
				return err
			}
			if rewarded == 0 {
				attempt.CoinsAwarded = reward
			}
		}

		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		if attempt.CoinsAwarded == 0 {
			return nil
		}

		balance, err = applyCoins(tx, attempt.UserID, attempt.CoinsAwarded, db_models.CoinReasonQuiz, &attempt.ID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *quizRepository) ListAttemptsByUser(ctx context.Context, userID uuid.UUID, p utils.Pagination) ([]db_models.QuizAttempt, int64, error) {
	q := r.db.WithContext(ctx).Model(&db_models.QuizAttempt{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var attempts []db_models.QuizAttempt
	if err := q.Preload("Quiz").Order("created_at DESC").Scopes(page(p)).Find(&attempts).Error; err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}
