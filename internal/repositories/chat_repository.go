package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"amazonia/internal/models/db_models"
	"amazonia/pkg/utils"
)

type ChatSession struct {
	SessionID     uuid.UUID
	MessageCount  int64
	LastMessageAt int64
	Preview       string
}

type ChatRepository interface {
	Create(ctx context.Context, msg *db_models.ChatMessage) error
	// Recent returns the last n messages of a session, oldest first.
	Recent(ctx context.Context, userID, sessionID uuid.UUID, n int) ([]db_models.ChatMessage, error)
	History(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, p utils.Pagination) ([]db_models.ChatMessage, int64, error)
	Sessions(ctx context.Context, userID uuid.UUID) ([]ChatSession, error)
	// DeleteHistory removes one session, or all of the user's when sessionID is nil.
	DeleteHistory(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID) (int64, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, msg *db_models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *chatRepository) Recent(ctx context.Context, userID, sessionID uuid.UUID, n int) ([]db_models.ChatMessage, error) {
	var msgs []db_models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Order("created_at DESC, seq DESC").
		Limit(n).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *chatRepository) History(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, p utils.Pagination) ([]db_models.ChatMessage, int64, error) {
	q := r.db.WithContext(ctx).Model(&db_models.ChatMessage{}).Where("user_id = ?", userID)
	if sessionID != nil {
		q = q.Where("session_id = ?", *sessionID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var msgs []db_models.ChatMessage
	if err := q.Order("created_at DESC, seq DESC").Scopes(page(p)).Find(&msgs).Error; err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

func (r *chatRepository) Sessions(ctx context.Context, userID uuid.UUID) ([]ChatSession, error) {
	var sessions []ChatSession
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.session_id, s.message_count, s.last_message_at,
		       (SELECT m.content FROM chat_messages m
		         WHERE m.session_id = s.session_id AND m.user_id = ? AND m.role = 'user' AND m.deleted_at IS NULL
		         ORDER BY m.created_at ASC, m.seq ASC LIMIT 1) AS preview
		FROM (
			SELECT session_id, COUNT(*) AS message_count, MAX(created_at) AS last_message_at
			FROM chat_messages
			WHERE user_id = ? AND deleted_at IS NULL
			GROUP BY session_id
		) s
		ORDER BY s.last_message_at DESC`, userID, userID).
		Scan(&sessions).Error
	return sessions, err
}

func (r *chatRepository) DeleteHistory(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID) (int64, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if sessionID != nil {
		q = q.Where("session_id = ?", *sessionID)
	}
	res := q.Delete(&db_models.ChatMessage{})
	return res.RowsAffected, res.Error
}
