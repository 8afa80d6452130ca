package db_models

import "github.com/google/uuid"

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage timestamps have second precision, so Seq orders a turn and
// its reply written in the same second.
type ChatMessage struct {
	BaseModel
	Seq       int64     `gorm:"autoIncrement;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;index:idx_chat_user_session;not null"`
	SessionID uuid.UUID `gorm:"type:uuid;index:idx_chat_user_session;not null"`
	Role      string    `gorm:"not null"`
	Content   string    `gorm:"type:text;not null"`
	Provider  string
}
