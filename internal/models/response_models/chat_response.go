package response_models

type ChatMessageResponse struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Provider  string `json:"provider,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ChatReplyResponse struct {
	SessionID string              `json:"session_id"`
	Message   ChatMessageResponse `json:"message"`
	Reply     ChatMessageResponse `json:"reply"`
}

type ChatSessionResponse struct {
	SessionID     string `json:"session_id"`
	MessageCount  int64  `json:"message_count"`
	LastMessageAt string `json:"last_message_at"`
	Preview       string `json:"preview"`
}

type AlertResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
	Kind      string `json:"kind,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}
