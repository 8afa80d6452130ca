package request_models

type ChatMessageRequest struct {
	Message   string `json:"message" binding:"required,notblank,max=2000"`
	SessionID string `json:"session_id" binding:"omitempty,uuid"`
}

type BroadcastAlertRequest struct {
	Title    string `json:"title" binding:"required,notblank,max=200"`
	Message  string `json:"message" binding:"required,max=2000"`
	Severity string `json:"severity" binding:"omitempty,oneof=info warning critical"`
}
