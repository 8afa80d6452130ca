package response_models

type RewardResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CostCoins   int64  `json:"cost_coins"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url,omitempty"`
	Active      bool   `json:"active"`
}

type RedemptionResponse struct {
	ID          string `json:"id"`
	RewardID    string `json:"reward_id"`
	RewardTitle string `json:"reward_title,omitempty"`
	CostCoins   int64  `json:"cost_coins"`
	Code        string `json:"code"`
	Status      string `json:"status"`
	Balance     *int64 `json:"balance,omitempty"`
	ClaimedAt   string `json:"claimed_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}
