package request_models

type RewardRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=200"`
	Description string `json:"description" binding:"max=2000"`
	CostCoins   int64  `json:"cost_coins" binding:"required,min=1"`
	Stock       int    `json:"stock" binding:"min=0"`
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
	Active      *bool  `json:"active"`
}
