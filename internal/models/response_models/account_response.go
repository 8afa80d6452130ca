package response_models

type UserResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Language    string `json:"language"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	CoinBalance int64  `json:"coin_balance"`
	CreatedAt   string `json:"created_at"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

type CoinTransactionResponse struct {
	ID           string  `json:"id"`
	Amount       int64   `json:"amount"`
	Reason       string  `json:"reason"`
	ReferenceID  *string `json:"reference_id,omitempty"`
	BalanceAfter int64   `json:"balance_after"`
	CreatedAt    string  `json:"created_at"`
}

type WalletResponse struct {
	Balance      int64                     `json:"balance"`
	Transactions []CoinTransactionResponse `json:"transactions"`
}
