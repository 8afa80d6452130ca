package response_models

type QuizQuestion struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	// Answer is only exposed to admins.
	Answer *int `json:"answer,omitempty"`
}

type QuizResponse struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	CoinReward    int64          `json:"coin_reward"`
	PassPercent   int            `json:"pass_percent"`
	QuestionCount int            `json:"question_count"`
	Questions     []QuizQuestion `json:"questions,omitempty"`
}

type QuizAttemptResponse struct {
	ID           string `json:"id"`
	QuizID       string `json:"quiz_id"`
	QuizTitle    string `json:"quiz_title,omitempty"`
	Correct      int    `json:"correct"`
	Total        int    `json:"total"`
	ScorePercent int    `json:"score_percent"`
	Passed       bool   `json:"passed"`
	CoinsAwarded int64  `json:"coins_awarded"`
	Balance      *int64 `json:"balance,omitempty"`
	CreatedAt    string `json:"created_at"`
}
