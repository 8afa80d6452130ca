package request_models

type QuizQuestion struct {
	ID      string   `json:"id" binding:"required,max=40"`
	Prompt  string   `json:"prompt" binding:"required,notblank,max=500"`
	Options []string `json:"options" binding:"required,min=2,max=8,dive,required,max=200"`
	Answer  int      `json:"answer" binding:"min=0"`
}

type QuizRequest struct {
	Title       string         `json:"title" binding:"required,notblank,max=200"`
	Description string         `json:"description" binding:"max=2000"`
	Category    string         `json:"category" binding:"max=50"`
	CoinReward  int64          `json:"coin_reward" binding:"min=0"`
	PassPercent int            `json:"pass_percent" binding:"min=0,max=100"`
	Questions   []QuizQuestion `json:"questions" binding:"required,min=1,max=50,dive"`
}

// QuizAttemptRequest maps question id to the chosen option index.
type QuizAttemptRequest struct {
	Answers map[string]int `json:"answers" binding:"required"`
}
