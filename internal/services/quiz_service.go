package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/internal/models/response_models"
	"amazonia/internal/repositories"
	"amazonia/pkg/logging"
	"amazonia/pkg/metrics"
	"amazonia/pkg/utils"
)

// DefaultPassPercent applies when a quiz is saved without a threshold.
const DefaultPassPercent = 70

type QuizServiceInterface interface {
	List(ctx context.Context, category string, p utils.Pagination) ([]response_models.QuizResponse, int64, error)
	// Get hides correct answers unless withAnswers is set.
	Get(ctx context.Context, id uuid.UUID, withAnswers bool) (*response_models.QuizResponse, error)
	Create(ctx context.Context, req request_models.QuizRequest) (*response_models.QuizResponse, error)
	Update(ctx context.Context, id uuid.UUID, req request_models.QuizRequest) (*response_models.QuizResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SubmitAttempt(ctx context.Context, userID, quizID uuid.UUID, req request_models.QuizAttemptRequest) (*response_models.QuizAttemptResponse, error)
}

type QuizService struct {
	quizzes repositories.QuizRepository
	alerts  AlertNotifier
}

func NewQuizService(quizzes repositories.QuizRepository, alerts AlertNotifier) QuizServiceInterface {
	return &QuizService{quizzes: quizzes, alerts: alerts}
}

func (s *QuizService) List(ctx context.Context, category string, p utils.Pagination) ([]response_models.QuizResponse, int64, error) {
	quizzes, total, err := s.quizzes.List(ctx, category, p)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	out := make([]response_models.QuizResponse, 0, len(quizzes))
	for _, q := range quizzes {
		resp := toQuizResponse(q, false)
		resp.Questions = nil
		out = append(out, resp)
	}
	return out, total, nil
}

func (s *QuizService) Get(ctx context.Context, id uuid.UUID, withAnswers bool) (*response_models.QuizResponse, error) {
	quiz, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toQuizResponse(*quiz, withAnswers)
	return &resp, nil
}

func (s *QuizService) find(ctx context.Context, id uuid.UUID) (*db_models.Quiz, error) {
	quiz, err := s.quizzes.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if quiz == nil {
		return nil, utils.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizService) Create(ctx context.Context, req request_models.QuizRequest) (*response_models.QuizResponse, error) {
	quiz := &db_models.Quiz{}
	if err := applyQuizRequest(quiz, req); err != nil {
		return nil, err
	}
	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, storeErr(err)
	}
	resp := toQuizResponse(*quiz, true)
	return &resp, nil
}

func (s *QuizService) Update(ctx context.Context, id uuid.UUID, req request_models.QuizRequest) (*response_models.QuizResponse, error) {
	quiz, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyQuizRequest(quiz, req); err != nil {
		return nil, err
	}
	if err := s.quizzes.Update(ctx, quiz); err != nil {
		return nil, storeErr(err)
	}
	resp := toQuizResponse(*quiz, true)
	return &resp, nil
}

func (s *QuizService) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.quizzes.Delete(ctx, id))
}

func (s *QuizService) SubmitAttempt(ctx context.Context, userID, quizID uuid.UUID, req request_models.QuizAttemptRequest) (*response_models.QuizAttemptResponse, error) {
	quiz, err := s.find(ctx, quizID)
	if err != nil {
		return nil, err
	}

	correct, err := scoreQuiz(quiz.Questions, req.Answers)
	if err != nil {
		return nil, err
	}
	total := len(quiz.Questions)
	percent := 0
	if total > 0 {
		percent = correct * 100 / total
	}

	attempt := &db_models.QuizAttempt{
		UserID:       userID,
		QuizID:       quiz.ID,
		Answers:      datatypes.NewJSONType(req.Answers),
		Correct:      correct,
		Total:        total,
		ScorePercent: percent,
		Passed:       percent >= quiz.PassPercent,
	}
	balance, err := s.quizzes.RecordAttempt(ctx, attempt, quiz.CoinReward)
	if err != nil {
		return nil, storeErr(err)
	}
	attempt.Quiz = *quiz

	logging.Ctx(ctx).Info().
		Str("user_id", userID.String()).
		Str("quiz_id", quiz.ID.String()).
		Int("score_percent", percent).
		Bool("passed", attempt.Passed).
		Int64("coins", attempt.CoinsAwarded).
		Msg("quiz attempt")

	if attempt.CoinsAwarded > 0 {
		metrics.RecordCoins(db_models.CoinReasonQuiz, attempt.CoinsAwarded)
		s.alerts.Notify(ctx, userID, "Quiz passed",
			coinsEarnedMessage(attempt.CoinsAwarded, "passing "+quiz.Title),
			db_models.SeverityInfo, AlertKindCoins)
	}

	resp := toQuizAttemptResponse(*attempt, &balance)
	return &resp, nil
}

// scoreQuiz counts correct answers. Unanswered questions count as wrong;
// unknown question ids and out-of-range options are rejected.
func scoreQuiz(questions []db_models.QuizQuestion, answers map[string]int) (int, error) {
	byID := make(map[string]db_models.QuizQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	correct := 0
	for id, choice := range answers {
		q, ok := byID[id]
		if !ok {
			return 0, fmt.Errorf("%w: unknown question %q", utils.ErrInvalidAnswers, id)
		}
		if choice < 0 || choice >= len(q.Options) {
			return 0, fmt.Errorf("%w: option %d out of range for %q", utils.ErrInvalidAnswers, choice, id)
		}
		if choice == q.Answer {
			correct++
		}
	}
	return correct, nil
}

func validateQuestions(questions []request_models.QuizQuestion) error {
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		id := strings.TrimSpace(q.ID)
		if id == "" {
			return fmt.Errorf("%w: question %d has no id", utils.ErrInvalidQuiz, i+1)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate question id %q", utils.ErrInvalidQuiz, id)
		}
		seen[id] = struct{}{}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %q needs at least 2 options", utils.ErrInvalidQuiz, id)
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return fmt.Errorf("%w: question %q answer index out of range", utils.ErrInvalidQuiz, id)
		}
	}
	return nil
}

func applyQuizRequest(quiz *db_models.Quiz, req request_models.QuizRequest) error {
	if len(req.Questions) == 0 {
		return fmt.Errorf("%w: no questions", utils.ErrInvalidQuiz)
	}
	if err := validateQuestions(req.Questions); err != nil {
		return err
	}

	questions := make([]db_models.QuizQuestion, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, db_models.QuizQuestion{
			ID:      strings.TrimSpace(q.ID),
			Prompt:  q.Prompt,
			Options: q.Options,
			Answer:  q.Answer,
		})
	}

	quiz.Title = strings.TrimSpace(req.Title)
	quiz.Description = req.Description
	quiz.Category = req.Category
	quiz.CoinReward = req.CoinReward
	quiz.PassPercent = req.PassPercent
	if quiz.PassPercent == 0 {
		quiz.PassPercent = DefaultPassPercent
	}
	quiz.Questions = datatypes.NewJSONSlice(questions)
	return nil
}

func toQuizResponse(q db_models.Quiz, withAnswers bool) response_models.QuizResponse {
	questions := make([]response_models.QuizQuestion, 0, len(q.Questions))
	for _, qq := range q.Questions {
		item := response_models.QuizQuestion{
			ID:      qq.ID,
			Prompt:  qq.Prompt,
			Options: qq.Options,
		}
		if withAnswers {
			answer := qq.Answer
			item.Answer = &answer
		}
		questions = append(questions, item)
	}
	return response_models.QuizResponse{
		ID:            q.ID.String(),
		Title:         q.Title,
		Description:   q.Description,
		Category:      q.Category,
		CoinReward:    q.CoinReward,
		PassPercent:   q.PassPercent,
		QuestionCount: len(q.Questions),
		Questions:     questions,
	}
}

func toQuizAttemptResponse(a db_models.QuizAttempt, balance *int64) response_models.QuizAttemptResponse {
	return response_models.QuizAttemptResponse{
		ID:           a.ID.String(),
		QuizID:       a.QuizID.String(),
		QuizTitle:    a.Quiz.Title,
		Correct:      a.Correct,
		Total:        a.Total,
		ScorePercent: a.ScorePercent,
		Passed:       a.Passed,
		CoinsAwarded: a.CoinsAwarded,
		Balance:      balance,
		CreatedAt:    utils.FormatUnixLocal(a.CreatedAt),
	}
}
