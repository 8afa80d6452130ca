package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/pkg/utils"
)

type fakeQuizRepo struct {
	quizzes  map[uuid.UUID]*db_models.Quiz
	attempts []db_models.QuizAttempt
	balance  int64
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{quizzes: map[uuid.UUID]*db_models.Quiz{}}
}

func (r *fakeQuizRepo) Create(_ context.Context, q *db_models.Quiz) error {
	ensureID(&q.BaseModel)
	r.quizzes[q.ID] = q
	return nil
}

func (r *fakeQuizRepo) Update(_ context.Context, q *db_models.Quiz) error {
	r.quizzes[q.ID] = q
	return nil
}

func (r *fakeQuizRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.quizzes[id]; !ok {
		return utils.ErrQuizNotFound
	}
	delete(r.quizzes, id)
	return nil
}

func (r *fakeQuizRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Quiz, error) {
	if q, ok := r.quizzes[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeQuizRepo) List(_ context.Context, _ string, p utils.Pagination) ([]db_models.Quiz, int64, error) {
	var out []db_models.Quiz
	for _, q := range r.quizzes {
		out = append(out, *q)
	}
	return pageSlice(out, p), int64(len(out)), nil
}

func (r *fakeQuizRepo) RecordAttempt(_ context.Context, a *db_models.QuizAttempt, reward int64) (int64, error) {
	a.CoinsAwarded = 0
	if a.Passed {
		first := true
		for _, prev := range r.attempts {
			if prev.UserID == a.UserID && prev.QuizID == a.QuizID && prev.CoinsAwarded > 0 {
				first = false
			}
		}
		if first {
			a.CoinsAwarded = reward
		}
	}
	ensureID(&a.BaseModel)
	r.attempts = append(r.attempts, *a)
	r.balance += a.CoinsAwarded
	return r.balance, nil
}

func (r *fakeQuizRepo) ListAttemptsByUser(_ context.Context, userID uuid.UUID, p utils.Pagination) ([]db_models.QuizAttempt, int64, error) {
	var out []db_models.QuizAttempt
	for _, a := range r.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return pageSlice(out, p), int64(len(out)), nil
}

func sampleQuizRequest() request_models.QuizRequest {
	return request_models.QuizRequest{
		Title:      "Amazon basics",
		CoinReward: 30,
		Questions: []request_models.QuizQuestion{
			{ID: "q1", Prompt: "Largest river by volume?", Options: []string{"Nile", "Amazon"}, Answer: 1},
			{ID: "q2", Prompt: "COP30 host city?", Options: []string{"Belém", "Manaus", "Recife"}, Answer: 0},
			{ID: "q3", Prompt: "Açaí is a...", Options: []string{"palm fruit", "fish"}, Answer: 0},
		},
	}
}

func TestQuizService_CreateValidates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*request_models.QuizRequest)
	}{
		{"one option", func(r *request_models.QuizRequest) { r.Questions[0].Options = []string{"Amazon"} }},
		{"answer out of range", func(r *request_models.QuizRequest) { r.Questions[1].Answer = 3 }},
		{"duplicate id", func(r *request_models.QuizRequest) { r.Questions[2].ID = "q1" }},
		{"no questions", func(r *request_models.QuizRequest) { r.Questions = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sampleQuizRequest()
			tt.mutate(&req)
			svc := NewQuizService(newFakeQuizRepo(), &fakeNotifier{})
			if _, err := svc.Create(context.Background(), req); !errors.Is(err, utils.ErrInvalidQuiz) {
				t.Errorf("Create() error = %v, want ErrInvalidQuiz", err)
			}
		})
	}
}

func TestQuizService_GetHidesAnswers(t *testing.T) {
	repo := newFakeQuizRepo()
	svc := NewQuizService(repo, &fakeNotifier{})
	created, err := svc.Create(context.Background(), sampleQuizRequest())
	if err != nil {
		t.Fatal(err)
	}
	if created.PassPercent != DefaultPassPercent {
		t.Errorf("pass percent = %d", created.PassPercent)
	}
	id := uuid.MustParse(created.ID)

	public, _ := svc.Get(context.Background(), id, false)
	for _, q := range public.Questions {
		if q.Answer != nil {
			t.Fatalf("answer leaked for %s", q.ID)
		}
	}
	admin, _ := svc.Get(context.Background(), id, true)
	if admin.Questions[0].Answer == nil || *admin.Questions[0].Answer != 1 {
		t.Errorf("admin view answers = %+v", admin.Questions[0])
	}
}

func TestQuizService_SubmitAttempt(t *testing.T) {
	repo := newFakeQuizRepo()
	notifier := &fakeNotifier{}
	svc := NewQuizService(repo, notifier)
	created, err := svc.Create(context.Background(), sampleQuizRequest())
	if err != nil {
		t.Fatal(err)
	}
	quizID := uuid.MustParse(created.ID)
	user := uuid.New()
	ctx := context.Background()

	fail, err := svc.SubmitAttempt(ctx, user, quizID, request_models.QuizAttemptRequest{
		Answers: map[string]int{"q1": 1, "q2": 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if fail.Correct != 1 || fail.Total != 3 || fail.ScorePercent != 33 || fail.Passed || fail.CoinsAwarded != 0 {
		t.Errorf("failing attempt = %+v", fail)
	}

	pass, err := svc.SubmitAttempt(ctx, user, quizID, request_models.QuizAttemptRequest{
		Answers: map[string]int{"q1": 1, "q2": 0, "q3": 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !pass.Passed || pass.ScorePercent != 100 || pass.CoinsAwarded != 30 || *pass.Balance != 30 {
		t.Errorf("passing attempt = %+v", pass)
	}

	again, err := svc.SubmitAttempt(ctx, user, quizID, request_models.QuizAttemptRequest{
		Answers: map[string]int{"q1": 1, "q2": 0, "q3": 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if again.CoinsAwarded != 0 {
		t.Errorf("second pass awarded %d coins", again.CoinsAwarded)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("notifications = %d, want 1", len(notifier.sent))
	}
}

func TestScoreQuiz_RejectsBadAnswers(t *testing.T) {
	questions := []db_models.QuizQuestion{{ID: "q1", Options: []string{"a", "b"}, Answer: 0}}

	tests := []map[string]int{
		{"q9": 0},
		{"q1": 2},
		{"q1": -1},
	}
	for _, answers := range tests {
		if _, err := scoreQuiz(questions, answers); !errors.Is(err, utils.ErrInvalidAnswers) {
			t.Errorf("scoreQuiz(%v) error = %v", answers, err)
		}
	}
}
