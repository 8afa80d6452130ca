package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/internal/models/response_models"
	"amazonia/internal/repositories"
	"amazonia/pkg/utils"
)

type UserServiceInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response_models.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req request_models.UpdateProfileRequest) (*response_models.UserResponse, error)
	Wallet(ctx context.Context, userID uuid.UUID, p utils.Pagination) (*response_models.WalletResponse, int64, error)
	Visits(ctx context.Context, userID uuid.UUID, p utils.Pagination) ([]response_models.VisitResponse, int64, error)
	Redemptions(ctx context.Context, userID uuid.UUID, p utils.Pagination) ([]response_models.RedemptionResponse, int64, error)
	QuizAttempts(ctx context.Context, userID uuid.UUID, p utils.Pagination) ([]response_models.QuizAttemptResponse, int64, error)
	ListUsers(ctx context.Context, p utils.Pagination) ([]response_models.UserResponse, int64, error)
}

type UserService struct {
	users   repositories.UserRepository
	coins   repositories.CoinRepository
	visits  repositories.VisitRepository
	rewards repositories.RewardRepository
	quizzes repositories.QuizRepository
}

func NewUserService(
	users repositories.UserRepository,
	coins repositories.CoinRepository,
	visits repositories.VisitRepository,
	rewards repositories.RewardRepository,
	quizzes repositories.QuizRepository,
) UserServiceInterface {
	return &UserService{users: users, coins: coins, visits: visits, rewards: rewards, quizzes: quizzes}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*response_models.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	if user == nil {
		return nil, utils.ErrAccountNotFound
	}
	resp := toUserResponse(*user)
	return &resp, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req request_models.UpdateProfileRequest) (*response_models.UserResponse, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Language != nil {
		fields["language"] = *req.Language
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = strings.TrimSpace(*req.AvatarURL)
	}

	if err := s.users.UpdateProfile(ctx, userID, fields); err != nil {
		return nil, storeErr(err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *UserService) Wallet(ctx context.Context, userID uuid.UUID, p utils.Pagination) (*response_models.WalletResponse, int64, error) {
	balance, err := s.coins.Balance(ctx, userID)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	txs, total, err := s.coins.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, 0, storeErr(err)
	}

	wallet := &response_models.WalletResponse{
		Balance:      balance,
		Transactions: make([]response_models.CoinTransactionResponse, 0, len(txs)),
	}
	for _, tx := range txs {
		wallet.Transactions = append(wallet.Transactions, response_models.CoinTransactionResponse{
			ID:           tx.ID.String(),
			Amount:       tx.Amount,
			Reason:       tx.Reason,
			ReferenceID:  uuidPtrString(tx.ReferenceID),
			BalanceAfter: tx.BalanceAfter,
			CreatedAt:    utils.FormatUnixLocal(tx.CreatedAt),
		})
	}
	return wallet, total, nil
}

func (s *UserService) Visits(ctx context.Context, userID uuid.UUID, p utils.Pagination) ([]response_models.VisitResponse, int64, error) {
	visits, total, err := s.visits.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	out := make([]response_models.VisitResponse, 0, len(visits))
	for _, v := range visits {
		out = append(out, toVisitResponse(v))
	}
	return out, total, nil
}

func (s *UserService) Redemptions(ctx context.Context, userID uuid.UUID, p utils.Pagination) ([]response_models.RedemptionResponse, int64, error) {
	redemptions, total, err := s.rewards.ListRedemptionsByUser(ctx, userID, p)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	out := make([]response_models.RedemptionResponse, 0, len(redemptions))
	for _, r := range redemptions {
		out = append(out, toRedemptionResponse(r, nil))
	}
	return out, total, nil
}

func (s *UserService) QuizAttempts(ctx context.Context, userID uuid.UUID, p utils.Pagination) ([]response_models.QuizAttemptResponse, int64, error) {
	attempts, total, err := s.quizzes.ListAttemptsByUser(ctx, userID, p)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	out := make([]response_models.QuizAttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, toQuizAttemptResponse(a, nil))
	}
	return out, total, nil
}

func (s *UserService) ListUsers(ctx context.Context, p utils.Pagination) ([]response_models.UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, p)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	out := make([]response_models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out, total, nil
}

func toUserResponse(u db_models.User) response_models.UserResponse {
	return response_models.UserResponse{
		ID:          u.ID.String(),
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Language:    u.Language,
		AvatarURL:   u.AvatarURL,
		CoinBalance: u.CoinBalance,
		CreatedAt:   utils.FormatUnixLocal(u.CreatedAt),
	}
}

func toVisitResponse(v db_models.Visit) response_models.VisitResponse {
	return response_models.VisitResponse{
		ID:           v.ID.String(),
		TargetType:   v.TargetType,
		TargetID:     v.TargetID.String(),
		Latitude:     v.Latitude,
		Longitude:    v.Longitude,
		DistanceM:    v.DistanceM,
		CoinsAwarded: v.CoinsAwarded,
		CreatedAt:    utils.FormatUnixLocal(v.CreatedAt),
	}
}
