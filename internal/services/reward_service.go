package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/internal/models/response_models"
	"amazonia/internal/repositories"
	"amazonia/pkg/logging"
	"amazonia/pkg/metrics"
	"amazonia/pkg/utils"
)

const redeemCodeAttempts = 3

type RewardServiceInterface interface {
	// List returns only active rewards unless includeInactive is set.
	List(ctx context.Context, includeInactive bool, p utils.Pagination) ([]response_models.RewardResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID, includeInactive bool) (*response_models.RewardResponse, error)
	Create(ctx context.Context, req request_models.RewardRequest) (*response_models.RewardResponse, error)
	Update(ctx context.Context, id uuid.UUID, req request_models.RewardRequest) (*response_models.RewardResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Redeem(ctx context.Context, userID, rewardID uuid.UUID) (*response_models.RedemptionResponse, error)
	Claim(ctx context.Context, redemptionID uuid.UUID) (*response_models.RedemptionResponse, error)
	// Cancel is allowed for the redemption owner and for admins.
	Cancel(ctx context.Context, userID uuid.UUID, isAdmin bool, redemptionID uuid.UUID) (*response_models.RedemptionResponse, error)
}

type RewardService struct {
	rewards repositories.RewardRepository
	alerts  AlertNotifier
	newCode func() (string, error)
}

func NewRewardService(rewards repositories.RewardRepository, alerts AlertNotifier) RewardServiceInterface {
	return &RewardService{
		rewards: rewards,
		alerts:  alerts,
		newCode: utils.GenerateRedemptionCode,
	}
}

func (s *RewardService) List(ctx context.Context, includeInactive bool, p utils.Pagination) ([]response_models.RewardResponse, int64, error) {
	rewards, total, err := s.rewards.List(ctx, !includeInactive, p)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	out := make([]response_models.RewardResponse, 0, len(rewards))
	for _, r := range rewards {
		out = append(out, toRewardResponse(r))
	}
	return out, total, nil
}

func (s *RewardService) Get(ctx context.Context, id uuid.UUID, includeInactive bool) (*response_models.RewardResponse, error) {
	reward, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !reward.Active && !includeInactive {
		return nil, utils.ErrRewardNotFound
	}
	resp := toRewardResponse(*reward)
	return &resp, nil
}

func (s *RewardService) find(ctx context.Context, id uuid.UUID) (*db_models.Reward, error) {
	reward, err := s.rewards.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if reward == nil {
		return nil, utils.ErrRewardNotFound
	}
	return reward, nil
}

func (s *RewardService) Create(ctx context.Context, req request_models.RewardRequest) (*response_models.RewardResponse, error) {
	reward := &db_models.Reward{Active: true}
	applyRewardRequest(reward, req)
	if err := s.rewards.Create(ctx, reward); err != nil {
		return nil, storeErr(err)
	}
	resp := toRewardResponse(*reward)
	return &resp, nil
}

func (s *RewardService) Update(ctx context.Context, id uuid.UUID, req request_models.RewardRequest) (*response_models.RewardResponse, error) {
	reward, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	applyRewardRequest(reward, req)
	if err := s.rewards.Update(ctx, reward); err != nil {
		return nil, storeErr(err)
	}
	resp := toRewardResponse(*reward)
	return &resp, nil
}

func (s *RewardService) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.rewards.Delete(ctx, id))
}

func (s *RewardService) Redeem(ctx context.Context, userID, rewardID uuid.UUID) (*response_models.RedemptionResponse, error) {
	var (
		redemption *db_models.Redemption
		balance    int64
		err        error
	)
	// Codes are random; retry the rare unique-index collision.
	for attempt := 0; attempt < redeemCodeAttempts; attempt++ {
		var code string
		if code, err = s.newCode(); err != nil {
			return nil, err
		}
		redemption, balance, err = s.rewards.Redeem(ctx, userID, rewardID, code)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		metrics.RecordRedemption(redemptionOutcome(err))
		return nil, storeErr(err)
	}
	metrics.RecordRedemption("success")

	logging.Ctx(ctx).Info().
		Str("user_id", userID.String()).
		Str("reward_id", rewardID.String()).
		Str("redemption_id", redemption.ID.String()).
		Int64("cost", redemption.CostCoins).
		Msg("reward redeemed")

	s.alerts.Notify(ctx, userID, "Reward redeemed",
		fmt.Sprintf("You redeemed %s for %d AmaCoins. Show code %s to collect it.",
			redemption.Reward.Title, redemption.CostCoins, redemption.Code),
		db_models.SeverityInfo, AlertKindRedemption)

	resp := toRedemptionResponse(*redemption, &balance)
	return &resp, nil
}

func (s *RewardService) Claim(ctx context.Context, redemptionID uuid.UUID) (*response_models.RedemptionResponse, error) {
	redemption, err := s.rewards.Claim(ctx, redemptionID)
	if err != nil {
		return nil, storeErr(err)
	}
	logging.Ctx(ctx).Info().Str("redemption_id", redemption.ID.String()).Msg("redemption claimed")
	resp := toRedemptionResponse(*redemption, nil)
	return &resp, nil
}

func (s *RewardService) Cancel(ctx context.Context, userID uuid.UUID, isAdmin bool, redemptionID uuid.UUID) (*response_models.RedemptionResponse, error) {
	existing, err := s.rewards.FindRedemption(ctx, redemptionID)
	if err != nil {
		return nil, storeErr(err)
	}
	if existing == nil {
		return nil, utils.ErrRedemptionNotFound
	}
	if !isAdmin && existing.UserID != userID {
		return nil, utils.ErrForbidden
	}

	redemption, balance, err := s.rewards.Cancel(ctx, redemptionID)
	if err != nil {
		return nil, storeErr(err)
	}
	redemption.Reward = existing.Reward
	metrics.RecordRedemption("cancelled")

	s.alerts.Notify(ctx, redemption.UserID, "Redemption cancelled",
		fmt.Sprintf("%d AmaCoins were refunded to your wallet.", redemption.CostCoins),
		db_models.SeverityInfo, AlertKindRedemption)

	resp := toRedemptionResponse(*redemption, &balance)
	return &resp, nil
}

func redemptionOutcome(err error) string {
	switch {
	case errors.Is(err, utils.ErrInsufficientCoins):
		return "insufficient_coins"
	case errors.Is(err, utils.ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, utils.ErrRewardUnavailable), errors.Is(err, utils.ErrRewardNotFound):
		return "unavailable"
	default:
		return "error"
	}
}

func applyRewardRequest(r *db_models.Reward, req request_models.RewardRequest) {
	r.Title = strings.TrimSpace(req.Title)
	r.Description = req.Description
	r.CostCoins = req.CostCoins
	r.Stock = req.Stock
	r.ImageURL = req.ImageURL
	if req.Active != nil {
		r.Active = *req.Active
	}
}

func toRewardResponse(r db_models.Reward) response_models.RewardResponse {
	return response_models.RewardResponse{
		ID:          r.ID.String(),
		Title:       r.Title,
		Description: r.Description,
		CostCoins:   r.CostCoins,
		Stock:       r.Stock,
		ImageURL:    r.ImageURL,
		Active:      r.Active,
	}
}

func toRedemptionResponse(r db_models.Redemption, balance *int64) response_models.RedemptionResponse {
	resp := response_models.RedemptionResponse{
		ID:          r.ID.String(),
		RewardID:    r.RewardID.String(),
		RewardTitle: r.Reward.Title,
		CostCoins:   r.CostCoins,
		Code:        r.Code,
		Status:      r.Status,
		Balance:     balance,
		CreatedAt:   utils.FormatUnixLocal(r.CreatedAt),
	}
	if r.ClaimedAt != nil {
		resp.ClaimedAt = utils.FormatRFC3339Local(*r.ClaimedAt)
	}
	return resp
}
