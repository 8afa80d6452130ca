package controllers

import (
	"github.com/gin-gonic/gin"

	"amazonia/internal/models/request_models"
	"amazonia/internal/services"
	"amazonia/pkg/middleware"
	"amazonia/pkg/utils"
)

type RewardController struct {
	rewardService services.RewardServiceInterface
}

func NewRewardController(rewardService services.RewardServiceInterface) *RewardController {
	return &RewardController{rewardService: rewardService}
}

// ListRewards godoc
// @Summary List rewards
// @Description Admins also see inactive rewards
// @Tags Rewards
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /rewards [get]
func (r *RewardController) ListRewards(c *gin.Context) {
	p := utils.ParsePagination(c)

	rewards, total, err := r.rewardService.List(c.Request.Context(), middleware.IsAdmin(c), p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondPaged(c, rewards, p, total, "")
}

// GetReward godoc
// @Summary Get a reward
// @Tags Rewards
// @Produce json
// @Param id path string true "Reward ID"
// @Success 200 {object} utils.APIResponse
// @Router /rewards/{id} [get]
func (r *RewardController) GetReward(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	reward, err := r.rewardService.Get(c.Request.Context(), id, middleware.IsAdmin(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, reward, "")
}

// CreateReward godoc
// @Summary Create a reward (admin)
// @Tags Rewards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.RewardRequest true "Reward"
// @Success 201 {object} utils.APIResponse
// @Router /rewards [post]
func (r *RewardController) CreateReward(c *gin.Context) {
	var req request_models.RewardRequest
	if !bindJSON(c, &req) {
		return
	}

	reward, err := r.rewardService.Create(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, reward, "Reward created")
}

// UpdateReward godoc
// @Summary Update a reward (admin)
// @Tags Rewards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reward ID"
// @Param request body request_models.RewardRequest true "Reward"
// @Success 200 {object} utils.APIResponse
// @Router /rewards/{id} [put]
func (r *RewardController) UpdateReward(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.RewardRequest
	if !bindJSON(c, &req) {
		return
	}

	reward, err := r.rewardService.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, reward, "Reward updated")
}

// DeleteReward godoc
// @Summary Delete a reward (admin)
// @Tags Rewards
// @Security BearerAuth
// @Param id path string true "Reward ID"
// @Success 200 {object} utils.APIResponse
// @Router /rewards/{id} [delete]
func (r *RewardController) DeleteReward(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := r.rewardService.Delete(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Reward deleted")
}

// Redeem godoc
// @Summary Redeem AmaCoins for a reward
// @Tags Rewards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reward ID"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /rewards/{id}/redeem [post]
func (r *RewardController) Redeem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rewardID, ok := pathID(c, "id")
	if !ok {
		return
	}

	redemption, err := r.rewardService.Redeem(c.Request.Context(), userID, rewardID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, redemption, "Reward redeemed")
}

// Claim godoc
// @Summary Mark a redemption as handed over (admin)
// @Tags Rewards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Redemption ID"
// @Success 200 {object} utils.APIResponse
// @Router /rewards/redemptions/{id}/claim [post]
func (r *RewardController) Claim(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	redemption, err := r.rewardService.Claim(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, redemption, "Redemption claimed")
}

// Cancel godoc
// @Summary Cancel a pending redemption
// @Description Refunds the coins and restores stock
// @Tags Rewards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Redemption ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /rewards/redemptions/{id}/cancel [post]
func (r *RewardController) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	redemption, err := r.rewardService.Cancel(c.Request.Context(), userID, middleware.IsAdmin(c), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, redemption, "Redemption cancelled")
}
