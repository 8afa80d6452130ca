package controllers

import (
	"github.com/gin-gonic/gin"

	"amazonia/internal/models/request_models"
	"amazonia/internal/services"
	"amazonia/pkg/utils"
)

type UserController struct {
	userService services.UserServiceInterface
}

func NewUserController(userService services.UserServiceInterface) *UserController {
	return &UserController{userService: userService}
}

// GetProfile godoc
// @Summary Get own profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /users/me [get]
func (u *UserController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := u.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, user, "")
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} utils.APIResponse
// @Router /users/me [put]
func (u *UserController) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request_models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := u.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, user, "Profile updated")
}

// Wallet godoc
// @Summary AmaCoin balance and ledger
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} utils.APIResponse
// @Router /users/me/wallet [get]
func (u *UserController) Wallet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	p := utils.ParsePagination(c)

	wallet, total, err := u.userService.Wallet(c.Request.Context(), userID, p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondPaged(c, wallet, p, total, "")
}

// Visits godoc
// @Summary Own check-ins
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /users/me/visits [get]
func (u *UserController) Visits(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	p := utils.ParsePagination(c)

	visits, total, err := u.userService.Visits(c.Request.Context(), userID, p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondPaged(c, visits, p, total, "")
}

// Redemptions godoc
// @Summary Own reward redemptions
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /users/me/redemptions [get]
func (u *UserController) Redemptions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	p := utils.ParsePagination(c)

	items, total, err := u.userService.Redemptions(c.Request.Context(), userID, p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondPaged(c, items, p, total, "")
}

// QuizAttempts godoc
// @Summary Own quiz attempts
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /users/me/quiz-attempts [get]
func (u *UserController) QuizAttempts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	p := utils.ParsePagination(c)

	items, total, err := u.userService.QuizAttempts(c.Request.Context(), userID, p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondPaged(c, items, p, total, "")
}

// ListUsers godoc
// @Summary List users (admin)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /users [get]
func (u *UserController) ListUsers(c *gin.Context) {
	p := utils.ParsePagination(c)

	users, total, err := u.userService.ListUsers(c.Request.Context(), p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondPaged(c, users, p, total, "")
}
