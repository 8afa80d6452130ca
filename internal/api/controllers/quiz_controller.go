package controllers

import (
	"github.com/gin-gonic/gin"

	"amazonia/internal/models/request_models"
	"amazonia/internal/services"
	"amazonia/pkg/middleware"
	"amazonia/pkg/utils"
)

type QuizController struct {
	quizService services.QuizServiceInterface
}

func NewQuizController(quizService services.QuizServiceInterface) *QuizController {
	return &QuizController{quizService: quizService}
}

// ListQuizzes godoc
// @Summary List quizzes
// @Tags Quizzes
// @Produce json
// @Param category query string false "Category"
// @Success 200 {object} utils.APIResponse
// @Router /quizzes [get]
func (q *QuizController) ListQuizzes(c *gin.Context) {
	p := utils.ParsePagination(c)

	quizzes, total, err := q.quizService.List(c.Request.Context(), c.Query("category"), p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondPaged(c, quizzes, p, total, "")
}

// GetQuiz godoc
// @Summary Get a quiz
// @Description Correct answers are only included for admins
// @Tags Quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} utils.APIResponse
// @Router /quizzes/{id} [get]
func (q *QuizController) GetQuiz(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	quiz, err := q.quizService.Get(c.Request.Context(), id, middleware.IsAdmin(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, quiz, "")
}

// CreateQuiz godoc
// @Summary Create a quiz (admin)
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.QuizRequest true "Quiz"
// @Success 201 {object} utils.APIResponse
// @Router /quizzes [post]
func (q *QuizController) CreateQuiz(c *gin.Context) {
	var req request_models.QuizRequest
	if !bindJSON(c, &req) {
		return
	}

	quiz, err := q.quizService.Create(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, quiz, "Quiz created")
}

// UpdateQuiz godoc
// @Summary Update a quiz (admin)
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quiz ID"
// @Param request body request_models.QuizRequest true "Quiz"
// @Success 200 {object} utils.APIResponse
// @Router /quizzes/{id} [put]
func (q *QuizController) UpdateQuiz(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.QuizRequest
	if !bindJSON(c, &req) {
		return
	}

	quiz, err := q.quizService.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, quiz, "Quiz updated")
}

// DeleteQuiz godoc
// @Summary Delete a quiz (admin)
// @Tags Quizzes
// @Security BearerAuth
// @Param id path string true "Quiz ID"
// @Success 200 {object} utils.APIResponse
// @Router /quizzes/{id} [delete]
func (q *QuizController) DeleteQuiz(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := q.quizService.Delete(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Quiz deleted")
}

// SubmitAttempt godoc
// @Summary Answer a quiz
// @Description Coins are awarded on the first passing attempt only
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quiz ID"
// @Param request body request_models.QuizAttemptRequest true "Answers by question id"
// @Success 201 {object} utils.APIResponse
// @Router /quizzes/{id}/attempts [post]
func (q *QuizController) SubmitAttempt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.QuizAttemptRequest
	if !bindJSON(c, &req) {
		return
	}

	attempt, err := q.quizService.SubmitAttempt(c.Request.Context(), userID, quizID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, attempt, "Attempt recorded")
}
