package controllers

import (
	"github.com/gin-gonic/gin"

	"amazonia/internal/models/request_models"
	"amazonia/internal/services"
	"amazonia/pkg/utils"
)

type ChatController struct {
	chatService services.ChatServiceInterface
}

func NewChatController(chatService services.ChatServiceInterface) *ChatController {
	return &ChatController{chatService: chatService}
}

// SendMessage godoc
// @Summary Ask the assistant
// @Description Starts a new session when session_id is omitted
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.ChatMessageRequest true "Message"
// @Success 201 {object} utils.APIResponse
// @Router /chat/messages [post]
func (ch *ChatController) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request_models.ChatMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	reply, err := ch.chatService.SendMessage(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, reply, "")
}

// History godoc
// @Summary Chat history, newest first
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param session_id query string false "Session ID"
// @Success 200 {object} utils.APIResponse
// @Router /chat/history [get]
func (ch *ChatController) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := optionalQueryID(c, "session_id")
	if !ok {
		return
	}
	p := utils.ParsePagination(c)

	messages, total, err := ch.chatService.History(c.Request.Context(), userID, sessionID, p)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondPaged(c, messages, p, total, "")
}

// Sessions godoc
// @Summary Chat sessions of the caller
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /chat/sessions [get]
func (ch *ChatController) Sessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sessions, err := ch.chatService.Sessions(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sessions, "")
}

// DeleteHistory godoc
// @Summary Delete one session or the whole history
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param session_id query string false "Session ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /chat/history [delete]
func (ch *ChatController) DeleteHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, ok := optionalQueryID(c, "session_id")
	if !ok {
		return
	}

	n, err := ch.chatService.DeleteHistory(c.Request.Context(), userID, sessionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"deleted": n}, "Chat history deleted")
}
