package controllers

import (
	"floodguard/middleware"
	"floodguard/models"
	"floodguard/services"
	"floodguard/utils"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	chatService *services.ChatService
	validator   *utils.ValidationService
}

func NewChatController(chatService *services.ChatService, validator *utils.ValidationService) *ChatController {
	return &ChatController{
		chatService: chatService,
		validator:   validator,
	}
}

// GetHistory returns the recent chat log in display order
// GET /api/v1/chat
func (cc *ChatController) GetHistory(c *gin.Context) {
	messages, err := cc.chatService.GetHistory(c.Request.Context())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Chat history retrieved", messages)
}

// SendMessage posts to the volunteer channel
// POST /api/v1/chat
func (cc *ChatController) SendMessage(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req models.SendChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format")
		return
	}

	message, err := cc.chatService.SendMessage(c.Request.Context(), user, req.Text)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Message sent", message)
}
