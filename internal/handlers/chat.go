package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskmaster-api/internal/dto"
	"github.com/yukikurage/taskmaster-api/internal/services"
	"github.com/yukikurage/taskmaster-api/internal/utils"
)

// ChatHandler serves project chat endpoints.
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ListMessages returns a page of the project's chat, oldest first.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	messages, total, err := h.chatService.List(c.Request.Context(), userID, projectID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := dto.ChatListResponse{
		Messages:   make([]dto.ChatMessageDTO, 0, len(messages)),
		Pagination: params.Response(total),
	}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, dto.ToChatMessageDTO(m))
	}

	c.JSON(http.StatusOK, resp)
}

// PostMessage appends a message to the project's chat.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	type PostMessageRequest struct {
		Message string `json:"message" binding:"required"`
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	message, err := h.chatService.Post(c.Request.Context(), userID, projectID, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToChatMessageDTO(*message))
}
