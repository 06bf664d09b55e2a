package api

import (
	"net/http"

	"coolkid-chat/backend/internal/service"
	apperrors "coolkid-chat/backend/pkg/errors"
	"coolkid-chat/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves the single-turn chat endpoint.
type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// chatRequest is the wire form of a turn. CharacterID is optional; when
// set, the exchange is recorded against that stored character.
type chatRequest struct {
	Message     string                 `json:"message"`
	Character   *service.TurnCharacter `json:"character"`
	History     []service.HistoryEntry `json:"history"`
	CharacterID string                 `json:"characterId"`
}

// SendMessage handles POST /api/v1/chat. The response body is
// {"message": reply} on success and {"error": text} on failure.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest("Invalid request format"))
		return
	}

	userID, _ := middleware.UserID(c)

	reply, err := h.chat.SendMessage(c.Request.Context(), userID, req.CharacterID, &service.TurnRequest{
		Message:   req.Message,
		Character: req.Character,
		History:   req.History,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": reply})
}
