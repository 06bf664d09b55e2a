package api

import (
	"net/http"

	"coolkid-chat/backend/internal/models"
	"coolkid-chat/backend/internal/store"
	apperrors "coolkid-chat/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// SessionHandler serves the chat-history endpoints.
type SessionHandler struct {
	sessions *store.ConversationStore
}

func NewSessionHandler(sessions *store.ConversationStore) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// List handles GET /api/v1/sessions, most recently active first.
func (h *SessionHandler) List(c *gin.Context) {
	sessions := h.sessions.Sessions()
	if sessions == nil {
		sessions = []*models.ChatSession{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// Get handles GET /api/v1/sessions/:characterId.
func (h *SessionHandler) Get(c *gin.Context) {
	session, ok := h.sessions.GetSession(c.Param("characterId"))
	if !ok {
		c.Error(apperrors.NewNotFoundError("Session not found"))
		return
	}
	c.JSON(http.StatusOK, session)
}

// Clear handles DELETE /api/v1/sessions. All history is removed,
// irreversibly.
func (h *SessionHandler) Clear(c *gin.Context) {
	h.sessions.ClearHistory()
	c.Status(http.StatusNoContent)
}
