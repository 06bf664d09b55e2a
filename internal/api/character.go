package api

import (
	"net/http"

	"coolkid-chat/backend/internal/models"
	"coolkid-chat/backend/internal/service"
	apperrors "coolkid-chat/backend/pkg/errors"
	"coolkid-chat/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// CharacterHandler serves the character catalogue endpoints.
type CharacterHandler struct {
	characters *service.CharacterService
	users      UserResolver
}

// UserResolver looks up the display identity for a creator id.
type UserResolver interface {
	GetByID(id string) (*models.User, error)
}

func NewCharacterHandler(characters *service.CharacterService, users UserResolver) *CharacterHandler {
	return &CharacterHandler{characters: characters, users: users}
}

// List handles GET /api/v1/characters. With a q parameter it searches,
// otherwise it returns the public catalogue. Both only ever expose
// public characters.
func (h *CharacterHandler) List(c *gin.Context) {
	query, hasQuery := c.GetQuery("q")

	var characters []*models.Character
	if hasQuery {
		characters = h.characters.Search(query)
	} else {
		characters = h.characters.Public()
	}

	if characters == nil {
		characters = []*models.Character{}
	}
	c.JSON(http.StatusOK, gin.H{"characters": characters})
}

// Get handles GET /api/v1/characters/:id.
func (h *CharacterHandler) Get(c *gin.Context) {
	character, err := h.characters.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, character)
}

// Mine handles GET /api/v1/characters/mine, the creator's own
// characters regardless of visibility.
func (h *CharacterHandler) Mine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.Error(apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	characters := h.characters.ByCreator(userID)
	if characters == nil {
		characters = []*models.Character{}
	}
	c.JSON(http.StatusOK, gin.H{"characters": characters})
}

// Create handles POST /api/v1/characters.
func (h *CharacterHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.Error(apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	var req models.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest("Invalid request format"))
		return
	}

	creator := "@" + userID
	if user, err := h.users.GetByID(userID); err == nil {
		creator = "@" + user.Username
	}

	character, err := h.characters.Create(&req, creator, userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, character)
}

// Update handles PATCH /api/v1/characters/:id. Only description,
// greeting and visibility are mutable, and only by the creator.
func (h *CharacterHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.Error(apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	var req models.UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest("Invalid request format"))
		return
	}

	character, err := h.characters.Update(c.Param("id"), userID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, character)
}

// Delete handles DELETE /api/v1/characters/:id. The character's
// conversation goes with it.
func (h *CharacterHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.Error(apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	if err := h.characters.Delete(c.Param("id"), userID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
