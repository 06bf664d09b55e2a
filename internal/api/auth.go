package api

import (
	"net/http"

	"coolkid-chat/backend/internal/models"
	"coolkid-chat/backend/internal/store"
	apperrors "coolkid-chat/backend/pkg/errors"
	"coolkid-chat/backend/pkg/jwt"
	"coolkid-chat/backend/pkg/logger"
	"coolkid-chat/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves signup, login and profile endpoints.
type AuthHandler struct {
	users *store.UserStore
	jwt   *jwt.Service
	log   *logger.Logger
}

func NewAuthHandler(users *store.UserStore, jwtService *jwt.Service, log *logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwtService, log: log}
}

// Signup handles POST /api/v1/auth/signup. A fresh account gets a token
// immediately, no separate login round-trip.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest("Invalid request format"))
		return
	}

	user, err := h.users.Create(&req)
	if err != nil {
		c.Error(err)
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.log.Error("Failed to issue token", "error", err.Error())
		c.Error(apperrors.NewInternalServerError("Failed to issue token"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest("Invalid request format"))
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.log.Error("Failed to issue token", "error", err.Error())
		c.Error(apperrors.NewInternalServerError("Failed to issue token"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.Error(apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	user, err := h.users.GetByID(userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PATCH /api/v1/auth/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.Error(apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest("Invalid request format"))
		return
	}

	user, err := h.users.UpdateProfile(userID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}
