package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Preferences holds per-user personalization settings.
type Preferences struct {
	Theme         string `json:"theme"`
	VoiceEnabled  bool   `json:"voiceEnabled"`
	Notifications bool   `json:"notifications"`
}

// User is an account identity. The password hash is never serialized into
// API responses.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Username     string      `json:"username"`
	DisplayName  string      `json:"displayName"`
	Avatar       string      `json:"avatar,omitempty"`
	Preferences  Preferences `json:"preferences"`
	PasswordHash string      `json:"-"`
	LastLogin    time.Time   `json:"lastLogin,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// SignupRequest is the payload for account creation.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"required,min=2"`
	Avatar   string `json:"avatar"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries the mutable profile fields.
type UpdateProfileRequest struct {
	DisplayName *string      `json:"displayName,omitempty"`
	Avatar      *string      `json:"avatar,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// NewUser builds a User from a signup request, hashing the password.
func NewUser(req *SignupRequest) (*User, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &User{
		ID:          uuid.New().String(),
		Email:       strings.ToLower(req.Email),
		Username:    req.Username,
		DisplayName: req.Username,
		Avatar:      req.Avatar,
		Preferences: Preferences{
			Theme:         "dark",
			VoiceEnabled:  true,
			Notifications: true,
		},
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// HashPassword hashes a password for storage.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a candidate password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
