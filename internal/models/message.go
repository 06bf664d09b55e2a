package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message within a session.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var ErrInvalidRole = errors.New("message role must be user or assistant")

// Message is one entry in a chat session. Messages are immutable once
// created; ordering is insertion order within the session.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a fresh id and the current time.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Validate checks the message shape at the store boundary.
func (m *Message) Validate() error {
	if m.Role != RoleUser && m.Role != RoleAssistant {
		return ErrInvalidRole
	}
	if strings.TrimSpace(m.Content) == "" {
		return errors.New("message content is required")
	}
	return nil
}
