package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession is the ordered message history between the local user and one
// character. LastMessage and Timestamp are denormalized from the final
// message for list display; Append keeps them in sync.
type ChatSession struct {
	ID            string    `json:"id"`
	CharacterID   string    `json:"characterId"`
	CharacterName string    `json:"characterName"`
	LastMessage   string    `json:"lastMessage"`
	Timestamp     time.Time `json:"timestamp"`
	Messages      []Message `json:"messages"`
}

// NewChatSession creates a session holding a single message.
func NewChatSession(characterID, characterName string, msg Message) *ChatSession {
	return &ChatSession{
		ID:            uuid.New().String(),
		CharacterID:   characterID,
		CharacterName: characterName,
		LastMessage:   msg.Content,
		Timestamp:     msg.Timestamp,
		Messages:      []Message{msg},
	}
}

// Append adds a message and updates the denormalized fields.
func (s *ChatSession) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
	s.LastMessage = msg.Content
	s.Timestamp = msg.Timestamp
}

// Clone returns a copy with its own message slice, detached from the
// live record.
func (s *ChatSession) Clone() *ChatSession {
	out := *s
	if s.Messages != nil {
		out.Messages = make([]Message, len(s.Messages))
		copy(out.Messages, s.Messages)
	}
	return &out
}
