// Package store holds the authoritative local record of chat sessions,
// the character registry and user accounts. Every mutation writes the
// whole collection back to the snapshot store before returning, so
// in-memory and persisted state never diverge within one process.
package store

import (
	"encoding/json"
	"errors"
	"sync"

	"coolkid-chat/backend/internal/models"
	"coolkid-chat/backend/pkg/kv"
	"coolkid-chat/backend/pkg/logger"
)

// chatHistoryKey matches the storage key used by the reference client.
const chatHistoryKey = "chat_history"

// ConversationStore maintains chat sessions in most-recently-active order.
// A missing or corrupt snapshot is treated as "no history yet"; storage
// failures are logged and never surfaced.
type ConversationStore struct {
	mu       sync.Mutex
	sessions []*models.ChatSession
	kv       kv.Store
	log      *logger.Logger
}

// NewConversationStore loads the persisted snapshot, degrading silently
// to an empty store when it is absent or unreadable.
func NewConversationStore(store kv.Store, log *logger.Logger) *ConversationStore {
	s := &ConversationStore{kv: store, log: log}

	doc, err := store.Get(chatHistoryKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Warn("Chat history snapshot unreadable, starting empty", "error", err.Error())
		}
		return s
	}

	var sessions []*models.ChatSession
	if err := json.Unmarshal(doc, &sessions); err != nil {
		log.Warn("Chat history snapshot corrupt, starting empty", "error", err.Error())
		return s
	}

	s.sessions = sessions
	return s
}

// AppendMessage appends to the session for characterID, creating it with a
// fresh id when none exists, and moves the session to the front of the
// list. The denormalized lastMessage/timestamp always mirror the final
// message. The full collection is persisted before returning.
func (s *ConversationStore) AppendMessage(characterID, characterName string, msg models.Message) (*models.ChatSession, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, session := range s.sessions {
		if session.CharacterID == characterID {
			session.Append(msg)
			// Move to front for most-recently-active ordering.
			copy(s.sessions[1:i+1], s.sessions[:i])
			s.sessions[0] = session
			s.persist()
			return session.Clone(), nil
		}
	}

	session := models.NewChatSession(characterID, characterName, msg)
	s.sessions = append([]*models.ChatSession{session}, s.sessions...)
	s.persist()
	return session.Clone(), nil
}

// GetSession returns the session for a character, or false when no
// conversation with that character exists. The result is a detached
// copy; later appends never show through it, so callers can serialize
// it without holding the store lock.
func (s *ConversationStore) GetSession(characterID string) (*models.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions {
		if session.CharacterID == characterID {
			return session.Clone(), true
		}
	}
	return nil, false
}

// Sessions returns detached copies of all sessions in
// most-recently-active order.
func (s *ConversationStore) Sessions() []*models.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.ChatSession, len(s.sessions))
	for i, session := range s.sessions {
		out[i] = session.Clone()
	}
	return out
}

// ClearHistory empties the session list and removes the persisted
// snapshot entirely. Irreversible.
func (s *ConversationStore) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	if err := s.kv.Delete(chatHistoryKey); err != nil {
		s.log.Warn("Failed to delete chat history snapshot", "error", err.Error())
	}
}

// DeleteSession removes the session for a character, if any. Used when a
// character is deleted so its conversation does not dangle.
func (s *ConversationStore) DeleteSession(characterID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, session := range s.sessions {
		if session.CharacterID == characterID {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			s.persist()
			return
		}
	}
}

// persist re-serializes the whole session collection, replacing the prior
// snapshot in full. Caller must hold the mutex. Write failures follow the
// silent-degradation policy.
func (s *ConversationStore) persist() {
	doc, err := json.Marshal(s.sessions)
	if err != nil {
		s.log.Warn("Failed to serialize chat history", "error", err.Error())
		return
	}
	if err := s.kv.Put(chatHistoryKey, doc); err != nil {
		s.log.Warn("Failed to persist chat history", "error", err.Error())
	}
}
