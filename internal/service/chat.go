package service

import (
	"context"

	"coolkid-chat/backend/internal/models"
	"coolkid-chat/backend/internal/moderation"
	"coolkid-chat/backend/internal/store"
	"coolkid-chat/backend/pkg/logger"
)

// ChatService runs the full chat pipeline: moderation screen, one model
// turn, then optional server-side conversation recording.
type ChatService struct {
	turns      *TurnService
	moderation *moderation.Checker
	sessions   *store.ConversationStore
	characters *CharacterService
	log        *logger.Logger
}

// NewChatService wires the turn pipeline to moderation and persistence.
func NewChatService(turns *TurnService, mod *moderation.Checker, sessions *store.ConversationStore, characters *CharacterService, log *logger.Logger) *ChatService {
	return &ChatService{
		turns:      turns,
		moderation: mod,
		sessions:   sessions,
		characters: characters,
		log:        log,
	}
}

// SendMessage screens the message, generates the reply and, when the
// request names a stored character, records both sides of the exchange
// and bumps the interaction counter. userID may be empty for anonymous
// turns; moderation then keys on the anonymous bucket.
func (s *ChatService) SendMessage(ctx context.Context, userID, characterID string, req *TurnRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	modKey := userID
	if modKey == "" {
		modKey = "anonymous"
	}
	if err := s.moderation.Check(modKey, req.Message); err != nil {
		return "", err
	}

	reply, err := s.turns.Generate(ctx, req)
	if err != nil {
		return "", err
	}

	if characterID != "" {
		s.record(characterID, req.Character.Name, req.Message, reply)
		s.characters.RecordInteraction(characterID)
	}

	return reply, nil
}

// record appends the user message and the reply to the character's
// session. Persistence failures are already swallowed downstream; a
// validation failure here means a blank message slipped through and is
// only logged.
func (s *ChatService) record(characterID, characterName, userMessage, reply string) {
	if _, err := s.sessions.AppendMessage(characterID, characterName, models.NewMessage(models.RoleUser, userMessage)); err != nil {
		s.log.Warn("Failed to record user message", "characterId", characterID, "error", err.Error())
		return
	}
	if _, err := s.sessions.AppendMessage(characterID, characterName, models.NewMessage(models.RoleAssistant, reply)); err != nil {
		s.log.Warn("Failed to record reply", "characterId", characterID, "error", err.Error())
	}
}
