package service

import (
	"time"

	"coolkid-chat/backend/internal/models"
	"coolkid-chat/backend/internal/store"
	"coolkid-chat/backend/pkg/cache"
)

const (
	cacheKeyPublic       = "characters:public"
	cacheSearchKeyPrefix = "characters:search:"
)

// CharacterService fronts the registry with a short-lived read cache for
// the browse and search paths. Mutations invalidate the cache.
type CharacterService struct {
	registry *store.CharacterRegistry
	sessions *store.ConversationStore
	cache    *cache.Cache
}

// NewCharacterService wires the registry to the conversation store so a
// character deletion also removes its conversation.
func NewCharacterService(registry *store.CharacterRegistry, sessions *store.ConversationStore) *CharacterService {
	return &CharacterService{
		registry: registry,
		sessions: sessions,
		cache:    cache.New(30*time.Second, time.Minute, 256),
	}
}

// Create adds a character and invalidates the browse cache.
func (s *CharacterService) Create(req *models.CreateCharacterRequest, creator, creatorID string) (*models.Character, error) {
	character, err := s.registry.Create(req, creator, creatorID)
	if err != nil {
		return nil, err
	}
	s.cache.Flush()
	return character, nil
}

// Get returns a character by id, uncached.
func (s *CharacterService) Get(id string) (*models.Character, error) {
	return s.registry.Get(id)
}

// Update applies the mutable fields and invalidates the browse cache.
func (s *CharacterService) Update(id, creatorID string, req *models.UpdateCharacterRequest) (*models.Character, error) {
	character, err := s.registry.Update(id, creatorID, req)
	if err != nil {
		return nil, err
	}
	s.cache.Flush()
	return character, nil
}

// Delete removes a character and its conversation, so no session dangles
// against a character that no longer exists.
func (s *CharacterService) Delete(id, creatorID string) error {
	if err := s.registry.Delete(id, creatorID); err != nil {
		return err
	}
	s.sessions.DeleteSession(id)
	s.cache.Flush()
	return nil
}

// Public returns the public catalogue, served from cache when warm.
func (s *CharacterService) Public() []*models.Character {
	if cached, ok := s.cache.Get(cacheKeyPublic); ok {
		return cached.([]*models.Character)
	}
	characters := s.registry.Public()
	s.cache.Set(cacheKeyPublic, characters)
	return characters
}

// Search returns public characters matching the query, cached per query.
func (s *CharacterService) Search(query string) []*models.Character {
	key := cacheSearchKeyPrefix + query
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*models.Character)
	}
	matches := s.registry.Search(query)
	s.cache.Set(key, matches)
	return matches
}

// ByCreator returns the characters a user authored, uncached.
func (s *CharacterService) ByCreator(creatorID string) []*models.Character {
	return s.registry.ByCreator(creatorID)
}

// RecordInteraction bumps the interaction counter after a completed turn.
// The browse cache keeps serving the stale count until it expires.
func (s *CharacterService) RecordInteraction(id string) {
	s.registry.IncrementInteractions(id)
}
