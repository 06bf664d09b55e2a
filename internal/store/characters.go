package store

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"coolkid-chat/backend/internal/models"
	apperrors "coolkid-chat/backend/pkg/errors"
	"coolkid-chat/backend/pkg/kv"
	"coolkid-chat/backend/pkg/logger"
)

// charactersKey matches the storage key used by the reference client.
const charactersKey = "coolkid_characters"

// CharacterRegistry holds the full character collection and persists it
// as one snapshot document. Character ids are unique across the
// collection.
type CharacterRegistry struct {
	mu         sync.Mutex
	characters []*models.Character
	byID       map[string]*models.Character
	kv         kv.Store
	log        *logger.Logger
}

// NewCharacterRegistry loads the persisted collection. A first run (or an
// unreadable snapshot) seeds the default catalogue.
func NewCharacterRegistry(store kv.Store, log *logger.Logger) *CharacterRegistry {
	r := &CharacterRegistry{
		byID: make(map[string]*models.Character),
		kv:   store,
		log:  log,
	}

	doc, err := store.Get(charactersKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Warn("Character snapshot unreadable, seeding defaults", "error", err.Error())
		}
		r.seed()
		return r
	}

	var characters []*models.Character
	if err := json.Unmarshal(doc, &characters); err != nil {
		log.Warn("Character snapshot corrupt, seeding defaults", "error", err.Error())
		r.seed()
		return r
	}

	r.characters = characters
	for _, c := range characters {
		r.byID[c.ID] = c
	}
	return r
}

func (r *CharacterRegistry) seed() {
	r.characters = DefaultCharacters()
	for _, c := range r.characters {
		r.byID[c.ID] = c
	}
	r.persist()
}

// Create adds a new character authored by the given creator.
func (r *CharacterRegistry) Create(req *models.CreateCharacterRequest, creator, creatorID string) (*models.Character, error) {
	character, err := models.NewCharacter(req, creator, creatorID)
	if err != nil {
		return nil, apperrors.NewInvalidRequest(err.Error())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.characters = append(r.characters, character)
	r.byID[character.ID] = character
	r.persist()
	return character.Clone(), nil
}

// Get returns a character by id. The result is a detached copy; later
// mutations never show through it.
func (r *CharacterRegistry) Get(id string) (*models.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	character, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Character not found")
	}
	return character.Clone(), nil
}

// Update applies the mutable fields. Only the creator may update.
func (r *CharacterRegistry) Update(id, creatorID string, req *models.UpdateCharacterRequest) (*models.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	character, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Character not found")
	}
	if character.CreatorID != creatorID {
		return nil, apperrors.NewForbiddenError("Only the creator can modify this character")
	}

	if req.Visibility != nil {
		if err := req.Visibility.Validate(); err != nil {
			return nil, apperrors.NewInvalidRequest(err.Error())
		}
		character.Visibility = *req.Visibility
	}
	if req.Description != nil {
		character.Description = *req.Description
	}
	if req.Greeting != nil {
		character.Greeting = *req.Greeting
	}
	character.UpdatedAt = time.Now()

	r.persist()
	return character.Clone(), nil
}

// Delete removes a character. Only the creator may delete.
func (r *CharacterRegistry) Delete(id, creatorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	character, ok := r.byID[id]
	if !ok {
		return apperrors.NewNotFoundError("Character not found")
	}
	if character.CreatorID != creatorID {
		return apperrors.NewForbiddenError("Only the creator can delete this character")
	}

	delete(r.byID, id)
	for i, c := range r.characters {
		if c.ID == id {
			r.characters = append(r.characters[:i], r.characters[i+1:]...)
			break
		}
	}

	r.persist()
	return nil
}

// Search returns public characters matching a case-insensitive substring
// query against name, description or any tag. Non-public characters are
// never returned, whatever the query.
func (r *CharacterRegistry) Search(query string) []*models.Character {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []*models.Character
	for _, c := range r.characters {
		if c.Visibility != models.VisibilityPublic {
			continue
		}
		if c.Matches(query) {
			matches = append(matches, c.Clone())
		}
	}
	return matches
}

// Public filters the full collection to public characters, returned as
// detached copies.
func (r *CharacterRegistry) Public() []*models.Character {
	r.mu.Lock()
	defer r.mu.Unlock()

	var public []*models.Character
	for _, c := range r.characters {
		if c.Visibility == models.VisibilityPublic {
			public = append(public, c.Clone())
		}
	}
	return public
}

// ByCreator returns the characters authored by a user.
func (r *CharacterRegistry) ByCreator(creatorID string) []*models.Character {
	r.mu.Lock()
	defer r.mu.Unlock()

	var mine []*models.Character
	for _, c := range r.characters {
		if c.CreatorID == creatorID {
			mine = append(mine, c.Clone())
		}
	}
	return mine
}

// IncrementInteractions bumps the interaction counter after a completed
// turn.
func (r *CharacterRegistry) IncrementInteractions(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if character, ok := r.byID[id]; ok {
		character.Interactions++
		r.persist()
	}
}

// persist re-serializes the whole collection. Caller must hold the mutex.
func (r *CharacterRegistry) persist() {
	doc, err := json.Marshal(r.characters)
	if err != nil {
		r.log.Warn("Failed to serialize characters", "error", err.Error())
		return
	}
	if err := r.kv.Put(charactersKey, doc); err != nil {
		r.log.Warn("Failed to persist characters", "error", err.Error())
	}
}
