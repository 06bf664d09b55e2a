package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Visibility controls who can discover a character.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
)

var (
	ErrInvalidVisibility = errors.New("visibility must be public, unlisted or private")
	ErrInvalidGender     = errors.New("gender must be male, female or other")
)

// Character is a user-authored persona definition.
type Character struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Tagline              string     `json:"tagline,omitempty"`
	Description          string     `json:"description"`
	Greeting             string     `json:"greeting"`
	Avatar               string     `json:"avatar,omitempty"`
	Creator              string     `json:"creator"`
	CreatorID            string     `json:"creatorId"`
	Visibility           Visibility `json:"visibility"`
	Tags                 []string   `json:"tags"`
	Voice                string     `json:"voice,omitempty"`
	AllowDynamicGreeting bool       `json:"allowDynamicGreetings"`
	Interactions         int64      `json:"interactions"`
	Rating               float64    `json:"rating"`
	Gender               string     `json:"gender,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// CreateCharacterRequest carries the creator-supplied fields of a new character.
type CreateCharacterRequest struct {
	Name                 string     `json:"name" binding:"required"`
	Tagline              string     `json:"tagline"`
	Description          string     `json:"description" binding:"required"`
	Greeting             string     `json:"greeting" binding:"required"`
	Avatar               string     `json:"avatar"`
	Visibility           Visibility `json:"visibility"`
	Tags                 []string   `json:"tags"`
	Voice                string     `json:"voice"`
	AllowDynamicGreeting bool       `json:"allowDynamicGreetings"`
	Gender               string     `json:"gender"`
}

// UpdateCharacterRequest carries the mutable fields of a character.
// Only description, greeting and visibility may change after creation.
type UpdateCharacterRequest struct {
	Description *string     `json:"description,omitempty"`
	Greeting    *string     `json:"greeting,omitempty"`
	Visibility  *Visibility `json:"visibility,omitempty"`
}

// NewCharacter builds a Character from a creation request. New characters
// start with a zero interaction count and the default 5.0 rating.
func NewCharacter(req *CreateCharacterRequest, creator, creatorID string) (*Character, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("character name is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, errors.New("character description is required")
	}
	if req.Visibility == "" {
		req.Visibility = VisibilityPublic
	}
	if err := req.Visibility.Validate(); err != nil {
		return nil, err
	}
	if err := validateGender(req.Gender); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Character{
		ID:                   uuid.New().String(),
		Name:                 req.Name,
		Tagline:              req.Tagline,
		Description:          req.Description,
		Greeting:             req.Greeting,
		Avatar:               req.Avatar,
		Creator:              creator,
		CreatorID:            creatorID,
		Visibility:           req.Visibility,
		Tags:                 req.Tags,
		Voice:                req.Voice,
		AllowDynamicGreeting: req.AllowDynamicGreeting,
		Interactions:         0,
		Rating:               5.0,
		Gender:               req.Gender,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// Validate checks that the visibility is one of the known values.
func (v Visibility) Validate() error {
	switch v {
	case VisibilityPublic, VisibilityUnlisted, VisibilityPrivate:
		return nil
	}
	return ErrInvalidVisibility
}

func validateGender(g string) error {
	switch g {
	case "", "male", "female", "other":
		return nil
	}
	return ErrInvalidGender
}

// Clone returns a copy with its own tag slice, detached from the live
// record.
func (c *Character) Clone() *Character {
	out := *c
	if c.Tags != nil {
		out.Tags = make([]string, len(c.Tags))
		copy(out.Tags, c.Tags)
	}
	return &out
}

// Matches reports whether the character matches a case-insensitive substring
// query against its name, description or any tag.
func (c *Character) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(c.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Description), q) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
