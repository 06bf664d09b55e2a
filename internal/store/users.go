package store

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"coolkid-chat/backend/internal/models"
	apperrors "coolkid-chat/backend/pkg/errors"
	"coolkid-chat/backend/pkg/kv"
	"coolkid-chat/backend/pkg/logger"
)

// usersKey matches the storage key used by the reference client.
const usersKey = "chat_users"

// persistedUser carries the password hash, which the API-facing User type
// deliberately excludes from serialization.
type persistedUser struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

// UserStore maintains account records, keyed by id and indexed by email.
type UserStore struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	byEmail map[string]*models.User
	kv      kv.Store
	log     *logger.Logger
}

// NewUserStore loads the persisted accounts, degrading silently to an
// empty store when the snapshot is absent or unreadable.
func NewUserStore(store kv.Store, log *logger.Logger) *UserStore {
	s := &UserStore{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]*models.User),
		kv:      store,
		log:     log,
	}

	doc, err := store.Get(usersKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Warn("User snapshot unreadable, starting empty", "error", err.Error())
		}
		return s
	}

	var users []persistedUser
	if err := json.Unmarshal(doc, &users); err != nil {
		log.Warn("User snapshot corrupt, starting empty", "error", err.Error())
		return s
	}

	for i := range users {
		u := users[i].User
		u.PasswordHash = users[i].PasswordHash
		s.byID[u.ID] = &u
		s.byEmail[u.Email] = &u
	}
	return s
}

// Create registers a new account. Emails are unique, case-insensitively.
func (s *UserStore) Create(req *models.SignupRequest) (*models.User, error) {
	user, err := models.NewUser(req)
	if err != nil {
		return nil, apperrors.NewInternalServerError("Failed to create account")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return nil, apperrors.NewConflictError("An account with this email already exists")
	}

	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	s.persist()
	return cloneUser(user), nil
}

// Authenticate verifies credentials and stamps the login time. The same
// error covers unknown email and bad password.
func (s *UserStore) Authenticate(email, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byEmail[strings.ToLower(email)]
	if !ok || !user.CheckPassword(password) {
		return nil, apperrors.NewUnauthorizedError("Invalid email or password")
	}

	user.LastLogin = time.Now()
	s.persist()
	return cloneUser(user), nil
}

// GetByID returns the account with the given id. The result is a
// detached copy; later logins or profile edits never show through it.
func (s *UserStore) GetByID(id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("User not found")
	}
	return cloneUser(user), nil
}

// UpdateProfile applies the mutable profile fields.
func (s *UserStore) UpdateProfile(id string, req *models.UpdateProfileRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("User not found")
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Preferences != nil {
		user.Preferences = *req.Preferences
	}
	user.UpdatedAt = time.Now()

	s.persist()
	return cloneUser(user), nil
}

// cloneUser copies an account record. User holds no reference fields, so
// a struct copy detaches it fully.
func cloneUser(u *models.User) *models.User {
	out := *u
	return &out
}

// persist re-serializes every account. Caller must hold the mutex.
func (s *UserStore) persist() {
	users := make([]persistedUser, 0, len(s.byID))
	for _, u := range s.byID {
		users = append(users, persistedUser{User: *u, PasswordHash: u.PasswordHash})
	}

	doc, err := json.Marshal(users)
	if err != nil {
		s.log.Warn("Failed to serialize users", "error", err.Error())
		return
	}
	if err := s.kv.Put(usersKey, doc); err != nil {
		s.log.Warn("Failed to persist users", "error", err.Error())
	}
}
